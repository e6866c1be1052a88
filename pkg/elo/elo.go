// Package elo implements FIDE-style Elo rating math: expected scores,
// K-factor selection, post-game rating updates and tournament performance
// ratings.
//
// Every function is pure and safe for concurrent use. Ratings are plain
// float64 values; functions that produce a published rating round it to a
// whole number of points before returning.
package elo

import "math"

// Rating model constants (FIDE Handbook B.02, section 8).
const (
	// MaxRatingDiff caps the rating difference used for expected scores.
	// A larger gap is counted as exactly 400 points in either direction.
	MaxRatingDiff = 400
	// logisticScale is the rating gap at which the stronger side is ten times
	// as likely to score.
	logisticScale = 400
)

// ExpectedScore returns the probability, in [0,1], that a player rated
// ratingA outscores a player rated ratingB in a single game.
//
// ExpectedScore(a, b) + ExpectedScore(b, a) is exactly 1 for all finite
// inputs, and ExpectedScore(x, x) is exactly 0.5.
func ExpectedScore(ratingA, ratingB float64) float64 {
	diff := math.Max(-MaxRatingDiff, math.Min(MaxRatingDiff, ratingB-ratingA))

	// The underdog side is the complement of the favourite side so that the
	// two expectations of one game always sum to 1 in floating point.
	if diff > 0 {
		return 1 - logistic(-diff)
	}
	return logistic(diff)
}

func logistic(diff float64) float64 {
	return 1 / (1 + math.Pow(10, diff/logisticScale))
}

// Delta returns the unrounded rating change k * (actual - expected).
func Delta(actual, expected, k float64) float64 {
	return k * (actual - expected)
}

// round rounds half up, which matches the FIDE calculator on positive
// ratings.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}
