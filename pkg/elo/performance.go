package elo

import (
	"fmt"
	"math"
)

// dpTable maps a score fraction p, indexed by round(p*100), to the rating
// difference dp from FIDE Handbook B.02 table 8.1(a). The handbook values
// deviate slightly from the exact logistic inverse, so they are kept verbatim.
var dpTable = [101]float64{
	-800, -677, -589, -538, -501, -470, -444, -422, -401, -383, // 0.00 - 0.09
	-366, -351, -336, -322, -309, -296, -284, -273, -262, -251, // 0.10 - 0.19
	-240, -230, -220, -211, -202, -193, -184, -175, -166, -158, // 0.20 - 0.29
	-149, -141, -133, -125, -117, -110, -102, -95, -87, -80, // 0.30 - 0.39
	-72, -65, -57, -50, -43, -36, -29, -21, -14, -7, // 0.40 - 0.49
	0, 7, 14, 21, 29, 36, 43, 50, 57, 65, // 0.50 - 0.59
	72, 80, 87, 95, 102, 110, 117, 125, 133, 141, // 0.60 - 0.69
	149, 158, 166, 175, 184, 193, 202, 211, 220, 230, // 0.70 - 0.79
	240, 251, 262, 273, 284, 296, 309, 322, 336, 351, // 0.80 - 0.89
	366, 383, 401, 422, 444, 470, 501, 538, 589, 677, // 0.90 - 0.99
	800, // 1.00
}

// GameRecord is one game of a tournament seen from the rated player's side.
type GameRecord struct {
	OpponentRating float64
	Result         Result
}

// DP returns the table rating difference for score fraction p.
func DP(p float64) (float64, error) {
	idx := math.Round(p * 100)
	if !(idx >= 0 && idx < float64(len(dpTable))) {
		return 0, fmt.Errorf("score fraction %v: %w", p, ErrOutOfRange)
	}
	return dpTable[int(idx)], nil
}

// PerformanceRating estimates a tournament performance rating as the mean
// opponent rating plus the table dp for the achieved score fraction, rounded
// to the nearest point. Game order does not matter.
//
// It fails with ErrOutOfRange for an empty list or when the score fraction
// falls outside [0, 1] after rounding.
func PerformanceRating(games []GameRecord) (float64, error) {
	if len(games) == 0 {
		return 0, fmt.Errorf("performance rating needs at least one game: %w", ErrOutOfRange)
	}

	var ratings, score float64
	for _, g := range games {
		ratings += g.OpponentRating
		score += float64(g.Result)
	}
	n := float64(len(games))

	dp, err := DP(score / n)
	if err != nil {
		return 0, err
	}
	return round(ratings/n + dp), nil
}
