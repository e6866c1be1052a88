package elo

// Result is a game result from the first-named player's point of view.
type Result float64

// Standard results.
const (
	Loss Result = 0
	Draw Result = 0.5
	Win  Result = 1
)

// Game carries the per-game context shared by both players.
type Game struct {
	// Result for player A; player B scores 1 - Result.
	Result Result
	// Category selects the K-factor rules. Empty means Standard.
	Category Category
	// K, when non-zero, overrides the computed K-factor of both players.
	// A per-player WithK override still takes precedence.
	K float64
}

// EffectiveK returns the K-factor applied to p in game g: the player's own
// override, then the game-wide override, then KFactor.
func EffectiveK(p Player, g Game) float64 {
	if k, ok := p.K(); ok {
		return k
	}
	if g.K != 0 {
		return g.K
	}
	return float64(KFactor(p, g.Category))
}

// Update returns the post-game ratings of a and b. Each side is rounded to
// the nearest point on its own, so one player's rounding never moves the
// other's rating.
//
// Results outside {0, 0.5, 1} are not rejected; they extrapolate linearly.
func Update(a, b Player, g Game) (float64, float64) {
	scoreA := float64(g.Result)
	scoreB := 1 - scoreA

	newA := a.rating + Delta(scoreA, ExpectedScore(a.rating, b.rating), EffectiveK(a, g))
	newB := b.rating + Delta(scoreB, ExpectedScore(b.rating, a.rating), EffectiveK(b, g))

	return round(newA), round(newB)
}

// UpdateRatings is Update for two players with default attributes in a
// standard game.
func UpdateRatings(ratingA, ratingB float64, result Result) (float64, float64) {
	return Update(NewPlayer(ratingA), NewPlayer(ratingB), Game{Result: result})
}
