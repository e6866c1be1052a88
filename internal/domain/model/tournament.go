// Package model contains domain models passed between layers.
package model

import "github.com/okian/elo/pkg/elo"

// Tournament is one player's results in an event, used for performance
// rating.
type Tournament struct {
	Player string
	Event  string
	Games  []TournamentGame
}

// TournamentGame is a single game seen from the player's side.
type TournamentGame struct {
	ID             string  // unique row id, generated when the sheet omits it
	Opponent       string  // opponent name, informational
	OpponentRating float64 // opponent rating at the time of the game
	Result         float64 // 0, 0.5 or 1 for the player
}

// Records converts the games to core game records.
func (t Tournament) Records() []elo.GameRecord {
	out := make([]elo.GameRecord, len(t.Games))
	for i, g := range t.Games {
		out[i] = elo.GameRecord{OpponentRating: g.OpponentRating, Result: elo.Result(g.Result)}
	}
	return out
}

// Score returns the player's total points.
func (t Tournament) Score() float64 {
	var s float64
	for _, g := range t.Games {
		s += g.Result
	}
	return s
}
