package elo

import (
	"fmt"
	"strings"
)

// K-factor values and the thresholds that select them.
const (
	KNewcomer    = 40
	KEstablished = 20
	KElite       = 10
	KFastPlay    = 20

	DefaultAge   = 18
	DefaultGames = 32

	newcomerGames = 30
	juniorAge     = 18
	juniorRating  = 2300
	eliteRating   = 2400
)

// Category is the time-control category of a game.
type Category string

// Supported categories. The zero value is treated as Standard.
const (
	Standard Category = "standard"
	Rapid    Category = "rapid"
	Blitz    Category = "blitz"
)

// ParseCategory parses a category name case-insensitively. An empty string
// yields Standard.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return Standard, nil
	case Standard, Rapid, Blitz:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// String returns the category name, reporting the zero value as standard.
func (c Category) String() string {
	if c == "" {
		return string(Standard)
	}
	return string(c)
}

// fastPlay reports whether games in this category use the flat rapid/blitz K.
func (c Category) fastPlay() bool {
	return c == Rapid || c == Blitz
}

// Player is a rating together with the attributes that drive K-factor
// selection. Build one with NewPlayer.
type Player struct {
	rating   float64
	age      int
	games    int
	ever2400 bool
	k        float64
	hasK     bool
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithAge sets the player's age.
func WithAge(age int) PlayerOption {
	return func(p *Player) {
		p.age = age
	}
}

// WithGames sets the number of rated games the player has completed.
func WithGames(games int) PlayerOption {
	return func(p *Player) {
		p.games = games
	}
}

// WithEverReached2400 marks whether the player has ever been rated 2400 or more.
func WithEverReached2400(reached bool) PlayerOption {
	return func(p *Player) {
		p.ever2400 = reached
	}
}

// WithK overrides the computed K-factor for this player.
func WithK(k float64) PlayerOption {
	return func(p *Player) {
		p.k = k
		p.hasK = true
	}
}

// NewPlayer returns a player with the given rating. Unset attributes default
// to an adult (18) with 32 games who never reached 2400.
func NewPlayer(rating float64, opts ...PlayerOption) Player {
	p := Player{
		rating: rating,
		age:    DefaultAge,
		games:  DefaultGames,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Rating returns the player's current rating.
func (p Player) Rating() float64 { return p.rating }

// Age returns the player's age.
func (p Player) Age() int { return p.age }

// Games returns the player's completed rated game count.
func (p Player) Games() int { return p.games }

// EverReached2400 reports whether the player was ever rated 2400 or more.
func (p Player) EverReached2400() bool { return p.ever2400 }

// K returns the explicit K-factor override, if any.
func (p Player) K() (float64, bool) { return p.k, p.hasK }

// KFactor selects the player's K-factor for a game of the given category.
// The first matching rule wins:
//
//  1. rapid or blitz: 20
//  2. 30 games or fewer, or under 18 and rated below 2300: 40
//  3. rated below 2400 and never reached 2400: 20
//  4. otherwise: 10
//
// KFactor ignores any explicit override set with WithK.
func KFactor(p Player, category Category) int {
	switch {
	case category.fastPlay():
		return KFastPlay
	case p.games <= newcomerGames, p.age < juniorAge && p.rating < juniorRating:
		return KNewcomer
	case p.rating < eliteRating && !p.ever2400:
		return KEstablished
	default:
		return KElite
	}
}
