// Package sheet loads tournament result sheets from YAML files.
package sheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/elo/internal/domain/model"
)

// document mirrors the YAML layout. Pointers tell a missing value from zero.
type document struct {
	Player string `koanf:"player"`
	Event  string `koanf:"event"`
	Games  []row  `koanf:"games"`
}

type row struct {
	ID             string   `koanf:"id"`
	Opponent       string   `koanf:"opponent"`
	OpponentRating *float64 `koanf:"opponent_rating"`
	Result         *float64 `koanf:"result"`
}

// Loader reads tournament sheets.
type Loader struct {
	newID func() string
}

// NewLoader creates a Loader. Rows without an id get a random UUID.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{newID: uuid.NewString}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and validates the sheet at path.
func (l *Loader) Load(ctx context.Context, path string) (*model.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadSheet, path, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSheet, path, err)
	}
	return l.convert(doc)
}

func (l *Loader) convert(doc document) (*model.Tournament, error) {
	if len(doc.Games) == 0 {
		return nil, fmt.Errorf("%w: no games", ErrInvalidSheet)
	}

	t := &model.Tournament{
		Player: doc.Player,
		Event:  doc.Event,
		Games:  make([]model.TournamentGame, 0, len(doc.Games)),
	}
	seen := make(map[string]struct{}, len(doc.Games))
	for i, r := range doc.Games {
		if r.OpponentRating == nil {
			return nil, fmt.Errorf("%w: game %d: opponent_rating is required", ErrInvalidSheet, i+1)
		}
		if r.Result == nil {
			return nil, fmt.Errorf("%w: game %d: result is required", ErrInvalidSheet, i+1)
		}
		id := r.ID
		if id == "" {
			id = l.newID()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: game %d: duplicate id %q", ErrInvalidSheet, i+1, id)
		}
		seen[id] = struct{}{}

		t.Games = append(t.Games, model.TournamentGame{
			ID:             id,
			Opponent:       r.Opponent,
			OpponentRating: *r.OpponentRating,
			Result:         *r.Result,
		})
	}
	return t, nil
}

// Load reads the sheet at path with a default Loader.
func Load(ctx context.Context, path string) (*model.Tournament, error) {
	return NewLoader().Load(ctx, path)
}
