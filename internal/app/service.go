// Package service provides the rating service used by the command line front
// end. It applies configured defaults to the pure rating functions and
// records logs and metrics for every computation.
package service

import (
	"context"

	"github.com/okian/elo/internal/adapters/sheet"
	"github.com/okian/elo/internal/domain/model"
	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
)

// Service wraps pkg/elo with defaults, logging and metrics. It keeps no
// per-call state and is safe for concurrent use.
type Service struct {
	logger   logger.Logger
	metrics  *metrics.Manager
	category elo.Category
	sheets   *sheet.Loader
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithDefaultCategory sets the category used when a game does not name one.
func WithDefaultCategory(c elo.Category) Option {
	return func(s *Service) {
		if c != "" {
			s.category = c
		}
	}
}

// WithSheetLoader sets the tournament sheet loader.
func WithSheetLoader(l *sheet.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.sheets = l
		}
	}
}

// New constructs a Service. Without options it logs nowhere, records on the
// default metrics manager and treats games as standard.
func New(opts ...Option) *Service {
	s := &Service{
		logger:   logger.Nop(),
		metrics:  metrics.Default(),
		category: elo.Standard,
		sheets:   sheet.NewLoader(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultCategory returns the category applied to games without one.
func (s *Service) DefaultCategory() elo.Category {
	return s.category
}

// Outcome is the full result of a two-player rating update.
type Outcome struct {
	Category  elo.Category
	RatingA   float64
	RatingB   float64
	ChangeA   float64
	ChangeB   float64
	KA        float64
	KB        float64
	ExpectedA float64
	ExpectedB float64
}

// PerformanceReport is the performance rating of one tournament sheet.
type PerformanceReport struct {
	Tournament *model.Tournament
	Score      float64
	Rating     float64
}

func (s *Service) resolve(c elo.Category) elo.Category {
	if c == "" {
		return s.category
	}
	return c
}

// Expected returns the expected score of a against b.
func (s *Service) Expected(ctx context.Context, a, b float64) float64 {
	e := elo.ExpectedScore(a, b)
	s.metrics.RecordExpectedScore()
	s.logger.Debug(ctx, "expected score",
		logger.Float64("rating_a", a),
		logger.Float64("rating_b", b),
		logger.Float64("expected", e),
	)
	return e
}

// KFactor returns the rule-based K-factor of p. An empty category uses the
// service default.
func (s *Service) KFactor(ctx context.Context, p elo.Player, c elo.Category) int {
	c = s.resolve(c)
	k := elo.KFactor(p, c)
	s.logger.Debug(ctx, "k-factor selected",
		logger.Float64("rating", p.Rating()),
		logger.String("category", c.String()),
		logger.Int("k", k),
	)
	return k
}

// Update applies a game to both players. An empty game category uses the
// service default.
func (s *Service) Update(ctx context.Context, a, b elo.Player, g elo.Game) Outcome {
	g.Category = s.resolve(g.Category)

	newA, newB := elo.Update(a, b, g)
	o := Outcome{
		Category:  g.Category,
		RatingA:   newA,
		RatingB:   newB,
		ChangeA:   newA - a.Rating(),
		ChangeB:   newB - b.Rating(),
		KA:        elo.EffectiveK(a, g),
		KB:        elo.EffectiveK(b, g),
		ExpectedA: elo.ExpectedScore(a.Rating(), b.Rating()),
		ExpectedB: elo.ExpectedScore(b.Rating(), a.Rating()),
	}

	category := g.Category.String()
	s.metrics.RecordKFactor(o.KA, category)
	s.metrics.RecordKFactor(o.KB, category)
	s.metrics.RecordUpdate(category, o.ChangeA, o.ChangeB)

	if r := float64(g.Result); r != 0 && r != 0.5 && r != 1 {
		s.logger.Warn(ctx, "result outside {0, 0.5, 1}; change extrapolated", logger.Float64("result", r))
	}
	s.logger.Debug(ctx, "ratings updated",
		logger.String("category", category),
		logger.Float64("result", float64(g.Result)),
		logger.Float64("old_a", a.Rating()),
		logger.Float64("old_b", b.Rating()),
		logger.Float64("new_a", o.RatingA),
		logger.Float64("new_b", o.RatingB),
		logger.Float64("k_a", o.KA),
		logger.Float64("k_b", o.KB),
	)
	return o
}

// Performance returns the performance rating over games.
func (s *Service) Performance(ctx context.Context, games []elo.GameRecord) (float64, error) {
	r, err := elo.PerformanceRating(games)
	if err != nil {
		s.metrics.RecordPerformanceError()
		s.logger.Warn(ctx, "performance rating rejected", logger.Int("games", len(games)), logger.Error(err))
		return 0, err
	}
	s.metrics.RecordPerformance(len(games))
	s.logger.Debug(ctx, "performance rating", logger.Int("games", len(games)), logger.Float64("rating", r))
	return r, nil
}

// PerformanceFromSheet loads a tournament sheet and rates it.
func (s *Service) PerformanceFromSheet(ctx context.Context, path string) (PerformanceReport, error) {
	t, err := s.sheets.Load(ctx, path)
	if err != nil {
		s.logger.Warn(ctx, "tournament sheet rejected", logger.String("path", path), logger.Error(err))
		return PerformanceReport{}, err
	}
	for _, g := range t.Games {
		s.logger.Debug(ctx, "sheet game",
			logger.String("id", g.ID),
			logger.String("opponent", g.Opponent),
			logger.Float64("opponent_rating", g.OpponentRating),
			logger.Float64("result", g.Result),
		)
	}

	r, err := s.Performance(ctx, t.Records())
	if err != nil {
		return PerformanceReport{}, err
	}
	s.logger.Info(ctx, "tournament rated",
		logger.String("player", t.Player),
		logger.String("event", t.Event),
		logger.Int("games", len(t.Games)),
		logger.Float64("rating", r),
	)
	return PerformanceReport{Tournament: t, Score: t.Score(), Rating: r}, nil
}
