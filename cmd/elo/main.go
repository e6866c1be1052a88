// Command elo evaluates FIDE Elo rating computations from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/internal/config"
	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitError
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("elo").With(logger.String("run_id", uuid.NewString()))
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Validate already parsed it.
	category, _ := cfg.Category()
	m := metrics.NewManager(metrics.WithNamespace(cfg.MetricsNamespace))
	svc := service.New(
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithDefaultCategory(category),
	)

	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	cmds := map[string]func(context.Context, *service.Service, []string, io.Writer, io.Writer) error{
		"expected":    runExpected,
		"kfactor":     runKFactor,
		"update":      runUpdate,
		"performance": runPerformance,
	}
	switch args[0] {
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return exitUsage
	}

	err = cmd(ctx, svc, args[1:], stdout, stderr)

	if cfg.MetricsTextfile != "" {
		if werr := m.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			log.Error(ctx, "failed to write metrics", logger.Error(werr))
		}
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err.Error())
		return exitUsage
	default:
		log.Error(ctx, "command failed", logger.String("command", args[0]), logger.Error(err))
		fmt.Fprintln(stderr, "error: "+err.Error())
		return exitError
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse parses args and checks that every name in required was given.
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range required {
		if !set[name] {
			return fmt.Errorf("%w: %s: -%s is required", errUsage, fs.Name(), name)
		}
	}
	return nil
}

// categoryFlag parses a game category; unset means the configured default.
type categoryFlag struct{ c elo.Category }

func (f *categoryFlag) String() string { return string(f.c) }

func (f *categoryFlag) Set(s string) error {
	c, err := elo.ParseCategory(s)
	if err != nil {
		return err
	}
	f.c = c
	return nil
}

// resultFlag accepts 1, 0.5, 0 or win, draw, loss.
type resultFlag struct{ r elo.Result }

func (f *resultFlag) String() string { return strconv.FormatFloat(float64(f.r), 'f', -1, 64) }

func (f *resultFlag) Set(s string) error {
	r, err := parseResult(s)
	if err != nil {
		return err
	}
	f.r = r
	return nil
}

func parseResult(s string) (elo.Result, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w":
		return elo.Win, nil
	case "draw", "d":
		return elo.Draw, nil
	case "loss", "l":
		return elo.Loss, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid result %q", s)
	}
	return elo.Result(v), nil
}

// gameList collects repeated -game rating:result values.
type gameList []elo.GameRecord

func (g *gameList) String() string {
	parts := make([]string, len(*g))
	for i, r := range *g {
		parts[i] = fmt.Sprintf("%g:%g", r.OpponentRating, float64(r.Result))
	}
	return strings.Join(parts, ",")
}

func (g *gameList) Set(s string) error {
	rating, result, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("game %q: want opponent_rating:result", s)
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	if err != nil {
		return fmt.Errorf("game %q: invalid opponent rating", s)
	}
	res, err := parseResult(result)
	if err != nil {
		return fmt.Errorf("game %q: %w", s, err)
	}
	*g = append(*g, elo.GameRecord{OpponentRating: r, Result: res})
	return nil
}

func runExpected(ctx context.Context, svc *service.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("expected", stderr)
	a := fs.Float64("a", 0, "rating of player A")
	b := fs.Float64("b", 0, "rating of player B")
	if err := parse(fs, args, "a", "b"); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "expected_a=%.4f expected_b=%.4f\n", svc.Expected(ctx, *a, *b), svc.Expected(ctx, *b, *a))
	return nil
}

func runKFactor(ctx context.Context, svc *service.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("kfactor", stderr)
	rating := fs.Float64("rating", 0, "current rating")
	age := fs.Int("age", elo.DefaultAge, "player age")
	games := fs.Int("games", elo.DefaultGames, "completed rated games")
	ever := fs.Bool("ever2400", false, "player was ever rated 2400 or more")
	var category categoryFlag
	fs.Var(&category, "category", "game category: standard, rapid or blitz")
	if err := parse(fs, args, "rating"); err != nil {
		return err
	}

	p := elo.NewPlayer(*rating, elo.WithAge(*age), elo.WithGames(*games), elo.WithEverReached2400(*ever))
	fmt.Fprintf(stdout, "k=%d\n", svc.KFactor(ctx, p, category.c))
	return nil
}

func runUpdate(ctx context.Context, svc *service.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("update", stderr)
	a := fs.Float64("a", 0, "rating of player A")
	b := fs.Float64("b", 0, "rating of player B")
	var result resultFlag
	fs.Var(&result, "result", "result for A: 1, 0.5, 0 or win, draw, loss")
	var category categoryFlag
	fs.Var(&category, "category", "game category: standard, rapid or blitz")
	k := fs.Float64("k", 0, "K-factor override for both players")
	ka := fs.Float64("ka", 0, "K-factor override for A")
	kb := fs.Float64("kb", 0, "K-factor override for B")
	ageA := fs.Int("age-a", elo.DefaultAge, "age of A")
	ageB := fs.Int("age-b", elo.DefaultAge, "age of B")
	gamesA := fs.Int("games-a", elo.DefaultGames, "completed rated games of A")
	gamesB := fs.Int("games-b", elo.DefaultGames, "completed rated games of B")
	everA := fs.Bool("ever2400-a", false, "A was ever rated 2400 or more")
	everB := fs.Bool("ever2400-b", false, "B was ever rated 2400 or more")
	if err := parse(fs, args, "a", "b", "result"); err != nil {
		return err
	}

	optsA := []elo.PlayerOption{elo.WithAge(*ageA), elo.WithGames(*gamesA), elo.WithEverReached2400(*everA)}
	if *ka != 0 {
		optsA = append(optsA, elo.WithK(*ka))
	}
	optsB := []elo.PlayerOption{elo.WithAge(*ageB), elo.WithGames(*gamesB), elo.WithEverReached2400(*everB)}
	if *kb != 0 {
		optsB = append(optsB, elo.WithK(*kb))
	}

	o := svc.Update(ctx, elo.NewPlayer(*a, optsA...), elo.NewPlayer(*b, optsB...), elo.Game{Result: result.r, Category: category.c, K: *k})
	fmt.Fprintf(stdout, "rating_a=%g rating_b=%g change_a=%+g change_b=%+g k_a=%g k_b=%g category=%s\n",
		o.RatingA, o.RatingB, o.ChangeA, o.ChangeB, o.KA, o.KB, o.Category)
	return nil
}

func runPerformance(ctx context.Context, svc *service.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("performance", stderr)
	path := fs.String("sheet", "", "YAML tournament sheet")
	var games gameList
	fs.Var(&games, "game", "opponent_rating:result, repeatable")
	if err := parse(fs, args); err != nil {
		return err
	}

	switch {
	case *path != "" && len(games) > 0:
		return fmt.Errorf("%w: performance: use either -sheet or -game", errUsage)
	case *path != "":
		rep, err := svc.PerformanceFromSheet(ctx, *path)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "performance=%g games=%d score=%g\n", rep.Rating, len(rep.Tournament.Games), rep.Score)
		return nil
	default:
		r, err := svc.Performance(ctx, games)
		if err != nil {
			return err
		}
		var score float64
		for _, g := range games {
			score += float64(g.Result)
		}
		fmt.Fprintf(stdout, "performance=%g games=%d score=%g\n", r, len(games), score)
		return nil
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `elo - FIDE Elo rating calculator

Usage:
  elo <command> [options]

Commands:
  expected     expected scores of two players
                 -a RATING -b RATING
  kfactor      K-factor of one player
                 -rating RATING [-age N] [-games N] [-ever2400] [-category C]
  update       ratings after one game
                 -a RATING -b RATING -result R [-category C] [-k K] [-ka K] [-kb K]
                 [-age-a N] [-age-b N] [-games-a N] [-games-b N] [-ever2400-a] [-ever2400-b]
  performance  tournament performance rating
                 -sheet FILE | -game RATING:RESULT ...

Results are 1, 0.5, 0 (or win, draw, loss) for the first player.
Categories are standard, rapid and blitz.

Environment:
  ELO_CONFIG             YAML config file
  ELO_ENV_FILE           dotenv file (default .env)
  ELO_LOG_LEVEL          debug, info, warn, error
  ELO_LOG_FORMAT         text or json
  ELO_DEFAULT_CATEGORY   category used when -category is omitted
  ELO_METRICS_TEXTFILE   write Prometheus metrics here after each command
  ELO_METRICS_NAMESPACE  metric name prefix (default elo)
`)
}
