package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"nfl-pool-go/config"
	"nfl-pool-go/database"
	"nfl-pool-go/logging"
	"nfl-pool-go/services"
)

const usage = `usage: recompute <command> [args]

commands:
  survivor <season> [through]          recompute survivor verdicts
  confidence <season> <week>           rescore one confidence week
  all <season>                         load outcomes, then recompute both pools
  load <season>                        fetch and store outcomes from ESPN
  import <season> <participant> <csv>  store a comma-joined survivor history
  indexes                              create database indexes`

type app struct {
	db         *database.MongoDB
	cache      *services.OutcomeCache
	survivor   *services.SurvivorService
	confidence *services.ConfidenceService
	picks      *services.PickService
	loader     *services.DataLoader
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig(nil))

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(cfg, db).run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logging.Errorf("%s failed: %v", os.Args[1], err)
		stop()
		db.Close()
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, db *database.MongoDB) *app {
	pickRepo := database.NewMongoPickRepository(db)
	outcomeRepo := database.NewMongoOutcomeRepository(db)
	normalizer, evaluator, scorer := cfg.Pool.Settings.Scoring()

	// the command runs once, so caching outcomes buys nothing
	cache := services.NewOutcomeCache(outcomeRepo, 0)
	survivor := services.NewSurvivorService(pickRepo, cache, database.NewMongoVerdictRepository(db), evaluator, nil)
	survivor.SetConcurrency(cfg.App.RecomputeConcurrency)
	confidence := services.NewConfidenceService(pickRepo, cache, database.NewMongoWeeklyScoreRepository(db), scorer, nil)
	confidence.SetConcurrency(cfg.App.RecomputeConcurrency)

	return &app{
		db:         db,
		cache:      cache,
		survivor:   survivor,
		confidence: confidence,
		picks:      services.NewPickService(pickRepo, normalizer),
		loader:     services.NewDataLoader(services.NewESPNService(cfg.App.ESPNBaseURL, normalizer), outcomeRepo, cache),
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "survivor":
		season, err := intArg(args, 0, "season")
		if err != nil {
			return err
		}
		through := 0
		if len(args) > 1 {
			if through, err = intArg(args, 1, "through"); err != nil {
				return err
			}
		}
		return a.recomputeSurvivor(ctx, season, through)

	case "confidence":
		season, err := intArg(args, 0, "season")
		if err != nil {
			return err
		}
		week, err := intArg(args, 1, "week")
		if err != nil {
			return err
		}
		scores, err := a.confidence.RecomputeWeek(ctx, season, week)
		if err != nil {
			return err
		}
		for _, s := range scores {
			fmt.Printf("%-20s %4d pts  %d/%d correct  %d pending\n", s.ParticipantID, s.TotalPoints, s.CorrectPicks, s.TotalPicks, s.PendingPicks)
		}
		return nil

	case "all":
		season, err := intArg(args, 0, "season")
		if err != nil {
			return err
		}
		if _, err := a.loader.LoadSeason(ctx, season); err != nil {
			return err
		}
		if err := a.recomputeSurvivor(ctx, season, 0); err != nil {
			return err
		}
		byWeek, err := a.confidence.RecomputeSeason(ctx, season)
		if err != nil {
			return err
		}
		fmt.Printf("confidence: rescored %d weeks\n", len(byWeek))
		return nil

	case "load":
		season, err := intArg(args, 0, "season")
		if err != nil {
			return err
		}
		changed, err := a.loader.LoadSeason(ctx, season)
		if err != nil {
			return err
		}
		fmt.Printf("stored %d changed outcomes\n", changed)
		return nil

	case "import":
		season, err := intArg(args, 0, "season")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("import needs <season> <participant> <history>")
		}
		picks, err := a.picks.ImportSurvivorHistory(ctx, season, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("imported %d picks for %s\n", len(picks), args[1])
		return nil

	case "indexes":
		return a.db.EnsureIndexes()

	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}

func (a *app) recomputeSurvivor(ctx context.Context, season, through int) error {
	verdicts, err := a.survivor.RecomputeSeason(ctx, season, through)
	if err != nil {
		return err
	}
	for _, v := range verdicts {
		if v.IsAlive {
			fmt.Printf("%-20s alive through week %d\n", v.ParticipantID, v.ThroughWeek)
		} else {
			fmt.Printf("%-20s eliminated week %d (%s) %s\n", v.ParticipantID, v.EliminatedIn(), v.EliminationReason, v.Reason)
		}
	}
	return nil
}

func intArg(args []string, i int, name string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s\n\n%s", name, usage)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}
