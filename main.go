package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"nfl-pool-go/config"
	"nfl-pool-go/database"
	"nfl-pool-go/handlers"
	"nfl-pool-go/logging"
	"nfl-pool-go/metrics"
	"nfl-pool-go/middleware"
	"nfl-pool-go/models"
	"nfl-pool-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	var logOut io.Writer = os.Stdout
	if cfg.ShouldLogToFile() {
		if err := os.MkdirAll(cfg.GetLogDir(), 0o755); err != nil {
			logging.Fatalf("Failed to create log directory: %v", err)
		}
		logFile, err := os.OpenFile(filepath.Join(cfg.GetLogDir(), "nfl-pool.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logging.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}
	logging.Configure(cfg.ToLoggingConfig(logOut))
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.EnsureIndexes(); err != nil {
		logging.Fatalf("Failed to create indexes: %v", err)
	}

	// Repositories
	pickRepo := database.NewMongoPickRepository(db)
	outcomeRepo := database.NewMongoOutcomeRepository(db)
	verdictRepo := database.NewMongoVerdictRepository(db)
	scoreRepo := database.NewMongoWeeklyScoreRepository(db)
	userRepo := database.NewMongoUserRepository(db)

	// Scoring core and services
	normalizer, evaluator, scorer := cfg.Pool.Settings.Scoring()
	metricsManager := metrics.NewManager()
	cache := services.NewOutcomeCache(outcomeRepo, cfg.App.OutcomeCacheTTL)

	survivorService := services.NewSurvivorService(pickRepo, cache, verdictRepo, evaluator, metricsManager)
	survivorService.SetConcurrency(cfg.App.RecomputeConcurrency)
	confidenceService := services.NewConfidenceService(pickRepo, cache, scoreRepo, scorer, metricsManager)
	confidenceService.SetConcurrency(cfg.App.RecomputeConcurrency)
	pickService := services.NewPickService(pickRepo, normalizer)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	espnService := services.NewESPNService(cfg.App.ESPNBaseURL, normalizer)

	if cfg.ShouldSeedAdmin() {
		if err := services.NewUserSeeder(userRepo).SeedAdmin(cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logging.Errorf("Admin seeding failed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	season := cfg.App.CurrentSeason
	if cfg.App.LoadOnStartup {
		loader := services.NewDataLoader(espnService, outcomeRepo, cache)
		if _, err := loader.LoadSeason(ctx, season); err != nil {
			logging.Warnf("Initial outcome load failed, serving stored data: %v", err)
		} else if _, err := survivorService.RecomputeSeason(ctx, season, 0); err != nil {
			logging.Errorf("Initial survivor recompute failed: %v", err)
		} else if _, err := confidenceService.RecomputeSeason(ctx, season); err != nil {
			logging.Errorf("Initial confidence recompute failed: %v", err)
		}
	}

	var updater *services.BackgroundUpdater
	if cfg.App.BackgroundUpdaterEnabled {
		updater = services.NewBackgroundUpdater(espnService, outcomeRepo, cache, survivorService, confidenceService,
			metricsManager, season, cfg.App.PollInterval)
		updater.Start(ctx)
	}

	if cfg.App.ChangeStreamEnabled {
		onChange := changeHandler(ctx, cache, survivorService, confidenceService)
		services.NewChangeStreamWatcher(db, onChange).Start(ctx)
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	router := handlers.NewRouter(handlers.Router{
		Auth:        handlers.NewAuthHandler(authService, cfg.Server.UseTLS || cfg.Server.BehindProxy, cfg.Auth.TokenExpiry),
		Survivor:    handlers.NewSurvivorHandler(survivorService),
		Confidence:  handlers.NewConfidenceHandler(confidenceService),
		Evaluate:    handlers.NewEvaluateHandler(evaluator, scorer),
		Picks:       handlers.NewPickHandler(pickService),
		Health:      handlers.NewHealthHandler(db.Ping, espnService.HealthCheck),
		AuthMW:      authMiddleware,
		Metrics:     metricsManager,
		BehindProxy: cfg.Server.BehindProxy,
	})

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		var err error
		if cfg.Server.UseTLS && !cfg.Server.BehindProxy {
			logging.Infof("HTTPS server starting on %s", server.Addr)
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			logging.Infof("HTTP server starting on %s", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	if updater != nil {
		updater.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Server shutdown failed: %v", err)
	}
}

// changeHandler reacts to database changes made outside this process, such
// as manual result corrections or picks written by another instance
func changeHandler(ctx context.Context, cache *services.OutcomeCache, survivor *services.SurvivorService,
	confidence *services.ConfidenceService) func(services.ChangeEvent) {
	logger := logging.WithPrefix("ChangeHandler")

	return func(event services.ChangeEvent) {
		switch event.Collection {
		case database.OutcomesCollection:
			if event.Season == 0 {
				cache.InvalidateAll()
				return
			}
			cache.Invalidate(event.Season)

		case database.PicksCollection:
			if event.Season == 0 {
				return
			}
			var err error
			switch models.PoolType(event.Pool) {
			case models.PoolSurvivor:
				_, err = survivor.RecomputeParticipant(ctx, event.Season, event.ParticipantID, 0)
			case models.PoolConfidence:
				_, err = confidence.RecomputeWeek(ctx, event.Season, event.Week)
			}
			if err != nil {
				logger.Errorf("Recompute after %s on %s failed: %v", event.Operation, event.Collection, err)
			}
		}
	}
}
