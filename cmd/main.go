package main

import (
	"context"
	"fmt"
	logByDefault "log"
	"log/slog"
	"os"
	"time"

	"github.com/banwardhq/banward-server/internal/audit"
	"github.com/banwardhq/banward-server/internal/ban"
	"github.com/banwardhq/banward-server/internal/cache"
	config "github.com/banwardhq/banward-server/internal/config"
	log "github.com/banwardhq/banward-server/internal/log"
	"github.com/banwardhq/banward-server/internal/metrics"
	"github.com/banwardhq/banward-server/internal/model"
	"github.com/banwardhq/banward-server/internal/server"
	storage "github.com/banwardhq/banward-server/internal/storage"
	"github.com/joho/godotenv"

	// This controls the maxprocs environment variable in container runtimes.
	// see https://martin.baillie.id/wrote/gotchas-in-the-go-network-packages-defaults/#bonus-gomaxprocs-containers-and-the-cfs
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	// Set the local timezone to UTC
	time.Local = time.UTC

	// Load a .env file, if present
	_ = godotenv.Load()

	// Initialize the configuration
	config, err := config.MustLoadConfig()
	if err != nil {
		logByDefault.Fatalf("Config load error: %v", err)
		os.Exit(1)
	}

	// Logger configuration
	logger := log.New(
		log.WithLevel(config.Verbose),
		log.WithSource(),
	)

	if err := run(config, logger); err != nil {
		logger.ErrorContext(context.Background(), "an error occurred", slog.String("error", err.Error()))
		os.Exit(1)
	}

	os.Exit(0)
}

func run(config *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	_, err := maxprocs.Set(maxprocs.Logger(func(s string, i ...interface{}) {
		logger.DebugContext(ctx, fmt.Sprintf(s, i...))
	}))
	if err != nil {
		return fmt.Errorf("setting max procs: %w", err)
	}

	// Setup hash function
	model.InitHashFunction()

	// Setup database connection
	db, err := storage.New(config, logger)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}

	// Setup the ban snapshot cache
	banCache, err := cache.New(config.Ban.CacheTTL)
	if err != nil {
		return fmt.Errorf("ban cache setup error: %w", err)
	}
	defer banCache.Close()

	// Setup metrics, a no-op sink unless configured
	banMetrics := metrics.NewMetricsFake()
	if config.Metrics.Enabled() {
		banMetrics = metrics.NewMetricsImpl(
			config.Metrics.URL,
			config.Metrics.Token,
			config.Metrics.Org,
			config.Metrics.Bucket,
			map[string]string{"environment": config.Environment},
		)
		defer banMetrics.Close()
	}

	// Register the ban types; lookup order follows registration order
	types := []ban.Type{
		ban.NewUserType(db),
		ban.NewIPType(),
		ban.NewEmailType(),
	}

	manager := ban.NewManager(
		types,
		db,
		banCache,
		audit.New(db, logger),
		banMetrics,
		logger,
	)

	// Sweep expired bans in the background
	go func() {
		ticker := time.NewTicker(config.Ban.TidyInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := manager.Tidy(); err != nil {
				logger.WarnContext(ctx, "tidy sweep failed", slog.String("error", err.Error()))
			}
		}
	}()

	// Setup the API server
	srv := server.New(config, manager, logger)
	srv.AddHealthCheck(func() (bool, map[string]string) {
		status, err := srv.Status()
		if err != nil {
			return false, map[string]string{"server": err.Error()}
		}

		return true, map[string]string{"server": status}
	})

	logger.InfoContext(ctx, "Server started", slog.String("host", config.API.Host), slog.Int("port", config.API.Port))

	return srv.ListenAndServe()
}
