package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rematch/internal/adapters/http/api"
	app "github.com/okian/rematch/internal/app"
	"github.com/okian/rematch/internal/config"
	"github.com/okian/rematch/internal/domain/evolution"
	"github.com/okian/rematch/internal/domain/scoring"
	"github.com/okian/rematch/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
	hoursPerDay            = 24
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWeights(cfg.Weights),
		app.WithBands(cfg.Bands),
		app.WithSemanticFloor(cfg.SemanticFloor),
		app.WithTopKBounds(cfg.DefaultTopK, cfg.MaxTopK),
		app.WithDormantMinScore(cfg.DormantMinScore),
		app.WithDormancyThreshold(time.Duration(cfg.DormancyThresholdDays)*hoursPerDay*time.Hour),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithEmbeddingDimensions(cfg.EmbeddingDimensions),
		app.WithEmbedLatencyRange(time.Duration(cfg.EmbedLatencyMinMS)*time.Millisecond, time.Duration(cfg.EmbedLatencyMaxMS)*time.Millisecond),
		app.WithScorerOptions(
			scoring.WithNeutralSkillsScore(cfg.NeutralSkillsScore),
			scoring.WithLocationTiers(cfg.LocationRemoteTier, cfg.LocationMismatchTier),
			scoring.WithExperiencePenalties(
				cfg.ExperienceJuniorPenaltyRate, cfg.ExperienceJuniorPenaltyCap,
				cfg.ExperienceSeniorPenaltyRate, cfg.ExperienceSeniorPenaltyCap,
			),
		),
		app.WithEvolutionOptions(
			evolution.WithEvolutionWeight(cfg.EvolutionWeight),
			evolution.WithCap(cfg.EvolutionCapMonths, cfg.EvolutionMaxBonus),
		),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startServiceMetricsUpdater periodically refreshes the service gauges.
// GetStats publishes queue and repository gauges as a side effect.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.GetStats()
		}
	}
}
