package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gr8tracker/internal/cache"
	"gr8tracker/internal/config"
	"gr8tracker/internal/metrics"
	"gr8tracker/internal/nhl"
	"gr8tracker/internal/scheduler"
	"gr8tracker/internal/tracker"
	"gr8tracker/internal/website"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting Ovechkin Goal Tracker Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize NHL client
	nhlClient := nhl.NewClient(cfg.NHLBaseURL, cfg.PlayerID, cfg.TeamAbbrev, cfg.NHLTimeout)
	log.Info().Msg("NHL client initialized")

	// Initialize stats cache
	var store cache.Store = cache.NewMemoryStore(cfg.CacheTTL)
	if cfg.RedisEnabled {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - falling back to in-memory cache")
		} else {
			defer redisStore.Close()
			store = redisStore
			log.Info().Msg("Redis cache connected")
		}
	}

	service := tracker.NewService(nhlClient, store, cfg.SeasonEnd())

	// Initialize website publisher
	runtime := config.DetectRuntime(cfg.WebsiteStaticDir)
	var publisher scheduler.Publisher
	if pub, err := website.NewPublisher(ctx, cfg, runtime); err != nil {
		log.Warn().Err(err).Msg("Website publisher unavailable - continuing without publishing")
	} else {
		publisher = pub
		log.Info().Str("static_dir", runtime.StaticDir).Msg("Website publisher initialized")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Warm the cache before the first ticker fires
	log.Info().Msg("Running initial stats refresh...")
	if _, err := service.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Initial stats refresh failed, continuing anyway...")
	} else {
		log.Info().Msg("Initial stats refresh completed successfully")
	}

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, service, publisher)

	log.Info().Msg("Starting scheduler...")
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
