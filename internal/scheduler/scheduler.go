// Package scheduler runs the worker's background jobs: periodic stats
// refreshes into the cache and the nightly website republish.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"gr8tracker/internal/config"
	"gr8tracker/internal/models"
	"gr8tracker/internal/tracker"
)

// Publisher pushes the rendered website out. Nil disables publishing.
type Publisher interface {
	Publish(ctx context.Context, bundle models.StatsBundle) error
}

// Scheduler manages the tracker's background tasks.
type Scheduler struct {
	cfg       *config.Config
	service   *tracker.Service
	publisher Publisher
	cron      *cron.Cron
	ticker    *time.Ticker
	stopChan  chan struct{}
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg *config.Config, service *tracker.Service, publisher Publisher) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		service:   service,
		publisher: publisher,
		cron:      cron.New(),
		stopChan:  make(chan struct{}),
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	// Nightly republish keeps the website fresh even when nothing else
	// triggers a refresh.
	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly website refresh...")
		if err := s.refreshAndPublish(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly website refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRefreshCron).
		Msg("Nightly website refresh scheduled")

	s.ticker = time.NewTicker(s.cfg.StatsRefreshEvery)
	log.Info().
		Dur("interval", s.cfg.StatsRefreshEvery).
		Msg("Stats refresh polling started")

	go s.pollStats(ctx)

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// pollStats keeps the cache warm so readers never pay the NHL API
// latency.
func (s *Scheduler) pollStats(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping stats polling")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping stats polling")
			return
		case <-s.ticker.C:
			if err := s.refreshStats(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to refresh stats")
			}
		}
	}
}

func (s *Scheduler) refreshStats(ctx context.Context) error {
	start := time.Now()

	bundle, err := s.service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh stats: %w", err)
	}

	if s.cfg.PublishOnRefresh && s.publisher != nil {
		if err := s.publisher.Publish(ctx, bundle); err != nil {
			log.Error().Err(err).Msg("Failed to publish website after refresh")
		}
	}

	log.Info().
		Dur("duration", time.Since(start)).
		Msg("Stats refresh complete")
	return nil
}

func (s *Scheduler) refreshAndPublish(ctx context.Context) error {
	bundle, err := s.service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh stats: %w", err)
	}

	if s.publisher == nil {
		log.Warn().Msg("No publisher configured, skipping website update")
		return nil
	}

	if err := s.publisher.Publish(ctx, bundle); err != nil {
		return fmt.Errorf("failed to publish website: %w", err)
	}
	return nil
}
