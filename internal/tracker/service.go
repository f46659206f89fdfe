package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"gr8tracker/internal/cache"
	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
)

// Fetcher produces a raw stats snapshot, typically from the NHL API.
type Fetcher interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
}

// Service combines the fetcher, the projection arithmetic and the cache
// into the single stats source used by every entry point.
type Service struct {
	fetcher   Fetcher
	store     cache.Store
	seasonEnd time.Time
	now       func() time.Time
}

// NewService builds a Service around the given fetcher and cache.
func NewService(fetcher Fetcher, store cache.Store, seasonEnd time.Time) *Service {
	return &Service{
		fetcher:   fetcher,
		store:     store,
		seasonEnd: seasonEnd,
		now:       time.Now,
	}
}

// Stats returns the current bundle, serving from cache when fresh.
func (s *Service) Stats(ctx context.Context) (models.StatsBundle, error) {
	if bundle, ok := s.store.Get(ctx); ok {
		log.Debug().Msg("Serving stats from cache")
		return bundle, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches a fresh snapshot, recomputes the projection and
// replaces the cached bundle.
func (s *Service) Refresh(ctx context.Context) (models.StatsBundle, error) {
	start := s.now()

	snap, err := s.fetcher.Snapshot(ctx)
	if err != nil {
		metrics.RecordRefresh("error", time.Since(start).Seconds())
		metrics.RecordError("tracker", "fetch")
		return models.StatsBundle{}, err
	}

	derived := Compute(snap, s.now(), s.seasonEnd)
	bundle := models.BuildBundle(derived)
	s.store.Set(ctx, bundle)

	metrics.RecordRefresh("success", time.Since(start).Seconds())
	log.Info().
		Int("total_goals", derived.TotalGoals).
		Int("goals_needed", derived.GoalsNeeded).
		Str("projected_date", derived.ProjectedDate).
		Msg("Stats refreshed")
	return bundle, nil
}
