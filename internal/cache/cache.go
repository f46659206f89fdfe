// Package cache provides the short-lived stats cache that sits between
// the entry points and the NHL API. A stale or missing entry simply
// means the caller recomputes; cache failures are never fatal.
package cache

import (
	"context"
	"sync"
	"time"

	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
)

// DefaultTTL bounds staleness to roughly one hour, trading a few minutes
// of stale numbers for far fewer NHL API calls.
const DefaultTTL = time.Hour

// Store is the stats cache consumed by the HTTP handler and scheduler.
type Store interface {
	// Get returns the cached bundle, or false when absent or expired.
	Get(ctx context.Context) (models.StatsBundle, bool)
	// Set replaces the cached bundle.
	Set(ctx context.Context, bundle models.StatsBundle)
}

// MemoryStore is a process-local value-plus-timestamp cache.
type MemoryStore struct {
	mu         sync.Mutex
	ttl        time.Duration
	value      models.StatsBundle
	computedAt time.Time
	now        func() time.Time
}

// NewMemoryStore creates an in-memory store. A non-positive ttl falls
// back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context) (models.StatsBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.computedAt.IsZero() || s.now().Sub(s.computedAt) >= s.ttl {
		metrics.RecordCacheMiss()
		return models.StatsBundle{}, false
	}
	metrics.RecordCacheHit()
	return s.value, true
}

func (s *MemoryStore) Set(_ context.Context, bundle models.StatsBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = bundle
	s.computedAt = s.now()
}
