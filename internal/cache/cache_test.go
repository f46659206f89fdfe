package cache

import (
	"context"
	"testing"
	"time"

	"gr8tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle(goals int) models.StatsBundle {
	return models.StatsBundle{
		Flat: models.FlatStats{"Total Number of Goals": goals},
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	_, ok := s.Get(context.Background())
	assert.False(t, ok)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	s.Set(ctx, testBundle(886))

	got, ok := s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 886, got.Flat["Total Number of Goals"])
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	current := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Set(ctx, testBundle(886))

	current = current.Add(59 * time.Minute)
	_, ok := s.Get(ctx)
	assert.True(t, ok, "entry within the TTL is served")

	current = current.Add(2 * time.Minute)
	_, ok = s.Get(ctx)
	assert.False(t, ok, "entry past the TTL is a miss")
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	s.Set(ctx, testBundle(886))
	s.Set(ctx, testBundle(887))

	got, ok := s.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 887, got.Flat["Total Number of Goals"])
}
