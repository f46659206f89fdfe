package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gr8tracker/internal/cache"
	"gr8tracker/internal/config"
	"gr8tracker/internal/models"
	"gr8tracker/internal/tracker"
)

type fakeFetcher struct {
	snap  models.Snapshot
	calls int
}

func (f *fakeFetcher) Snapshot(context.Context) (models.Snapshot, error) {
	f.calls++
	return f.snap, nil
}

type fakePublisher struct {
	published []models.StatsBundle
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, bundle models.StatsBundle) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, bundle)
	return nil
}

func testService(fetcher *fakeFetcher) *tracker.Service {
	return tracker.NewService(fetcher, cache.NewMemoryStore(time.Hour), time.Date(2025, 4, 17, 0, 0, 0, 0, time.UTC))
}

func TestRefreshStatsPublishesWhenEnabled(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{CareerGoals: 886, SeasonGoals: 33, PlayerGamesPlayed: 50, TeamGamesPlayed: 66}}
	publisher := &fakePublisher{}
	cfg := &config.Config{PublishOnRefresh: true, StatsRefreshEvery: time.Hour, NightlyRefreshCron: "0 2 * * *"}

	s := NewScheduler(cfg, testService(fetcher), publisher)

	require.NoError(t, s.refreshStats(context.Background()))
	assert.Equal(t, 1, fetcher.calls)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, 886, publisher.published[0].Nested.Player.Goals)
}

func TestRefreshStatsSkipsPublishWhenDisabled(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{CareerGoals: 886}}
	publisher := &fakePublisher{}
	cfg := &config.Config{PublishOnRefresh: false, StatsRefreshEvery: time.Hour, NightlyRefreshCron: "0 2 * * *"}

	s := NewScheduler(cfg, testService(fetcher), publisher)

	require.NoError(t, s.refreshStats(context.Background()))
	assert.Empty(t, publisher.published)
}

func TestRefreshAndPublish(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{CareerGoals: 886}}
	publisher := &fakePublisher{}
	cfg := &config.Config{StatsRefreshEvery: time.Hour, NightlyRefreshCron: "0 2 * * *"}

	s := NewScheduler(cfg, testService(fetcher), publisher)

	require.NoError(t, s.refreshAndPublish(context.Background()))
	assert.Len(t, publisher.published, 1)
}

func TestRefreshAndPublishWithoutPublisher(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{CareerGoals: 886}}
	cfg := &config.Config{StatsRefreshEvery: time.Hour, NightlyRefreshCron: "0 2 * * *"}

	s := NewScheduler(cfg, testService(fetcher), nil)

	require.NoError(t, s.refreshAndPublish(context.Background()))
}

func TestStartAndStop(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{CareerGoals: 886}}
	cfg := &config.Config{StatsRefreshEvery: time.Hour, NightlyRefreshCron: "0 2 * * *"}

	s := NewScheduler(cfg, testService(fetcher), &fakePublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	s.Stop()
}

func TestStartRejectsBadCron(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{CareerGoals: 886}}
	cfg := &config.Config{StatsRefreshEvery: time.Hour, NightlyRefreshCron: "not a cron"}

	s := NewScheduler(cfg, testService(fetcher), nil)

	err := s.Start(context.Background())
	require.Error(t, err)
}
