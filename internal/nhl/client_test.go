package nhl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landingBody = `{
	"careerTotals": {"regularSeason": {"goals": 886}},
	"featuredStats": {"regularSeason": {"subSeason": {"gamesPlayed": 50, "goals": 33}}}
}`

const standingsBody = `{
	"standings": [
		{"teamAbbrev": {"default": "BOS"}, "gamesPlayed": 64},
		{"teamAbbrev": {"default": "WSH"}, "gamesPlayed": 66}
	]
}`

const scheduleBody = `{
	"games": [
		{
			"gameDate": "2025-01-10",
			"startTimeUTC": "2025-01-11T00:00:00Z",
			"homeTeam": {"abbrev": "WSH", "placeName": {"default": "Washington"}, "commonName": {"default": "Capitals"}},
			"awayTeam": {"abbrev": "BOS", "placeName": {"default": "Boston"}, "commonName": {"default": "Bruins"}}
		},
		{
			"gameDate": "2025-03-01",
			"startTimeUTC": "2025-03-02T00:00:00Z",
			"homeTeam": {"abbrev": "WSH", "placeName": {"default": "Washington"}, "commonName": {"default": "Capitals"}},
			"awayTeam": {"abbrev": "NYR", "placeName": {"default": "New York"}, "commonName": {"default": "Rangers"}}
		},
		{
			"gameDate": "2025-03-05",
			"startTimeUTC": "2025-03-06T00:00:00Z",
			"homeTeam": {"abbrev": "CBJ", "placeName": {"default": "Columbus"}, "commonName": {"default": "Blue Jackets"}},
			"awayTeam": {"abbrev": "WSH", "placeName": {"default": "Washington"}, "commonName": {"default": "Capitals"}}
		}
	]
}`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, DefaultPlayerID, DefaultTeamAbbrev, 2*time.Second)
	c.retryDelay = time.Millisecond
	c.now = func() time.Time { return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchPlayerStats(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player/8471214/landing", r.URL.Path)
		w.Write([]byte(landingBody))
	}))

	career, season, played, err := c.FetchPlayerStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 886, career)
	assert.Equal(t, 33, season)
	assert.Equal(t, 50, played)
}

func TestFetchTeamGamesPlayed(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings/now", r.URL.Path)
		w.Write([]byte(standingsBody))
	}))

	played, err := c.FetchTeamGamesPlayed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 66, played)
}

func TestFetchTeamGamesPlayedTeamMissing(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"standings": []}`))
	}))

	played, err := c.FetchTeamGamesPlayed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, played, "missing team defaults to zero games played")
}

func TestFetchRemainingGamesSkipsPastGames(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/club-schedule-season/WSH/now", r.URL.Path)
		w.Write([]byte(scheduleBody))
	}))

	games, err := c.FetchRemainingGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2, "the January game has already been played")

	assert.Equal(t, "New York Rangers", games[0].Opponent)
	assert.True(t, games[0].Home)
	// 2025-03-02T00:00:00Z is the evening of March 1st in Eastern Time.
	assert.Equal(t, "2025-03-01", games[0].Date.Format("2006-01-02"))
	assert.Equal(t, "07:00 PM ET", games[0].LocalTime)

	assert.Equal(t, "Columbus Blue Jackets", games[1].Opponent)
	assert.False(t, games[1].Home)
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(standingsBody))
	}))

	played, err := c.FetchTeamGamesPlayed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 66, played)
	assert.Equal(t, 3, calls)
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))

	_, _, _, err := c.FetchPlayerStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/player/8471214/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(landingBody))
	})
	mux.HandleFunc("/standings/now", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(standingsBody))
	})
	mux.HandleFunc("/club-schedule-season/WSH/now", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scheduleBody))
	})
	c := testClient(t, mux)

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 886, snap.CareerGoals)
	assert.Equal(t, 33, snap.SeasonGoals)
	assert.Equal(t, 50, snap.PlayerGamesPlayed)
	assert.Equal(t, 66, snap.TeamGamesPlayed)
	assert.Len(t, snap.RemainingSchedule, 2)
}
