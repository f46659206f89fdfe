// Package nhl is the read-only client for the public NHL stats API. It
// fetches the three inputs the projection engine needs: the player's
// landing page (career and season totals), the league standings (team
// games played) and the club's remaining schedule.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
)

const (
	DefaultBaseURL = "https://api-web.nhle.com/v1"
	DefaultTimeout = 3 * time.Second

	// DefaultPlayerID is Alex Ovechkin, DefaultTeamAbbrev the Capitals.
	DefaultPlayerID   = "8471214"
	DefaultTeamAbbrev = "WSH"
)

// Client is the NHL API client. The API requires no authentication.
type Client struct {
	baseURL    string
	playerID   string
	teamAbbrev string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	location   *time.Location
	now        func() time.Time
}

// NewClient creates an NHL API client with the short timeout and bounded
// retry budget the serverless path requires.
func NewClient(baseURL, playerID, teamAbbrev string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		playerID:   playerID,
		teamAbbrev: teamAbbrev,
		maxRetries: 2,
		retryDelay: 1 * time.Second,
		location:   loc,
		now:        time.Now,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with retry logic: network errors and
// retryable statuses (429, 5xx) are retried with exponential backoff,
// other 4xx errors are not.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying NHL API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "gr8tracker/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("NHL API request failed: %w", err)
			if attempt < c.maxRetries {
				continue
			}
			metrics.RecordAPICall(path, "network_error", time.Since(start).Seconds())
			return nil, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			if attempt < c.maxRetries {
				continue
			}
			metrics.RecordAPICall(path, "read_error", time.Since(start).Seconds())
			return nil, lastErr
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			metrics.RecordAPICall(path, "ok", time.Since(start).Seconds())
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("NHL API returned retryable status %d", resp.StatusCode)
			if attempt < c.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			metrics.RecordAPICall(path, "server_error", time.Since(start).Seconds())
			return nil, lastErr

		default:
			metrics.RecordAPICall(path, "client_error", time.Since(start).Seconds())
			return nil, fmt.Errorf("NHL API returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// FetchPlayerStats fetches the player's career total and current-season
// goal counts from the landing endpoint.
func (c *Client) FetchPlayerStats(ctx context.Context) (careerGoals, seasonGoals, gamesPlayed int, err error) {
	body, err := c.get(ctx, fmt.Sprintf("player/%s/landing", c.playerID))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to fetch player stats: %w", err)
	}

	var landing playerLanding
	if err := json.Unmarshal(body, &landing); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to unmarshal player stats: %w", err)
	}

	sub := landing.FeaturedStats.RegularSeason.SubSeason
	return landing.CareerTotals.RegularSeason.Goals, sub.Goals, sub.GamesPlayed, nil
}

// FetchTeamGamesPlayed reads the team's games-played count from the
// current standings. A team missing from the standings yields 0.
func (c *Client) FetchTeamGamesPlayed(ctx context.Context) (int, error) {
	body, err := c.get(ctx, "standings/now")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch standings: %w", err)
	}

	var standings standingsResponse
	if err := json.Unmarshal(body, &standings); err != nil {
		return 0, fmt.Errorf("failed to unmarshal standings: %w", err)
	}

	for _, team := range standings.Standings {
		if team.TeamAbbrev.Default == c.teamAbbrev {
			return team.GamesPlayed, nil
		}
	}

	log.Warn().Str("team", c.teamAbbrev).Msg("Team not found in standings")
	return 0, nil
}

// FetchRemainingGames fetches the club's season schedule and returns the
// games that have not started yet, converted to Eastern Time.
func (c *Client) FetchRemainingGames(ctx context.Context) ([]models.ScheduledGame, error) {
	body, err := c.get(ctx, fmt.Sprintf("club-schedule-season/%s/now", c.teamAbbrev))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var schedule clubScheduleResponse
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	now := c.now()
	remaining := make([]models.ScheduledGame, 0, len(schedule.Games))
	for _, g := range schedule.Games {
		if g.GameDate == "" || g.StartTimeUTC == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, g.StartTimeUTC)
		if err != nil {
			log.Error().Err(err).Str("start", g.StartTimeUTC).Msg("Error parsing game start time")
			continue
		}
		if start.Before(now) {
			continue
		}

		local := start.In(c.location)
		isHome := g.HomeTeam.Abbrev == c.teamAbbrev
		opp := g.AwayTeam
		if !isHome {
			opp = g.HomeTeam
		}
		opponent := strings.TrimSpace(opp.PlaceName.Default + " " + opp.CommonName.Default)
		if opponent == "" {
			opponent = "Unknown"
		}

		remaining = append(remaining, models.ScheduledGame{
			Date:      local,
			LocalTime: local.Format("03:04 PM") + " ET",
			Opponent:  opponent,
			Home:      isHome,
		})
	}

	return remaining, nil
}

// Snapshot composes the three endpoint reads into the raw inputs of one
// computation cycle.
func (c *Client) Snapshot(ctx context.Context) (models.Snapshot, error) {
	career, season, played, err := c.FetchPlayerStats(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	teamPlayed, err := c.FetchTeamGamesPlayed(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	schedule, err := c.FetchRemainingGames(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{
		CareerGoals:       career,
		SeasonGoals:       season,
		PlayerGamesPlayed: played,
		TeamGamesPlayed:   teamPlayed,
		RemainingSchedule: schedule,
	}, nil
}
