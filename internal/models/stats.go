package models

import (
	"fmt"
	"math"
	"time"
)

// Record chase constants. The record and season length are fixed for the
// current chase; they are not configurable at runtime.
const (
	GretzkyRecord     = 894
	SeasonGames       = 82
	CareerGamesPlayed = 1470
)

// ScheduledGame is one future game on the team's schedule, already
// converted to Eastern Time by the NHL client.
type ScheduledGame struct {
	Date      time.Time
	LocalTime string
	Opponent  string
	Home      bool
}

// Location returns the home/away label used in all presentation shapes.
func (g ScheduledGame) Location() string {
	if g.Home {
		return "Home"
	}
	return "Away"
}

// DisplayDate formats the game date as "Saturday, 2025-03-01 (01.03.2025)".
func (g ScheduledGame) DisplayDate() string {
	return fmt.Sprintf("%s, %s (%s)",
		g.Date.Format("Monday"),
		g.Date.Format("2006-01-02"),
		g.Date.Format("02.01.2006"))
}

// Info formats the full game line, e.g.
// "Saturday, 2025-03-01 (01.03.2025), 07:00 PM ET vs Columbus Blue Jackets (Away)".
func (g ScheduledGame) Info() string {
	return fmt.Sprintf("%s, %s vs %s (%s)", g.DisplayDate(), g.LocalTime, g.Opponent, g.Location())
}

// Snapshot holds the raw inputs fetched from the NHL API for one
// computation cycle.
type Snapshot struct {
	CareerGoals       int
	SeasonGoals       int
	PlayerGamesPlayed int
	TeamGamesPlayed   int
	RemainingSchedule []ScheduledGame
}

// Sentinel strings produced when a projection cannot be made.
const (
	NoProjectedDate = "N/A"
	NoGameInfo      = "No game information available"
)

// DerivedStats is the output of the projection engine. It is built fresh
// on every computation and never mutated afterwards.
type DerivedStats struct {
	TotalGoals         int
	GoalsThisSeason    int
	GoalsAtSeasonStart int
	PlayerGamesPlayed  int
	GamesMissed        int
	SeasonGames        int
	TeamGamesPlayed    int
	GamesRemaining     int
	GoalsPerGame       float64
	GoalsNeeded        int
	ProjectedRemaining int
	RecordGoals        int
	RecordBroken       bool

	// ProjectedDate is "MM/DD/YYYY" or the NoProjectedDate sentinel.
	ProjectedDate string
	// ProjectedGame is nil when no schedule entry qualifies.
	ProjectedGame *ScheduledGame
	// ProjectedGameInfo is ProjectedGame.Info() or the NoGameInfo sentinel.
	ProjectedGameInfo string

	SeasonEnd   string
	LastUpdated string

	// UpcomingGames carries the schedule through to the nested shape.
	UpcomingGames []ScheduledGame
}

// ProgressPct returns the percentage of the record already scored,
// rounded to one decimal.
func (d DerivedStats) ProgressPct() float64 {
	return round1(float64(d.TotalGoals) / float64(d.RecordGoals) * 100)
}

func round1(v float64) float64 { return roundN(v, 10) }
func round2(v float64) float64 { return roundN(v, 100) }
func round3(v float64) float64 { return roundN(v, 1000) }

// roundN rounds half to even, matching the rounding the published
// numbers have always used.
func roundN(v float64, scale float64) float64 {
	return math.RoundToEven(v*scale) / scale
}
