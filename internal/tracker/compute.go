// Package tracker implements the projection arithmetic that turns a raw
// NHL stats snapshot into the derived record-chase numbers consumed by
// every presentation layer. It performs no I/O.
package tracker

import (
	"math"
	"time"

	"gr8tracker/internal/models"
)

var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	eastern = loc
}

// Compute derives all record-chase statistics from one snapshot.
//
// The projected date is a linear interpolation between now and the season
// end: it assumes the remaining games are spread evenly over the remaining
// days and ignores the actual schedule when picking the date itself. The
// schedule is only consulted afterwards, to find the nearest game on or
// after that date.
func Compute(snap models.Snapshot, now time.Time, seasonEnd time.Time) models.DerivedStats {
	nowET := now.In(eastern)

	goalsAtStart := snap.CareerGoals - snap.SeasonGoals
	if goalsAtStart < 0 {
		// A mid-season team change can inflate career goals relative to
		// the season subset reported here; clamp rather than report a
		// negative baseline.
		goalsAtStart = 0
	}

	gamesRemaining := models.SeasonGames - snap.TeamGamesPlayed
	goalsPerGame := float64(snap.SeasonGoals) / float64(max(snap.PlayerGamesPlayed, 1))
	goalsNeeded := models.GretzkyRecord - snap.CareerGoals + 1

	d := models.DerivedStats{
		TotalGoals:         snap.CareerGoals,
		GoalsThisSeason:    snap.SeasonGoals,
		GoalsAtSeasonStart: goalsAtStart,
		PlayerGamesPlayed:  snap.PlayerGamesPlayed,
		GamesMissed:        snap.TeamGamesPlayed - snap.PlayerGamesPlayed,
		SeasonGames:        models.SeasonGames,
		TeamGamesPlayed:    snap.TeamGamesPlayed,
		GamesRemaining:     gamesRemaining,
		GoalsPerGame:       goalsPerGame,
		GoalsNeeded:        goalsNeeded,
		ProjectedRemaining: int(math.Round(goalsPerGame * float64(gamesRemaining))),
		RecordGoals:        models.GretzkyRecord,
		RecordBroken:       goalsNeeded <= 0,
		ProjectedDate:      models.NoProjectedDate,
		ProjectedGameInfo:  models.NoGameInfo,
		SeasonEnd:          seasonEnd.Format("2006-01-02"),
		LastUpdated:        nowET.Format("2006-01-02 03:04:05 PM") + " ET",
		UpcomingGames:      snap.RemainingSchedule,
	}

	if goalsPerGame <= 0 {
		return d
	}

	gamesNeeded := math.Round(float64(goalsNeeded) / goalsPerGame)
	daysRemaining := int(seasonEnd.Sub(nowET).Hours() / 24)
	daysPerGame := float64(daysRemaining) / float64(max(gamesRemaining, 1))
	projected := nowET.Add(time.Duration(daysPerGame * gamesNeeded * 24 * float64(time.Hour)))
	d.ProjectedDate = projected.Format("01/02/2006")

	if game := nearestGame(snap.RemainingSchedule, projected); game != nil {
		d.ProjectedGame = game
		d.ProjectedGameInfo = game.Info()
	}
	return d
}

// nearestGame returns the schedule entry with the smallest non-negative
// day offset from the projected date. Ties keep the first entry in
// schedule order. When the projection lands after every remaining game,
// the chronologically last game is returned instead; an empty schedule
// yields nil.
func nearestGame(schedule []models.ScheduledGame, projected time.Time) *models.ScheduledGame {
	if len(schedule) == 0 {
		return nil
	}

	target := dateOnly(projected)
	var closest *models.ScheduledGame
	minDiff := time.Duration(math.MaxInt64)

	for i := range schedule {
		diff := dateOnly(schedule[i].Date).Sub(target)
		if diff >= 0 && diff < minDiff {
			minDiff = diff
			closest = &schedule[i]
		}
	}
	if closest != nil {
		return closest
	}

	// Past the whole schedule: fall back to the latest game.
	last := &schedule[0]
	for i := range schedule {
		if schedule[i].Date.After(last.Date) {
			last = &schedule[i]
		}
	}
	return last
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.In(eastern).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, eastern)
}
