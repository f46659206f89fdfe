package models

// StatsBundle packages the derived stats in the two presentation shapes
// served by the HTTP handler. Field names match the wire format the
// website and email templates were built against, quirks included.
type StatsBundle struct {
	Flat   FlatStats   `json:"flat_stats"`
	Nested NestedStats `json:"nested_stats"`
}

// FlatStats is the flat key/value shape returned for format=flat.
type FlatStats map[string]any

// NestedStats is the structured shape returned for format=nested.
type NestedStats struct {
	Player   PlayerStats   `json:"player"`
	Season   SeasonStats   `json:"season"`
	Team     TeamStats     `json:"team"`
	Record   RecordStats   `json:"record"`
	Progress ProgressStats `json:"progress"`
	Meta     MetaStats     `json:"meta"`
}

type PlayerStats struct {
	Name          string  `json:"name"`
	Goals         int     `json:"goals"`
	GretzkyRecord int     `json:"gretzky_record"`
	GamesPlayed   int     `json:"games_played"`
	Team          string  `json:"team"`
	GoalsNeeded   int     `json:"goals_needed"`
	GoalsPerGame  float64 `json:"goals_per_game"`
}

type SeasonStats struct {
	GoalsThisSeason int     `json:"goals_this_season"`
	GamesPlayed     int     `json:"games_played"`
	GamesMissed     int     `json:"games_missed"`
	TotalGames      int     `json:"total_games"`
	RemainingGames  int     `json:"remaining_games"`
	GoalsPerGame    float64 `json:"goals_per_game"`
}

type TeamStats struct {
	Name          string         `json:"name"`
	Record        string         `json:"record"`
	UpcomingGames []UpcomingGame `json:"upcoming_games"`
}

type UpcomingGame struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Opponent string `json:"opponent"`
	Location string `json:"location"`
}

type RecordStats struct {
	CurrentHolder string        `json:"current_holder"`
	RecordGoals   int           `json:"record_goals"`
	ProjectedDate string        `json:"projected_date"`
	ProjectedGame ProjectedGame `json:"projected_game"`
	RecordBroken  bool          `json:"record_broken"`
}

// ProjectedGame is the structured form of the record-breaking game. All
// fields are empty when no game qualifies.
type ProjectedGame struct {
	FullString string `json:"full_string,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
	Opponent   string `json:"opponent,omitempty"`
	Location   string `json:"location,omitempty"`
	RawDate    string `json:"raw_date,omitempty"`
}

type ProgressStats struct {
	Percentage         float64 `json:"percentage"`
	GoalsNeeded        int     `json:"goals_needed"`
	GoalsPerGameNeeded float64 `json:"goals_per_game_needed"`
}

type MetaStats struct {
	LastUpdated string `json:"last_updated"`
	DataSource  string `json:"data_source"`
	SeasonEnd   string `json:"season_end"`
}

// BuildBundle derives both presentation shapes from one DerivedStats value.
func BuildBundle(d DerivedStats) StatsBundle {
	flat := FlatStats{
		"Games Ovie Played":                             d.PlayerGamesPlayed,
		"Games Ovie Missed":                             d.GamesMissed,
		"Games in Season":                               d.SeasonGames,
		"Games Caps Played":                             d.TeamGamesPlayed,
		"Remaining Games":                               d.GamesRemaining,
		"Goals Scored 24-25":                            d.GoalsThisSeason,
		"Total Number of Goals at Beginning of Season":  d.GoalsAtSeasonStart,
		"Total Number of Goals":                         d.TotalGoals,
		"Ovie # of Goals per game":                      round2(d.GoalsPerGame),
		"Gretzy Goals Record":                           d.RecordGoals,
		"Goals to Beat Gretzy":                          d.GoalsNeeded,
		"Projected Remaining Goals this Season":         d.ProjectedRemaining,
		"Last game of Season":                           d.SeasonEnd,
		"Projected Date of Record-Breaking Goal":        d.ProjectedDate,
		"Projected Record-Breaking Game":                d.ProjectedGameInfo,
		"Last Updated":                                  d.LastUpdated,
	}

	upcoming := make([]UpcomingGame, 0, 5)
	for _, g := range d.UpcomingGames {
		if len(upcoming) == 5 {
			break
		}
		upcoming = append(upcoming, UpcomingGame{
			Date:     g.DisplayDate(),
			Time:     g.LocalTime,
			Opponent: g.Opponent,
			Location: g.Location(),
		})
	}

	var projected ProjectedGame
	if d.ProjectedGame != nil {
		projected = ProjectedGame{
			FullString: d.ProjectedGame.Info(),
			Date:       d.ProjectedGame.DisplayDate(),
			Time:       d.ProjectedGame.LocalTime,
			Opponent:   d.ProjectedGame.Opponent,
			Location:   d.ProjectedGame.Location(),
			RawDate:    d.ProjectedGame.Date.Format("2006-01-02"),
		}
	}

	nested := NestedStats{
		Player: PlayerStats{
			Name:          "Alex Ovechkin",
			Goals:         d.TotalGoals,
			GretzkyRecord: d.RecordGoals,
			GamesPlayed:   CareerGamesPlayed,
			Team:          "Washington Capitals",
			GoalsNeeded:   d.GoalsNeeded,
			GoalsPerGame:  round3(float64(d.TotalGoals) / CareerGamesPlayed),
		},
		Season: SeasonStats{
			GoalsThisSeason: d.GoalsThisSeason,
			GamesPlayed:     d.PlayerGamesPlayed,
			GamesMissed:     d.GamesMissed,
			TotalGames:      d.SeasonGames,
			RemainingGames:  d.GamesRemaining,
			GoalsPerGame:    round3(d.GoalsPerGame),
		},
		Team: TeamStats{
			Name:          "Washington Capitals",
			Record:        "N/A",
			UpcomingGames: upcoming,
		},
		Record: RecordStats{
			CurrentHolder: "Wayne Gretzky",
			RecordGoals:   d.RecordGoals,
			ProjectedDate: d.ProjectedDate,
			ProjectedGame: projected,
			RecordBroken:  d.RecordBroken,
		},
		Progress: ProgressStats{
			Percentage:         d.ProgressPct(),
			GoalsNeeded:        d.GoalsNeeded,
			GoalsPerGameNeeded: round2(float64(d.GoalsNeeded) / float64(max(d.GamesRemaining, 1))),
		},
		Meta: MetaStats{
			LastUpdated: d.LastUpdated,
			DataSource:  "NHL API",
			SeasonEnd:   d.SeasonEnd,
		},
	}

	return StatsBundle{Flat: flat, Nested: nested}
}
