package nhl

// Response payloads for the api-web.nhle.com endpoints. Only the fields
// the tracker reads are declared; absent fields decode to zero values.

type playerLanding struct {
	CareerTotals struct {
		RegularSeason struct {
			Goals int `json:"goals"`
		} `json:"regularSeason"`
	} `json:"careerTotals"`
	FeaturedStats struct {
		RegularSeason struct {
			SubSeason struct {
				GamesPlayed int `json:"gamesPlayed"`
				Goals       int `json:"goals"`
			} `json:"subSeason"`
		} `json:"regularSeason"`
	} `json:"featuredStats"`
}

type standingsResponse struct {
	Standings []struct {
		TeamAbbrev struct {
			Default string `json:"default"`
		} `json:"teamAbbrev"`
		GamesPlayed int `json:"gamesPlayed"`
	} `json:"standings"`
}

type clubScheduleResponse struct {
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GameDate     string       `json:"gameDate"`
	StartTimeUTC string       `json:"startTimeUTC"`
	HomeTeam     scheduleTeam `json:"homeTeam"`
	AwayTeam     scheduleTeam `json:"awayTeam"`
}

type scheduleTeam struct {
	Abbrev    string `json:"abbrev"`
	PlaceName struct {
		Default string `json:"default"`
	} `json:"placeName"`
	CommonName struct {
		Default string `json:"default"`
	} `json:"commonName"`
}
