package sportsdb

// Team is an entry of search_all_teams.php.
type Team struct {
	ID        string `json:"idTeam"`
	LeagueID  string `json:"idLeague"`
	Name      string `json:"strTeam"`
	ShortName string `json:"strTeamShort"`
	Badge     string `json:"strBadge"`
}

// Event is an entry of eventsseason.php.
type Event struct {
	ID        string  `json:"idEvent"`
	Date      string  `json:"dateEvent"`
	Time      *string `json:"strTime"`
	HomeID    string  `json:"idHomeTeam"`
	HomeTeam  string  `json:"strHomeTeam"`
	AwayID    string  `json:"idAwayTeam"`
	AwayTeam  string  `json:"strAwayTeam"`
	HomeScore *string `json:"intHomeScore"`
	AwayScore *string `json:"intAwayScore"`
	Status    string  `json:"strStatus"`
	Round     *string `json:"intRound"`
}

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

type eventsResponse struct {
	Events []Event `json:"events"`
}

// LeagueConfig maps a local league to its upstream id and search name.
type LeagueConfig struct {
	ShortName   string `koanf:"short_name" json:"short_name"`
	ExternalID  string `koanf:"external_id" json:"external_id"`
	SearchName  string `koanf:"search_name" json:"search_name"`
	SearchSport string `koanf:"search_sport" json:"search_sport,omitempty"`
}
