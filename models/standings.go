package models

// StandingsRow is a team's aggregated record within a league or group.
// Rows are derived from finished matches on every request and never
// persisted, so they cannot drift from match data.
type StandingsRow struct {
	TeamID       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_difference"`
	Points       int    `json:"points"`
	Rank         int    `json:"rank"`
}

// PlayerTally is one player's aggregated event totals across a tournament.
type PlayerTally struct {
	PlayerID    int    `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamID      int    `json:"team_id"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Appearances int    `json:"appearances"`
}

// TeamTally is one team's aggregated defensive record.
type TeamTally struct {
	TeamID      int    `json:"team_id"`
	TeamName    string `json:"team_name"`
	CleanSheets int    `json:"clean_sheets"`
}

// Leaderboards bundles the derived per-player and per-team tallies.
type Leaderboards struct {
	Goals       []PlayerTally `json:"goals"`
	Assists     []PlayerTally `json:"assists"`
	CleanSheets []TeamTally   `json:"clean_sheets"`
}
