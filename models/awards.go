package models

// TeamAward references a team holding a podium position.
type TeamAward struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Position int    `json:"position"`
}

// PlayerAward references a player leading one statistical category.
type PlayerAward struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int    `json:"team_id"`
	Tally      int    `json:"tally"`
}

// MVPAward carries the breakdown behind the MVP pick. Manual reports
// whether the organizer overrode the computed selection.
type MVPAward struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int    `json:"team_id"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Score      int    `json:"score"`
	Manual     bool   `json:"manual"`
}

// AwardSet is the derived set of tournament awards. Any slot may be nil
// when the underlying data does not determine it: an empty AwardSet is a
// normal early-tournament state, not an error.
type AwardSet struct {
	Winner          *TeamAward   `json:"winner,omitempty"`
	RunnerUp        *TeamAward   `json:"runner_up,omitempty"`
	ThirdPlace      *TeamAward   `json:"third_place,omitempty"`
	TopScorer       *PlayerAward `json:"top_scorer,omitempty"`
	TopAssister     *PlayerAward `json:"top_assister,omitempty"`
	CleanSheetsBest *TeamTally   `json:"clean_sheets_leader,omitempty"`
	MVP             *MVPAward    `json:"mvp,omitempty"`
}
