package models

import "time"

// MatchStatus mirrors the match_status ENUM in the database.
// Transitions are one-directional: scheduled -> live -> finished.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
)

// Match is a single fixture. Either team reference may be nil: a nil away
// side on a knockout match denotes a bye, and both may be nil for a slot
// awaiting an earlier match's winner. Stage carries the round label the
// engine generated, e.g. "Round 3", "Group A - Round 2", "Quarter-Finals".
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Stage        string      `json:"stage" db:"stage"`
	HomeTeamID   *int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   *int        `json:"away_team_id" db:"away_team_id"`
	KickoffAt    time.Time   `json:"kickoff_at" db:"kickoff_at"`
	Pitch        *string     `json:"pitch,omitempty" db:"pitch"`
	HomeScore    *int        `json:"home_score" db:"home_score"`
	AwayScore    *int        `json:"away_score" db:"away_score"`
	HomePens     *int        `json:"home_penalties,omitempty" db:"home_penalties"`
	AwayPens     *int        `json:"away_penalties,omitempty" db:"away_penalties"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

// IsBye reports whether the match is a bye slot: one side seeded, the other
// empty. Byes are stored finished and never played.
func (m *Match) IsBye() bool {
	return (m.HomeTeamID != nil) != (m.AwayTeamID != nil)
}

// MatchScorer records one goal. Each goal is its own row; a hat-trick is
// three rows.
type MatchScorer struct {
	ID       int  `json:"id" db:"id"`
	MatchID  int  `json:"match_id" db:"match_id"`
	TeamID   int  `json:"team_id" db:"team_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	Minute   *int `json:"minute,omitempty" db:"minute"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// MatchAssist records the assist for one goal, optionally linked to the
// scorer row it set up.
type MatchAssist struct {
	ID       int  `json:"id" db:"id"`
	MatchID  int  `json:"match_id" db:"match_id"`
	TeamID   int  `json:"team_id" db:"team_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	ScorerID *int `json:"scorer_id,omitempty" db:"scorer_id"`

	Player *Player `json:"player,omitempty" db:"-"`
}
