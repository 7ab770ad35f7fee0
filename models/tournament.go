package models

import (
	"encoding/json"
	"time"
)

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	StatusDraft     TournamentStatus = "draft"
	StatusOpen      TournamentStatus = "open"
	StatusClosed    TournamentStatus = "closed"
	StatusCompleted TournamentStatus = "completed"
)

// Format is the closed set of competition formats. The fixture engine
// dispatches exhaustively over these values.
type Format string

const (
	FormatLeague      Format = "league"
	FormatKnockout    Format = "knockout"
	FormatCombination Format = "combination"
)

func (f Format) Valid() bool {
	switch f {
	case FormatLeague, FormatKnockout, FormatCombination:
		return true
	}
	return false
}

// CombinationType selects the combination sub-format stored in Structure.
type CombinationType string

const (
	// CombinationLeagueKnockout: one league table, top teams seed a bracket.
	CombinationLeagueKnockout CombinationType = "league_knockout"
	// CombinationGroupsKnockout: balanced groups, top two per group advance.
	CombinationGroupsKnockout CombinationType = "groups_knockout"
)

// TournamentStructure is the format-specific state blob persisted as JSONB.
// The knockout stage pointer is the only state the fixture engine advances;
// writers must go through the structure_version compare-and-swap.
type TournamentStructure struct {
	CombinationType     CombinationType `json:"combination_type,omitempty"`
	KnockoutStage       string          `json:"knockout_stage,omitempty"`
	SelectedMVPPlayerID *int            `json:"selected_mvp_player_id,omitempty"`
}

type Tournament struct {
	ID               int                 `json:"id" db:"id"`
	Name             string              `json:"name" db:"name"`
	Description      *string             `json:"description,omitempty" db:"description"`
	City             string              `json:"city" db:"city"`
	StartDate        time.Time           `json:"start_date" db:"start_date"`
	EndDate          time.Time           `json:"end_date" db:"end_date"`
	RegDeadline      *time.Time          `json:"registration_deadline,omitempty" db:"registration_deadline"`
	EntryFee         float64             `json:"entry_fee" db:"entry_fee"`
	TeamMin          int                 `json:"team_min" db:"team_min"`
	TeamMax          int                 `json:"team_max" db:"team_max"`
	OrganizerID      int                 `json:"organizer_id" db:"organizer_id"`
	Format           Format              `json:"format" db:"format"`
	Status           TournamentStatus    `json:"status" db:"status"`
	Structure        TournamentStructure `json:"structure" db:"structure"`
	StructureVersion int                 `json:"structure_version" db:"structure_version"`
	CreatedAt        time.Time           `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	// Optional linked entities, populated by services.
	Organizer     *User          `json:"organizer,omitempty" db:"-"`
	Registrations []Registration `json:"registrations,omitempty" db:"-"`
	Matches       []Match        `json:"matches,omitempty" db:"-"`
}

// StructureJSON marshals the structure blob for persistence.
func (t *Tournament) StructureJSON() (string, error) {
	raw, err := json.Marshal(t.Structure)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
