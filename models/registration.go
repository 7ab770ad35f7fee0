package models

import "time"

// RegistrationStatus mirrors the registration_status ENUM in the database.
// Only paid registrations are eligible input to fixture generation.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationPaid      RegistrationStatus = "paid"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

type Registration struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	TeamID       int                `json:"team_id" db:"team_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	PaidAmount   float64            `json:"paid_amount" db:"paid_amount"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
