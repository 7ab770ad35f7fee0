package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrForbidden        = errors.New("operation not allowed for the current user")

	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailConflict      = errors.New("email address is already in use")

	ErrTournamentNameRequired     = errors.New("tournament name is required")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidCapacity  = errors.New("tournament team limits are invalid")
	ErrTournamentInvalidFormat    = errors.New("invalid tournament format")
	ErrInvalidStatusTransition    = errors.New("invalid tournament status transition")
	ErrTournamentNotEditable      = errors.New("tournament can no longer be edited")

	ErrRegistrationNotOpen  = errors.New("tournament registration is not open")
	ErrRegistrationClosed   = errors.New("registration deadline has passed")
	ErrTournamentFull       = errors.New("tournament has no free team slots")
	ErrRegistrationConflict = errors.New("team is already registered for this tournament")
	ErrRegistrationNotPaid  = errors.New("registration fee has not been paid")

	ErrNotEnoughTeams      = errors.New("not enough confirmed teams to generate fixtures")
	ErrFixturesExist       = errors.New("fixtures already generated for this tournament")
	ErrFixturesNotReady    = errors.New("tournament is not ready for fixture generation")
	ErrStructureConflict   = errors.New("tournament structure changed, retry the operation")
	ErrGroupPhaseNotOver   = errors.New("group phase is not complete")
	ErrLeaguePhaseNotOver  = errors.New("league phase is not complete")
	ErrKnockoutNotSeeded   = errors.New("knockout phase has not been seeded")
	ErrMatchNotEditable    = errors.New("match result can no longer be changed")
	ErrScoreEventsMismatch = errors.New("goal events do not match the recorded score")
)
