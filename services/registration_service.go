package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/repositories"
)

type RegistrationService interface {
	Register(ctx context.Context, tournamentID, teamID int) (*models.Registration, error)
	MarkPaid(ctx context.Context, registrationID, userID int, amount float64) (*models.Registration, error)
	Cancel(ctx context.Context, registrationID, userID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error)
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	teamRepo         repositories.TeamRepository
	userRepo         repositories.UserRepository
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

func (s *registrationService) Register(ctx context.Context, tournamentID, teamID int) (*models.Registration, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if tournament.Status != models.StatusOpen {
		return nil, ErrRegistrationNotOpen
	}
	if tournament.RegDeadline != nil && time.Now().After(*tournament.RegDeadline) {
		return nil, ErrRegistrationClosed
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	count, err := s.registrationRepo.CountActiveByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	if count >= tournament.TeamMax {
		return nil, ErrTournamentFull
	}

	registration := &models.Registration{
		TournamentID: tournamentID,
		TeamID:       teamID,
		Status:       models.RegistrationPending,
	}
	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		if errors.Is(err, repositories.ErrRegistrationDuplicate) {
			return nil, ErrRegistrationConflict
		}
		if errors.Is(err, repositories.ErrRegistrationInvalidRef) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.logger.Info("team registered", "tournament_id", tournamentID, "team_id", teamID, "registration_id", registration.ID)
	return registration, nil
}

func (s *registrationService) MarkPaid(ctx context.Context, registrationID, userID int, amount float64) (*models.Registration, error) {
	registration, err := s.authorize(ctx, registrationID, userID)
	if err != nil {
		return nil, err
	}
	if registration.Status == models.RegistrationCancelled {
		return nil, fmt.Errorf("%w: registration is cancelled", ErrValidationFailed)
	}

	if err := s.registrationRepo.UpdateStatus(ctx, nil, registrationID, models.RegistrationPaid, &amount); err != nil {
		return nil, err
	}
	registration.Status = models.RegistrationPaid
	registration.PaidAmount = amount
	s.logger.Info("registration paid", "registration_id", registrationID, "amount", amount)
	return registration, nil
}

func (s *registrationService) Cancel(ctx context.Context, registrationID, userID int) error {
	registration, err := s.authorize(ctx, registrationID, userID)
	if err != nil {
		return err
	}

	// Once fixtures exist nobody leaves through cancellation.
	tournament, err := s.tournamentRepo.GetByID(ctx, registration.TournamentID)
	if err != nil {
		return err
	}
	if tournament.Status != models.StatusOpen && tournament.Status != models.StatusDraft {
		return fmt.Errorf("%w: tournament registration window is over", ErrValidationFailed)
	}

	return s.registrationRepo.UpdateStatus(ctx, nil, registrationID, models.RegistrationCancelled, nil)
}

func (s *registrationService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	return s.registrationRepo.ListByTournament(ctx, tournamentID)
}

// authorize checks the acting user organizes the tournament the
// registration belongs to, or is an admin.
func (s *registrationService) authorize(ctx context.Context, registrationID, userID int) (*models.Registration, error) {
	registration, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, registration.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID == userID {
		return registration, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return registration, nil
	}
	return nil, ErrForbidden
}
