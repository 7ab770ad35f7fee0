package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/realtime"
	"github.com/goalpost-app/tournament-platform/repositories"
	"github.com/goalpost-app/tournament-platform/storage"
	"golang.org/x/sync/errgroup"
)

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetDetails(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, id, userID int, input UpdateTournamentInput) (*models.Tournament, error)
	ChangeStatus(ctx context.Context, id, userID int, status models.TournamentStatus) (*models.Tournament, error)
	AutoCloseExpiredRegistrations(ctx context.Context) error
	UploadLogo(ctx context.Context, id, userID int, contentType string, file io.Reader) (*models.Tournament, error)
	Delete(ctx context.Context, id, userID int) error
}

type CreateTournamentInput struct {
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	City        string                  `json:"city"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     time.Time               `json:"end_date"`
	RegDeadline *time.Time              `json:"registration_deadline"`
	EntryFee    float64                 `json:"entry_fee"`
	TeamMin     int                     `json:"team_min"`
	TeamMax     int                     `json:"team_max"`
	Format      models.Format           `json:"format"`
	Combination *models.CombinationType `json:"combination_type"`
}

type UpdateTournamentInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	City        *string    `json:"city"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	RegDeadline *time.Time `json:"registration_deadline"`
	EntryFee    *float64   `json:"entry_fee"`
	TeamMin     *int       `json:"team_min"`
	TeamMax     *int       `json:"team_max"`
}

type tournamentService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	matchRepo        repositories.MatchRepository
	userRepo         repositories.UserRepository
	uploader         storage.FileUploader
	hub              *realtime.Hub
	logger           *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	hub *realtime.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		matchRepo:        matchRepo,
		userRepo:         userRepo,
		uploader:         uploader,
		hub:              hub,
		logger:           logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if !input.Format.Valid() {
		return nil, ErrTournamentInvalidFormat
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}
	if input.TeamMin < 2 || input.TeamMax < input.TeamMin {
		return nil, ErrTournamentInvalidCapacity
	}

	structure := models.TournamentStructure{}
	if input.Format == models.FormatCombination {
		if input.Combination == nil {
			return nil, fmt.Errorf("%w: combination tournaments need a combination type", ErrValidationFailed)
		}
		structure.CombinationType = *input.Combination
	}

	t := &models.Tournament{
		Name:        input.Name,
		Description: input.Description,
		City:        input.City,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		RegDeadline: input.RegDeadline,
		EntryFee:    input.EntryFee,
		TeamMin:     input.TeamMin,
		TeamMax:     input.TeamMax,
		OrganizerID: organizerID,
		Format:      input.Format,
		Status:      models.StatusDraft,
		Structure:   structure,
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, s.mapRepoError(err)
	}
	s.logger.Info("tournament created", "tournament_id", t.ID, "format", t.Format, "organizer_id", organizerID)
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	s.populateLogoURL(t)
	return t, nil
}

// GetDetails loads the tournament with its organizer, registrations and
// schedule in parallel.
func (s *tournamentService) GetDetails(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		organizer, err := s.userRepo.GetByID(gctx, t.OrganizerID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil
			}
			return err
		}
		organizer.PasswordHash = ""
		t.Organizer = organizer
		return nil
	})
	g.Go(func() error {
		registrations, err := s.registrationRepo.ListByTournament(gctx, id)
		if err != nil {
			return err
		}
		t.Registrations = registrations
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, nil, id)
		if err != nil {
			return err
		}
		t.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament details: %w", err)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		s.populateLogoURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id, userID int, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.authorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentNotEditable
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTournamentNameRequired
		}
		t.Name = *input.Name
	}
	if input.Description != nil {
		t.Description = input.Description
	}
	if input.City != nil {
		t.City = *input.City
	}
	if input.StartDate != nil {
		t.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		t.EndDate = *input.EndDate
	}
	if input.RegDeadline != nil {
		t.RegDeadline = input.RegDeadline
	}
	if input.EntryFee != nil {
		t.EntryFee = *input.EntryFee
	}
	if input.TeamMin != nil {
		t.TeamMin = *input.TeamMin
	}
	if input.TeamMax != nil {
		t.TeamMax = *input.TeamMax
	}

	if !t.EndDate.After(t.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}
	if t.TeamMin < 2 || t.TeamMax < t.TeamMin {
		return nil, ErrTournamentInvalidCapacity
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, s.mapRepoError(err)
	}
	s.hub.BroadcastToRoom(roomID(id), realtime.EventTournamentUpdated, t)
	return t, nil
}

// validStatusTransitions is the one-directional lifecycle:
// draft -> open -> closed -> completed.
var validStatusTransitions = map[models.TournamentStatus]models.TournamentStatus{
	models.StatusDraft:  models.StatusOpen,
	models.StatusOpen:   models.StatusClosed,
	models.StatusClosed: models.StatusCompleted,
}

func (s *tournamentService) ChangeStatus(ctx context.Context, id, userID int, status models.TournamentStatus) (*models.Tournament, error) {
	t, err := s.authorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if next, ok := validStatusTransitions[t.Status]; !ok || next != status {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, status)
	}

	if status == models.StatusClosed {
		count, err := s.registrationRepo.CountActiveByTournament(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		if count < t.TeamMin {
			return nil, fmt.Errorf("%w: %d registered, minimum %d", ErrNotEnoughTeams, count, t.TeamMin)
		}
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, s.mapRepoError(err)
	}
	t.Status = status
	s.logger.Info("tournament status changed", "tournament_id", id, "status", status)
	s.hub.BroadcastToRoom(roomID(id), realtime.EventTournamentUpdated, t)
	return t, nil
}

// AutoCloseExpiredRegistrations closes registration for open tournaments
// whose deadline has passed and that already have enough teams. Tournaments
// below the minimum stay open so organizers can extend the deadline or
// cancel. Called periodically by the scheduler.
func (s *tournamentService) AutoCloseExpiredRegistrations(ctx context.Context) error {
	status := models.StatusOpen
	open, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Status: &status})
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range open {
		t := &open[i]
		if t.RegDeadline == nil || t.RegDeadline.After(now) {
			continue
		}
		count, err := s.registrationRepo.CountActiveByTournament(ctx, nil, t.ID)
		if err != nil {
			s.logger.Error("auto-close: counting registrations failed", "tournament_id", t.ID, "error", err)
			continue
		}
		if count < t.TeamMin {
			s.logger.Warn("auto-close: deadline passed but not enough teams",
				"tournament_id", t.ID, "registered", count, "minimum", t.TeamMin)
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, models.StatusClosed); err != nil {
			s.logger.Error("auto-close: status update failed", "tournament_id", t.ID, "error", err)
			continue
		}
		t.Status = models.StatusClosed
		s.logger.Info("registration auto-closed", "tournament_id", t.ID, "registered", count)
		s.hub.BroadcastToRoom(roomID(t.ID), realtime.EventTournamentUpdated, t)
	}
	return nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id, userID int, contentType string, file io.Reader) (*models.Tournament, error) {
	t, err := s.authorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournaments/%d/logo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}

	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, s.mapRepoError(err)
	}
	t.LogoKey = &result.Key
	s.populateLogoURL(t)
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id, userID int) error {
	t, err := s.authorize(ctx, id, userID)
	if err != nil {
		return err
	}
	if t.Status != models.StatusDraft {
		return ErrTournamentNotEditable
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err)
	}
	if t.LogoKey != nil {
		if err := s.uploader.Delete(ctx, *t.LogoKey); err != nil {
			s.logger.Warn("failed to delete tournament logo from storage", "tournament_id", id, "error", err)
		}
	}
	return nil
}

// authorize loads the tournament and checks the acting user owns it.
// Admins bypass the ownership check.
func (s *tournamentService) authorize(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	if t.OrganizerID == userID {
		return t, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return t, nil
	}
	return nil, ErrForbidden
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if t.LogoKey != nil && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*t.LogoKey); url != "" {
			t.LogoURL = &url
		}
	}
}

func (s *tournamentService) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return fmt.Errorf("%w: tournament name already used", ErrValidationFailed)
	case errors.Is(err, repositories.ErrStructureConflict):
		return ErrStructureConflict
	default:
		return err
	}
}

func roomID(tournamentID int) string {
	return fmt.Sprintf("tournament:%d", tournamentID)
}
