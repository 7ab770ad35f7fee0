package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/repositories"
	"github.com/goalpost-app/tournament-platform/storage"
)

type TeamService interface {
	Create(ctx context.Context, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, limit, offset int) ([]models.Team, error)
	Update(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	UploadCrest(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error)
	Delete(ctx context.Context, id int) error

	AddPlayer(ctx context.Context, teamID int, input PlayerInput) (*models.TeamPlayer, error)
	RemovePlayer(ctx context.Context, teamID, playerID int) error
}

type TeamInput struct {
	Name         string  `json:"name"`
	ManagerName  string  `json:"manager_name"`
	ManagerEmail string  `json:"manager_email"`
	Phone        *string `json:"phone"`
}

type PlayerInput struct {
	FirstName   string                `json:"first_name"`
	LastName    string                `json:"last_name"`
	Position    models.PlayerPosition `json:"position"`
	ShirtNumber *int                  `json:"shirt_number"`
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, playerRepo repositories.PlayerRepository, uploader storage.FileUploader) TeamService {
	return &teamService{teamRepo: teamRepo, playerRepo: playerRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*models.Team, error) {
	if input.Name == "" || input.ManagerName == "" || input.ManagerEmail == "" {
		return nil, ErrValidationFailed
	}
	team := &models.Team{
		Name:         input.Name,
		ManagerName:  input.ManagerName,
		ManagerEmail: input.ManagerEmail,
		Phone:        input.Phone,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, s.mapRepoError(err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	links, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Players = make([]models.Player, 0, len(links))
	for _, link := range links {
		if link.Player != nil {
			team.Players = append(team.Players, *link.Player)
		}
	}
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context, limit, offset int) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.populateCrestURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	if input.Name != "" {
		team.Name = input.Name
	}
	if input.ManagerName != "" {
		team.ManagerName = input.ManagerName
	}
	if input.ManagerEmail != "" {
		team.ManagerEmail = input.ManagerEmail
	}
	if input.Phone != nil {
		team.Phone = input.Phone
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, s.mapRepoError(err)
	}
	return team, nil
}

func (s *teamService) UploadCrest(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	key := fmt.Sprintf("teams/%d/crest", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team crest: %w", err)
	}

	if err := s.teamRepo.UpdateCrestKey(ctx, id, &result.Key); err != nil {
		return nil, s.mapRepoError(err)
	}
	team.CrestKey = &result.Key
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err)
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err)
	}
	if team.CrestKey != nil {
		// Best effort, the DB row is already gone.
		_ = s.uploader.Delete(ctx, *team.CrestKey)
	}
	return nil
}

func (s *teamService) AddPlayer(ctx context.Context, teamID int, input PlayerInput) (*models.TeamPlayer, error) {
	if input.FirstName == "" {
		return nil, ErrValidationFailed
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, s.mapRepoError(err)
	}

	player := &models.Player{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Position:  input.Position,
	}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, err
	}

	link := &models.TeamPlayer{
		TeamID:      teamID,
		PlayerID:    player.ID,
		ShirtNumber: input.ShirtNumber,
	}
	if err := s.playerRepo.AddToSquad(ctx, nil, link); err != nil {
		if errors.Is(err, repositories.ErrShirtNumberTaken) {
			return nil, fmt.Errorf("%w: shirt number taken", ErrValidationFailed)
		}
		return nil, err
	}
	link.Player = player
	return link, nil
}

func (s *teamService) RemovePlayer(ctx context.Context, teamID, playerID int) error {
	if err := s.playerRepo.RemoveFromSquad(ctx, teamID, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) populateCrestURL(team *models.Team) {
	if team.CrestKey != nil && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*team.CrestKey); url != "" {
			team.CrestURL = &url
		}
	}
}

func (s *teamService) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return fmt.Errorf("%w: team name already used", ErrValidationFailed)
	default:
		return err
	}
}
