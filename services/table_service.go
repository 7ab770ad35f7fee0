package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/goalpost-app/tournament-platform/engine"
	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/repositories"
	"golang.org/x/sync/errgroup"
)

// TableService serves the derived views: standings, leaderboards and
// awards. Everything here is computed from match data on request.
type TableService interface {
	Standings(ctx context.Context, tournamentID int) (*StandingsView, error)
	Leaderboards(ctx context.Context, tournamentID int) (*models.Leaderboards, error)
	Awards(ctx context.Context, tournamentID int) (*models.AwardSet, error)
	SelectMVP(ctx context.Context, tournamentID, userID int, playerID *int) error
}

// StandingsView is either one overall table or one table per group,
// depending on the tournament's format.
type StandingsView struct {
	Overall []models.StandingsRow  `json:"overall,omitempty"`
	Groups  []engine.GroupStanding `json:"groups,omitempty"`
}

type tableService struct {
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	matchRepo        repositories.MatchRepository
	teamRepo         repositories.TeamRepository
	playerRepo       repositories.PlayerRepository
	eventRepo        repositories.EventRepository
	userRepo         repositories.UserRepository
}

func NewTableService(
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
) TableService {
	return &tableService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		matchRepo:        matchRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
	}
}

func (s *tableService) Standings(ctx context.Context, tournamentID int) (*StandingsView, error) {
	tournament, teams, matches, err := s.loadBase(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	groupsKnockout := tournament.Format == models.FormatCombination &&
		tournament.Structure.CombinationType == models.CombinationGroupsKnockout
	if groupsKnockout {
		groups := groupsFromMatches(matches)
		return &StandingsView{Groups: engine.GroupStandings(groups, teams, matches)}, nil
	}

	if tournament.Format == models.FormatKnockout {
		return nil, fmt.Errorf("%w: knockout tournaments have no standings table", ErrValidationFailed)
	}

	return &StandingsView{Overall: engine.ComputeStandings(teams, matches)}, nil
}

func (s *tableService) Leaderboards(ctx context.Context, tournamentID int) (*models.Leaderboards, error) {
	input, err := s.loadStats(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	boards := engine.ComputeLeaderboards(*input)
	return &boards, nil
}

func (s *tableService) Awards(ctx context.Context, tournamentID int) (*models.AwardSet, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	input, err := s.loadStats(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	boards := engine.ComputeLeaderboards(*input)

	var standings []models.StandingsRow
	if tournament.Format == models.FormatLeague {
		standings = engine.ComputeStandings(input.Teams, input.Matches)
	}

	set, err := engine.ResolveAwards(engine.AwardsInput{
		Format:              tournament.Format,
		Teams:               input.Teams,
		Players:             input.Players,
		Standings:           standings,
		Matches:             input.Matches,
		Leaderboards:        boards,
		SelectedMVPPlayerID: tournament.Structure.SelectedMVPPlayerID,
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// SelectMVP records a manual MVP pick, or clears it with a nil player id.
// Stored in the structure blob under the version check like every other
// structure write.
func (s *tableService) SelectMVP(ctx context.Context, tournamentID, userID int, playerID *int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrNotFound
		}
		return err
	}
	if tournament.OrganizerID != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user.Role != models.RoleAdmin {
			return ErrForbidden
		}
	}

	if playerID != nil {
		if _, err := s.playerRepo.GetByID(ctx, *playerID); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return fmt.Errorf("%w: unknown player", ErrValidationFailed)
			}
			return err
		}
	}

	structure := tournament.Structure
	structure.SelectedMVPPlayerID = playerID
	err = s.tournamentRepo.UpdateStructureCAS(ctx, nil, tournamentID, structure, tournament.StructureVersion)
	if errors.Is(err, repositories.ErrStructureConflict) {
		return ErrStructureConflict
	}
	return err
}

func (s *tableService) loadBase(ctx context.Context, tournamentID int) (*models.Tournament, []models.Team, []models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var (
		teams   []models.Team
		matches []models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		registrations, err := s.registrationRepo.ListByTournament(gctx, tournamentID)
		if err != nil {
			return err
		}
		ids := make([]int, 0, len(registrations))
		for _, reg := range registrations {
			if reg.Status == models.RegistrationPaid {
				ids = append(ids, reg.TeamID)
			}
		}
		teams, err = s.teamRepo.GetByIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return tournament, teams, matches, nil
}

func (s *tableService) loadStats(ctx context.Context, tournamentID int) (*engine.StatsInput, error) {
	_, teams, matches, err := s.loadBase(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	input := &engine.StatsInput{Teams: teams, Matches: matches}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		input.Players, err = s.playerRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		input.Scorers, err = s.eventRepo.ListScorersByTournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		input.Assists, err = s.eventRepo.ListAssistsByTournament(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return input, nil
}
