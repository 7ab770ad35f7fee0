package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/repositories"
)

// SimulationService fills in random results for the remaining scheduled
// matches of a tournament. Meant for demos and staging data, wired in
// behind an admin-only route.
type SimulationService interface {
	SimulateRound(ctx context.Context, tournamentID, userID int) (int, error)
}

type simulationService struct {
	matchRepo    repositories.MatchRepository
	playerRepo   repositories.PlayerRepository
	matchService MatchService
	logger       *slog.Logger
}

func NewSimulationService(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	matchService MatchService,
	logger *slog.Logger,
) SimulationService {
	return &simulationService{
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		matchService: matchService,
		logger:       logger,
	}
}

// SimulateRound finishes every currently scheduled match with a random
// score and matching scorer/assist events, so leaderboards and awards get
// data too. Knockout draws get a penalty shootout so the round always
// resolves. Returns the number of matches simulated.
func (s *simulationService) SimulateRound(ctx context.Context, tournamentID, userID int) (int, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return 0, err
	}

	squads := map[int][]models.TeamPlayer{}
	squad := func(teamID int) ([]models.TeamPlayer, error) {
		if players, ok := squads[teamID]; ok {
			return players, nil
		}
		players, err := s.playerRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		squads[teamID] = players
		return players, nil
	}

	simulated := 0
	for _, m := range matches {
		if m.Status != models.MatchScheduled || m.IsBye() {
			continue
		}

		input := ResultInput{
			HomeScore: rand.Intn(5),
			AwayScore: rand.Intn(5),
		}
		if input.HomeScore == input.AwayScore {
			homePens := 3 + rand.Intn(3)
			awayPens := homePens
			for awayPens == homePens {
				awayPens = 2 + rand.Intn(4)
			}
			input.HomePens = &homePens
			input.AwayPens = &awayPens
		}

		input.Goals, err = s.randomGoals(&m, input.HomeScore, input.AwayScore, squad)
		if err != nil {
			return simulated, err
		}

		if _, err := s.matchService.RecordResult(ctx, m.ID, userID, input); err != nil {
			return simulated, fmt.Errorf("failed to simulate match %d: %w", m.ID, err)
		}
		simulated++
	}

	s.logger.Info("round simulated", "tournament_id", tournamentID, "matches", simulated)
	return simulated, nil
}

// randomGoals attributes every goal of the score to a random squad
// member, with an occasional assist from a teammate. Result entry
// requires events to account for the full score or not at all, so any
// side without a registered squad means a score-only result.
func (s *simulationService) randomGoals(m *models.Match, homeScore, awayScore int, squad func(int) ([]models.TeamPlayer, error)) ([]GoalInput, error) {
	sides := []struct {
		teamID *int
		goals  int
	}{
		{m.HomeTeamID, homeScore},
		{m.AwayTeamID, awayScore},
	}

	var goals []GoalInput
	for _, side := range sides {
		if side.goals == 0 {
			continue
		}
		if side.teamID == nil {
			return nil, nil
		}
		players, err := squad(*side.teamID)
		if err != nil {
			return nil, err
		}
		if len(players) == 0 {
			return nil, nil
		}

		for i := 0; i < side.goals; i++ {
			scorer := players[rand.Intn(len(players))]
			minute := 1 + rand.Intn(90)
			goal := GoalInput{
				TeamID:   *side.teamID,
				ScorerID: scorer.PlayerID,
				Minute:   &minute,
			}
			if len(players) > 1 && rand.Intn(2) == 0 {
				assister := players[rand.Intn(len(players))]
				for assister.PlayerID == scorer.PlayerID {
					assister = players[rand.Intn(len(players))]
				}
				goal.AssistedByID = &assister.PlayerID
			}
			goals = append(goals, goal)
		}
	}
	return goals, nil
}
