package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/goalpost-app/tournament-platform/realtime"
	"github.com/goalpost-app/tournament-platform/repositories"
)

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	Start(ctx context.Context, matchID, userID int) (*models.Match, error)
	RecordResult(ctx context.Context, matchID, userID int, input ResultInput) (*models.Match, error)
	Reschedule(ctx context.Context, matchID, userID int, input RescheduleInput) (*models.Match, error)
}

type GoalInput struct {
	TeamID       int  `json:"team_id"`
	ScorerID     int  `json:"scorer_id"`
	AssistedByID *int `json:"assisted_by_id"`
	Minute       *int `json:"minute"`
}

type ResultInput struct {
	HomeScore int         `json:"home_score"`
	AwayScore int         `json:"away_score"`
	HomePens  *int        `json:"home_penalties"`
	AwayPens  *int        `json:"away_penalties"`
	Goals     []GoalInput `json:"goals"`
}

type RescheduleInput struct {
	KickoffAt *time.Time `json:"kickoff_at"`
	Pitch     *string    `json:"pitch"`
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.EventRepository
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	userRepo       repositories.UserRepository
	hub            *realtime.Hub
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	for _, ref := range []struct {
		id   *int
		team **models.Team
	}{
		{match.HomeTeamID, &match.HomeTeam},
		{match.AwayTeamID, &match.AwayTeam},
	} {
		if ref.id == nil {
			continue
		}
		team, err := s.teamRepo.GetByID(ctx, *ref.id)
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, err
		}
		*ref.team = team
	}
	return match, nil
}

func (s *matchService) Start(ctx context.Context, matchID, userID int) (*models.Match, error) {
	match, _, err := s.authorize(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if match.IsBye() {
		return nil, fmt.Errorf("%w: byes are never played", ErrMatchNotEditable)
	}
	if match.Status != models.MatchScheduled {
		return nil, fmt.Errorf("%w: match is %s", ErrMatchNotEditable, match.Status)
	}

	if err := s.matchRepo.UpdateStatus(ctx, nil, matchID, models.MatchLive); err != nil {
		return nil, err
	}
	match.Status = models.MatchLive
	s.hub.BroadcastToRoom(roomID(match.TournamentID), realtime.EventMatchUpdated, match)
	return match, nil
}

// RecordResult stores the final score and the goal events behind it in
// one transaction. Re-entering a result replaces the previous events.
// Goal events must add up to the recorded score per side.
func (s *matchService) RecordResult(ctx context.Context, matchID, userID int, input ResultInput) (*models.Match, error) {
	match, tournament, err := s.authorize(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if match.IsBye() {
		return nil, fmt.Errorf("%w: byes are never played", ErrMatchNotEditable)
	}
	if tournament.Status == models.StatusCompleted {
		return nil, ErrMatchNotEditable
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrValidationFailed
	}
	if (input.HomePens == nil) != (input.AwayPens == nil) {
		return nil, fmt.Errorf("%w: penalties must be recorded for both sides", ErrValidationFailed)
	}

	if err := s.validateGoals(match, input); err != nil {
		return nil, err
	}

	match.HomeScore = &input.HomeScore
	match.AwayScore = &input.AwayScore
	match.HomePens = input.HomePens
	match.AwayPens = input.AwayPens
	match.Status = models.MatchFinished

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.eventRepo.DeleteByMatch(ctx, tx, matchID); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return err
		}
		for _, goal := range input.Goals {
			scorer := &models.MatchScorer{
				MatchID:  matchID,
				TeamID:   goal.TeamID,
				PlayerID: goal.ScorerID,
				Minute:   goal.Minute,
			}
			if err := s.eventRepo.CreateScorer(ctx, tx, scorer); err != nil {
				return err
			}
			if goal.AssistedByID != nil {
				assist := &models.MatchAssist{
					MatchID:  matchID,
					TeamID:   goal.TeamID,
					PlayerID: *goal.AssistedByID,
					ScorerID: &scorer.ID,
				}
				if err := s.eventRepo.CreateAssist(ctx, tx, assist); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEventInvalidRef) {
			return nil, fmt.Errorf("%w: unknown player or team in goal events", ErrValidationFailed)
		}
		return nil, err
	}

	s.logger.Info("match result recorded",
		"match_id", matchID, "tournament_id", match.TournamentID,
		"score", fmt.Sprintf("%d-%d", input.HomeScore, input.AwayScore))
	s.hub.BroadcastToRoom(roomID(match.TournamentID), realtime.EventMatchUpdated, match)
	s.hub.BroadcastToRoom(roomID(match.TournamentID), realtime.EventStandingsChanged, nil)
	return match, nil
}

func (s *matchService) Reschedule(ctx context.Context, matchID, userID int, input RescheduleInput) (*models.Match, error) {
	match, _, err := s.authorize(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchFinished {
		return nil, ErrMatchNotEditable
	}

	var kickoff sql.NullTime
	if input.KickoffAt != nil {
		kickoff = sql.NullTime{Time: *input.KickoffAt, Valid: true}
		match.KickoffAt = *input.KickoffAt
	}
	if input.Pitch != nil {
		match.Pitch = input.Pitch
	}

	if err := s.matchRepo.UpdateSchedule(ctx, matchID, kickoff, input.Pitch); err != nil {
		return nil, err
	}
	s.hub.BroadcastToRoom(roomID(match.TournamentID), realtime.EventMatchUpdated, match)
	return match, nil
}

// validateGoals checks each goal names a side of this match and that the
// per-team goal counts equal the recorded score.
func (s *matchService) validateGoals(match *models.Match, input ResultInput) error {
	if len(input.Goals) == 0 {
		return nil
	}

	counts := map[int]int{}
	for _, goal := range input.Goals {
		validSide := (match.HomeTeamID != nil && goal.TeamID == *match.HomeTeamID) ||
			(match.AwayTeamID != nil && goal.TeamID == *match.AwayTeamID)
		if !validSide {
			return fmt.Errorf("%w: team %d is not playing this match", ErrValidationFailed, goal.TeamID)
		}
		counts[goal.TeamID]++
	}

	if match.HomeTeamID != nil && counts[*match.HomeTeamID] != input.HomeScore {
		return fmt.Errorf("%w: %d home goals recorded, score says %d",
			ErrScoreEventsMismatch, counts[*match.HomeTeamID], input.HomeScore)
	}
	if match.AwayTeamID != nil && counts[*match.AwayTeamID] != input.AwayScore {
		return fmt.Errorf("%w: %d away goals recorded, score says %d",
			ErrScoreEventsMismatch, counts[*match.AwayTeamID], input.AwayScore)
	}
	return nil
}

func (s *matchService) authorize(ctx context.Context, matchID, userID int) (*models.Match, *models.Tournament, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, nil, err
	}
	if tournament.OrganizerID == userID {
		return match, tournament, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user.Role == models.RoleAdmin {
		return match, tournament, nil
	}
	return nil, nil, ErrForbidden
}
