package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound   = errors.New("match event not found")
	ErrEventInvalidRef = errors.New("invalid match, team or player reference")
)

// EventRepository stores per-goal rows: one scorer row per goal, with an
// optional linked assist row.
type EventRepository interface {
	CreateScorer(ctx context.Context, exec SQLExecutor, scorer *models.MatchScorer) error
	CreateAssist(ctx context.Context, exec SQLExecutor, assist *models.MatchAssist) error
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
	ListScorersByTournament(ctx context.Context, tournamentID int) ([]models.MatchScorer, error)
	ListAssistsByTournament(ctx context.Context, tournamentID int) ([]models.MatchAssist, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventRepository) CreateScorer(ctx context.Context, exec SQLExecutor, s *models.MatchScorer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_scorers (match_id, team_id, player_id, minute)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query, s.MatchID, s.TeamID, s.PlayerID, s.Minute).Scan(&s.ID)
	return r.handleEventError(err)
}

func (r *postgresEventRepository) CreateAssist(ctx context.Context, exec SQLExecutor, a *models.MatchAssist) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_assists (match_id, team_id, player_id, scorer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query, a.MatchID, a.TeamID, a.PlayerID, a.ScorerID).Scan(&a.ID)
	return r.handleEventError(err)
}

// DeleteByMatch removes every event of a match, e.g. before re-entering a
// corrected result.
func (r *postgresEventRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM match_assists WHERE match_id = $1`, matchID); err != nil {
		return err
	}
	_, err := executor.ExecContext(ctx, `DELETE FROM match_scorers WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresEventRepository) ListScorersByTournament(ctx context.Context, tournamentID int) ([]models.MatchScorer, error) {
	query := `
		SELECT s.id, s.match_id, s.team_id, s.player_id, s.minute
		FROM match_scorers s
		JOIN matches m ON m.id = s.match_id
		WHERE m.tournament_id = $1
		ORDER BY s.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scorers := make([]models.MatchScorer, 0)
	for rows.Next() {
		var s models.MatchScorer
		if err := rows.Scan(&s.ID, &s.MatchID, &s.TeamID, &s.PlayerID, &s.Minute); err != nil {
			return nil, err
		}
		scorers = append(scorers, s)
	}
	return scorers, rows.Err()
}

func (r *postgresEventRepository) ListAssistsByTournament(ctx context.Context, tournamentID int) ([]models.MatchAssist, error) {
	query := `
		SELECT a.id, a.match_id, a.team_id, a.player_id, a.scorer_id
		FROM match_assists a
		JOIN matches m ON m.id = a.match_id
		WHERE m.tournament_id = $1
		ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assists := make([]models.MatchAssist, 0)
	for rows.Next() {
		var a models.MatchAssist
		if err := rows.Scan(&a.ID, &a.MatchID, &a.TeamID, &a.PlayerID, &a.ScorerID); err != nil {
			return nil, err
		}
		assists = append(assists, a)
	}
	return assists, rows.Err()
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrEventInvalidRef
	}
	return err
}
