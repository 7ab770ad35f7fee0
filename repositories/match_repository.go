package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchInvalidRef = errors.New("invalid tournament or team reference")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSchedule(ctx context.Context, id int, kickoffAt sql.NullTime, pitch *string) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteByStagePrefix(ctx context.Context, exec SQLExecutor, tournamentID int, stagePrefix string) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (
			tournament_id, stage, home_team_id, away_team_id, kickoff_at, pitch,
			home_score, away_score, home_penalties, away_penalties, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		m.TournamentID, m.Stage, m.HomeTeamID, m.AwayTeamID, m.KickoffAt, m.Pitch,
		m.HomeScore, m.AwayScore, m.HomePens, m.AwayPens, m.Status,
	).Scan(&m.ID, &m.CreatedAt)
	return r.handleMatchError(err)
}

// CreateBatch inserts a generated round inside the caller's transaction so
// a failure leaves no partial schedule behind.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	for _, m := range matches {
		if err := r.Create(ctx, exec, m); err != nil {
			return fmt.Errorf("failed to insert match %q: %w", m.Stage, err)
		}
	}
	return nil
}

const matchColumns = `
	m.id, m.tournament_id, m.stage, m.home_team_id, m.away_team_id,
	m.kickoff_at, m.pitch, m.home_score, m.away_score,
	m.home_penalties, m.away_penalties, m.status, m.created_at`

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches m WHERE m.id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.HomeTeamID, &m.AwayTeamID,
		&m.KickoffAt, &m.Pitch, &m.HomeScore, &m.AwayScore,
		&m.HomePens, &m.AwayPens, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + `
		FROM matches m
		WHERE m.tournament_id = $1
		ORDER BY m.kickoff_at, m.id`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Stage, &m.HomeTeamID, &m.AwayTeamID,
			&m.KickoffAt, &m.Pitch, &m.HomeScore, &m.AwayScore,
			&m.HomePens, &m.AwayPens, &m.Status, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			home_score = $1,
			away_score = $2,
			home_penalties = $3,
			away_penalties = $4,
			status = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		m.HomeScore, m.AwayScore, m.HomePens, m.AwayPens, m.Status, m.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, id int, kickoffAt sql.NullTime, pitch *string) error {
	query := `
		UPDATE matches SET
			kickoff_at = COALESCE($1, kickoff_at),
			pitch = COALESCE($2, pitch)
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, kickoffAt, pitch, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// DeleteByTournament clears the whole schedule, goal events cascading
// with it. Returns the number of matches removed.
func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(affected), nil
}

// DeleteByStagePrefix removes all of a tournament's matches whose stage
// label starts with the given prefix, e.g. "Group A".
func (r *postgresMatchRepository) DeleteByStagePrefix(ctx context.Context, exec SQLExecutor, tournamentID int, stagePrefix string) (int, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1 AND stage LIKE $2 || '%'`,
		tournamentID, stagePrefix)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(affected), nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchInvalidRef
	}
	return err
}
