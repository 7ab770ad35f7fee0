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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already taken")
	ErrTeamInUse        = errors.New("team has registrations or matches")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.Team, error)
	List(ctx context.Context, limit, offset int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateCrestKey(ctx context.Context, teamID int, crestKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO teams (name, manager_name, manager_email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.ManagerName, t.ManagerEmail, t.Phone,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, manager_name, manager_email, phone, crest_key, created_at
		FROM teams
		WHERE id = $1`

	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.ManagerName, &t.ManagerEmail, &t.Phone, &t.CrestKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}
	query := `
		SELECT id, name, manager_name, manager_email, phone, crest_key, created_at
		FROM teams
		WHERE id = ANY($1)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeams(rows)
}

func (r *postgresTeamRepository) List(ctx context.Context, limit, offset int) ([]models.Team, error) {
	query := `
		SELECT id, name, manager_name, manager_email, phone, crest_key, created_at
		FROM teams
		ORDER BY name`

	args := []interface{}{}
	argID := 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, limit)
		argID++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTeams(rows)
}

func collectTeams(rows *sql.Rows) ([]models.Team, error) {
	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(
			&t.ID, &t.Name, &t.ManagerName, &t.ManagerEmail, &t.Phone, &t.CrestKey, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Update(ctx context.Context, t *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			manager_name = $2,
			manager_email = $3,
			phone = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.ManagerName, t.ManagerEmail, t.Phone, t.ID,
	)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateCrestKey(ctx context.Context, teamID int, crestKey *string) error {
	query := `UPDATE teams SET crest_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, crestKey, teamID)
	if err != nil {
		return fmt.Errorf("failed to update team crest key: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		case "23503":
			return ErrTeamInUse
		}
	}
	return err
}
