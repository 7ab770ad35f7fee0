package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrRegistrationDuplicate  = errors.New("team already registered for this tournament")
	ErrRegistrationInvalidRef = errors.New("invalid team or tournament reference")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error)
	CountActiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus, paidAmount *float64) error
	Delete(ctx context.Context, id int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, team_id, status, paid_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.TournamentID, reg.TeamID, reg.Status, reg.PaidAmount,
	).Scan(&reg.ID, &reg.CreatedAt)
	return r.handleRegistrationError(err)
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, team_id, status, paid_amount, created_at
		FROM registrations
		WHERE id = $1`

	reg := &models.Registration{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.TournamentID, &reg.TeamID, &reg.Status, &reg.PaidAmount, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	query := `
		SELECT reg.id, reg.tournament_id, reg.team_id, reg.status, reg.paid_amount, reg.created_at,
		       t.id, t.name, t.manager_name, t.manager_email, t.phone, t.crest_key, t.created_at
		FROM registrations reg
		JOIN teams t ON t.id = reg.team_id
		WHERE reg.tournament_id = $1
		ORDER BY reg.created_at`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		var team models.Team
		if err := rows.Scan(
			&reg.ID, &reg.TournamentID, &reg.TeamID, &reg.Status, &reg.PaidAmount, &reg.CreatedAt,
			&team.ID, &team.Name, &team.ManagerName, &team.ManagerEmail, &team.Phone, &team.CrestKey, &team.CreatedAt,
		); err != nil {
			return nil, err
		}
		reg.Team = &team
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

// CountActiveByTournament counts registrations holding a slot, i.e. all
// but the cancelled ones.
func (r *postgresRegistrationRepository) CountActiveByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE tournament_id = $1 AND status <> $2`

	var count int
	err := executor.QueryRowContext(ctx, query, tournamentID, models.RegistrationCancelled).Scan(&count)
	return count, err
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus, paidAmount *float64) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE registrations
		SET status = $1, paid_amount = COALESCE($2, paid_amount)
		WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, status, paidAmount, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) handleRegistrationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrRegistrationDuplicate
		case "23503":
			return ErrRegistrationInvalidRef
		}
	}
	return err
}
