package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
	ErrTournamentInUse        = errors.New("tournament has registrations or matches")
	ErrStructureConflict      = errors.New("tournament structure was modified concurrently")
)

type ListTournamentsFilter struct {
	OrganizerID *int
	Status      *models.TournamentStatus
	Format      *models.Format
	City        *string
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateStructureCAS(ctx context.Context, exec SQLExecutor, id int, structure models.TournamentStructure, expectedVersion int) error
	UpdateLogoKey(ctx context.Context, tournamentID int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, description, city, start_date, end_date, registration_deadline,
	entry_fee, team_min, team_max, organizer_id, format, status,
	structure, structure_version, logo_key, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	var structure []byte
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.City, &t.StartDate, &t.EndDate, &t.RegDeadline,
		&t.EntryFee, &t.TeamMin, &t.TeamMax, &t.OrganizerID, &t.Format, &t.Status,
		&structure, &t.StructureVersion, &t.LogoKey, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(structure) > 0 {
		if err := json.Unmarshal(structure, &t.Structure); err != nil {
			return nil, fmt.Errorf("failed to decode tournament %d structure: %w", t.ID, err)
		}
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	structure, err := t.StructureJSON()
	if err != nil {
		return fmt.Errorf("failed to encode tournament structure: %w", err)
	}
	query := `
		INSERT INTO tournaments (
			name, description, city, start_date, end_date, registration_deadline,
			entry_fee, team_min, team_max, organizer_id, format, status, structure
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, structure_version, created_at`

	err = executor.QueryRowContext(ctx, query,
		t.Name, t.Description, t.City, t.StartDate, t.EndDate, t.RegDeadline,
		t.EntryFee, t.TeamMin, t.TeamMax, t.OrganizerID, t.Format, t.Status, structure,
	).Scan(&t.ID, &t.StructureVersion, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}
	if filter.City != nil {
		query += fmt.Sprintf(" AND city ILIKE $%d", argID)
		args = append(args, *filter.City)
		argID++
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			city = $3,
			start_date = $4,
			end_date = $5,
			registration_deadline = $6,
			entry_fee = $7,
			team_min = $8,
			team_max = $9
		WHERE id = $10`

	result, err := executor.ExecContext(ctx, query,
		t.Name, t.Description, t.City, t.StartDate, t.EndDate, t.RegDeadline,
		t.EntryFee, t.TeamMin, t.TeamMax,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// UpdateStructureCAS persists the structure blob only if nobody else has
// written it since the caller read version expectedVersion. A lost race
// surfaces as ErrStructureConflict, not as a silent overwrite.
func (r *postgresTournamentRepository) UpdateStructureCAS(ctx context.Context, exec SQLExecutor, id int, structure models.TournamentStructure, expectedVersion int) error {
	executor := r.getExecutor(exec)
	raw, err := json.Marshal(structure)
	if err != nil {
		return fmt.Errorf("failed to encode tournament structure: %w", err)
	}
	query := `
		UPDATE tournaments
		SET structure = $1, structure_version = structure_version + 1
		WHERE id = $2 AND structure_version = $3`

	result, err := executor.ExecContext(ctx, query, raw, id, expectedVersion)
	if err != nil {
		return r.handleTournamentError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from a version race.
		var exists bool
		if checkErr := executor.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return checkErr
		}
		if !exists {
			return ErrTournamentNotFound
		}
		return ErrStructureConflict
	}
	return nil
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, tournamentID int, logoKey *string) error {
	executor := r.getExecutor(nil)
	query := `UPDATE tournaments SET logo_key = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, logoKey, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update tournament logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	executor := r.getExecutor(nil)
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_organizer_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "tournaments_organizer_id_fkey":
				return ErrTournamentInvalidOrg
			default:
				return ErrTournamentInUse
			}
		}
	}
	return err
}
