package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerAlreadyInSquad = errors.New("player already in this squad")
	ErrShirtNumberTaken     = errors.New("shirt number already taken in this squad")
	ErrPlayerInvalidTeam    = errors.New("invalid team reference")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error

	AddToSquad(ctx context.Context, exec SQLExecutor, link *models.TeamPlayer) error
	RemoveFromSquad(ctx context.Context, teamID, playerID int) error
	ListByTeam(ctx context.Context, teamID int) ([]models.TeamPlayer, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (first_name, last_name, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		p.FirstName, p.LastName, p.Position,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, first_name, last_name, position, created_at FROM players WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Position, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `UPDATE players SET first_name = $1, last_name = $2, position = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, p.FirstName, p.LastName, p.Position, p.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) AddToSquad(ctx context.Context, exec SQLExecutor, link *models.TeamPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_players (team_id, player_id, shirt_number)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		link.TeamID, link.PlayerID, link.ShirtNumber,
	).Scan(&link.ID, &link.CreatedAt)
	return r.handleSquadError(err)
}

func (r *postgresPlayerRepository) RemoveFromSquad(ctx context.Context, teamID, playerID int) error {
	query := `DELETE FROM team_players WHERE team_id = $1 AND player_id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.TeamPlayer, error) {
	query := `
		SELECT tp.id, tp.team_id, tp.player_id, tp.shirt_number, tp.created_at,
		       p.id, p.first_name, p.last_name, p.position, p.created_at
		FROM team_players tp
		JOIN players p ON p.id = tp.player_id
		WHERE tp.team_id = $1
		ORDER BY tp.shirt_number NULLS LAST, p.last_name`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]models.TeamPlayer, 0)
	for rows.Next() {
		var link models.TeamPlayer
		var p models.Player
		if err := rows.Scan(
			&link.ID, &link.TeamID, &link.PlayerID, &link.ShirtNumber, &link.CreatedAt,
			&p.ID, &p.FirstName, &p.LastName, &p.Position, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		link.Player = &p
		links = append(links, link)
	}
	return links, rows.Err()
}

// ListByTournament returns every player on a squad registered for the
// tournament, cancellations excluded.
func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Player, error) {
	query := `
		SELECT DISTINCT p.id, p.first_name, p.last_name, p.position, p.created_at
		FROM players p
		JOIN team_players tp ON tp.player_id = p.id
		JOIN registrations reg ON reg.team_id = tp.team_id
		WHERE reg.tournament_id = $1 AND reg.status <> 'cancelled'
		ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Position, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) handleSquadError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "team_players_team_id_shirt_number_key" {
				return ErrShirtNumberTaken
			}
			return ErrPlayerAlreadyInSquad
		case "23503":
			if pqErr.Constraint == "team_players_team_id_fkey" {
				return ErrPlayerInvalidTeam
			}
			return ErrPlayerNotFound
		}
	}
	return err
}
