package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ManagerName  string    `json:"manager_name" db:"manager_name"`
	ManagerEmail string    `json:"manager_email" db:"manager_email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	CrestKey *string `json:"-" db:"crest_key"`
	CrestURL *string `json:"crest_url,omitempty" db:"-"`

	Players []Player `json:"players,omitempty" db:"-"`
}

// PlayerPosition mirrors the player_position ENUM in the database.
type PlayerPosition string

const (
	PositionGoalkeeper PlayerPosition = "goalkeeper"
	PositionDefender   PlayerPosition = "defender"
	PositionMidfielder PlayerPosition = "midfielder"
	PositionForward    PlayerPosition = "forward"
)

type Player struct {
	ID        int            `json:"id" db:"id"`
	FirstName string         `json:"first_name" db:"first_name"`
	LastName  string         `json:"last_name" db:"last_name"`
	Position  PlayerPosition `json:"position" db:"position"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// TeamPlayer links a player to a team squad.
type TeamPlayer struct {
	ID          int       `json:"id" db:"id"`
	TeamID      int       `json:"team_id" db:"team_id"`
	PlayerID    int       `json:"player_id" db:"player_id"`
	ShirtNumber *int      `json:"shirt_number,omitempty" db:"shirt_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
