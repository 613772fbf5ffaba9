package models

import "time"

// Team — пара игроков, заявленная пользователем в конкретный турнир.
// На одного пользователя в турнире допускается не более одной команды.
type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Player1      string    `json:"player1" db:"player1"`
	Player2      string    `json:"player2" db:"player2"`
	UserID       int       `json:"user_id" db:"user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Username *string `json:"username,omitempty" db:"-"`
}
