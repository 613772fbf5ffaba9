package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusOpen       TournamentStatus = "open"
	StatusInProgress TournamentStatus = "in_progress"
	StatusFinished   TournamentStatus = "finished"
)

// Tournament представляет турнир клуба (субботняя лига).
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Date      time.Time        `json:"date" db:"tournament_date"`
	MaxTeams  int              `json:"max_teams" db:"max_teams"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	LogoKey   *string          `json:"-" db:"logo_key"`
	LogoURL   *string          `json:"logo_url,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
