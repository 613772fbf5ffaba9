package models

import "time"

// Reservation — подтверждённая бронь корта. Всегда длится один час.
type Reservation struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	CourtNumber int       `json:"court_number" db:"court_number"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time `json:"ends_at" db:"ends_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Имя владельца, подставляется JOIN-ом для админских списков.
	Username *string `json:"username,omitempty" db:"-"`
}
