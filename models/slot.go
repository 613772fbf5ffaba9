package models

import "time"

// Slot — одна бронируемая часовая ячейка: день, время, корт.
// Времена передаются через API как строки в 24-часовом формате HH:MM:SS.
type Slot struct {
	SlotDate    time.Time `json:"date" db:"slot_date"`
	SlotTime    string    `json:"time" db:"slot_time"`
	CourtNumber int       `json:"court_number" db:"court_number"`
	Available   bool      `json:"available" db:"available"`
}
