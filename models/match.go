package models

type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
	MatchStatusPlayed  MatchStatus = "played"
)

// Match — одна пара кругового расписания. Номера партии идут подряд
// начиная с 1 в порядке генерации фикстуры.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Team1ID      int         `json:"team1_id" db:"team1_id"`
	Team2ID      int         `json:"team2_id" db:"team2_id"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Score        *string     `json:"score,omitempty" db:"score"`
	Status       MatchStatus `json:"status" db:"status"`

	Team1Name string `json:"team1_name,omitempty" db:"-"`
	Team2Name string `json:"team2_name,omitempty" db:"-"`
}
