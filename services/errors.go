package services

import "errors"

// Общие ошибки сервисного слоя и их маппинг на HTTP.
var (
	// Бронирование
	ErrOutOfHorizon        = errors.New("date is outside the 4-day booking horizon")
	ErrNoCourtAvailable    = errors.New("no court available at the requested time")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationPast     = errors.New("past reservations cannot be cancelled")

	// Турниры и команды
	ErrTournamentNotFound        = errors.New("tournament not found")
	ErrTeamNotFound              = errors.New("team not found")
	ErrMatchNotFound             = errors.New("match not found")
	ErrTournamentNameInvalid     = errors.New("tournament name must be non-empty and at most 100 characters")
	ErrTournamentInvalidCapacity = errors.New("tournament capacity must be an even number between 4 and 16")
	ErrTournamentNameConflict    = errors.New("tournament with this name already exists on that date")
	ErrRegistrationClosed        = errors.New("tournament registration is closed")
	ErrTournamentFull            = errors.New("tournament registration is full")
	ErrAlreadyRegistered         = errors.New("user already has a team in this tournament")
	ErrInsufficientTeams         = errors.New("at least two teams are required to generate a fixture")

	// Транзакционный конфликт: вызов можно повторить без изменения входа.
	ErrConflict = errors.New("operation conflicted with a concurrent request, retry")

	// Аутентификация (внешний коллаборатор; ядро доверяет userID/isAdmin)
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrAdminKeyInvalid        = errors.New("invalid admin key")

	// Валидация запросов
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTime = errors.New("time must be in HH:MM:SS format")
)
