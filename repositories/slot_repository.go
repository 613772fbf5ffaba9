package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var (
	ErrNoCourtAvailable = errors.New("no court available for the requested slot")
	ErrSlotNotFound     = errors.New("slot not found")
)

// SlotRepository хранит сетку доступности кортов. Одна таблица slots,
// соседние дни различаются только значением slot_date; окно в четыре дня
// обеспечивается предикатами запросов, а не формой схемы.
type SlotRepository interface {
	ListAvailableTimes(ctx context.Context, date time.Time) ([]string, error)
	ClaimFirstFreeCourt(ctx context.Context, exec SQLExecutor, date time.Time, timeOfDay string) (int, error)
	ReleaseCourt(ctx context.Context, exec SQLExecutor, date time.Time, timeOfDay string, courtNumber int) error
	EnsureDay(ctx context.Context, date time.Time, times []string, courtCount int) error
	PurgeBefore(ctx context.Context, date time.Time) error
}

type postgresSlotRepository struct {
	db *sql.DB
}

func NewPostgresSlotRepository(db *sql.DB) SlotRepository {
	return &postgresSlotRepository{db: db}
}

func (r *postgresSlotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSlotRepository) ListAvailableTimes(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT slot_time::text AS time_of_day
		FROM slots
		WHERE slot_date = $1 AND available
		ORDER BY time_of_day`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list available times: %w", err)
	}
	defer rows.Close()

	times := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan slot time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// ClaimFirstFreeCourt выбирает свободный корт с наименьшим номером и в том же
// запросе помечает его занятым. Подзапрос берёт строку под FOR UPDATE SKIP
// LOCKED: конкурирующая транзакция не видит уже захваченный корт и забирает
// следующий, поэтому два вызова никогда не получают один и тот же корт.
func (r *postgresSlotRepository) ClaimFirstFreeCourt(ctx context.Context, exec SQLExecutor, date time.Time, timeOfDay string) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		UPDATE slots SET available = FALSE
		WHERE slot_date = $1 AND slot_time = $2 AND court_number = (
			SELECT court_number FROM slots
			WHERE slot_date = $1 AND slot_time = $2 AND available
			ORDER BY court_number
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING court_number`

	var courtNumber int
	err := executor.QueryRowContext(ctx, query, date, timeOfDay).Scan(&courtNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoCourtAvailable
		}
		return 0, fmt.Errorf("failed to claim court: %w", err)
	}
	return courtNumber, nil
}

func (r *postgresSlotRepository) ReleaseCourt(ctx context.Context, exec SQLExecutor, date time.Time, timeOfDay string, courtNumber int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE slots SET available = TRUE
		WHERE slot_date = $1 AND slot_time = $2 AND court_number = $3 AND NOT available`

	result, err := executor.ExecContext(ctx, query, date, timeOfDay, courtNumber)
	if err != nil {
		return fmt.Errorf("failed to release court: %w", err)
	}
	return checkAffectedRows(result, ErrSlotNotFound)
}

// EnsureDay досоздаёт недостающие слоты на указанный день. Уже существующие
// строки не трогаются, занятость сохраняется.
func (r *postgresSlotRepository) EnsureDay(ctx context.Context, date time.Time, times []string, courtCount int) error {
	query := `
		INSERT INTO slots (slot_date, slot_time, court_number, available)
		SELECT $1, t.slot_time::time, c.court_number, TRUE
		FROM unnest($2::time[]) AS t(slot_time),
		     generate_series(1, $3) AS c(court_number)
		ON CONFLICT (slot_date, slot_time, court_number) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, date, pq.Array(times), courtCount); err != nil {
		return fmt.Errorf("failed to ensure slots for %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}

func (r *postgresSlotRepository) PurgeBefore(ctx context.Context, date time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE slot_date < $1`, date); err != nil {
		return fmt.Errorf("failed to purge stale slots: %w", err)
	}
	return nil
}
