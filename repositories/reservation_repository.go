package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lanoooo/padel-club/models"
	"github.com/lib/pq"
)

var (
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrReservationUserInvalid = errors.New("reservation user conflict or invalid")
)

type ReservationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reservation *models.Reservation) error
	// GetVisibleForUpdate возвращает бронь, видимую запрашивающему:
	// не-админ находит только собственные. Строка блокируется до конца
	// транзакции, чтобы отмена не гонялась с повторной отменой.
	GetVisibleForUpdate(ctx context.Context, exec SQLExecutor, id, requesterID int, isAdmin bool) (*models.Reservation, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	ListUpcoming(ctx context.Context, requesterID int, isAdmin bool, now time.Time) ([]models.Reservation, error)
}

type postgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) ReservationRepository {
	return &postgresReservationRepository{db: db}
}

func (r *postgresReservationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresReservationRepository) Create(ctx context.Context, exec SQLExecutor, res *models.Reservation) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO reservations (user_id, court_number, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		res.UserID, res.CourtNumber, res.StartsAt, res.EndsAt,
	).Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "reservations_user_id_fkey" {
				return ErrReservationUserInvalid
			}
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *postgresReservationRepository) GetVisibleForUpdate(ctx context.Context, exec SQLExecutor, id, requesterID int, isAdmin bool) (*models.Reservation, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, user_id, court_number, starts_at, ends_at, created_at
		FROM reservations
		WHERE id = $1`
	args := []interface{}{id}

	if !isAdmin {
		query += ` AND user_id = $2`
		args = append(args, requesterID)
	}
	query += ` FOR UPDATE`

	res := &models.Reservation{}
	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID, &res.UserID, &res.CourtNumber, &res.StartsAt, &res.EndsAt, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation %d: %w", id, err)
	}
	return res, nil
}

func (r *postgresReservationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

// ListUpcoming перечисляет будущие брони по возрастанию времени начала.
// Админ видит все, игрок — только свои. Прошедшие брони в списки не
// попадают, история вне зоны ответственности ядра.
func (r *postgresReservationRepository) ListUpcoming(ctx context.Context, requesterID int, isAdmin bool, now time.Time) ([]models.Reservation, error) {
	query := `
		SELECT r.id, r.user_id, r.court_number, r.starts_at, r.ends_at, r.created_at, u.username
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.starts_at >= $1`
	args := []interface{}{now}

	if !isAdmin {
		query += ` AND r.user_id = $2`
		args = append(args, requesterID)
	}
	query += ` ORDER BY r.starts_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]models.Reservation, 0)
	for rows.Next() {
		var res models.Reservation
		var username string
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.CourtNumber, &res.StartsAt, &res.EndsAt, &res.CreatedAt, &username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		res.Username = &username
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
