package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
)

const (
	// HorizonDays — глубина окна бронирования: сегодня+1 .. сегодня+4.
	HorizonDays = 4

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// EventPublisher рассылает события подписчикам комнаты (websocket-хаб).
type EventPublisher interface {
	BroadcastToRoom(roomID string, message interface{})
}

// AvailabilityEvent уходит в комнату availability:<date> после каждого
// изменения сетки, чтобы открытые календари обновлялись без перезапроса.
type AvailabilityEvent struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	CourtNumber int    `json:"court_number"`
	Action      string `json:"action"` // "reserved" | "released"
}

type BookingService interface {
	// ResolveDayOffset переводит дату в смещение от сегодняшнего дня,
	// отклоняя всё за пределами окна бронирования.
	ResolveDayOffset(date string) (int, error)
	ListAvailableTimes(ctx context.Context, date string) ([]string, error)
	Reserve(ctx context.Context, userID int, date, timeOfDay string) (*models.Reservation, error)
	Cancel(ctx context.Context, reservationID, requesterID int, isAdmin bool) error
	ListReservations(ctx context.Context, requesterID int, isAdmin bool) ([]models.Reservation, error)
	EnsureHorizon(ctx context.Context) error
}

// BookingConfig описывает сетку клуба: число кортов и часы работы.
// Слоты часовые, последний начинается за час до закрытия.
type BookingConfig struct {
	CourtCount  int
	OpeningHour int
	ClosingHour int
}

type bookingService struct {
	db           repositories.TxBeginner
	slots        repositories.SlotRepository
	reservations repositories.ReservationRepository
	events       EventPublisher
	logger       *slog.Logger
	cfg          BookingConfig

	now func() time.Time
}

func NewBookingService(
	db repositories.TxBeginner,
	slotRepo repositories.SlotRepository,
	reservationRepo repositories.ReservationRepository,
	events EventPublisher,
	logger *slog.Logger,
	cfg BookingConfig,
) BookingService {
	return &bookingService{
		db:           db,
		slots:        slotRepo,
		reservations: reservationRepo,
		events:       events,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *bookingService) ResolveDayOffset(date string) (int, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return 0, ErrInvalidDate
	}
	offset := dayOffset(s.now(), day)
	if offset < 1 || offset > HorizonDays {
		return 0, ErrOutOfHorizon
	}
	return offset, nil
}

func (s *bookingService) ListAvailableTimes(ctx context.Context, date string) ([]string, error) {
	if _, err := s.ResolveDayOffset(date); err != nil {
		return nil, err
	}
	day, _ := time.ParseInLocation(dateLayout, date, time.Local)
	times, err := s.slots.ListAvailableTimes(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list available times: %w", err)
	}
	return times, nil
}

// Reserve занимает свободный корт с наименьшим номером и записывает бронь.
// Захват корта и вставка брони выполняются в одной транзакции: при любом
// сбое после захвата слот возвращается в исходное состояние.
func (s *bookingService) Reserve(ctx context.Context, userID int, date, timeOfDay string) (*models.Reservation, error) {
	if _, err := s.ResolveDayOffset(date); err != nil {
		return nil, err
	}
	if _, err := time.Parse(timeLayout, timeOfDay); err != nil {
		return nil, ErrInvalidTime
	}
	day, _ := time.ParseInLocation(dateLayout, date, time.Local)
	startsAt, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+timeOfDay, time.Local)
	if err != nil {
		return nil, ErrInvalidTime
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reserve transaction: %w", err)
	}

	courtNumber, err := s.slots.ClaimFirstFreeCourt(ctx, tx, day, timeOfDay)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrNoCourtAvailable) {
			return nil, ErrNoCourtAvailable
		}
		return nil, mapStoreError("claim court", err)
	}

	reservation := &models.Reservation{
		UserID:      userID,
		CourtNumber: courtNumber,
		StartsAt:    startsAt,
		EndsAt:      startsAt.Add(time.Hour),
	}
	if err := s.reservations.Create(ctx, tx, reservation); err != nil {
		_ = tx.Rollback()
		return nil, mapStoreError("create reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapStoreError("commit reserve", err)
	}

	s.logger.Info("court reserved",
		slog.Int("user_id", userID),
		slog.Int("court", courtNumber),
		slog.String("date", date),
		slog.String("time", timeOfDay),
	)
	s.publishAvailability(date, timeOfDay, courtNumber, "reserved")
	return reservation, nil
}

// Cancel снимает бронь и освобождает её слот в одной транзакции.
// Не-админ может отменить только собственную бронь; прошедшие брони
// неизменяемы.
func (s *bookingService) Cancel(ctx context.Context, reservationID, requesterID int, isAdmin bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel transaction: %w", err)
	}

	reservation, err := s.reservations.GetVisibleForUpdate(ctx, tx, reservationID, requesterID, isAdmin)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return mapStoreError("find reservation", err)
	}

	if !reservation.StartsAt.After(s.now()) {
		_ = tx.Rollback()
		return ErrReservationPast
	}

	// Бронь в будущем — её день ещё не вычищен из сетки, слот обязан
	// существовать; его отсутствие означало бы рассинхронизацию.
	// timestamptz приходит от драйвера в зоне сессии БД, а ключ слота
	// строился в локальной зоне, поэтому сначала нормализуем.
	startsAt := reservation.StartsAt.In(time.Local)
	day := truncateToDay(startsAt)
	timeOfDay := startsAt.Format(timeLayout)
	if err := s.slots.ReleaseCourt(ctx, tx, day, timeOfDay, reservation.CourtNumber); err != nil {
		_ = tx.Rollback()
		return mapStoreError("release court", err)
	}

	if err := s.reservations.Delete(ctx, tx, reservationID); err != nil {
		_ = tx.Rollback()
		return mapStoreError("delete reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return mapStoreError("commit cancel", err)
	}

	s.logger.Info("reservation cancelled",
		slog.Int("reservation_id", reservationID),
		slog.Int("requester_id", requesterID),
	)
	s.publishAvailability(day.Format(dateLayout), timeOfDay, reservation.CourtNumber, "released")
	return nil
}

func (s *bookingService) ListReservations(ctx context.Context, requesterID int, isAdmin bool) ([]models.Reservation, error) {
	reservations, err := s.reservations.ListUpcoming(ctx, requesterID, isAdmin, s.now())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

// EnsureHorizon досоздаёт слоты на ближайшие HorizonDays дней и удаляет
// сетку прошедших. Вызывается планировщиком из cmd/main.go; ядро лишь
// предполагает, что прокрутка уже случилась.
func (s *bookingService) EnsureHorizon(ctx context.Context) error {
	today := truncateToDay(s.now())
	times := s.slotTimes()
	for offset := 1; offset <= HorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		if err := s.slots.EnsureDay(ctx, day, times, s.cfg.CourtCount); err != nil {
			return fmt.Errorf("ensure horizon day %s: %w", day.Format(dateLayout), err)
		}
	}
	if err := s.slots.PurgeBefore(ctx, today); err != nil {
		return fmt.Errorf("purge past slots: %w", err)
	}
	return nil
}

func (s *bookingService) slotTimes() []string {
	times := make([]string, 0, s.cfg.ClosingHour-s.cfg.OpeningHour)
	for hour := s.cfg.OpeningHour; hour < s.cfg.ClosingHour; hour++ {
		times = append(times, fmt.Sprintf("%02d:00:00", hour))
	}
	return times
}

func (s *bookingService) publishAvailability(date, timeOfDay string, courtNumber int, action string) {
	if s.events == nil {
		return
	}
	s.events.BroadcastToRoom("availability:"+date, AvailabilityEvent{
		Date:        date,
		Time:        timeOfDay,
		CourtNumber: courtNumber,
		Action:      action,
	})
}

// dayOffset считает разницу в календарных днях. Нормализация в UTC
// убирает дни перевода часов, которые длятся 23 или 25 часов.
func dayOffset(now, day time.Time) int {
	ny, nm, nd := now.Date()
	dy, dm, dd := day.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	target := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
