package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTx считает коммиты и откаты, запросы через него не ходят:
// репозитории в тестах тоже фейковые.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error   { t.commits++; return nil }
func (t *fakeTx) Rollback() error { t.rollbacks++; return nil }

type fakeTxBeginner struct {
	tx *fakeTx
}

func newFakeTxBeginner() *fakeTxBeginner {
	return &fakeTxBeginner{tx: &fakeTx{}}
}

func (b *fakeTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (repositories.Tx, error) {
	return b.tx, nil
}

type capturedEvent struct {
	room    string
	message interface{}
}

type fakePublisher struct {
	events []capturedEvent
}

func (p *fakePublisher) BroadcastToRoom(roomID string, message interface{}) {
	p.events = append(p.events, capturedEvent{room: roomID, message: message})
}

type fakeSlotRepo struct {
	listAvailableTimes  func(ctx context.Context, date time.Time) ([]string, error)
	claimFirstFreeCourt func(ctx context.Context, exec repositories.SQLExecutor, date time.Time, timeOfDay string) (int, error)
	releaseCourt        func(ctx context.Context, exec repositories.SQLExecutor, date time.Time, timeOfDay string, courtNumber int) error
	ensureDay           func(ctx context.Context, date time.Time, times []string, courtCount int) error
	purgeBefore         func(ctx context.Context, date time.Time) error
}

func (r *fakeSlotRepo) ListAvailableTimes(ctx context.Context, date time.Time) ([]string, error) {
	return r.listAvailableTimes(ctx, date)
}

func (r *fakeSlotRepo) ClaimFirstFreeCourt(ctx context.Context, exec repositories.SQLExecutor, date time.Time, timeOfDay string) (int, error) {
	return r.claimFirstFreeCourt(ctx, exec, date, timeOfDay)
}

func (r *fakeSlotRepo) ReleaseCourt(ctx context.Context, exec repositories.SQLExecutor, date time.Time, timeOfDay string, courtNumber int) error {
	return r.releaseCourt(ctx, exec, date, timeOfDay, courtNumber)
}

func (r *fakeSlotRepo) EnsureDay(ctx context.Context, date time.Time, times []string, courtCount int) error {
	return r.ensureDay(ctx, date, times, courtCount)
}

func (r *fakeSlotRepo) PurgeBefore(ctx context.Context, date time.Time) error {
	return r.purgeBefore(ctx, date)
}

type fakeReservationRepo struct {
	create              func(ctx context.Context, exec repositories.SQLExecutor, reservation *models.Reservation) error
	getVisibleForUpdate func(ctx context.Context, exec repositories.SQLExecutor, id, requesterID int, isAdmin bool) (*models.Reservation, error)
	delete              func(ctx context.Context, exec repositories.SQLExecutor, id int) error
	listUpcoming        func(ctx context.Context, requesterID int, isAdmin bool, now time.Time) ([]models.Reservation, error)
}

func (r *fakeReservationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, reservation *models.Reservation) error {
	return r.create(ctx, exec, reservation)
}

func (r *fakeReservationRepo) GetVisibleForUpdate(ctx context.Context, exec repositories.SQLExecutor, id, requesterID int, isAdmin bool) (*models.Reservation, error) {
	return r.getVisibleForUpdate(ctx, exec, id, requesterID, isAdmin)
}

func (r *fakeReservationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	return r.delete(ctx, exec, id)
}

func (r *fakeReservationRepo) ListUpcoming(ctx context.Context, requesterID int, isAdmin bool, now time.Time) ([]models.Reservation, error) {
	return r.listUpcoming(ctx, requesterID, isAdmin, now)
}

type fakeTournamentRepo struct {
	create           func(ctx context.Context, tournament *models.Tournament) error
	getByID          func(ctx context.Context, id int) (*models.Tournament, error)
	getByIDForUpdate func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error)
	list             func(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	updateStatus     func(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error
	updateLogoKey    func(ctx context.Context, id int, logoKey *string) error
	delete           func(ctx context.Context, id int) error
}

func (r *fakeTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	return r.create(ctx, tournament)
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return r.getByID(ctx, id)
}

func (r *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.getByIDForUpdate(ctx, exec, id)
}

func (r *fakeTournamentRepo) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	return r.list(ctx, status)
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	return r.updateStatus(ctx, exec, id, status)
}

func (r *fakeTournamentRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	return r.updateLogoKey(ctx, id, logoKey)
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	return r.delete(ctx, id)
}

type fakeTeamRepo struct {
	create            func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error
	countByTournament func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error)
	listByTournament  func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error)
	delete            func(ctx context.Context, teamID, tournamentID int) error
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	return r.create(ctx, exec, team)
}

func (r *fakeTeamRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	return r.countByTournament(ctx, exec, tournamentID)
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
	return r.listByTournament(ctx, exec, tournamentID)
}

func (r *fakeTeamRepo) Delete(ctx context.Context, teamID, tournamentID int) error {
	return r.delete(ctx, teamID, tournamentID)
}

type fakeMatchRepo struct {
	createBatch        func(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error
	deleteByTournament func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error
	listByTournament   func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error)
	updateScore        func(ctx context.Context, matchID, tournamentID int, score string, status models.MatchStatus) error
}

func (r *fakeMatchRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	return r.createBatch(ctx, exec, matches)
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	return r.deleteByTournament(ctx, exec, tournamentID)
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	return r.listByTournament(ctx, exec, tournamentID)
}

func (r *fakeMatchRepo) UpdateScore(ctx context.Context, matchID, tournamentID int, score string, status models.MatchStatus) error {
	return r.updateScore(ctx, matchID, tournamentID, score, status)
}
