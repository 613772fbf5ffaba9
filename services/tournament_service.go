package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
	"github.com/lanoooo/padel-club/storage"
	"golang.org/x/sync/errgroup"
)

const (
	tournamentNameMaxLen = 100
	minTeams             = 4
	maxTeams             = 16
)

type OpenTournamentInput struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	MaxTeams int    `json:"max_teams"`
}

type RegisterTeamInput struct {
	Name    string `json:"name"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type TournamentService interface {
	OpenTournament(ctx context.Context, input OpenTournamentInput) (*models.Tournament, error)
	ListTournaments(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	GetTournamentDetails(ctx context.Context, tournamentID int) (*models.Tournament, error)
	RegisterTeam(ctx context.Context, tournamentID int, input RegisterTeamInput, userID int) (*models.Team, error)
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	DeleteTeam(ctx context.Context, teamID, tournamentID int) error
	DeleteTournament(ctx context.Context, tournamentID int) error
	UploadPoster(ctx context.Context, tournamentID int, contentType string, file io.Reader) (string, error)
	// UpcomingSaturdays подсказывает даты для новых турниров: ближайшие
	// четыре субботы, до которых остаётся больше недели.
	UpcomingSaturdays() []string
}

type tournamentService struct {
	db          repositories.TxBeginner
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
	matches     repositories.MatchRepository
	uploader    storage.FileUploader
	logger      *slog.Logger

	now func() time.Time
}

func NewTournamentService(
	db repositories.TxBeginner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:          db,
		tournaments: tournamentRepo,
		teams:       teamRepo,
		matches:     matchRepo,
		uploader:    uploader,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *tournamentService) OpenTournament(ctx context.Context, input OpenTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > tournamentNameMaxLen {
		return nil, ErrTournamentNameInvalid
	}
	if input.MaxTeams < minTeams || input.MaxTeams > maxTeams || input.MaxTeams%2 != 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	date, err := time.ParseInLocation(dateLayout, input.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}

	tournament := &models.Tournament{
		Name:     name,
		Date:     date,
		MaxTeams: input.MaxTeams,
		Status:   models.StatusOpen,
	}
	if err := s.tournaments.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, mapStoreError("create tournament", err)
	}

	s.logger.Info("tournament opened",
		slog.Int("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.Int("max_teams", tournament.MaxTeams),
	)
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	tournaments, err := s.tournaments.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	for i := range tournaments {
		s.decorateLogoURL(&tournaments[i])
	}
	return tournaments, nil
}

// GetTournamentDetails собирает турнир вместе с командами и матчами;
// обе выборки идут параллельно.
func (s *tournamentService) GetTournamentDetails(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, mapStoreError("find tournament", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.teams.ListByTournament(gctx, nil, tournamentID)
		if err != nil {
			return err
		}
		tournament.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matches.ListByTournament(gctx, nil, tournamentID)
		if err != nil {
			return err
		}
		tournament.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load tournament %d details: %w", tournamentID, err)
	}

	s.decorateLogoURL(tournament)
	return tournament, nil
}

// RegisterTeam записывает команду, пока турнир открыт и есть места.
// Строка турнира блокируется на время транзакции, поэтому параллельные
// заявки не могут вдвоём проскочить проверку вместимости.
func (s *tournamentService) RegisterTeam(ctx context.Context, tournamentID int, input RegisterTeamInput, userID int) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > tournamentNameMaxLen {
		return nil, ErrTournamentNameInvalid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin register transaction: %w", err)
	}

	tournament, err := s.tournaments.GetByIDForUpdate(ctx, tx, tournamentID)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, mapStoreError("find tournament", err)
	}
	if tournament.Status != models.StatusOpen {
		_ = tx.Rollback()
		return nil, ErrRegistrationClosed
	}

	count, err := s.teams.CountByTournament(ctx, tx, tournamentID)
	if err != nil {
		_ = tx.Rollback()
		return nil, mapStoreError("count teams", err)
	}
	if count >= tournament.MaxTeams {
		_ = tx.Rollback()
		return nil, ErrTournamentFull
	}

	team := &models.Team{
		TournamentID: tournamentID,
		Name:         name,
		Player1:      strings.TrimSpace(input.Player1),
		Player2:      strings.TrimSpace(input.Player2),
		UserID:       userID,
	}
	if err := s.teams.Create(ctx, tx, team); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrTeamOwnerConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, mapStoreError("create team", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapStoreError("commit register", err)
	}

	s.logger.Info("team registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("team_id", team.ID),
		slog.Int("user_id", userID),
	)
	return team, nil
}

func (s *tournamentService) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	if _, err := s.tournaments.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, mapStoreError("find tournament", err)
	}
	teams, err := s.teams.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// DeleteTeam убирает команду из турнира; её матчи уходят каскадом.
func (s *tournamentService) DeleteTeam(ctx context.Context, teamID, tournamentID int) error {
	if err := s.teams.Delete(ctx, teamID, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return mapStoreError("delete team", err)
	}
	return nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, tournamentID int) error {
	tournament, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return mapStoreError("find tournament", err)
	}

	if err := s.tournaments.Delete(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return mapStoreError("delete tournament", err)
	}

	if tournament.LogoKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *tournament.LogoKey); err != nil {
			// Турнир уже удалён; осиротевший файл не повод возвращать ошибку.
			s.logger.Warn("failed to delete tournament poster",
				slog.Int("tournament_id", tournamentID),
				slog.Any("error", err),
			)
		}
	}

	s.logger.Info("tournament deleted", slog.Int("tournament_id", tournamentID))
	return nil
}

func (s *tournamentService) UploadPoster(ctx context.Context, tournamentID int, contentType string, file io.Reader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("poster storage is not configured")
	}
	if _, err := s.tournaments.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return "", ErrTournamentNotFound
		}
		return "", mapStoreError("find tournament", err)
	}

	key := fmt.Sprintf("tournaments/%d/poster", tournamentID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("upload poster: %w", err)
	}
	if err := s.tournaments.UpdateLogoKey(ctx, tournamentID, &result.Key); err != nil {
		return "", mapStoreError("save poster key", err)
	}
	return result.Location, nil
}

func (s *tournamentService) UpcomingSaturdays() []string {
	today := truncateToDay(s.now())

	daysUntilSaturday := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	if daysUntilSaturday == 0 {
		daysUntilSaturday = 7
	}
	next := today.AddDate(0, 0, daysUntilSaturday)
	// Турнир нужно успеть укомплектовать: ближе недели не предлагаем.
	if dayOffset(today, next) <= 7 {
		next = next.AddDate(0, 0, 7)
	}

	saturdays := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		saturdays = append(saturdays, next.AddDate(0, 0, i*7).Format(dateLayout))
	}
	return saturdays
}

func (s *tournamentService) decorateLogoURL(t *models.Tournament) {
	if t.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	if url != "" {
		t.LogoURL = &url
	}
}
