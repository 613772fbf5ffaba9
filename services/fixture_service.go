package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lanoooo/padel-club/fixtures"
	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
)

// FixtureEvent уходит в комнату tournament:<id> после перегенерации
// расписания или записи результата.
type FixtureEvent struct {
	TournamentID int    `json:"tournament_id"`
	MatchCount   int    `json:"match_count,omitempty"`
	MatchID      int    `json:"match_id,omitempty"`
	Action       string `json:"action"` // "fixture_generated" | "score_recorded"
}

type FixtureService interface {
	// GenerateFixture строит круговое расписание по заявленным командам.
	// Повторный вызов атомарно заменяет прежний набор матчей.
	GenerateFixture(ctx context.Context, tournamentID int) (int, error)
	ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error)
	RecordScore(ctx context.Context, matchID, tournamentID int, score string) error
}

type fixtureService struct {
	db          repositories.TxBeginner
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
	matches     repositories.MatchRepository
	events      EventPublisher
	logger      *slog.Logger
}

func NewFixtureService(
	db repositories.TxBeginner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	events EventPublisher,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		db:          db,
		tournaments: tournamentRepo,
		teams:       teamRepo,
		matches:     matchRepo,
		events:      events,
		logger:      logger,
	}
}

func (s *fixtureService) GenerateFixture(ctx context.Context, tournamentID int) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin fixture transaction: %w", err)
	}

	tournament, err := s.tournaments.GetByIDForUpdate(ctx, tx, tournamentID)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return 0, ErrTournamentNotFound
		}
		return 0, mapStoreError("find tournament", err)
	}
	if tournament.Status == models.StatusFinished {
		_ = tx.Rollback()
		return 0, ErrRegistrationClosed
	}

	teams, err := s.teams.ListByTournament(ctx, tx, tournamentID)
	if err != nil {
		_ = tx.Rollback()
		return 0, mapStoreError("list teams", err)
	}
	if len(teams) < 2 {
		_ = tx.Rollback()
		return 0, ErrInsufficientTeams
	}

	teamIDs := make([]int, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
	}

	matches := make([]*models.Match, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for _, pairing := range fixtures.RoundRobin(teamIDs) {
		matches = append(matches, &models.Match{
			TournamentID: tournamentID,
			Team1ID:      pairing.Team1ID,
			Team2ID:      pairing.Team2ID,
			MatchNumber:  pairing.MatchNumber,
			Status:       models.MatchStatusPending,
		})
	}

	// Старый набор уходит целиком до вставки нового: перегенерация —
	// это замена, а не дозапись.
	if err := s.matches.DeleteByTournament(ctx, tx, tournamentID); err != nil {
		_ = tx.Rollback()
		return 0, mapStoreError("discard previous fixture", err)
	}
	if err := s.matches.CreateBatch(ctx, tx, matches); err != nil {
		_ = tx.Rollback()
		return 0, mapStoreError("insert fixture", err)
	}
	if err := s.tournaments.UpdateStatus(ctx, tx, tournamentID, models.StatusInProgress); err != nil {
		_ = tx.Rollback()
		return 0, mapStoreError("close enrollment", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, mapStoreError("commit fixture", err)
	}

	s.logger.Info("fixture generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(matches)),
	)
	s.publish(FixtureEvent{
		TournamentID: tournamentID,
		MatchCount:   len(matches),
		Action:       "fixture_generated",
	})
	return len(matches), nil
}

func (s *fixtureService) ListMatches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.tournaments.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, mapStoreError("find tournament", err)
	}
	matches, err := s.matches.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

// RecordScore сохраняет результат как есть и помечает матч сыгранным.
// Счёт не валидируется и на статус турнира не влияет.
func (s *fixtureService) RecordScore(ctx context.Context, matchID, tournamentID int, score string) error {
	if err := s.matches.UpdateScore(ctx, matchID, tournamentID, score, models.MatchStatusPlayed); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return mapStoreError("record score", err)
	}
	s.publish(FixtureEvent{
		TournamentID: tournamentID,
		MatchID:      matchID,
		Action:       "score_recorded",
	})
	return nil
}

func (s *fixtureService) publish(event FixtureEvent) {
	if s.events == nil {
		return
	}
	s.events.BroadcastToRoom(fmt.Sprintf("tournament:%d", event.TournamentID), event)
}
