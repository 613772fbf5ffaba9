package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lanoooo/padel-club/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	UpdateScore(ctx context.Context, matchID, tournamentID int, score string, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch вставляет весь сгенерированный тур одним multi-VALUES запросом.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	var sb strings.Builder
	sb.WriteString(`INSERT INTO matches (tournament_id, team1_id, team2_id, match_number, status) VALUES `)
	args := make([]interface{}, 0, len(matches)*5)
	for i, m := range matches {
		if i > 0 {
			sb.WriteString(",")
		}
		base := i * 5
		sb.WriteString("($" + strconv.Itoa(base+1) + ",$" + strconv.Itoa(base+2) + ",$" + strconv.Itoa(base+3) +
			",$" + strconv.Itoa(base+4) + ",$" + strconv.Itoa(base+5) + ")")
		args = append(args, m.TournamentID, m.Team1ID, m.Team2ID, m.MatchNumber, m.Status)
	}

	if _, err := executor.ExecContext(ctx, sb.String(), args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return fmt.Errorf("failed to insert match batch: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT m.id, m.tournament_id, m.team1_id, m.team2_id, m.match_number, m.score, m.status,
		       t1.name, t2.name
		FROM matches m
		JOIN teams t1 ON t1.id = m.team1_id
		JOIN teams t2 ON t2.id = m.team2_id
		WHERE m.tournament_id = $1
		ORDER BY m.match_number`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Team1ID, &m.Team2ID, &m.MatchNumber, &m.Score, &m.Status,
			&m.Team1Name, &m.Team2Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, matchID, tournamentID int, score string, status models.MatchStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET score = $1, status = $2 WHERE id = $3 AND tournament_id = $4`,
		score, status, matchID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update match score: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
