package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lanoooo/padel-club/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamOwnerConflict     = errors.New("user already has a team in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament conflict or invalid")
	ErrTeamUserInvalid       = errors.New("team user conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	// ListByTournament возвращает команды в порядке регистрации (по id).
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error)
	Delete(ctx context.Context, teamID, tournamentID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (tournament_id, name, player1, player2, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		team.TournamentID, team.Name, team.Player1, team.Player2, team.UserID,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "teams_tournament_id_user_id_key" {
					return ErrTeamOwnerConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "teams_tournament_id_fkey":
					return ErrTeamTournamentInvalid
				case "teams_user_id_fkey":
					return ErrTeamUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT t.id, t.tournament_id, t.name, t.player1, t.player2, t.user_id, t.created_at, u.username
		FROM teams t
		JOIN users u ON u.id = t.user_id
		WHERE t.tournament_id = $1
		ORDER BY t.id`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		var username string
		if err := rows.Scan(
			&team.ID, &team.TournamentID, &team.Name, &team.Player1, &team.Player2,
			&team.UserID, &team.CreatedAt, &username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		team.Username = &username
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Delete(ctx context.Context, teamID, tournamentID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM teams WHERE id = $1 AND tournament_id = $2`, teamID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
