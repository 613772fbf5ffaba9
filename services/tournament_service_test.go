package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
)

var tournamentNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local) // вторник

func newTournamentFixture(tournaments *fakeTournamentRepo, teams *fakeTeamRepo, matches *fakeMatchRepo) (*tournamentService, *fakeTxBeginner) {
	db := newFakeTxBeginner()
	svc := NewTournamentService(db, tournaments, teams, matches, nil, testLogger()).(*tournamentService)
	svc.now = func() time.Time { return tournamentNow }
	return svc, db
}

func TestOpenTournamentValidation(t *testing.T) {
	svc, _ := newTournamentFixture(&fakeTournamentRepo{}, &fakeTeamRepo{}, &fakeMatchRepo{})

	tests := []struct {
		name    string
		input   OpenTournamentInput
		wantErr error
	}{
		{
			name:    "odd capacity",
			input:   OpenTournamentInput{Name: "Open", Date: "2025-06-21", MaxTeams: 7},
			wantErr: ErrTournamentInvalidCapacity,
		},
		{
			name:    "too few teams",
			input:   OpenTournamentInput{Name: "Open", Date: "2025-06-21", MaxTeams: 2},
			wantErr: ErrTournamentInvalidCapacity,
		},
		{
			name:    "too many teams",
			input:   OpenTournamentInput{Name: "Open", Date: "2025-06-21", MaxTeams: 18},
			wantErr: ErrTournamentInvalidCapacity,
		},
		{
			name:    "blank name",
			input:   OpenTournamentInput{Name: "   ", Date: "2025-06-21", MaxTeams: 8},
			wantErr: ErrTournamentNameInvalid,
		},
		{
			name:    "unparseable date",
			input:   OpenTournamentInput{Name: "Open", Date: "21 de junio", MaxTeams: 8},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.OpenTournament(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOpenTournamentSuccess(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		create: func(ctx context.Context, tournament *models.Tournament) error {
			tournament.ID = 11
			return nil
		},
	}
	svc, _ := newTournamentFixture(tournaments, &fakeTeamRepo{}, &fakeMatchRepo{})

	tournament, err := svc.OpenTournament(context.Background(), OpenTournamentInput{
		Name:     "  Torneo de Verano  ",
		Date:     "2025-06-21",
		MaxTeams: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, tournament.ID)
	assert.Equal(t, "Torneo de Verano", tournament.Name)
	assert.Equal(t, models.StatusOpen, tournament.Status)
}

func TestTournamentNameLengthCountsRunes(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		create: func(ctx context.Context, tournament *models.Tournament) error { return nil },
		getByIDForUpdate: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, MaxTeams: 8, Status: models.StatusOpen}, nil
		},
	}
	teams := &fakeTeamRepo{
		countByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
			return 0, nil
		},
		create: func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error { return nil },
	}
	svc, _ := newTournamentFixture(tournaments, teams, &fakeMatchRepo{})

	// 60 кириллических букв — 120 байт, но лимит в 100 символов не превышен.
	cyrillic := strings.Repeat("й", 60)
	_, err := svc.OpenTournament(context.Background(), OpenTournamentInput{Name: cyrillic, Date: "2025-06-21", MaxTeams: 8})
	require.NoError(t, err)

	_, err = svc.RegisterTeam(context.Background(), 1, RegisterTeamInput{Name: cyrillic}, 5)
	require.NoError(t, err)

	_, err = svc.OpenTournament(context.Background(), OpenTournamentInput{Name: strings.Repeat("й", 101), Date: "2025-06-21", MaxTeams: 8})
	assert.ErrorIs(t, err, ErrTournamentNameInvalid)
}

func TestRegisterTeamClosedTournament(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		getByIDForUpdate: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, MaxTeams: 8, Status: models.StatusInProgress}, nil
		},
	}
	svc, db := newTournamentFixture(tournaments, &fakeTeamRepo{}, &fakeMatchRepo{})

	_, err := svc.RegisterTeam(context.Background(), 1, RegisterTeamInput{Name: "Las Palas"}, 5)
	assert.ErrorIs(t, err, ErrRegistrationClosed)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestRegisterTeamTournamentFull(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		getByIDForUpdate: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, MaxTeams: 8, Status: models.StatusOpen}, nil
		},
	}
	teams := &fakeTeamRepo{
		countByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
			return 8, nil
		},
	}
	svc, db := newTournamentFixture(tournaments, teams, &fakeMatchRepo{})

	_, err := svc.RegisterTeam(context.Background(), 1, RegisterTeamInput{Name: "Las Palas"}, 5)
	assert.ErrorIs(t, err, ErrTournamentFull)
	assert.Equal(t, 1, db.tx.rollbacks)
	assert.Zero(t, db.tx.commits)
}

func TestRegisterTeamAlreadyRegistered(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		getByIDForUpdate: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, MaxTeams: 8, Status: models.StatusOpen}, nil
		},
	}
	teams := &fakeTeamRepo{
		countByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
			return 3, nil
		},
		create: func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
			return repositories.ErrTeamOwnerConflict
		},
	}
	svc, db := newTournamentFixture(tournaments, teams, &fakeMatchRepo{})

	_, err := svc.RegisterTeam(context.Background(), 1, RegisterTeamInput{Name: "Las Palas"}, 5)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestRegisterTeamSuccess(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		getByIDForUpdate: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, MaxTeams: 8, Status: models.StatusOpen}, nil
		},
	}
	teams := &fakeTeamRepo{
		countByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
			return 3, nil
		},
		create: func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
			team.ID = 42
			return nil
		},
	}
	svc, db := newTournamentFixture(tournaments, teams, &fakeMatchRepo{})

	team, err := svc.RegisterTeam(context.Background(), 1, RegisterTeamInput{
		Name:    " Las Palas ",
		Player1: "Ana",
		Player2: "Luz",
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, 42, team.ID)
	assert.Equal(t, "Las Palas", team.Name)
	assert.Equal(t, 5, team.UserID)
	assert.Equal(t, 1, db.tx.commits)
	assert.Zero(t, db.tx.rollbacks)
}

func TestUpcomingSaturdays(t *testing.T) {
	svc, _ := newTournamentFixture(&fakeTournamentRepo{}, &fakeTeamRepo{}, &fakeMatchRepo{})

	// Ближайшая суббота 14 июня отстоит меньше чем на неделю и
	// пропускается.
	assert.Equal(t, []string{"2025-06-21", "2025-06-28", "2025-07-05", "2025-07-12"}, svc.UpcomingSaturdays())
}

func TestGetTournamentDetails(t *testing.T) {
	tournaments := &fakeTournamentRepo{
		getByID: func(ctx context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, Name: "Open", Status: models.StatusInProgress}, nil
		},
	}
	teams := &fakeTeamRepo{
		listByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
			return []models.Team{{ID: 1}, {ID: 2}}, nil
		},
	}
	matches := &fakeMatchRepo{
		listByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
			return []models.Match{{ID: 10, MatchNumber: 1}}, nil
		},
	}
	svc, _ := newTournamentFixture(tournaments, teams, matches)

	tournament, err := svc.GetTournamentDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, tournament.Teams, 2)
	assert.Len(t, tournament.Matches, 1)
}
