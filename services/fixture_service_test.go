package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanoooo/padel-club/models"
	"github.com/lanoooo/padel-club/repositories"
)

func newFixtureFixture(tournaments *fakeTournamentRepo, teams *fakeTeamRepo, matches *fakeMatchRepo) (FixtureService, *fakeTxBeginner, *fakePublisher) {
	db := newFakeTxBeginner()
	publisher := &fakePublisher{}
	svc := NewFixtureService(db, tournaments, teams, matches, publisher, testLogger())
	return svc, db, publisher
}

func openTournamentRepo(status models.TournamentStatus) *fakeTournamentRepo {
	return &fakeTournamentRepo{
		getByIDForUpdate: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, MaxTeams: 8, Status: status}, nil
		},
		updateStatus: func(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
			return nil
		},
	}
}

func teamsOf(ids ...int) *fakeTeamRepo {
	return &fakeTeamRepo{
		listByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
			teams := make([]models.Team, len(ids))
			for i, id := range ids {
				teams[i] = models.Team{ID: id, TournamentID: tournamentID}
			}
			return teams, nil
		},
	}
}

func TestGenerateFixtureInsufficientTeams(t *testing.T) {
	svc, db, _ := newFixtureFixture(openTournamentRepo(models.StatusOpen), teamsOf(101), &fakeMatchRepo{})

	_, err := svc.GenerateFixture(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInsufficientTeams)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestGenerateFixtureFinishedTournament(t *testing.T) {
	svc, db, _ := newFixtureFixture(openTournamentRepo(models.StatusFinished), teamsOf(101, 102), &fakeMatchRepo{})

	_, err := svc.GenerateFixture(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRegistrationClosed)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestGenerateFixtureFiveTeams(t *testing.T) {
	var deleted bool
	var inserted []*models.Match
	matches := &fakeMatchRepo{
		deleteByTournament: func(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
			deleted = true
			assert.Empty(t, inserted, "old matches must be discarded before inserting new ones")
			return nil
		},
		createBatch: func(ctx context.Context, exec repositories.SQLExecutor, batch []*models.Match) error {
			inserted = batch
			return nil
		},
	}

	var statusSet models.TournamentStatus
	tournaments := openTournamentRepo(models.StatusOpen)
	tournaments.updateStatus = func(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
		statusSet = status
		return nil
	}

	svc, db, publisher := newFixtureFixture(tournaments, teamsOf(101, 102, 103, 104, 105), matches)

	count, err := svc.GenerateFixture(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	assert.True(t, deleted)
	require.Len(t, inserted, 10)

	// Первая пара и сквозная нумерация.
	assert.Equal(t, 1, inserted[0].MatchNumber)
	assert.Equal(t, 101, inserted[0].Team1ID)
	assert.Equal(t, 102, inserted[0].Team2ID)
	assert.Equal(t, 10, inserted[9].MatchNumber)
	assert.Equal(t, 104, inserted[9].Team1ID)
	assert.Equal(t, 105, inserted[9].Team2ID)
	for _, match := range inserted {
		assert.Equal(t, models.MatchStatusPending, match.Status)
	}

	assert.Equal(t, models.StatusInProgress, statusSet)
	assert.Equal(t, 1, db.tx.commits)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "tournament:1", publisher.events[0].room)
	event := publisher.events[0].message.(FixtureEvent)
	assert.Equal(t, "fixture_generated", event.Action)
	assert.Equal(t, 10, event.MatchCount)
}

func TestRecordScore(t *testing.T) {
	var recordedStatus models.MatchStatus
	matches := &fakeMatchRepo{
		updateScore: func(ctx context.Context, matchID, tournamentID int, score string, status models.MatchStatus) error {
			recordedStatus = status
			assert.Equal(t, "6-3 4-6 7-5", score)
			return nil
		},
	}
	svc, _, publisher := newFixtureFixture(&fakeTournamentRepo{}, &fakeTeamRepo{}, matches)

	require.NoError(t, svc.RecordScore(context.Background(), 9, 1, "6-3 4-6 7-5"))
	assert.Equal(t, models.MatchStatusPlayed, recordedStatus)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "tournament:1", publisher.events[0].room)
	assert.Equal(t, "score_recorded", publisher.events[0].message.(FixtureEvent).Action)
}

func TestRecordScoreMatchNotFound(t *testing.T) {
	matches := &fakeMatchRepo{
		updateScore: func(ctx context.Context, matchID, tournamentID int, score string, status models.MatchStatus) error {
			return repositories.ErrMatchNotFound
		},
	}
	svc, _, publisher := newFixtureFixture(&fakeTournamentRepo{}, &fakeTeamRepo{}, matches)

	err := svc.RecordScore(context.Background(), 9, 1, "6-0 6-0")
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Empty(t, publisher.events)
}
