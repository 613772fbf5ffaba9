package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinFiveTeams(t *testing.T) {
	pairings := RoundRobin([]int{1, 2, 3, 4, 5})
	require.Len(t, pairings, 10)

	expected := []Pairing{
		{MatchNumber: 1, Team1ID: 1, Team2ID: 2},
		{MatchNumber: 2, Team1ID: 1, Team2ID: 3},
		{MatchNumber: 3, Team1ID: 1, Team2ID: 4},
		{MatchNumber: 4, Team1ID: 1, Team2ID: 5},
		{MatchNumber: 5, Team1ID: 2, Team2ID: 3},
		{MatchNumber: 6, Team1ID: 2, Team2ID: 4},
		{MatchNumber: 7, Team1ID: 2, Team2ID: 5},
		{MatchNumber: 8, Team1ID: 3, Team2ID: 4},
		{MatchNumber: 9, Team1ID: 3, Team2ID: 5},
		{MatchNumber: 10, Team1ID: 4, Team2ID: 5},
	}
	assert.Equal(t, expected, pairings)
}

func TestRoundRobinPairingCount(t *testing.T) {
	for _, n := range []int{2, 3, 4, 8, 16} {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}
		assert.Len(t, RoundRobin(ids), n*(n-1)/2)
	}
}

func TestRoundRobinIsDeterministic(t *testing.T) {
	ids := []int{42, 7, 13, 99}
	assert.Equal(t, RoundRobin(ids), RoundRobin(ids))
}

func TestRoundRobinTooFewTeams(t *testing.T) {
	assert.Nil(t, RoundRobin(nil))
	assert.Nil(t, RoundRobin([]int{1}))
}
