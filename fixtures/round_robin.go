package fixtures

// Pairing is one generated round-robin match between two enrolled teams.
type Pairing struct {
	MatchNumber int
	Team1ID     int
	Team2ID     int
}

// RoundRobin enumerates every unordered pair of teams exactly once.
// For teams t_1..t_n (in registration order) it emits (t_i, t_j) for all
// i < j, numbering matches sequentially from 1 in enumeration order. The
// result is deterministic: no shuffling, no seeding. Total pairings for n
// teams is n(n-1)/2.
func RoundRobin(teamIDs []int) []Pairing {
	if len(teamIDs) < 2 {
		return nil
	}

	pairings := make([]Pairing, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	matchNumber := 0
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			matchNumber++
			pairings = append(pairings, Pairing{
				MatchNumber: matchNumber,
				Team1ID:     teamIDs[i],
				Team2ID:     teamIDs[j],
			})
		}
	}
	return pairings
}
