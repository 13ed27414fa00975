package draw

import (
	"math/rand"
	"sort"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
)

// SeedScore computes a participant's ranking score from historical
// totals: cumulative award points, with the career win ratio as a
// fractional separator between equal point totals.
func SeedScore(s stats.PlayerStats) float64 {
	score := float64(s.AwardPoints)
	if s.MatchesPlayed > 0 {
		score += float64(s.MatchesWon) / float64(s.MatchesPlayed)
	}
	return score
}

// SeedParticipants orders participants by seed score descending and
// assigns contiguous seed ranks starting at 1. Runs of exactly equal
// scores are shuffled uniformly (Fisher-Yates) so unranked newcomers
// do not always land in registration order.
func SeedParticipants(
	participants []participant.Participant,
	statsByPlayer map[string]stats.PlayerStats,
	rng *rand.Rand,
) []participant.Participant {
	seeded := make([]participant.Participant, len(participants))
	copy(seeded, participants)

	for i := range seeded {
		seeded[i].SeedScore = SeedScore(statsByPlayer[seeded[i].PlayerID])
	}

	sort.SliceStable(seeded, func(i, j int) bool {
		return seeded[i].SeedScore > seeded[j].SeedScore
	})

	if rng != nil {
		start := 0
		for start < len(seeded) {
			end := start + 1
			for end < len(seeded) && seeded[end].SeedScore == seeded[start].SeedScore {
				end++
			}
			if run := seeded[start:end]; len(run) > 1 {
				rng.Shuffle(len(run), func(i, j int) {
					run[i], run[j] = run[j], run[i]
				})
			}
			start = end
		}
	}

	for i := range seeded {
		seeded[i].Seed = i + 1
	}
	return seeded
}
