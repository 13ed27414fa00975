package memory

import (
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
)

const (
	TournamentIDCityOpen    = "city-open-2026"
	CategoryIDMensSingles   = "mens-singles"
	CategoryIDWomensSingles = "womens-singles"
)

// SeedConfirmedParticipants builds count confirmed entrants for one
// category, players numbered player-01 onward. Seeds start unassigned.
func SeedConfirmedParticipants(tournamentID, categoryID string, count int) map[string][]participant.Participant {
	participants := make([]participant.Participant, 0, count)
	for i := 1; i <= count; i++ {
		participants = append(participants, participant.Participant{
			ID:           fmt.Sprintf("entry-%02d", i),
			TournamentID: tournamentID,
			CategoryID:   categoryID,
			PlayerID:     fmt.Sprintf("player-%02d", i),
			Name:         fmt.Sprintf("Player %02d", i),
		})
	}
	return map[string][]participant.Participant{
		categoryKey(tournamentID, categoryID): participants,
	}
}

// SeedPlayerStats gives the first players strictly descending award
// points, so a deterministic seeding order falls out: player-01 is the
// strongest. Players beyond the map score zero.
func SeedPlayerStats(count int) map[string]stats.PlayerStats {
	items := make(map[string]stats.PlayerStats, count)
	for i := 1; i <= count; i++ {
		playerID := fmt.Sprintf("player-%02d", i)
		items[playerID] = stats.PlayerStats{
			PlayerID:      playerID,
			AwardPoints:   (count - i + 1) * 10,
			MatchesPlayed: 10,
			MatchesWon:    count - i,
		}
	}
	return items
}
