package memory

import (
	"context"
	"sync"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
)

type PlayerStatsRepository struct {
	mu    sync.RWMutex
	items map[string]stats.PlayerStats
}

func NewPlayerStatsRepository(seed map[string]stats.PlayerStats) *PlayerStatsRepository {
	items := make(map[string]stats.PlayerStats, len(seed))
	for playerID, s := range seed {
		items[playerID] = s
	}
	return &PlayerStatsRepository{items: items}
}

func (r *PlayerStatsRepository) GetByPlayers(_ context.Context, playerIDs []string) (map[string]stats.PlayerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]stats.PlayerStats, len(playerIDs))
	for _, playerID := range playerIDs {
		if s, ok := r.items[playerID]; ok {
			out[playerID] = s
		}
	}
	return out, nil
}

func (r *PlayerStatsRepository) ApplyDeltas(_ context.Context, deltas []stats.Delta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range deltas {
		s := r.items[d.PlayerID]
		s.PlayerID = d.PlayerID
		s.MatchesPlayed += d.MatchesPlayed
		s.MatchesWon += d.MatchesWon
		s.MatchesLost += d.MatchesLost
		s.TournamentsPlayed += d.TournamentsPlayed
		s.TournamentsWon += d.TournamentsWon
		s.AwardPoints += d.AwardPoints
		r.items[d.PlayerID] = s
	}
	return nil
}
