package memory

import (
	"context"
	"sync"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
)

type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string][]participant.Participant
}

func NewParticipantRepository(seed map[string][]participant.Participant) *ParticipantRepository {
	items := make(map[string][]participant.Participant, len(seed))
	for key, participants := range seed {
		items[key] = append([]participant.Participant(nil), participants...)
	}
	return &ParticipantRepository{items: items}
}

func (r *ParticipantRepository) ListConfirmedByCategory(_ context.Context, tournamentID, categoryID string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]participant.Participant(nil), r.items[categoryKey(tournamentID, categoryID)]...), nil
}

func (r *ParticipantRepository) ReplaceForCategory(_ context.Context, tournamentID, categoryID string, participants []participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[categoryKey(tournamentID, categoryID)] = append([]participant.Participant(nil), participants...)
	return nil
}
