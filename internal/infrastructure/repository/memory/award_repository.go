package memory

import (
	"context"
	"sync"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
)

type AwardLedgerRepository struct {
	mu    sync.RWMutex
	items map[string]award.LedgerEntry
}

func NewAwardLedgerRepository() *AwardLedgerRepository {
	return &AwardLedgerRepository{items: make(map[string]award.LedgerEntry)}
}

func (r *AwardLedgerRepository) GetByCategory(_ context.Context, tournamentID, categoryID string) (award.LedgerEntry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.items[categoryKey(tournamentID, categoryID)]
	if !ok {
		return award.LedgerEntry{}, false, nil
	}
	return cloneLedgerEntry(entry), true, nil
}

func (r *AwardLedgerRepository) Create(_ context.Context, entry award.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := categoryKey(entry.TournamentID, entry.CategoryID)
	if _, exists := r.items[key]; exists {
		return award.ErrAlreadyAwarded
	}
	r.items[key] = cloneLedgerEntry(entry)
	return nil
}

func cloneLedgerEntry(entry award.LedgerEntry) award.LedgerEntry {
	copied := entry
	copied.Lines = append([]award.Line(nil), entry.Lines...)
	return copied
}
