package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	events map[string][]match.ScoreEvent
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		items:  make(map[string]match.Match),
		events: make(map[string][]match.ScoreEvent),
	}
}

func (r *MatchRepository) ReplaceForCategory(_ context.Context, tournamentID, categoryID string, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteCategoryLocked(tournamentID, categoryID)
	for _, m := range matches {
		r.items[m.ID] = cloneMatch(m)
	}
	return nil
}

func (r *MatchRepository) deleteCategoryLocked(tournamentID, categoryID string) {
	for id, m := range r.items {
		if m.TournamentID == tournamentID && m.CategoryID == categoryID {
			delete(r.items, id)
			delete(r.events, id)
		}
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) GetByNumber(_ context.Context, tournamentID, categoryID string, matchNumber int) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items {
		if m.TournamentID == tournamentID && m.CategoryID == categoryID && m.MatchNumber == matchNumber {
			return cloneMatch(m), true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) ListByCategory(_ context.Context, tournamentID, categoryID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, m := range r.items {
		if m.TournamentID == tournamentID && m.CategoryID == categoryID {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchNumber < out[j].MatchNumber })
	return out, nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; !exists {
		return fmt.Errorf("match %s does not exist", m.ID)
	}
	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) AppendScoreEvent(_ context.Context, event match.ScoreEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.MatchID] = append(r.events[event.MatchID], event)
	return nil
}

func (r *MatchRepository) LatestScoreEvent(_ context.Context, matchID string) (match.ScoreEvent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[matchID]
	if len(events) == 0 {
		return match.ScoreEvent{}, false, nil
	}
	return events[len(events)-1], true, nil
}

func (r *MatchRepository) DeleteScoreEvent(_ context.Context, matchID string, sequence int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.events[matchID]
	for i, event := range events {
		if event.Sequence == sequence {
			r.events[matchID] = append(events[:i], events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("score event %d of match %s does not exist", sequence, matchID)
}

func cloneMatch(m match.Match) match.Match {
	copied := m
	copied.Player1ID = cloneStringPtr(m.Player1ID)
	copied.Player2ID = cloneStringPtr(m.Player2ID)
	copied.Player1Seed = cloneIntPtr(m.Player1Seed)
	copied.Player2Seed = cloneIntPtr(m.Player2Seed)
	copied.WinnerID = cloneStringPtr(m.WinnerID)
	copied.ParentMatchID = cloneStringPtr(m.ParentMatchID)
	copied.ScoreJSON = cloneStringPtr(m.ScoreJSON)
	return copied
}
