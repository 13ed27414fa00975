package memory

import (
	"context"
	"sync"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
)

type ScheduleRepository struct {
	mu    sync.RWMutex
	items map[string]draw.Schedule
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{items: make(map[string]draw.Schedule)}
}

func (r *ScheduleRepository) Get(_ context.Context, tournamentID, categoryID string) (draw.Schedule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.items[categoryKey(tournamentID, categoryID)]
	if !ok {
		return draw.Schedule{}, false, nil
	}
	return cloneSchedule(schedule), true, nil
}

func (r *ScheduleRepository) Create(_ context.Context, schedule draw.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := categoryKey(schedule.TournamentID, schedule.CategoryID)
	if _, exists := r.items[key]; exists {
		return draw.ErrScheduleExists
	}
	r.items[key] = cloneSchedule(schedule)
	return nil
}

func (r *ScheduleRepository) Save(_ context.Context, schedule draw.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := categoryKey(schedule.TournamentID, schedule.CategoryID)
	stored, exists := r.items[key]
	if !exists {
		return draw.ErrVersionConflict
	}
	if stored.Version != schedule.Version {
		return draw.ErrVersionConflict
	}

	next := cloneSchedule(schedule)
	next.Version = schedule.Version + 1
	r.items[key] = next
	return nil
}

func (r *ScheduleRepository) Delete(_ context.Context, tournamentID, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, categoryKey(tournamentID, categoryID))
	return nil
}

func categoryKey(tournamentID, categoryID string) string {
	return tournamentID + "::" + categoryID
}

func cloneSchedule(s draw.Schedule) draw.Schedule {
	copied := s
	if s.Knockout != nil {
		bracket := *s.Knockout
		bracket.Rounds = make([]draw.Round, len(s.Knockout.Rounds))
		for i, round := range s.Knockout.Rounds {
			cloned := round
			cloned.Matches = make([]draw.RoundSlot, len(round.Matches))
			for j, slot := range round.Matches {
				cloned.Matches[j] = cloneRoundSlot(slot)
			}
			bracket.Rounds[i] = cloned
		}
		copied.Knockout = &bracket
	}
	if s.RoundRobin != nil {
		stage := *s.RoundRobin
		stage.Groups = make([]draw.Group, len(s.RoundRobin.Groups))
		for i, group := range s.RoundRobin.Groups {
			cloned := group
			cloned.Participants = append([]draw.GroupEntry(nil), group.Participants...)
			cloned.MatchNumbers = append([]int(nil), group.MatchNumbers...)
			stage.Groups[i] = cloned
		}
		copied.RoundRobin = &stage
	}
	return copied
}

func cloneRoundSlot(slot draw.RoundSlot) draw.RoundSlot {
	copied := slot
	copied.Player1 = cloneSlotEntry(slot.Player1)
	copied.Player2 = cloneSlotEntry(slot.Player2)
	copied.Score1 = cloneStringPtr(slot.Score1)
	copied.Score2 = cloneStringPtr(slot.Score2)
	return copied
}

func cloneSlotEntry(entry *draw.SlotEntry) *draw.SlotEntry {
	if entry == nil {
		return nil
	}
	copied := *entry
	return &copied
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
