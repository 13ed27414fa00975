package draw

import (
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
)

// GroupPlan is one built round-robin pool: its entries and the full
// match set, one matchup per unordered participant pair.
type GroupPlan struct {
	Name     string
	Entries  []SlotEntry
	Matchups []Matchup
}

type RoundRobinPlan struct {
	NumberOfGroups int
	Groups         []GroupPlan
}

// BuildRoundRobin partitions participants sequentially into numGroups
// groups of ceil(N/G) (the last group may be short) and generates every
// group's k*(k-1)/2 matchups in pair order. A participant with an empty
// PlayerID is a display placeholder; matchups touching one stay pending.
func BuildRoundRobin(participants []participant.Participant, numGroups int) (*RoundRobinPlan, error) {
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughParticipants, n)
	}
	if numGroups < 1 {
		return nil, fmt.Errorf("number of groups must be >= 1, got %d", numGroups)
	}

	groupSize := (n + numGroups - 1) / numGroups
	if groupSize < 2 {
		return nil, fmt.Errorf("%d groups leave fewer than 2 participants per group", numGroups)
	}

	plan := &RoundRobinPlan{NumberOfGroups: numGroups}
	for g := 0; g < numGroups; g++ {
		start := g * groupSize
		end := start + groupSize
		if end > n {
			end = n
		}
		if start >= end {
			return nil, fmt.Errorf("group %d would be empty with %d participants in %d groups", g+1, n, numGroups)
		}

		group := GroupPlan{Name: groupName(g)}
		for _, p := range participants[start:end] {
			group.Entries = append(group.Entries, SlotEntry{PlayerID: p.PlayerID, Name: p.Name, Seed: p.Seed})
		}

		order := 0
		for i := 0; i < len(group.Entries); i++ {
			for j := i + 1; j < len(group.Entries); j++ {
				order++
				group.Matchups = append(group.Matchups, Matchup{
					GroupName:    group.Name,
					OrderInRound: order,
					Player1:      slotOrNil(group.Entries[i]),
					Player2:      slotOrNil(group.Entries[j]),
				})
			}
		}
		plan.Groups = append(plan.Groups, group)
	}

	return plan, nil
}

func groupName(index int) string {
	if index < 26 {
		return fmt.Sprintf("Group %c", 'A'+rune(index))
	}
	return fmt.Sprintf("Group %d", index+1)
}

func slotOrNil(entry SlotEntry) *SlotEntry {
	if entry.PlayerID == "" {
		return nil
	}
	out := entry
	return &out
}
