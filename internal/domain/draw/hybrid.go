package draw

import (
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
)

// HybridPlan combines a group stage with an empty knockout stage. The
// knockout is sized for numberOfGroups x advanceFromGroup qualifiers
// but its slots stay unassigned: who advances, and into which slot, is
// only knowable once the group stage completes, so population is a
// separate explicit step.
type HybridPlan struct {
	Groups           *RoundRobinPlan
	Knockout         *KnockoutPlan
	AdvanceFromGroup int
}

// BuildHybrid builds the group stage from the participants and lays
// out the advancement bracket alongside it.
func BuildHybrid(participants []participant.Participant, numGroups, advanceFromGroup int) (*HybridPlan, error) {
	if advanceFromGroup < 1 {
		return nil, fmt.Errorf("advance-from-group must be >= 1, got %d", advanceFromGroup)
	}

	groups, err := BuildRoundRobin(participants, numGroups)
	if err != nil {
		return nil, err
	}

	for _, group := range groups.Groups {
		if advanceFromGroup > len(group.Entries) {
			return nil, fmt.Errorf("cannot advance %d from %s of %d participants",
				advanceFromGroup, group.Name, len(group.Entries))
		}
	}

	knockout, err := BuildEmptyKnockout(numGroups * advanceFromGroup)
	if err != nil {
		return nil, err
	}

	return &HybridPlan{
		Groups:           groups,
		Knockout:         knockout,
		AdvanceFromGroup: advanceFromGroup,
	}, nil
}
