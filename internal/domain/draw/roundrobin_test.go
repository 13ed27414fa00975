package draw

import (
	"errors"
	"fmt"
	"testing"
)

func TestBuildRoundRobin_PairExactness(t *testing.T) {
	t.Parallel()

	for _, k := range []int{2, 3, 4, 5, 7} {
		plan, err := BuildRoundRobin(seededField(k), 1)
		if err != nil {
			t.Fatalf("k=%d: BuildRoundRobin error: %v", k, err)
		}
		if len(plan.Groups) != 1 {
			t.Fatalf("k=%d: got %d groups, want 1", k, len(plan.Groups))
		}

		group := plan.Groups[0]
		want := k * (k - 1) / 2
		if len(group.Matchups) != want {
			t.Fatalf("k=%d: %d matchups, want %d", k, len(group.Matchups), want)
		}

		seen := make(map[string]bool)
		for _, m := range group.Matchups {
			if m.Player1 == nil || m.Player2 == nil {
				t.Fatalf("k=%d: matchup with empty slot: %+v", k, m)
			}
			key := m.Player1.PlayerID + "|" + m.Player2.PlayerID
			if m.Player1.PlayerID > m.Player2.PlayerID {
				key = m.Player2.PlayerID + "|" + m.Player1.PlayerID
			}
			if seen[key] {
				t.Fatalf("k=%d: pair %s appears twice", k, key)
			}
			seen[key] = true
			if !m.Ready() {
				t.Fatalf("k=%d: matchup with both slots filled should be ready: %+v", k, m)
			}
		}
	}
}

func TestBuildRoundRobin_SequentialPartition(t *testing.T) {
	t.Parallel()

	plan, err := BuildRoundRobin(seededField(10), 3)
	if err != nil {
		t.Fatalf("BuildRoundRobin error: %v", err)
	}

	sizes := []int{4, 4, 2}
	names := []string{"Group A", "Group B", "Group C"}
	next := 1
	for i, group := range plan.Groups {
		if group.Name != names[i] {
			t.Fatalf("group %d name: got=%s want=%s", i, group.Name, names[i])
		}
		if len(group.Entries) != sizes[i] {
			t.Fatalf("group %s size: got=%d want=%d", group.Name, len(group.Entries), sizes[i])
		}
		for _, entry := range group.Entries {
			if entry.PlayerID != fmt.Sprintf("player-%d", next) {
				t.Fatalf("partition is not sequential: got %s at position %d", entry.PlayerID, next)
			}
			next++
		}
	}
}

func TestBuildRoundRobin_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := BuildRoundRobin(seededField(1), 1); !errors.Is(err, ErrNotEnoughParticipants) {
		t.Fatalf("expected ErrNotEnoughParticipants, got %v", err)
	}
	if _, err := BuildRoundRobin(seededField(4), 0); err == nil {
		t.Fatal("expected error for zero groups")
	}
	if _, err := BuildRoundRobin(seededField(4), 4); err == nil {
		t.Fatal("expected error for single-participant groups")
	}
}

func TestBuildHybrid(t *testing.T) {
	t.Parallel()

	plan, err := BuildHybrid(seededField(8), 2, 2)
	if err != nil {
		t.Fatalf("BuildHybrid error: %v", err)
	}
	if plan.Groups.NumberOfGroups != 2 {
		t.Fatalf("group count: got=%d want=2", plan.Groups.NumberOfGroups)
	}
	if plan.Knockout.BracketSize != 4 || plan.Knockout.TotalRounds != 2 {
		t.Fatalf("knockout shape: %+v", plan.Knockout)
	}

	if _, err := BuildHybrid(seededField(8), 2, 5); err == nil {
		t.Fatal("expected error when advance exceeds group size")
	}
}
