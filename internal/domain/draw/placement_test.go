package draw

import "testing"

func TestResolvePlacements_EightPlayerBracket(t *testing.T) {
	t.Parallel()

	// Depth 3: quarters are round 3, semis round 2. Higher seed wins
	// everything.
	completed := []KnockoutResult{
		{Round: 3, Player1ID: "p1", Player2ID: "p8", WinnerID: "p1"},
		{Round: 3, Player1ID: "p2", Player2ID: "p7", WinnerID: "p2"},
		{Round: 3, Player1ID: "p3", Player2ID: "p6", WinnerID: "p3"},
		{Round: 3, Player1ID: "p4", Player2ID: "p5", WinnerID: "p4"},
		{Round: 2, Player1ID: "p1", Player2ID: "p4", WinnerID: "p1"},
		{Round: 2, Player1ID: "p2", Player2ID: "p3", WinnerID: "p2"},
		{Round: 1, Player1ID: "p1", Player2ID: "p2", WinnerID: "p1"},
	}
	confirmed := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}

	got := ResolvePlacements(3, "p1", "p2", completed, confirmed)

	if got.WinnerID != "p1" || got.RunnerUpID != "p2" {
		t.Fatalf("winner/runner-up wrong: %+v", got)
	}
	if len(got.SemiFinalists) != 2 {
		t.Fatalf("semifinalists: got=%v want 2 entries", got.SemiFinalists)
	}
	if len(got.QuarterFinalists) != 4 {
		t.Fatalf("quarterfinalists: got=%v want 4 entries", got.QuarterFinalists)
	}
	if len(got.Participants) != 0 {
		t.Fatalf("everyone placed, but participants=%v", got.Participants)
	}

	placed := map[string]int{}
	placed[got.WinnerID]++
	placed[got.RunnerUpID]++
	for _, id := range got.SemiFinalists {
		placed[id]++
	}
	for _, id := range got.QuarterFinalists {
		placed[id]++
	}
	for id, n := range placed {
		if n != 1 {
			t.Fatalf("player %s placed %d times", id, n)
		}
	}
}

func TestResolvePlacements_ShallowBracketHasNoQuarterfinals(t *testing.T) {
	t.Parallel()

	// 4 players: totalRounds=2, so the first round IS the semifinal.
	// A depth-unaware resolver would look for a round 3 that does not
	// exist or mislabel the semis.
	completed := []KnockoutResult{
		{Round: 2, Player1ID: "p1", Player2ID: "p4", WinnerID: "p1"},
		{Round: 2, Player1ID: "p2", Player2ID: "p3", WinnerID: "p2"},
		{Round: 1, Player1ID: "p1", Player2ID: "p2", WinnerID: "p1"},
	}

	got := ResolvePlacements(2, "p1", "p2", completed, []string{"p1", "p2", "p3", "p4"})
	if len(got.SemiFinalists) != 2 {
		t.Fatalf("semifinalists: got=%v", got.SemiFinalists)
	}
	if len(got.QuarterFinalists) != 0 {
		t.Fatalf("depth-2 bracket cannot have quarterfinalists: %v", got.QuarterFinalists)
	}
}

func TestResolvePlacements_ByeLoserSkippedAndRestAreParticipants(t *testing.T) {
	t.Parallel()

	// 3 players: size-4 bracket, round 2 holds a real match and a bye.
	completed := []KnockoutResult{
		{Round: 2, Player1ID: "p1", Player2ID: "", WinnerID: "p1"},
		{Round: 2, Player1ID: "p2", Player2ID: "p3", WinnerID: "p2"},
		{Round: 1, Player1ID: "p1", Player2ID: "p2", WinnerID: "p2"},
	}

	got := ResolvePlacements(2, "p2", "p1", completed, []string{"p1", "p2", "p3", "p4"})
	if len(got.SemiFinalists) != 1 || got.SemiFinalists[0] != "p3" {
		t.Fatalf("semifinalists: got=%v want [p3]", got.SemiFinalists)
	}
	if len(got.Participants) != 1 || got.Participants[0] != "p4" {
		t.Fatalf("participants: got=%v want [p4]", got.Participants)
	}
}
