package usecase

import (
	"errors"
	"testing"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
	"github.com/LochanPS/Matchify.pro-sub003/internal/infrastructure/repository/memory"
)

func generateKnockout(t *testing.T, f *drawFixture) draw.Schedule {
	t.Helper()
	schedule, err := f.draws.Generate(t.Context(), GenerateDrawInput{
		TournamentID: memory.TournamentIDCityOpen,
		CategoryID:   memory.CategoryIDMensSingles,
		Format:       draw.FormatKnockout,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return schedule
}

func (f *drawFixture) matchID(t *testing.T, number int) string {
	t.Helper()
	return f.mustMatch(t, number).ID
}

func recordWinner(t *testing.T, f *drawFixture, number int, winnerID string) match.Match {
	t.Helper()
	row, err := f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, number),
		WinnerID: winnerID,
	})
	if err != nil {
		t.Fatalf("record match %d failed: %v", number, err)
	}
	return row
}

func TestProgression_RecordResult_AdvancesWinnerIntoParent(t *testing.T) {
	t.Parallel()

	// 4 players: match 1 pairs seeds (1,4), match 2 seeds (2,3),
	// match 3 is the final.
	f := newDrawFixture(4)
	generateKnockout(t, f)

	score1, score2 := "21-15", "18-21"
	row, err := f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, 1),
		WinnerID: "player-01",
		Score1:   &score1,
		Score2:   &score2,
	})
	if err != nil {
		t.Fatalf("record match 1 failed: %v", err)
	}
	if row.Status != match.StatusCompleted || row.ScoreJSON == nil {
		t.Fatalf("expected completed match with score, got status=%s score=%v", row.Status, row.ScoreJSON)
	}

	final := f.mustMatch(t, 3)
	if final.Player1ID == nil || *final.Player1ID != "player-01" {
		t.Fatalf("expected player-01 in the final's player1 slot, got %v", final.Player1ID)
	}
	if final.Status != match.StatusPending {
		t.Fatalf("half-filled final should stay PENDING, got %s", final.Status)
	}

	recordWinner(t, f, 2, "player-03")
	final = f.mustMatch(t, 3)
	if final.Status != match.StatusReady {
		t.Fatalf("full final should be READY, got %s", final.Status)
	}
	if *final.Player2ID != "player-03" {
		t.Fatalf("expected player-03 in the final's player2 slot, got %v", *final.Player2ID)
	}

	recordWinner(t, f, 3, "player-03")
	schedule, err := f.draws.Get(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles)
	if err != nil {
		t.Fatalf("get schedule failed: %v", err)
	}
	if schedule.WinnerID != "player-03" || schedule.RunnerUpID != "player-01" {
		t.Fatalf("expected winner player-03 and runner-up player-01, got %s / %s",
			schedule.WinnerID, schedule.RunnerUpID)
	}

	slot := schedule.Knockout.Rounds[0].Matches[0]
	if slot.WinnerID != "player-01" || slot.Score1 == nil || *slot.Score1 != "21-15" {
		t.Fatalf("bracket view missed the result: %+v", slot)
	}
}

func TestProgression_SiblingCompletionOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	run := func(first, second int) (string, string) {
		f := newDrawFixture(4)
		generateKnockout(t, f)
		winners := map[int]string{1: "player-04", 2: "player-02"}
		recordWinner(t, f, first, winners[first])
		recordWinner(t, f, second, winners[second])
		final := f.mustMatch(t, 3)
		return *final.Player1ID, *final.Player2ID
	}

	a1, a2 := run(1, 2)
	b1, b2 := run(2, 1)
	if a1 != b1 || a2 != b2 {
		t.Fatalf("final pairing depends on completion order: (%s,%s) vs (%s,%s)", a1, a2, b1, b2)
	}
	if a1 != "player-04" || a2 != "player-02" {
		t.Fatalf("unexpected final pairing: %s vs %s", a1, a2)
	}
}

func TestProgression_RecordResult_Guards(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(4)
	generateKnockout(t, f)

	_, err := f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, 1),
		WinnerID: "player-02",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected rejection of a winner outside the match, got %v", err)
	}

	// The final has no players yet.
	_, err = f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, 3),
		WinnerID: "player-01",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on an unready match, got %v", err)
	}

	recordWinner(t, f, 1, "player-01")
	_, err = f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, 1),
		WinnerID: "player-04",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on re-recording a completed match, got %v", err)
	}

	_, err = f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  "no-such-match",
		WinnerID: "player-01",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown match id, got %v", err)
	}
}

func TestProgression_StartMatch(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(4)
	generateKnockout(t, f)

	row, err := f.progression.StartMatch(t.Context(), f.matchID(t, 1))
	if err != nil {
		t.Fatalf("start match failed: %v", err)
	}
	if row.Status != match.StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", row.Status)
	}

	if _, err := f.progression.StartMatch(t.Context(), f.matchID(t, 1)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on double start, got %v", err)
	}
	if _, err := f.progression.StartMatch(t.Context(), f.matchID(t, 3)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict starting an unready match, got %v", err)
	}

	recordWinner(t, f, 1, "player-01")
	if got := f.mustMatch(t, 1).Status; got != match.StatusCompleted {
		t.Fatalf("in-progress match should accept a result, got status %s", got)
	}
}

func TestProgression_GiveBye_AdvancesSoleOccupant(t *testing.T) {
	t.Parallel()

	// 5 players leave match 6 half-filled: seed 3's bye winner waits
	// for the winner of match 4.
	f := newDrawFixture(5)
	generateKnockout(t, f)

	_, err := f.progression.GiveBye(t.Context(), f.matchID(t, 6), "player-03")
	if err != nil {
		t.Fatalf("give bye failed: %v", err)
	}

	row := f.mustMatch(t, 6)
	if row.Status != match.StatusByeCompleted || row.WinnerID == nil || *row.WinnerID != "player-03" {
		t.Fatalf("expected bye completion for player-03, got %+v", row)
	}
	final := f.mustMatch(t, 7)
	if final.Player2ID == nil || *final.Player2ID != "player-03" {
		t.Fatalf("bye winner did not advance to the final, got %v", final.Player2ID)
	}

	// Byes are for walkovers, not playable matches.
	_, err = f.progression.GiveBye(t.Context(), f.matchID(t, 4), "player-04")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict giving a bye to a full match, got %v", err)
	}
}

func TestProgression_RecordResult_RefusedOnceParentDecided(t *testing.T) {
	t.Parallel()

	// Recording match 1 half-fills the final; a bye then decides the
	// final for player-01 while match 2 is still open.
	f := newDrawFixture(4)
	generateKnockout(t, f)

	recordWinner(t, f, 1, "player-01")
	if _, err := f.progression.GiveBye(t.Context(), f.matchID(t, 3), "player-01"); err != nil {
		t.Fatalf("bye on the half-filled final failed: %v", err)
	}

	_, err := f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, 2),
		WinnerID: "player-02",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict under a decided final, got %v", err)
	}

	// The refused result must leave no trace: no completed row, no
	// history entry, no change to the bracket view.
	row := f.mustMatch(t, 2)
	if row.Status != match.StatusReady || row.WinnerID != nil {
		t.Fatalf("refused result mutated match 2: %+v", row)
	}
	if _, hasHistory, err := f.matchRepo.LatestScoreEvent(t.Context(), row.ID); err != nil || hasHistory {
		t.Fatalf("refused result left a score event: history=%t err=%v", hasHistory, err)
	}
	schedule, err := f.draws.Get(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles)
	if err != nil {
		t.Fatalf("get schedule failed: %v", err)
	}
	for _, viewRound := range schedule.Knockout.Rounds {
		for _, slot := range viewRound.Matches {
			if slot.MatchNumber == 2 && slot.WinnerID != "" {
				t.Fatalf("refused result reached the bracket view: %+v", slot)
			}
		}
	}

	// The same guard covers byes: match 2 undone to one player cannot
	// walk over into a decided final either.
	if _, err := f.draws.AssignSlot(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles,
		SlotAssignment{MatchNumber: 2, Position: match.PositionPlayer2}); err != nil {
		t.Fatalf("clear slot failed: %v", err)
	}
	_, err = f.progression.GiveBye(t.Context(), f.matchID(t, 2), "player-02")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict giving a bye under a decided final, got %v", err)
	}
}

func TestProgression_UndoResult_RestoresPriorState(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(4)
	generateKnockout(t, f)

	score1 := "21-12"
	if _, err := f.progression.RecordResult(t.Context(), RecordResultInput{
		MatchID:  f.matchID(t, 1),
		WinnerID: "player-01",
		Score1:   &score1,
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	row, err := f.progression.UndoResult(t.Context(), f.matchID(t, 1))
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if row.Status != match.StatusReady || row.WinnerID != nil || row.ScoreJSON != nil {
		t.Fatalf("undo did not restore the pre-result state: %+v", row)
	}

	final := f.mustMatch(t, 3)
	if final.Player1ID != nil {
		t.Fatalf("undo left the winner in the parent slot: %v", *final.Player1ID)
	}

	schedule, err := f.draws.Get(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles)
	if err != nil {
		t.Fatalf("get schedule failed: %v", err)
	}
	slot := schedule.Knockout.Rounds[0].Matches[0]
	if slot.WinnerID != "" || slot.Score1 != nil {
		t.Fatalf("undo left the result in the bracket view: %+v", slot)
	}

	_, err = f.progression.UndoResult(t.Context(), f.matchID(t, 1))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict undoing a match without a result, got %v", err)
	}
}

func TestProgression_UndoResult_RefusedOnceParentProgressed(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(4)
	generateKnockout(t, f)

	recordWinner(t, f, 1, "player-01")
	recordWinner(t, f, 2, "player-02")
	recordWinner(t, f, 3, "player-02")

	_, err := f.progression.UndoResult(t.Context(), f.matchID(t, 1))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict undoing under a completed parent, got %v", err)
	}

	// Undo cascades top-down: once the final is undone, its feeders can be.
	if _, err := f.progression.UndoResult(t.Context(), f.matchID(t, 3)); err != nil {
		t.Fatalf("undo final failed: %v", err)
	}
	if _, err := f.progression.UndoResult(t.Context(), f.matchID(t, 1)); err != nil {
		t.Fatalf("undo feeder failed after final undo: %v", err)
	}

	schedule, err := f.draws.Get(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles)
	if err != nil {
		t.Fatalf("get schedule failed: %v", err)
	}
	if schedule.WinnerID != "" || schedule.RunnerUpID != "" {
		t.Fatalf("undoing the final should clear the category result, got %s / %s",
			schedule.WinnerID, schedule.RunnerUpID)
	}
}

func TestProgression_UndoResult_StructuralByeHasNoHistory(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(5)
	generateKnockout(t, f)

	// Match 1 was resolved as a bye at generation time.
	_, err := f.progression.UndoResult(t.Context(), f.matchID(t, 1))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict undoing a structural bye, got %v", err)
	}
}

func TestProgression_GroupResults_UpdateStandings(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(4)
	if _, err := f.draws.Generate(t.Context(), GenerateDrawInput{
		TournamentID:   memory.TournamentIDCityOpen,
		CategoryID:     memory.CategoryIDMensSingles,
		Format:         draw.FormatRoundRobin,
		NumberOfGroups: 1,
	}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// player-04 upsets everyone; player-01 wins the rest.
	recordWinner(t, f, 3, "player-04") // 1 vs 4
	recordWinner(t, f, 5, "player-04") // 2 vs 4
	recordWinner(t, f, 6, "player-04") // 3 vs 4
	recordWinner(t, f, 1, "player-01") // 1 vs 2
	recordWinner(t, f, 2, "player-01") // 1 vs 3

	stage, err := f.standings.List(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles)
	if err != nil {
		t.Fatalf("list standings failed: %v", err)
	}

	table := stage.Groups[0].Participants
	if table[0].PlayerID != "player-04" || table[0].Points != 6 || table[0].Wins != 3 {
		t.Fatalf("expected player-04 on top with 6 points, got %+v", table[0])
	}
	if table[1].PlayerID != "player-01" || table[1].Points != 4 || table[1].Played != 3 {
		t.Fatalf("expected player-01 second with 4 points from 3 played, got %+v", table[1])
	}

	// Undoing a group result folds the table back.
	if _, err := f.progression.UndoResult(t.Context(), f.matchID(t, 6)); err != nil {
		t.Fatalf("undo group result failed: %v", err)
	}
	stage, err = f.standings.List(t.Context(), memory.TournamentIDCityOpen, memory.CategoryIDMensSingles)
	if err != nil {
		t.Fatalf("list standings failed: %v", err)
	}
	for _, entry := range stage.Groups[0].Participants {
		if entry.PlayerID == "player-04" && (entry.Wins != 2 || entry.Points != 4) {
			t.Fatalf("undo did not rebuild the table, got %+v", entry)
		}
	}
}
