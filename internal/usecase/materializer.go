package usecase

import (
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/id"
)

// materializeKnockout flattens a knockout plan into persisted match
// rows plus the bracket view of the schedule document. Match numbers
// are assigned sequentially in play order starting at startNumber;
// parent links follow the arena shape: matches 2i and 2i+1 of a round
// feed match i of the next one, the even child into the player1 slot.
// Returns the rows, the view and the next free match number.
func materializeKnockout(
	gen id.Generator,
	tournamentID, categoryID string,
	plan *draw.KnockoutPlan,
	startNumber int,
) ([]match.Match, *draw.KnockoutBracket, int, error) {
	bracket := &draw.KnockoutBracket{
		BracketSize: plan.BracketSize,
		ByeCount:    plan.ByeCount,
		Rounds:      make([]draw.Round, 0, len(plan.Rounds)),
	}

	rows := make([][]match.Match, len(plan.Rounds))
	number := startNumber
	for roundIdx, matchups := range plan.Rounds {
		viewRound := draw.Round{RoundNumber: plan.TotalRounds - roundIdx}
		for _, m := range matchups {
			rowID, err := gen.NewID()
			if err != nil {
				return nil, nil, 0, fmt.Errorf("generate match id: %w", err)
			}

			row := match.Match{
				ID:           rowID,
				TournamentID: tournamentID,
				CategoryID:   categoryID,
				Stage:        match.StageKnockout,
				Round:        m.Round,
				MatchNumber:  number,
				Status:       match.StatusPending,
			}
			if m.Player1 != nil {
				row.Player1ID = strPtr(m.Player1.PlayerID)
				row.Player1Seed = intPtr(m.Player1.Seed)
			}
			if m.Player2 != nil {
				row.Player2ID = strPtr(m.Player2.PlayerID)
				row.Player2Seed = intPtr(m.Player2.Seed)
			}
			switch {
			case m.Bye:
				row.Status = match.StatusByeCompleted
				row.WinnerID = strPtr(m.WinnerID)
			case m.Ready():
				row.Status = match.StatusReady
			}

			slot := draw.RoundSlot{
				MatchNumber: number,
				Player1:     copySlot(m.Player1),
				Player2:     copySlot(m.Player2),
				WinnerID:    m.WinnerID,
			}
			viewRound.Matches = append(viewRound.Matches, slot)

			rows[roundIdx] = append(rows[roundIdx], row)
			number++
		}
		bracket.Rounds = append(bracket.Rounds, viewRound)
	}

	out := make([]match.Match, 0, plan.BracketSize-1)
	for roundIdx := range rows {
		for i := range rows[roundIdx] {
			if roundIdx+1 < len(rows) {
				parent := rows[roundIdx+1][i/2]
				rows[roundIdx][i].ParentMatchID = strPtr(parent.ID)
				if i%2 == 0 {
					rows[roundIdx][i].WinnerPosition = match.PositionPlayer1
				} else {
					rows[roundIdx][i].WinnerPosition = match.PositionPlayer2
				}
			}
			out = append(out, rows[roundIdx][i])
		}
	}

	return out, bracket, number, nil
}

// materializeGroups flattens a round-robin plan into group-stage match
// rows plus the group view. Group rows carry no round or parent link;
// standings columns start zeroed.
func materializeGroups(
	gen id.Generator,
	tournamentID, categoryID string,
	plan *draw.RoundRobinPlan,
	startNumber int,
) ([]match.Match, *draw.RoundRobinStage, int, error) {
	stage := &draw.RoundRobinStage{
		NumberOfGroups: plan.NumberOfGroups,
		Groups:         make([]draw.Group, 0, len(plan.Groups)),
	}

	var out []match.Match
	number := startNumber
	for _, groupPlan := range plan.Groups {
		group := draw.Group{
			Name:         groupPlan.Name,
			TotalMatches: len(groupPlan.Matchups),
		}
		for _, entry := range groupPlan.Entries {
			group.Participants = append(group.Participants, draw.GroupEntry{
				PlayerID: entry.PlayerID,
				Name:     entry.Name,
				Seed:     entry.Seed,
			})
		}

		for _, m := range groupPlan.Matchups {
			rowID, err := gen.NewID()
			if err != nil {
				return nil, nil, 0, fmt.Errorf("generate match id: %w", err)
			}

			row := match.Match{
				ID:           rowID,
				TournamentID: tournamentID,
				CategoryID:   categoryID,
				Stage:        match.StageGroup,
				GroupName:    groupPlan.Name,
				MatchNumber:  number,
				Status:       match.StatusPending,
			}
			if m.Player1 != nil {
				row.Player1ID = strPtr(m.Player1.PlayerID)
				row.Player1Seed = intPtr(m.Player1.Seed)
			}
			if m.Player2 != nil {
				row.Player2ID = strPtr(m.Player2.PlayerID)
				row.Player2Seed = intPtr(m.Player2.Seed)
			}
			if m.Ready() {
				row.Status = match.StatusReady
			}

			group.MatchNumbers = append(group.MatchNumbers, number)
			out = append(out, row)
			number++
		}

		stage.Groups = append(stage.Groups, group)
	}

	return out, stage, number, nil
}

func copySlot(entry *draw.SlotEntry) *draw.SlotEntry {
	if entry == nil {
		return nil
	}
	out := *entry
	return &out
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }
