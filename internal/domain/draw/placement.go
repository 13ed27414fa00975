package draw

// Reversed round numbers of the placement-relevant rounds. The final
// is round 1; each step away from it raises the number by one.
const (
	finalRound     = 1
	semiFinalRound = 2
	quarterRound   = 3
)

// PlacementSet is a category's resolved finishing tiers. Derived from
// the completed match set, never stored.
type PlacementSet struct {
	WinnerID         string
	RunnerUpID       string
	SemiFinalists    []string
	QuarterFinalists []string
	Participants     []string
}

// KnockoutResult is one completed knockout match reduced to what
// placement resolution needs. A bye has an empty loser side.
type KnockoutResult struct {
	Round     int
	Player1ID string
	Player2ID string
	WinnerID  string
}

// ResolvePlacements derives final placements. Winner and runner-up come
// from the category record (set when the final completed);
// semifinalists are the losers of round-2 matches and quarterfinalists
// the losers of round-3 matches, but only when the bracket actually has
// those rounds: the depths follow totalRounds, not fixed round
// numbers. Every remaining confirmed player places as a participant.
// No player is ever counted in two tiers.
func ResolvePlacements(
	totalRounds int,
	winnerID, runnerUpID string,
	completed []KnockoutResult,
	confirmed []string,
) PlacementSet {
	out := PlacementSet{WinnerID: winnerID, RunnerUpID: runnerUpID}

	placed := make(map[string]struct{})
	if winnerID != "" {
		placed[winnerID] = struct{}{}
	}
	if runnerUpID != "" {
		placed[runnerUpID] = struct{}{}
	}

	collectLosers := func(round int) []string {
		var losers []string
		for _, result := range completed {
			if result.Round != round || result.WinnerID == "" {
				continue
			}
			loser := result.Player1ID
			if result.WinnerID == result.Player1ID {
				loser = result.Player2ID
			}
			if loser == "" {
				continue // bye: nobody lost
			}
			if _, done := placed[loser]; done {
				continue
			}
			placed[loser] = struct{}{}
			losers = append(losers, loser)
		}
		return losers
	}

	if totalRounds >= semiFinalRound {
		out.SemiFinalists = collectLosers(semiFinalRound)
	}
	if totalRounds >= quarterRound {
		out.QuarterFinalists = collectLosers(quarterRound)
	}

	for _, playerID := range confirmed {
		if playerID == "" {
			continue
		}
		if _, done := placed[playerID]; done {
			continue
		}
		placed[playerID] = struct{}{}
		out.Participants = append(out.Participants, playerID)
	}

	return out
}
