package draw

import "sort"

// Points awarded per group match. Draws are not modeled: every match
// has a winner.
const (
	PointsPerWin  = 2
	PointsPerLoss = 0
)

// MatchResult is one completed group match, reduced to what standings
// need.
type MatchResult struct {
	Player1ID string
	Player2ID string
	WinnerID  string
}

// RecomputeStandings rebuilds a group's table from scratch: counters
// reset to zero, then every completed match whose both players belong
// to the group is folded in. The result is sorted by points descending,
// then wins descending, stable beyond that (insertion order; no
// head-to-head tie-break is applied).
func RecomputeStandings(entries []GroupEntry, results []MatchResult) []GroupEntry {
	out := make([]GroupEntry, len(entries))
	copy(out, entries)

	index := make(map[string]int, len(out))
	for i := range out {
		out[i].Played = 0
		out[i].Wins = 0
		out[i].Losses = 0
		out[i].Points = 0
		if out[i].PlayerID != "" {
			index[out[i].PlayerID] = i
		}
	}

	for _, result := range results {
		i, ok1 := index[result.Player1ID]
		j, ok2 := index[result.Player2ID]
		if !ok1 || !ok2 || result.WinnerID == "" {
			continue
		}

		out[i].Played++
		out[j].Played++

		winner, loser := i, j
		if result.WinnerID == result.Player2ID {
			winner, loser = j, i
		} else if result.WinnerID != result.Player1ID {
			continue
		}
		out[winner].Wins++
		out[winner].Points += PointsPerWin
		out[loser].Losses++
		out[loser].Points += PointsPerLoss
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Wins > out[j].Wins
	})

	return out
}
