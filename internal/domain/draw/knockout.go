package draw

import (
	"errors"
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
)

var ErrNotEnoughParticipants = errors.New("not enough participants for a draw (minimum 2)")

// Matchup is one planned match produced by a builder, before
// materialization into a persisted row. Knockout matchups carry Round
// (reversed numbering) and OrderInRound; group matchups carry
// GroupName. A structural bye is completed at build time with the
// present player as winner.
type Matchup struct {
	Round        int
	OrderInRound int
	GroupName    string
	Player1      *SlotEntry
	Player2      *SlotEntry
	Bye          bool
	WinnerID     string
}

// Ready reports whether both slots are resolved and no winner is set.
func (m Matchup) Ready() bool {
	return !m.Bye && m.WinnerID == "" &&
		m.Player1 != nil && m.Player1.PlayerID != "" &&
		m.Player2 != nil && m.Player2.PlayerID != ""
}

// KnockoutPlan is a built single-elimination bracket. Rounds are in
// play order: Rounds[0] is the first round played, the last entry is
// the final.
type KnockoutPlan struct {
	BracketSize int
	ByeCount    int
	TotalRounds int
	Rounds      [][]Matchup
}

// BuildKnockout builds a full single-elimination bracket from a seeded
// participant list (seeds contiguous from 1). First-round pairings
// follow StandardPairing; a pairing whose weaker seed position exceeds
// the participant count becomes a bye, completed immediately with the
// present player as winner. Later rounds pair consecutive matches of
// the previous round, carrying known winners forward.
func BuildKnockout(seeded []participant.Participant) (*KnockoutPlan, error) {
	n := len(seeded)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughParticipants, n)
	}

	bySeed := make(map[int]*SlotEntry, n)
	for _, p := range seeded {
		if p.Seed < 1 || p.Seed > n {
			return nil, fmt.Errorf("seed %d out of range 1..%d", p.Seed, n)
		}
		if _, dup := bySeed[p.Seed]; dup {
			return nil, fmt.Errorf("duplicate seed %d", p.Seed)
		}
		bySeed[p.Seed] = &SlotEntry{PlayerID: p.PlayerID, Name: p.Name, Seed: p.Seed}
	}

	size := BracketSize(n)
	totalRounds := TotalRounds(size)

	plan := &KnockoutPlan{
		BracketSize: size,
		ByeCount:    size - n,
		TotalRounds: totalRounds,
		Rounds:      make([][]Matchup, 0, totalRounds),
	}

	firstRound := make([]Matchup, 0, size/2)
	winners := make([]*SlotEntry, 0, size/2)
	for i, pair := range StandardPairing(size) {
		m := Matchup{
			Round:        totalRounds,
			OrderInRound: i + 1,
			Player1:      bySeed[pair[0]],
			Player2:      bySeed[pair[1]],
		}
		// The stronger seed position is always occupied: seed
		// pair[0] <= size/2 < n. Only the weaker side can be a bye.
		if m.Player2 == nil {
			m.Bye = true
			m.WinnerID = m.Player1.PlayerID
			winners = append(winners, m.Player1)
		} else {
			winners = append(winners, nil)
		}
		firstRound = append(firstRound, m)
	}
	plan.Rounds = append(plan.Rounds, firstRound)

	for round := totalRounds - 1; round >= 1; round-- {
		next := make([]Matchup, 0, len(winners)/2)
		nextWinners := make([]*SlotEntry, 0, len(winners)/2)
		for i := 0; i < len(winners); i += 2 {
			next = append(next, Matchup{
				Round:        round,
				OrderInRound: i/2 + 1,
				Player1:      winners[i],
				Player2:      winners[i+1],
			})
			nextWinners = append(nextWinners, nil)
		}
		plan.Rounds = append(plan.Rounds, next)
		winners = nextWinners
	}

	return plan, nil
}

// BuildEmptyKnockout builds a knockout whose slots all start empty.
// Used by the hybrid format: the advancement stage is laid out when the
// draw is generated but only populated once the group stage completes.
func BuildEmptyKnockout(slots int) (*KnockoutPlan, error) {
	if slots < 2 {
		return nil, fmt.Errorf("%w: %d knockout slots", ErrNotEnoughParticipants, slots)
	}

	size := BracketSize(slots)
	totalRounds := TotalRounds(size)

	plan := &KnockoutPlan{
		BracketSize: size,
		TotalRounds: totalRounds,
		Rounds:      make([][]Matchup, 0, totalRounds),
	}
	for round := totalRounds; round >= 1; round-- {
		matches := make([]Matchup, 0, 1<<(round-1))
		for i := 0; i < 1<<(round-1); i++ {
			matches = append(matches, Matchup{Round: round, OrderInRound: i + 1})
		}
		plan.Rounds = append(plan.Rounds, matches)
	}
	return plan, nil
}
