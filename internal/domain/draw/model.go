package draw

import (
	"errors"
	"fmt"
)

// Draw formats. ROUND_ROBIN_KNOCKOUT combines a group stage with a
// knockout stage whose slots are filled once the groups finish.
const (
	FormatKnockout           = "KNOCKOUT"
	FormatRoundRobin         = "ROUND_ROBIN"
	FormatRoundRobinKnockout = "ROUND_ROBIN_KNOCKOUT"
)

// ErrMalformedSchedule marks a schedule document that fails shape
// validation on read. Surfaced as a fatal error for the category, never
// silently repaired.
var ErrMalformedSchedule = errors.New("malformed schedule document")

// SlotEntry identifies the occupant of one participant slot.
type SlotEntry struct {
	PlayerID string `json:"id"`
	Name     string `json:"name"`
	Seed     int    `json:"seed"`
}

// RoundSlot mirrors one knockout match in the schedule view. Player
// slots are nil until a feeder match resolves them.
type RoundSlot struct {
	MatchNumber int        `json:"matchNumber"`
	Player1     *SlotEntry `json:"player1"`
	Player2     *SlotEntry `json:"player2"`
	Score1      *string    `json:"score1"`
	Score2      *string    `json:"score2"`
	WinnerID    string     `json:"winner,omitempty"`
}

// Round is one knockout round. RoundNumber uses reversed numbering:
// 1 = final, larger numbers are earlier rounds.
type Round struct {
	RoundNumber int         `json:"roundNumber"`
	Matches     []RoundSlot `json:"matches"`
}

type KnockoutBracket struct {
	BracketSize       int     `json:"bracketSize"`
	TotalParticipants int     `json:"totalParticipants"`
	ByeCount          int     `json:"byeCount"`
	Rounds            []Round `json:"rounds"`
}

// GroupEntry is one participant row of a group, standings included.
// Standings fields are rebuilt from scratch on every recompute.
type GroupEntry struct {
	PlayerID string `json:"id"`
	Name     string `json:"name"`
	Seed     int    `json:"seed"`
	Played   int    `json:"played"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Points   int    `json:"points"`
}

// Group is one round-robin pool. MatchNumbers references the group's
// match rows by their per-category number.
type Group struct {
	Name         string       `json:"groupName"`
	Participants []GroupEntry `json:"participants"`
	MatchNumbers []int        `json:"matches"`
	TotalMatches int          `json:"totalMatches"`
}

type RoundRobinStage struct {
	NumberOfGroups   int     `json:"numberOfGroups"`
	AdvanceFromGroup int     `json:"advanceFromGroup,omitempty"`
	Groups           []Group `json:"groups"`
}

// Schedule is the persisted draw document of one category, a tagged
// union discriminated by Format. Version backs optimistic concurrency
// at the persistence layer.
type Schedule struct {
	TournamentID      string           `json:"tournamentId"`
	CategoryID        string           `json:"categoryId"`
	Format            string           `json:"format"`
	Version           int64            `json:"version"`
	TotalParticipants int              `json:"totalParticipants"`
	WinnerID          string           `json:"winnerId,omitempty"`
	RunnerUpID        string           `json:"runnerUpId,omitempty"`
	Knockout          *KnockoutBracket `json:"knockout,omitempty"`
	RoundRobin        *RoundRobinStage `json:"roundRobin,omitempty"`
}

// Validate enforces the tagged-union shape. Called at the persistence
// boundary so consumers can switch on Format without guessing.
func (s *Schedule) Validate() error {
	switch s.Format {
	case FormatKnockout:
		if s.Knockout == nil {
			return fmt.Errorf("%w: format %s without knockout part", ErrMalformedSchedule, s.Format)
		}
		if s.RoundRobin != nil {
			return fmt.Errorf("%w: format %s carries a group stage", ErrMalformedSchedule, s.Format)
		}
	case FormatRoundRobin:
		if s.RoundRobin == nil {
			return fmt.Errorf("%w: format %s without group part", ErrMalformedSchedule, s.Format)
		}
		if s.Knockout != nil {
			return fmt.Errorf("%w: format %s carries a knockout part", ErrMalformedSchedule, s.Format)
		}
	case FormatRoundRobinKnockout:
		if s.RoundRobin == nil || s.Knockout == nil {
			return fmt.Errorf("%w: format %s requires both stages", ErrMalformedSchedule, s.Format)
		}
	default:
		return fmt.Errorf("%w: unknown format %q", ErrMalformedSchedule, s.Format)
	}

	if s.Knockout != nil {
		if err := s.Knockout.validate(); err != nil {
			return err
		}
	}
	if s.RoundRobin != nil {
		if err := s.RoundRobin.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b *KnockoutBracket) validate() error {
	if b.BracketSize < 2 || b.BracketSize&(b.BracketSize-1) != 0 {
		return fmt.Errorf("%w: bracket size %d is not a power of two", ErrMalformedSchedule, b.BracketSize)
	}
	total := TotalRounds(b.BracketSize)
	if len(b.Rounds) != total {
		return fmt.Errorf("%w: %d rounds for bracket size %d, want %d",
			ErrMalformedSchedule, len(b.Rounds), b.BracketSize, total)
	}
	for i, round := range b.Rounds {
		wantNumber := total - i
		if round.RoundNumber != wantNumber {
			return fmt.Errorf("%w: round %d numbered %d, want %d",
				ErrMalformedSchedule, i, round.RoundNumber, wantNumber)
		}
		wantMatches := 1 << (round.RoundNumber - 1)
		if len(round.Matches) != wantMatches {
			return fmt.Errorf("%w: round %d has %d matches, want %d",
				ErrMalformedSchedule, round.RoundNumber, len(round.Matches), wantMatches)
		}
	}
	return nil
}

func (s *RoundRobinStage) validate() error {
	if s.NumberOfGroups < 1 || len(s.Groups) != s.NumberOfGroups {
		return fmt.Errorf("%w: %d groups declared, %d present",
			ErrMalformedSchedule, s.NumberOfGroups, len(s.Groups))
	}
	for _, group := range s.Groups {
		k := len(group.Participants)
		if want := k * (k - 1) / 2; group.TotalMatches != want {
			return fmt.Errorf("%w: group %s totalMatches %d, want %d for %d participants",
				ErrMalformedSchedule, group.Name, group.TotalMatches, want, k)
		}
	}
	return nil
}
