package match

import "time"

// Match statuses. Structural byes are resolved at build time and
// persisted as BYE_COMPLETED; everything else follows
// PENDING → READY → IN_PROGRESS → COMPLETED.
const (
	StatusPending      = "PENDING"
	StatusReady        = "READY"
	StatusInProgress   = "IN_PROGRESS"
	StatusCompleted    = "COMPLETED"
	StatusByeCompleted = "BYE_COMPLETED"
)

// Stage tags a match row as group-phase or knockout-phase.
const (
	StageGroup    = "GROUP"
	StageKnockout = "KNOCKOUT"
)

// Winner positions name the parent slot a match's winner flows into.
const (
	PositionPlayer1 = "player1"
	PositionPlayer2 = "player2"
)

// Match is one persisted match row. Knockout rows form an arena tree:
// the parent is addressed by ParentMatchID (nil only for the final),
// never by object reference. Round uses reversed numbering, 1 = final.
type Match struct {
	ID             string
	TournamentID   string
	CategoryID     string
	Stage          string
	GroupName      string
	Round          int
	MatchNumber    int
	Player1ID      *string
	Player2ID      *string
	Player1Seed    *int
	Player2Seed    *int
	Status         string
	WinnerID       *string
	ParentMatchID  *string
	WinnerPosition string
	ScoreJSON      *string
}

// ScoreEvent is one entry of the append-only result history. The
// previous state is captured so an undo can restore it exactly.
type ScoreEvent struct {
	MatchID       string
	Sequence      int
	PrevStatus    string
	PrevWinnerID  *string
	PrevScoreJSON *string
	ScoreJSON     *string
	RecordedAt    time.Time
}

// Finished reports whether a result has been recorded (regular or bye).
func (m Match) Finished() bool {
	return m.Status == StatusCompleted || m.Status == StatusByeCompleted
}

// SlotsLocked reports whether the match's participant slots may no
// longer be reassigned.
func (m Match) SlotsLocked() bool {
	return m.Status == StatusInProgress || m.Finished()
}

// HasPlayer reports whether the given player occupies one of the slots.
func (m Match) HasPlayer(playerID string) bool {
	if m.Player1ID != nil && *m.Player1ID == playerID {
		return true
	}
	return m.Player2ID != nil && *m.Player2ID == playerID
}

// FilledSlots counts the non-empty participant slots.
func (m Match) FilledSlots() int {
	n := 0
	if m.Player1ID != nil {
		n++
	}
	if m.Player2ID != nil {
		n++
	}
	return n
}
