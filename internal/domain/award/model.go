package award

import (
	"errors"
	"time"
)

// Placement tiers, strongest first.
const (
	PlacementWinner          = "WINNER"
	PlacementRunnerUp        = "RUNNER_UP"
	PlacementSemiFinalist    = "SEMI_FINALIST"
	PlacementQuarterFinalist = "QUARTER_FINALIST"
	PlacementParticipant     = "PARTICIPANT"
)

var ErrAlreadyAwarded = errors.New("category already awarded")

// PointsFor returns the fixed award tariff for a placement tier.
func PointsFor(placement string) int {
	switch placement {
	case PlacementWinner:
		return 10
	case PlacementRunnerUp:
		return 8
	case PlacementSemiFinalist:
		return 6
	case PlacementQuarterFinalist:
		return 4
	case PlacementParticipant:
		return 2
	default:
		return 0
	}
}

// Line is one player's awarded placement within a category.
type Line struct {
	PlayerID  string
	Placement string
	Points    int
}

// LedgerEntry records that a category's points have been handed out.
// At most one entry exists per (tournament, category); its presence is
// the idempotency guard against double-awarding.
type LedgerEntry struct {
	TournamentID string
	CategoryID   string
	AwardedAt    time.Time
	Lines        []Line
}
