package stats

import "context"

// Repository is the stats source backing seeding.
type Repository interface {
	GetByPlayers(ctx context.Context, playerIDs []string) (map[string]PlayerStats, error)
	ApplyDeltas(ctx context.Context, deltas []Delta) error
}

// Delta is one player's increment applied after a category completes.
type Delta struct {
	PlayerID          string
	MatchesPlayed     int
	MatchesWon        int
	MatchesLost       int
	TournamentsPlayed int
	TournamentsWon    int
	AwardPoints       int
}
