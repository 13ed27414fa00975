package match

import "context"

// Repository persists match rows and their score-event history.
// ReplaceForCategory must be all-or-nothing: a partially materialized
// category is a corruption state. Regeneration goes through it too, so
// the old rows survive until the replacement is complete.
type Repository interface {
	ReplaceForCategory(ctx context.Context, tournamentID, categoryID string, matches []Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	GetByNumber(ctx context.Context, tournamentID, categoryID string, matchNumber int) (Match, bool, error)
	ListByCategory(ctx context.Context, tournamentID, categoryID string) ([]Match, error)
	Update(ctx context.Context, m Match) error

	AppendScoreEvent(ctx context.Context, event ScoreEvent) error
	LatestScoreEvent(ctx context.Context, matchID string) (ScoreEvent, bool, error)
	DeleteScoreEvent(ctx context.Context, matchID string, sequence int) error
}
