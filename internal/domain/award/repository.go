package award

import "context"

// Repository persists the award ledger. Create must fail with
// ErrAlreadyAwarded when an entry for the category already exists.
type Repository interface {
	GetByCategory(ctx context.Context, tournamentID, categoryID string) (LedgerEntry, bool, error)
	Create(ctx context.Context, entry LedgerEntry) error
}

// Sink receives the awarded points and updated win/loss/tournament
// counts. Implemented by the notification/points collaborator.
type Sink interface {
	Publish(ctx context.Context, entry LedgerEntry) error
}
