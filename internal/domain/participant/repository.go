package participant

import "context"

// Repository is the registration source: it yields the confirmed
// participants of a category. Registration itself (forms, payment
// confirmation) is owned elsewhere; the engine only reads.
type Repository interface {
	ListConfirmedByCategory(ctx context.Context, tournamentID, categoryID string) ([]Participant, error)
	ReplaceForCategory(ctx context.Context, tournamentID, categoryID string, participants []Participant) error
}
