package draw

import (
	"context"
	"errors"
)

var (
	// ErrScheduleExists signals a draw being created where one already
	// is; callers must regenerate explicitly instead.
	ErrScheduleExists = errors.New("schedule already exists for category")
	// ErrVersionConflict signals a concurrent modification detected by
	// the optimistic version check. Retryable.
	ErrVersionConflict = errors.New("schedule version conflict")
)

// Repository persists the schedule document, one per category. Save
// must compare the stored version with the caller's and reject stale
// writes with ErrVersionConflict, incrementing the version on success.
type Repository interface {
	Get(ctx context.Context, tournamentID, categoryID string) (Schedule, bool, error)
	Create(ctx context.Context, schedule Schedule) error
	Save(ctx context.Context, schedule Schedule) error
	Delete(ctx context.Context, tournamentID, categoryID string) error
}
