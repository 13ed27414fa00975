package usecase

import (
	"context"
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
)

// loadSchedule fetches and shape-validates a category's schedule
// document. A document that fails validation is surfaced as corrupt,
// never silently repaired.
func loadSchedule(ctx context.Context, repo draw.Repository, tournamentID, categoryID string) (draw.Schedule, error) {
	schedule, exists, err := repo.Get(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.Schedule{}, fmt.Errorf("get schedule: %w", err)
	}
	if !exists {
		return draw.Schedule{}, fmt.Errorf("%w: no draw for category=%s", ErrNotFound, categoryID)
	}
	if err := schedule.Validate(); err != nil {
		return draw.Schedule{}, fmt.Errorf("%w: %v", ErrCorruptSchedule, err)
	}
	return schedule, nil
}
