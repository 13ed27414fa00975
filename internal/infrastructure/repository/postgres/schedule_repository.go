package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
)

// ScheduleRepository stores the schedule document as JSONB, one row per
// category. The version column is authoritative and backs the
// optimistic concurrency check; the document's own version field is
// overwritten from it on read.
type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type scheduleTableModel struct {
	TournamentID string `db:"tournament_id"`
	CategoryID   string `db:"category_id"`
	Format       string `db:"format"`
	Version      int64  `db:"version"`
	Document     []byte `db:"document"`
}

func (r *ScheduleRepository) Get(ctx context.Context, tournamentID, categoryID string) (draw.Schedule, bool, error) {
	const query = `
SELECT tournament_id, category_id, format, version, document
FROM draw_schedules
WHERE tournament_id = $1
  AND category_id = $2`

	var row scheduleTableModel
	if err := r.db.GetContext(ctx, &row, query, tournamentID, categoryID); err != nil {
		if isNotFound(err) {
			return draw.Schedule{}, false, nil
		}
		return draw.Schedule{}, false, fmt.Errorf("get schedule: %w", err)
	}

	var schedule draw.Schedule
	if err := sonic.Unmarshal(row.Document, &schedule); err != nil {
		return draw.Schedule{}, false, fmt.Errorf("decode schedule document: %w", err)
	}
	schedule.Version = row.Version

	return schedule, true, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule draw.Schedule) error {
	document, err := sonic.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("encode schedule document: %w", err)
	}

	const query = `
INSERT INTO draw_schedules (tournament_id, category_id, format, version, document)
VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		schedule.TournamentID, schedule.CategoryID, schedule.Format, schedule.Version, document,
	); err != nil {
		if isUniqueViolation(err) {
			return draw.ErrScheduleExists
		}
		return fmt.Errorf("insert schedule: %w", err)
	}

	return nil
}

func (r *ScheduleRepository) Save(ctx context.Context, schedule draw.Schedule) error {
	next := schedule
	next.Version = schedule.Version + 1
	document, err := sonic.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode schedule document: %w", err)
	}

	const query = `
UPDATE draw_schedules
SET format = $3,
    version = $4,
    document = $5,
    updated_at = NOW()
WHERE tournament_id = $1
  AND category_id = $2
  AND version = $6`

	result, err := r.db.ExecContext(ctx, query,
		schedule.TournamentID, schedule.CategoryID, next.Format, next.Version, document, schedule.Version,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update schedule rows affected: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or someone saved first. Both are a
		// stale write from the caller's point of view.
		return draw.ErrVersionConflict
	}

	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, tournamentID, categoryID string) error {
	const query = `
DELETE FROM draw_schedules
WHERE tournament_id = $1
  AND category_id = $2`

	if _, err := r.db.ExecContext(ctx, query, tournamentID, categoryID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
