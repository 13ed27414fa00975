package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
)

type AwardLedgerRepository struct {
	db *sqlx.DB
}

func NewAwardLedgerRepository(db *sqlx.DB) *AwardLedgerRepository {
	return &AwardLedgerRepository{db: db}
}

type awardLedgerTableModel struct {
	TournamentID string    `db:"tournament_id"`
	CategoryID   string    `db:"category_id"`
	AwardedAt    time.Time `db:"awarded_at"`
}

type awardLineTableModel struct {
	TournamentID string `db:"tournament_id"`
	CategoryID   string `db:"category_id"`
	PlayerID     string `db:"player_id"`
	Placement    string `db:"placement"`
	Points       int    `db:"points"`
}

func (r *AwardLedgerRepository) GetByCategory(ctx context.Context, tournamentID, categoryID string) (award.LedgerEntry, bool, error) {
	const entryQuery = `
SELECT tournament_id, category_id, awarded_at
FROM award_ledger
WHERE tournament_id = $1
  AND category_id = $2`

	var entryRow awardLedgerTableModel
	if err := r.db.GetContext(ctx, &entryRow, entryQuery, tournamentID, categoryID); err != nil {
		if isNotFound(err) {
			return award.LedgerEntry{}, false, nil
		}
		return award.LedgerEntry{}, false, fmt.Errorf("get award ledger entry: %w", err)
	}

	const linesQuery = `
SELECT tournament_id, category_id, player_id, placement, points
FROM award_lines
WHERE tournament_id = $1
  AND category_id = $2
ORDER BY points DESC, player_id`

	var lineRows []awardLineTableModel
	if err := r.db.SelectContext(ctx, &lineRows, linesQuery, tournamentID, categoryID); err != nil {
		return award.LedgerEntry{}, false, fmt.Errorf("list award lines: %w", err)
	}

	lines := make([]award.Line, 0, len(lineRows))
	for _, row := range lineRows {
		lines = append(lines, award.Line{
			PlayerID:  row.PlayerID,
			Placement: row.Placement,
			Points:    row.Points,
		})
	}

	return award.LedgerEntry{
		TournamentID: entryRow.TournamentID,
		CategoryID:   entryRow.CategoryID,
		AwardedAt:    entryRow.AwardedAt,
		Lines:        lines,
	}, true, nil
}

func (r *AwardLedgerRepository) Create(ctx context.Context, entry award.LedgerEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for award ledger create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const entryQuery = `
INSERT INTO award_ledger (tournament_id, category_id, awarded_at)
VALUES ($1, $2, $3)`

	if _, err := tx.ExecContext(ctx, entryQuery, entry.TournamentID, entry.CategoryID, entry.AwardedAt); err != nil {
		if isUniqueViolation(err) {
			return award.ErrAlreadyAwarded
		}
		return fmt.Errorf("insert award ledger entry: %w", err)
	}

	const lineQuery = `
INSERT INTO award_lines (tournament_id, category_id, player_id, placement, points)
VALUES (:tournament_id, :category_id, :player_id, :placement, :points)`

	for _, line := range entry.Lines {
		if _, err := tx.NamedExecContext(ctx, lineQuery, awardLineTableModel{
			TournamentID: entry.TournamentID,
			CategoryID:   entry.CategoryID,
			PlayerID:     line.PlayerID,
			Placement:    line.Placement,
			Points:       line.Points,
		}); err != nil {
			return fmt.Errorf("insert award line for %s: %w", line.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit award ledger create: %w", err)
	}
	return nil
}
