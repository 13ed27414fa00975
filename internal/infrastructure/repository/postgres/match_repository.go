package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

type matchTableModel struct {
	ID             string  `db:"id"`
	TournamentID   string  `db:"tournament_id"`
	CategoryID     string  `db:"category_id"`
	Stage          string  `db:"stage"`
	GroupName      string  `db:"group_name"`
	Round          int     `db:"round"`
	MatchNumber    int     `db:"match_number"`
	Player1ID      *string `db:"player1_id"`
	Player2ID      *string `db:"player2_id"`
	Player1Seed    *int    `db:"player1_seed"`
	Player2Seed    *int    `db:"player2_seed"`
	Status         string  `db:"status"`
	WinnerID       *string `db:"winner_id"`
	ParentMatchID  *string `db:"parent_match_id"`
	WinnerPosition string  `db:"winner_position"`
	ScoreJSON      *string `db:"score_json"`
}

type scoreEventTableModel struct {
	MatchID       string    `db:"match_id"`
	Sequence      int       `db:"sequence"`
	PrevStatus    string    `db:"prev_status"`
	PrevWinnerID  *string   `db:"prev_winner_id"`
	PrevScoreJSON *string   `db:"prev_score_json"`
	ScoreJSON     *string   `db:"score_json"`
	RecordedAt    time.Time `db:"recorded_at"`
}

const matchColumns = `id, tournament_id, category_id, stage, group_name, round, match_number,
player1_id, player2_id, player1_seed, player2_seed, status, winner_id,
parent_match_id, winner_position, score_json`

func (r *MatchRepository) ReplaceForCategory(ctx context.Context, tournamentID, categoryID string, matches []match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteCategoryMatches(ctx, tx, tournamentID, categoryID); err != nil {
		return err
	}

	const insertQuery = `
INSERT INTO matches (id, tournament_id, category_id, stage, group_name, round, match_number,
	player1_id, player2_id, player1_seed, player2_seed, status, winner_id,
	parent_match_id, winner_position, score_json)
VALUES (:id, :tournament_id, :category_id, :stage, :group_name, :round, :match_number,
	:player1_id, :player2_id, :player1_seed, :player2_seed, :status, :winner_id,
	:parent_match_id, :winner_position, :score_json)`

	for _, m := range matches {
		if _, err := tx.NamedExecContext(ctx, insertQuery, matchToTableModel(m)); err != nil {
			return fmt.Errorf("insert match %d: %w", m.MatchNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match replace: %w", err)
	}
	return nil
}

func deleteCategoryMatches(ctx context.Context, tx *sqlx.Tx, tournamentID, categoryID string) error {
	const deleteEventsQuery = `
DELETE FROM match_score_events
WHERE match_id IN (
	SELECT id FROM matches WHERE tournament_id = $1 AND category_id = $2
)`

	if _, err := tx.ExecContext(ctx, deleteEventsQuery, tournamentID, categoryID); err != nil {
		return fmt.Errorf("delete category score events: %w", err)
	}

	const deleteMatchesQuery = `
DELETE FROM matches
WHERE tournament_id = $1
  AND category_id = $2`

	if _, err := tx.ExecContext(ctx, deleteMatchesQuery, tournamentID, categoryID); err != nil {
		return fmt.Errorf("delete category matches: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	const query = `
SELECT ` + matchColumns + `
FROM matches
WHERE id = $1`

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return matchFromTableModel(row), true, nil
}

func (r *MatchRepository) GetByNumber(ctx context.Context, tournamentID, categoryID string, matchNumber int) (match.Match, bool, error) {
	const query = `
SELECT ` + matchColumns + `
FROM matches
WHERE tournament_id = $1
  AND category_id = $2
  AND match_number = $3`

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, tournamentID, categoryID, matchNumber); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by number: %w", err)
	}

	return matchFromTableModel(row), true, nil
}

func (r *MatchRepository) ListByCategory(ctx context.Context, tournamentID, categoryID string) ([]match.Match, error) {
	const query = `
SELECT ` + matchColumns + `
FROM matches
WHERE tournament_id = $1
  AND category_id = $2
ORDER BY match_number`

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tournamentID, categoryID); err != nil {
		return nil, fmt.Errorf("list category matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromTableModel(row))
	}
	return out, nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	const query = `
UPDATE matches
SET player1_id = :player1_id,
    player2_id = :player2_id,
    player1_seed = :player1_seed,
    player2_seed = :player2_seed,
    status = :status,
    winner_id = :winner_id,
    score_json = :score_json,
    updated_at = NOW()
WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, matchToTableModel(m))
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update match %s: row not found", m.ID)
	}
	return nil
}

func (r *MatchRepository) AppendScoreEvent(ctx context.Context, event match.ScoreEvent) error {
	const query = `
INSERT INTO match_score_events (match_id, sequence, prev_status, prev_winner_id, prev_score_json, score_json, recorded_at)
VALUES (:match_id, :sequence, :prev_status, :prev_winner_id, :prev_score_json, :score_json, :recorded_at)`

	if _, err := r.db.NamedExecContext(ctx, query, scoreEventTableModel{
		MatchID:       event.MatchID,
		Sequence:      event.Sequence,
		PrevStatus:    event.PrevStatus,
		PrevWinnerID:  event.PrevWinnerID,
		PrevScoreJSON: event.PrevScoreJSON,
		ScoreJSON:     event.ScoreJSON,
		RecordedAt:    event.RecordedAt,
	}); err != nil {
		return fmt.Errorf("insert score event: %w", err)
	}
	return nil
}

func (r *MatchRepository) LatestScoreEvent(ctx context.Context, matchID string) (match.ScoreEvent, bool, error) {
	const query = `
SELECT match_id, sequence, prev_status, prev_winner_id, prev_score_json, score_json, recorded_at
FROM match_score_events
WHERE match_id = $1
ORDER BY sequence DESC
LIMIT 1`

	var row scoreEventTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.ScoreEvent{}, false, nil
		}
		return match.ScoreEvent{}, false, fmt.Errorf("get latest score event: %w", err)
	}

	return match.ScoreEvent{
		MatchID:       row.MatchID,
		Sequence:      row.Sequence,
		PrevStatus:    row.PrevStatus,
		PrevWinnerID:  row.PrevWinnerID,
		PrevScoreJSON: row.PrevScoreJSON,
		ScoreJSON:     row.ScoreJSON,
		RecordedAt:    row.RecordedAt,
	}, true, nil
}

func (r *MatchRepository) DeleteScoreEvent(ctx context.Context, matchID string, sequence int) error {
	const query = `
DELETE FROM match_score_events
WHERE match_id = $1
  AND sequence = $2`

	if _, err := r.db.ExecContext(ctx, query, matchID, sequence); err != nil {
		return fmt.Errorf("delete score event: %w", err)
	}
	return nil
}

func matchToTableModel(m match.Match) matchTableModel {
	return matchTableModel{
		ID:             m.ID,
		TournamentID:   m.TournamentID,
		CategoryID:     m.CategoryID,
		Stage:          m.Stage,
		GroupName:      m.GroupName,
		Round:          m.Round,
		MatchNumber:    m.MatchNumber,
		Player1ID:      m.Player1ID,
		Player2ID:      m.Player2ID,
		Player1Seed:    m.Player1Seed,
		Player2Seed:    m.Player2Seed,
		Status:         m.Status,
		WinnerID:       m.WinnerID,
		ParentMatchID:  m.ParentMatchID,
		WinnerPosition: m.WinnerPosition,
		ScoreJSON:      m.ScoreJSON,
	}
}

func matchFromTableModel(row matchTableModel) match.Match {
	return match.Match{
		ID:             row.ID,
		TournamentID:   row.TournamentID,
		CategoryID:     row.CategoryID,
		Stage:          row.Stage,
		GroupName:      row.GroupName,
		Round:          row.Round,
		MatchNumber:    row.MatchNumber,
		Player1ID:      row.Player1ID,
		Player2ID:      row.Player2ID,
		Player1Seed:    row.Player1Seed,
		Player2Seed:    row.Player2Seed,
		Status:         row.Status,
		WinnerID:       row.WinnerID,
		ParentMatchID:  row.ParentMatchID,
		WinnerPosition: row.WinnerPosition,
		ScoreJSON:      row.ScoreJSON,
	}
}
