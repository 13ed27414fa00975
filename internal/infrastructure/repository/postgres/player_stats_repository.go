package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

type playerStatsTableModel struct {
	PlayerID          string `db:"player_id"`
	MatchesPlayed     int    `db:"matches_played"`
	MatchesWon        int    `db:"matches_won"`
	MatchesLost       int    `db:"matches_lost"`
	TournamentsPlayed int    `db:"tournaments_played"`
	TournamentsWon    int    `db:"tournaments_won"`
	AwardPoints       int    `db:"award_points"`
}

func (r *PlayerStatsRepository) GetByPlayers(ctx context.Context, playerIDs []string) (map[string]stats.PlayerStats, error) {
	out := make(map[string]stats.PlayerStats, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	const query = `
SELECT player_id, matches_played, matches_won, matches_lost, tournaments_played, tournaments_won, award_points
FROM player_stats
WHERE player_id = ANY($1)`

	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(playerIDs)); err != nil {
		return nil, fmt.Errorf("select player stats: %w", err)
	}

	for _, row := range rows {
		out[row.PlayerID] = stats.PlayerStats{
			PlayerID:          row.PlayerID,
			MatchesPlayed:     row.MatchesPlayed,
			MatchesWon:        row.MatchesWon,
			MatchesLost:       row.MatchesLost,
			TournamentsPlayed: row.TournamentsPlayed,
			TournamentsWon:    row.TournamentsWon,
			AwardPoints:       row.AwardPoints,
		}
	}
	return out, nil
}

// ApplyDeltas upserts incremental stat changes. Deltas for the same
// player add onto whatever totals are already stored.
func (r *PlayerStatsRepository) ApplyDeltas(ctx context.Context, deltas []stats.Delta) error {
	if len(deltas) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for stat deltas: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO player_stats (player_id, matches_played, matches_won, matches_lost, tournaments_played, tournaments_won, award_points)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (player_id)
DO UPDATE SET
    matches_played = player_stats.matches_played + EXCLUDED.matches_played,
    matches_won = player_stats.matches_won + EXCLUDED.matches_won,
    matches_lost = player_stats.matches_lost + EXCLUDED.matches_lost,
    tournaments_played = player_stats.tournaments_played + EXCLUDED.tournaments_played,
    tournaments_won = player_stats.tournaments_won + EXCLUDED.tournaments_won,
    award_points = player_stats.award_points + EXCLUDED.award_points,
    updated_at = NOW()`

	for _, d := range deltas {
		if _, err := tx.ExecContext(ctx, query,
			d.PlayerID, d.MatchesPlayed, d.MatchesWon, d.MatchesLost,
			d.TournamentsPlayed, d.TournamentsWon, d.AwardPoints,
		); err != nil {
			return fmt.Errorf("apply stat delta for %s: %w", d.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stat deltas: %w", err)
	}
	return nil
}
