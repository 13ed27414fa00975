package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

type participantTableModel struct {
	ID           string  `db:"id"`
	TournamentID string  `db:"tournament_id"`
	CategoryID   string  `db:"category_id"`
	PlayerID     string  `db:"player_id"`
	Name         string  `db:"name"`
	Seed         int     `db:"seed"`
	SeedScore    float64 `db:"seed_score"`
}

func (r *ParticipantRepository) ListConfirmedByCategory(ctx context.Context, tournamentID, categoryID string) ([]participant.Participant, error) {
	const query = `
SELECT id, tournament_id, category_id, player_id, name, seed, seed_score
FROM draw_participants
WHERE tournament_id = $1
  AND category_id = $2
ORDER BY seed, player_id`

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tournamentID, categoryID); err != nil {
		return nil, fmt.Errorf("list confirmed participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participant.Participant{
			ID:           row.ID,
			TournamentID: row.TournamentID,
			CategoryID:   row.CategoryID,
			PlayerID:     row.PlayerID,
			Name:         row.Name,
			Seed:         row.Seed,
			SeedScore:    row.SeedScore,
		})
	}
	return out, nil
}

func (r *ParticipantRepository) ReplaceForCategory(ctx context.Context, tournamentID, categoryID string, participants []participant.Participant) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for participant replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `
DELETE FROM draw_participants
WHERE tournament_id = $1
  AND category_id = $2`

	if _, err := tx.ExecContext(ctx, deleteQuery, tournamentID, categoryID); err != nil {
		return fmt.Errorf("delete category participants: %w", err)
	}

	const insertQuery = `
INSERT INTO draw_participants (id, tournament_id, category_id, player_id, name, seed, seed_score)
VALUES (:id, :tournament_id, :category_id, :player_id, :name, :seed, :seed_score)`

	for _, p := range participants {
		if _, err := tx.NamedExecContext(ctx, insertQuery, participantTableModel{
			ID:           p.ID,
			TournamentID: p.TournamentID,
			CategoryID:   p.CategoryID,
			PlayerID:     p.PlayerID,
			Name:         p.Name,
			Seed:         p.Seed,
			SeedScore:    p.SeedScore,
		}); err != nil {
			return fmt.Errorf("insert participant %s: %w", p.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit participant replace: %w", err)
	}
	return nil
}
