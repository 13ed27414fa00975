package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/participant"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/stats"
)

// PlacementService derives final placements from a completed knockout
// stage and hands out award points exactly once per category. The
// award ledger is the idempotency guard: a second award call returns
// the stored entry instead of doubling anything.
type PlacementService struct {
	drawRepo        draw.Repository
	matchRepo       match.Repository
	participantRepo participant.Repository
	awardRepo       award.Repository
	statsRepo       stats.Repository
	sink            award.Sink
	locks           *CategoryLocks
	now             func() time.Time
}

func NewPlacementService(
	drawRepo draw.Repository,
	matchRepo match.Repository,
	participantRepo participant.Repository,
	awardRepo award.Repository,
	statsRepo stats.Repository,
	sink award.Sink,
	locks *CategoryLocks,
) *PlacementService {
	return &PlacementService{
		drawRepo:        drawRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		awardRepo:       awardRepo,
		statsRepo:       statsRepo,
		sink:            sink,
		locks:           locks,
		now:             time.Now,
	}
}

// Resolve derives the category's placement tiers from the completed
// knockout matches. Requires a finished final; read-only.
func (s *PlacementService) Resolve(ctx context.Context, tournamentID, categoryID string) (draw.PlacementSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlacementService.Resolve")
	defer span.End()

	return s.resolve(ctx, tournamentID, categoryID)
}

func (s *PlacementService) resolve(ctx context.Context, tournamentID, categoryID string) (draw.PlacementSet, error) {
	schedule, err := loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
	if err != nil {
		return draw.PlacementSet{}, err
	}
	if schedule.Knockout == nil {
		return draw.PlacementSet{}, fmt.Errorf("%w: placements derive from a knockout stage, category %s has none", ErrInvalidInput, categoryID)
	}
	if schedule.WinnerID == "" {
		return draw.PlacementSet{}, fmt.Errorf("%w: final of category %s is not completed", ErrConflict, categoryID)
	}

	rows, err := s.matchRepo.ListByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.PlacementSet{}, fmt.Errorf("list category matches: %w", err)
	}

	var completed []draw.KnockoutResult
	for _, row := range rows {
		if row.Stage != match.StageKnockout || !row.Finished() || row.WinnerID == nil {
			continue
		}
		result := draw.KnockoutResult{Round: row.Round, WinnerID: *row.WinnerID}
		if row.Player1ID != nil {
			result.Player1ID = *row.Player1ID
		}
		if row.Player2ID != nil {
			result.Player2ID = *row.Player2ID
		}
		completed = append(completed, result)
	}

	confirmed, err := s.participantRepo.ListConfirmedByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return draw.PlacementSet{}, fmt.Errorf("list confirmed participants: %w", err)
	}
	playerIDs := make([]string, 0, len(confirmed))
	for _, p := range confirmed {
		playerIDs = append(playerIDs, p.PlayerID)
	}

	totalRounds := draw.TotalRounds(schedule.Knockout.BracketSize)
	return draw.ResolvePlacements(totalRounds, schedule.WinnerID, schedule.RunnerUpID, completed, playerIDs), nil
}

// AwardPoints resolves placements, writes the award ledger entry,
// applies the stat increments and publishes the entry to the points
// sink. Idempotent: once a category is awarded, repeat calls return
// the stored entry untouched.
func (s *PlacementService) AwardPoints(ctx context.Context, tournamentID, categoryID string) (award.LedgerEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlacementService.AwardPoints")
	defer span.End()

	unlock := s.locks.Acquire(tournamentID, categoryID)
	defer unlock()

	existing, awarded, err := s.awardRepo.GetByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return award.LedgerEntry{}, fmt.Errorf("get award ledger: %w", err)
	}
	if awarded {
		return existing, nil
	}

	placements, err := s.resolve(ctx, tournamentID, categoryID)
	if err != nil {
		return award.LedgerEntry{}, err
	}

	entry := award.LedgerEntry{
		TournamentID: tournamentID,
		CategoryID:   categoryID,
		AwardedAt:    s.now().UTC(),
		Lines:        placementLines(placements),
	}

	if err := s.awardRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, award.ErrAlreadyAwarded) {
			stored, _, getErr := s.awardRepo.GetByCategory(ctx, tournamentID, categoryID)
			if getErr != nil {
				return award.LedgerEntry{}, fmt.Errorf("get award ledger: %w", getErr)
			}
			return stored, nil
		}
		return award.LedgerEntry{}, fmt.Errorf("create award ledger entry: %w", err)
	}

	deltas, err := s.statDeltas(ctx, tournamentID, categoryID, entry)
	if err != nil {
		return award.LedgerEntry{}, err
	}
	if err := s.statsRepo.ApplyDeltas(ctx, deltas); err != nil {
		return award.LedgerEntry{}, fmt.Errorf("apply stat deltas: %w", err)
	}

	if s.sink != nil {
		if err := s.sink.Publish(ctx, entry); err != nil {
			return award.LedgerEntry{}, fmt.Errorf("publish award entry: %w", err)
		}
	}

	return entry, nil
}

func placementLines(placements draw.PlacementSet) []award.Line {
	var lines []award.Line
	appendLine := func(playerID, placement string) {
		if playerID == "" {
			return
		}
		lines = append(lines, award.Line{
			PlayerID:  playerID,
			Placement: placement,
			Points:    award.PointsFor(placement),
		})
	}

	appendLine(placements.WinnerID, award.PlacementWinner)
	appendLine(placements.RunnerUpID, award.PlacementRunnerUp)
	for _, playerID := range placements.SemiFinalists {
		appendLine(playerID, award.PlacementSemiFinalist)
	}
	for _, playerID := range placements.QuarterFinalists {
		appendLine(playerID, award.PlacementQuarterFinalist)
	}
	for _, playerID := range placements.Participants {
		appendLine(playerID, award.PlacementParticipant)
	}
	return lines
}

// statDeltas folds the category's contested matches into per-player
// increments. Byes are walkovers, not contests, so they count toward
// nobody's match totals.
func (s *PlacementService) statDeltas(ctx context.Context, tournamentID, categoryID string, entry award.LedgerEntry) ([]stats.Delta, error) {
	rows, err := s.matchRepo.ListByCategory(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category matches: %w", err)
	}

	byPlayer := make(map[string]*stats.Delta, len(entry.Lines))
	deltaFor := func(playerID string) *stats.Delta {
		d, ok := byPlayer[playerID]
		if !ok {
			d = &stats.Delta{PlayerID: playerID}
			byPlayer[playerID] = d
		}
		return d
	}

	for _, line := range entry.Lines {
		d := deltaFor(line.PlayerID)
		d.TournamentsPlayed = 1
		d.AwardPoints = line.Points
		if line.Placement == award.PlacementWinner {
			d.TournamentsWon = 1
		}
	}

	for _, row := range rows {
		if row.Status != match.StatusCompleted || row.WinnerID == nil {
			continue
		}
		if row.Player1ID == nil || row.Player2ID == nil {
			continue
		}
		loserID := *row.Player1ID
		if *row.WinnerID == *row.Player1ID {
			loserID = *row.Player2ID
		}
		winner := deltaFor(*row.WinnerID)
		winner.MatchesPlayed++
		winner.MatchesWon++
		loser := deltaFor(loserID)
		loser.MatchesPlayed++
		loser.MatchesLost++
	}

	deltas := make([]stats.Delta, 0, len(byPlayer))
	for _, line := range entry.Lines {
		if d, ok := byPlayer[line.PlayerID]; ok {
			deltas = append(deltas, *d)
			delete(byPlayer, line.PlayerID)
		}
	}
	for _, d := range byPlayer {
		deltas = append(deltas, *d)
	}
	return deltas, nil
}
