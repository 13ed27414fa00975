package usecase

import (
	"context"
	"fmt"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
)

// StandingsService exposes group-stage standings. The tables live
// inside the schedule document and are rebuilt from the match rows on
// every recompute, so a read never does any folding itself.
type StandingsService struct {
	drawRepo  draw.Repository
	matchRepo match.Repository
	locks     *CategoryLocks
}

func NewStandingsService(drawRepo draw.Repository, matchRepo match.Repository, locks *CategoryLocks) *StandingsService {
	return &StandingsService{
		drawRepo:  drawRepo,
		matchRepo: matchRepo,
		locks:     locks,
	}
}

// List returns the category's group stage with current standings.
func (s *StandingsService) List(ctx context.Context, tournamentID, categoryID string) (*draw.RoundRobinStage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.List")
	defer span.End()

	schedule, err := loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	if schedule.RoundRobin == nil {
		return nil, fmt.Errorf("%w: category %s has no group stage", ErrInvalidInput, categoryID)
	}
	return schedule.RoundRobin, nil
}

// Recompute rebuilds every group table of the category from scratch
// and persists the result. Normally each recorded result keeps the
// tables current; this is the manual repair path.
func (s *StandingsService) Recompute(ctx context.Context, tournamentID, categoryID string) (*draw.RoundRobinStage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recompute")
	defer span.End()

	unlock := s.locks.Acquire(tournamentID, categoryID)
	defer unlock()

	schedule, err := loadSchedule(ctx, s.drawRepo, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	if schedule.RoundRobin == nil {
		return nil, fmt.Errorf("%w: category %s has no group stage", ErrInvalidInput, categoryID)
	}

	for _, group := range schedule.RoundRobin.Groups {
		if err := recomputeGroupStandings(ctx, s.matchRepo, &schedule, group.Name); err != nil {
			return nil, err
		}
	}

	if err := s.drawRepo.Save(ctx, schedule); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return schedule.RoundRobin, nil
}

// recomputeGroupStandings rebuilds one group's standings from the
// finished group matches and writes the sorted table back into the
// schedule document.
func recomputeGroupStandings(ctx context.Context, matchRepo match.Repository, schedule *draw.Schedule, groupName string) error {
	if schedule.RoundRobin == nil {
		return fmt.Errorf("%w: group match but schedule has no group stage", ErrCorruptSchedule)
	}

	var group *draw.Group
	for i := range schedule.RoundRobin.Groups {
		if schedule.RoundRobin.Groups[i].Name == groupName {
			group = &schedule.RoundRobin.Groups[i]
			break
		}
	}
	if group == nil {
		return fmt.Errorf("%w: group %q missing from schedule", ErrCorruptSchedule, groupName)
	}

	rows, err := matchRepo.ListByCategory(ctx, schedule.TournamentID, schedule.CategoryID)
	if err != nil {
		return fmt.Errorf("list category matches: %w", err)
	}

	var results []draw.MatchResult
	for _, row := range rows {
		if row.Stage != match.StageGroup || row.GroupName != groupName || !row.Finished() {
			continue
		}
		if row.Player1ID == nil || row.Player2ID == nil || row.WinnerID == nil {
			continue
		}
		results = append(results, draw.MatchResult{
			Player1ID: *row.Player1ID,
			Player2ID: *row.Player2ID,
			WinnerID:  *row.WinnerID,
		})
	}

	group.Participants = draw.RecomputeStandings(group.Participants, results)
	return nil
}
