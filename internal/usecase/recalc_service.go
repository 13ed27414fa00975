package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// RecalcService re-derives every stored projection of a set of
// categories: group standings are rebuilt from the match rows and,
// where the category is awarded, the award ledger is cross-checked
// against a fresh placement resolution. Categories are independent, so
// the work fans out over a bounded worker pool.
type RecalcService struct {
	standings *StandingsService
	placement *PlacementService
}

const defaultRecalcWorkers = 4

type RecalcInput struct {
	TournamentID string   `validate:"required"`
	CategoryIDs  []string `validate:"required,min=1"`
	MaxWorkers   int
}

type RecalcResult struct {
	TaskCount    int                `json:"task_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	SkippedCount int                `json:"skipped_count"`
	WorkerCount  int                `json:"worker_count"`
	Tasks        []RecalcTaskResult `json:"tasks"`
}

type RecalcTaskResult struct {
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"
	recalcStatusSkipped = "skipped"
)

func NewRecalcService(standings *StandingsService, placement *PlacementService) *RecalcService {
	return &RecalcService{standings: standings, placement: placement}
}

func (s *RecalcService) Recalculate(ctx context.Context, input RecalcInput) (RecalcResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalcService.Recalculate")
	defer span.End()

	if input.TournamentID == "" || len(input.CategoryIDs) == 0 {
		return RecalcResult{}, fmt.Errorf("%w: tournament id and at least one category id are required", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultRecalcWorkers
	}
	if workerCount > len(input.CategoryIDs) {
		workerCount = len(input.CategoryIDs)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	result := RecalcResult{WorkerCount: workerCount}

	var workers sync.WaitGroup
	for _, categoryID := range input.CategoryIDs {
		categoryID := categoryID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecalcTaskResult{CategoryID: categoryID}
			row.Status, row.Message = s.recalcCategory(ctx, input.TournamentID, categoryID)
			row.DurationMs = time.Since(start).Milliseconds()

			mu.Lock()
			result.Tasks = append(result.Tasks, row)
			switch row.Status {
			case recalcStatusSuccess:
				result.SuccessCount++
			case recalcStatusSkipped:
				result.SkippedCount++
			default:
				result.FailedCount++
			}
			mu.Unlock()
		}); err != nil {
			workers.Done()
			mu.Lock()
			result.Tasks = append(result.Tasks, RecalcTaskResult{
				CategoryID: categoryID,
				Status:     recalcStatusFailed,
				Message:    fmt.Sprintf("submit task: %v", err),
			})
			result.FailedCount++
			mu.Unlock()
		}
	}
	workers.Wait()

	sort.Slice(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].CategoryID < result.Tasks[j].CategoryID
	})
	result.TaskCount = len(result.Tasks)

	return result, nil
}

func (s *RecalcService) recalcCategory(ctx context.Context, tournamentID, categoryID string) (status, message string) {
	if _, err := s.standings.Recompute(ctx, tournamentID, categoryID); err != nil {
		switch {
		case isInvalidInput(err):
			// Pure knockout category: no group tables to rebuild.
		case isNotFound(err):
			return recalcStatusSkipped, "no draw generated"
		default:
			return recalcStatusFailed, err.Error()
		}
	}

	if _, err := s.placement.Resolve(ctx, tournamentID, categoryID); err != nil {
		if isInvalidInput(err) || isConflict(err) {
			// No knockout stage or final still pending; nothing to verify.
			return recalcStatusSuccess, ""
		}
		return recalcStatusFailed, err.Error()
	}
	return recalcStatusSuccess, ""
}
