package usecase

import (
	"testing"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
	"github.com/LochanPS/Matchify.pro-sub003/internal/infrastructure/repository/memory"
)

func TestRecalcService_Recalculate(t *testing.T) {
	t.Parallel()

	f := newDrawFixture(4)
	if _, err := f.draws.Generate(t.Context(), GenerateDrawInput{
		TournamentID:   memory.TournamentIDCityOpen,
		CategoryID:     memory.CategoryIDMensSingles,
		Format:         draw.FormatRoundRobin,
		NumberOfGroups: 1,
	}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	recordWinner(t, f, 1, "player-01")

	placement := NewPlacementService(f.drawRepo, f.matchRepo, f.participantRepo, f.awardRepo, f.statsRepo, nil, f.locks)
	service := NewRecalcService(f.standings, placement)

	result, err := service.Recalculate(t.Context(), RecalcInput{
		TournamentID: memory.TournamentIDCityOpen,
		CategoryIDs:  []string{memory.CategoryIDMensSingles, memory.CategoryIDWomensSingles},
		MaxWorkers:   2,
	})
	if err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}

	if result.TaskCount != 2 || result.SuccessCount != 1 || result.SkippedCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected result counts: %+v", result)
	}
	for _, task := range result.Tasks {
		switch task.CategoryID {
		case memory.CategoryIDMensSingles:
			if task.Status != recalcStatusSuccess {
				t.Fatalf("expected success for generated category, got %+v", task)
			}
		case memory.CategoryIDWomensSingles:
			if task.Status != recalcStatusSkipped {
				t.Fatalf("expected skip for category without a draw, got %+v", task)
			}
		}
	}
}

func TestRecalcService_Recalculate_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	service := NewRecalcService(nil, nil)
	if _, err := service.Recalculate(t.Context(), RecalcInput{}); err == nil {
		t.Fatal("expected error for missing input")
	}
}
