package httpapi

import (
	"net/http"
	"time"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/draw"
)

type placementSetDTO struct {
	WinnerID         string   `json:"winnerId"`
	RunnerUpID       string   `json:"runnerUpId"`
	SemiFinalists    []string `json:"semiFinalists"`
	QuarterFinalists []string `json:"quarterFinalists"`
	Participants     []string `json:"participants"`
}

type ledgerEntryDTO struct {
	TournamentID string          `json:"tournamentId"`
	CategoryID   string          `json:"categoryId"`
	AwardedAtUTC string          `json:"awardedAtUtc"`
	Lines        []ledgerLineDTO `json:"lines"`
}

type ledgerLineDTO struct {
	PlayerID  string `json:"playerId"`
	Placement string `json:"placement"`
	Points    int    `json:"points"`
}

func (h *Handler) GetPlacements(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlacements")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	placements, err := h.placementService.Resolve(ctx, tournamentID, categoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve placements failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, placementsToDTO(placements))
}

func (h *Handler) AwardPlacementPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AwardPlacementPoints")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	entry, err := h.placementService.AwardPoints(ctx, tournamentID, categoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "award points failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ledgerEntryToDTO(entry))
}

func placementsToDTO(v draw.PlacementSet) placementSetDTO {
	return placementSetDTO{
		WinnerID:         v.WinnerID,
		RunnerUpID:       v.RunnerUpID,
		SemiFinalists:    append([]string(nil), v.SemiFinalists...),
		QuarterFinalists: append([]string(nil), v.QuarterFinalists...),
		Participants:     append([]string(nil), v.Participants...),
	}
}

func ledgerEntryToDTO(entry award.LedgerEntry) ledgerEntryDTO {
	lines := make([]ledgerLineDTO, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		lines = append(lines, ledgerLineDTO{
			PlayerID:  line.PlayerID,
			Placement: line.Placement,
			Points:    line.Points,
		})
	}

	return ledgerEntryDTO{
		TournamentID: entry.TournamentID,
		CategoryID:   entry.CategoryID,
		AwardedAtUTC: entry.AwardedAt.UTC().Format(time.RFC3339),
		Lines:        lines,
	}
}
