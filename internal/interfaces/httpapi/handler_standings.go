package httpapi

import (
	"net/http"
)

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	stage, err := h.standingsService.List(ctx, tournamentID, categoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stage)
}
