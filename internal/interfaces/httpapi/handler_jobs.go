package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/LochanPS/Matchify.pro-sub003/internal/usecase"
)

type recalculateJobRequest struct {
	TournamentID string   `json:"tournamentId" validate:"required"`
	CategoryIDs  []string `json:"categoryIds" validate:"required,min=1,dive,required"`
	MaxWorkers   int      `json:"maxWorkers" validate:"min=0"`
}

func (h *Handler) RunRecalculateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateJob")
	defer span.End()

	if h.recalcService == nil {
		writeError(ctx, w, fmt.Errorf("%w: recalc service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req recalculateJobRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.recalcService.Recalculate(ctx, usecase.RecalcInput{
		TournamentID: req.TournamentID,
		CategoryIDs:  req.CategoryIDs,
		MaxWorkers:   req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run recalculate job failed",
			"tournament_id", req.TournamentID, "categories", len(req.CategoryIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
