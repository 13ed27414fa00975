package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/LochanPS/Matchify.pro-sub003/internal/usecase"
)

type generateDrawRequest struct {
	Format           string `json:"format" validate:"required,oneof=KNOCKOUT ROUND_ROBIN ROUND_ROBIN_KNOCKOUT"`
	NumberOfGroups   int    `json:"numberOfGroups" validate:"min=0"`
	AdvanceFromGroup int    `json:"advanceFromGroup" validate:"min=0"`
	Regenerate       bool   `json:"regenerate"`
}

type slotAssignmentRequest struct {
	MatchNumber int    `json:"matchNumber" validate:"required,min=1"`
	Position    string `json:"position" validate:"required,oneof=player1 player2"`
	PlayerID    string `json:"playerId"`
}

type assignSlotsRequest struct {
	Assignments []slotAssignmentRequest `json:"assignments" validate:"required,min=1,dive"`
}

type continueKnockoutRequest struct {
	Picks []slotAssignmentRequest `json:"picks" validate:"required,min=1,dive"`
}

func (h *Handler) GenerateDraw(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateDraw")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	var req generateDrawRequest
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

	schedule, err := h.drawService.Generate(ctx, usecase.GenerateDrawInput{
		TournamentID:     tournamentID,
		CategoryID:       categoryID,
		Format:           req.Format,
		NumberOfGroups:   req.NumberOfGroups,
		AdvanceFromGroup: req.AdvanceFromGroup,
		Regenerate:       req.Regenerate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate draw failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, schedule)
}

func (h *Handler) GetDraw(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraw")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	schedule, err := h.drawService.Get(ctx, tournamentID, categoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draw failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedule)
}

func (h *Handler) AssignDrawSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignDrawSlots")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	var req assignSlotsRequest
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

	schedule, err := h.drawService.BulkAssign(ctx, tournamentID, categoryID, toSlotAssignments(req.Assignments))
	if err != nil {
		h.logger.WarnContext(ctx, "assign draw slots failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedule)
}

func (h *Handler) ShuffleDraw(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ShuffleDraw")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	schedule, err := h.drawService.Shuffle(ctx, tournamentID, categoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "shuffle draw failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedule)
}

func (h *Handler) ContinueToKnockout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ContinueToKnockout")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	var req continueKnockoutRequest
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

	schedule, err := h.drawService.ContinueToKnockout(ctx, tournamentID, categoryID, toSlotAssignments(req.Picks))
	if err != nil {
		h.logger.WarnContext(ctx, "continue to knockout failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedule)
}

func toSlotAssignments(items []slotAssignmentRequest) []usecase.SlotAssignment {
	out := make([]usecase.SlotAssignment, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.SlotAssignment{
			MatchNumber: item.MatchNumber,
			Position:    item.Position,
			PlayerID:    item.PlayerID,
		})
	}
	return out
}
