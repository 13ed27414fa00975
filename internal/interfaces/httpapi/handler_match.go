package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/match"
	"github.com/LochanPS/Matchify.pro-sub003/internal/usecase"
)

type recordResultRequest struct {
	WinnerID string  `json:"winnerId" validate:"required"`
	Score1   *string `json:"score1"`
	Score2   *string `json:"score2"`
}

type giveByeRequest struct {
	WinnerID string `json:"winnerId" validate:"required"`
}

type matchDTO struct {
	ID             string  `json:"id"`
	TournamentID   string  `json:"tournamentId"`
	CategoryID     string  `json:"categoryId"`
	Stage          string  `json:"stage"`
	GroupName      string  `json:"groupName,omitempty"`
	Round          int     `json:"round,omitempty"`
	MatchNumber    int     `json:"matchNumber"`
	Player1ID      *string `json:"player1Id"`
	Player2ID      *string `json:"player2Id"`
	Player1Seed    *int    `json:"player1Seed"`
	Player2Seed    *int    `json:"player2Seed"`
	Status         string  `json:"status"`
	WinnerID       *string `json:"winnerId"`
	ParentMatchID  *string `json:"parentMatchId"`
	WinnerPosition string  `json:"winnerPosition,omitempty"`
	ScoreJSON      *string `json:"score"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	categoryID := r.PathValue("categoryID")

	rows, err := h.progressionService.ListMatches(ctx, tournamentID, categoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed",
			"tournament_id", tournamentID, "category_id", categoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, matchToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	row, err := h.progressionService.StartMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "start match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(row))
}

func (h *Handler) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req recordResultRequest
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

	row, err := h.progressionService.RecordResult(ctx, usecase.RecordResultInput{
		MatchID:  matchID,
		WinnerID: req.WinnerID,
		Score1:   req.Score1,
		Score2:   req.Score2,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(row))
}

func (h *Handler) GiveMatchBye(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GiveMatchBye")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req giveByeRequest
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

	row, err := h.progressionService.GiveBye(ctx, matchID, req.WinnerID)
	if err != nil {
		h.logger.WarnContext(ctx, "give bye failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(row))
}

func (h *Handler) UndoMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	row, err := h.progressionService.UndoResult(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "undo result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(row))
}

func matchToDTO(row match.Match) matchDTO {
	return matchDTO{
		ID:             row.ID,
		TournamentID:   row.TournamentID,
		CategoryID:     row.CategoryID,
		Stage:          row.Stage,
		GroupName:      row.GroupName,
		Round:          row.Round,
		MatchNumber:    row.MatchNumber,
		Player1ID:      row.Player1ID,
		Player2ID:      row.Player2ID,
		Player1Seed:    row.Player1Seed,
		Player2Seed:    row.Player2Seed,
		Status:         row.Status,
		WinnerID:       row.WinnerID,
		ParentMatchID:  row.ParentMatchID,
		WinnerPosition: row.WinnerPosition,
		ScoreJSON:      row.ScoreJSON,
	}
}
