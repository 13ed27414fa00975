package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDrawRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/categories/{categoryID}/draw", handler.GenerateDraw)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/categories/{categoryID}/draw", handler.GetDraw)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/categories/{categoryID}/draw/assign", handler.AssignDrawSlots)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/categories/{categoryID}/draw/shuffle", handler.ShuffleDraw)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/categories/{categoryID}/draw/continue-knockout", handler.ContinueToKnockout)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/categories/{categoryID}/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/categories/{categoryID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/categories/{categoryID}/placements", handler.GetPlacements)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/categories/{categoryID}/placements/award", handler.AwardPlacementPoints)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches/{matchID}/start", handler.StartMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/result", handler.RecordMatchResult)
	mux.HandleFunc("POST /v1/matches/{matchID}/bye", handler.GiveMatchBye)
	mux.HandleFunc("POST /v1/matches/{matchID}/undo", handler.UndoMatchResult)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/recalculate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateJob)))
}
