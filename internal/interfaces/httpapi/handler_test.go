package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/LochanPS/Matchify.pro-sub003/internal/infrastructure/repository/memory"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/id"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/logging"
	"github.com/LochanPS/Matchify.pro-sub003/internal/usecase"
)

const testJobToken = "job-secret"

// newTestRouter wires the full router over in-memory repositories with
// four confirmed participants, seeded so player-01 is the top seed.
func newTestRouter() http.Handler {
	drawRepo := memory.NewScheduleRepository()
	matchRepo := memory.NewMatchRepository()
	participantRepo := memory.NewParticipantRepository(
		memory.SeedConfirmedParticipants(memory.TournamentIDCityOpen, memory.CategoryIDMensSingles, 4),
	)
	statsRepo := memory.NewPlayerStatsRepository(memory.SeedPlayerStats(4))
	awardRepo := memory.NewAwardLedgerRepository()
	locks := usecase.NewCategoryLocks()

	draws := usecase.NewDrawService(drawRepo, matchRepo, participantRepo, statsRepo, id.NewSequence("match"), locks)
	progression := usecase.NewProgressionService(drawRepo, matchRepo, locks)
	standings := usecase.NewStandingsService(drawRepo, matchRepo, locks)
	placements := usecase.NewPlacementService(drawRepo, matchRepo, participantRepo, awardRepo, statsRepo, nil, locks)
	recalc := usecase.NewRecalcService(standings, placements)

	handler := NewHandler(draws, progression, standings, placements, recalc, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: unmarshal response: %v", method, path, err)
	}
	return rec, envelope
}

func TestRouter_KnockoutLifecycle(t *testing.T) {
	router := newTestRouter()
	base := "/v1/tournaments/" + memory.TournamentIDCityOpen + "/categories/" + memory.CategoryIDMensSingles

	rec, envelope := doJSON(t, router, http.MethodPost, base+"/draw", `{"format":"KNOCKOUT"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate draw: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	data, _ := envelope["data"].(map[string]any)
	if data["format"] != "KNOCKOUT" {
		t.Fatalf("unexpected generated schedule: %v", data)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, base+"/matches", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list matches: expected 200, got %d", rec.Code)
	}
	rows, _ := envelope["data"].([]any)
	if len(rows) != 3 {
		t.Fatalf("expected 3 match rows for 4 players, got %d", len(rows))
	}

	matchIDByNumber := make(map[int]string, len(rows))
	for _, raw := range rows {
		row, _ := raw.(map[string]any)
		number := int(row["matchNumber"].(float64))
		matchIDByNumber[number] = row["id"].(string)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/matches/"+matchIDByNumber[1]+"/result",
		`{"winnerId":"player-01","score1":"21-10","score2":"15-21"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("record result: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Same winner again: the result is already recorded.
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/matches/"+matchIDByNumber[1]+"/result",
		`{"winnerId":"player-01"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-record: expected 409, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/matches/"+matchIDByNumber[2]+"/result",
		`{"winnerId":"player-02"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("record semifinal: expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/matches/"+matchIDByNumber[3]+"/result",
		`{"winnerId":"player-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("record final: expected 200, got %d", rec.Code)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, base+"/placements", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get placements: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	placements, _ := envelope["data"].(map[string]any)
	if placements["winnerId"] != "player-01" || placements["runnerUpId"] != "player-02" {
		t.Fatalf("unexpected placements: %v", placements)
	}

	rec, envelope = doJSON(t, router, http.MethodPost, base+"/placements/award", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("award points: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	entry, _ := envelope["data"].(map[string]any)
	lines, _ := entry["lines"].([]any)
	if len(lines) != 4 {
		t.Fatalf("expected 4 award lines, got %v", entry)
	}
}

func TestRouter_GetDraw_UnknownCategory(t *testing.T) {
	router := newTestRouter()

	rec, envelope := doJSON(t, router, http.MethodGet,
		"/v1/tournaments/"+memory.TournamentIDCityOpen+"/categories/"+memory.CategoryIDWomensSingles+"/draw", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing draw, got %d", rec.Code)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND status, got %v", errorObj)
	}
}

func TestRouter_GenerateDraw_RejectsUnknownFormat(t *testing.T) {
	router := newTestRouter()
	base := "/v1/tournaments/" + memory.TournamentIDCityOpen + "/categories/" + memory.CategoryIDMensSingles

	rec, _ := doJSON(t, router, http.MethodPost, base+"/draw", `{"format":"SWISS"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestRouter_RecalculateJob_RequiresToken(t *testing.T) {
	router := newTestRouter()
	body := `{"tournamentId":"` + memory.TournamentIDCityOpen + `","categoryIds":["` + memory.CategoryIDMensSingles + `"]}`

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with job token, got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal recalc response: %v", err)
	}
	data, _ := envelope["data"].(map[string]any)
	if int(data["task_count"].(float64)) != 1 {
		t.Fatalf("expected one recalc task, got %v", data)
	}
}
