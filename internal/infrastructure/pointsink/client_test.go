package pointsink

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LochanPS/Matchify.pro-sub003/internal/domain/award"
	"github.com/LochanPS/Matchify.pro-sub003/internal/platform/resilience"
)

func testEntry() award.LedgerEntry {
	return award.LedgerEntry{
		TournamentID: "t-1",
		CategoryID:   "c-1",
		AwardedAt:    time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Lines: []award.Line{
			{PlayerID: "player-01", Placement: award.PlacementWinner, Points: 10},
			{PlayerID: "player-02", Placement: award.PlacementRunnerUp, Points: 8},
		},
	}
}

func TestClient_Publish_SendsLedger(t *testing.T) {
	var got awardPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/points/award", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "secret"}, nil)

	require.NoError(t, client.Publish(t.Context(), testEntry()))

	assert.Equal(t, "t-1", got.TournamentID)
	assert.Equal(t, "c-1", got.CategoryID)
	assert.Equal(t, "2026-08-30T10:00:00Z", got.AwardedAt)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "player-01", got.Lines[0].PlayerID)
	assert.Equal(t, 10, got.Lines[0].Points)
}

func TestClient_Publish_TransientFailuresOpenCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	entry := testEntry()
	require.Error(t, client.Publish(t.Context(), entry))
	require.Error(t, client.Publish(t.Context(), entry))

	err := client.Publish(t.Context(), entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestClient_Publish_RejectionDoesNotTripCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	entry := testEntry()
	require.Error(t, client.Publish(t.Context(), entry))

	err := client.Publish(t.Context(), entry)
	require.Error(t, err)
	assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestClient_Publish_RejectsInvalidBaseURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "ftp://points.internal"}, nil)

	err := client.Publish(t.Context(), testEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POINT_SINK_BASE_URL")
}
