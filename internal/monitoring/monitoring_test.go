package monitoring

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/indicators/bands"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(NewMetricsHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func tradeDecision() *strategy.AllocationDecision {
	return &strategy.AllocationDecision{
		Timestamp:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Allocation:   types.Allocation{"GOOG": 0, "AAPL": 0.85, "SPY": 0.10, "TQQQ": 0.05},
		Outcome:      strategy.OutcomeRotateToPair2,
		OverlayLevel: 0,
		Bands:        &bands.RatioBands{Mean: 2, StdDev: 0.1, Upper: 2.05, Lower: 1.95, Last: 2.2, Points: 40},
		Bars:         40,
	}
}

func TestRecordDecision_Trade(t *testing.T) {
	RecordDecision(tradeDecision())

	body := scrape(t)
	assert.Contains(t, body, `allocator_decisions_total{outcome="ROTATE_TO_PAIR2"}`)
	assert.Contains(t, body, `allocator_target_weight{symbol="AAPL"} 0.85`)
	assert.Contains(t, body, `allocator_target_weight{symbol="TQQQ"} 0.05`)
	assert.Contains(t, body, `allocator_ratio{series="upper"} 2.05`)
	assert.Contains(t, body, "allocator_ratio_zscore 2")
	assert.Contains(t, body, "allocator_overlay_level 0")
}

func TestRecordDecision_NoTradeClearsWeights(t *testing.T) {
	RecordDecision(tradeDecision())
	RecordDecision(&strategy.AllocationDecision{
		Allocation:    types.Allocation{},
		Outcome:       strategy.OutcomeNone,
		NoTradeReason: strategy.NoTradeInsufficientHistory,
		Bars:          3,
	})

	body := scrape(t)
	assert.Contains(t, body, `allocator_no_trade_total{reason="insufficient_history"}`)
	assert.Contains(t, body, `allocator_decisions_total{outcome="NONE"}`)
	assert.NotContains(t, body, "allocator_target_weight{")
}

func TestRecordDecision_Nil(t *testing.T) {
	assert.NotPanics(t, func() { RecordDecision(nil) })
}

func TestRecordError(t *testing.T) {
	RecordError(allocerrors.NewDataError("data", "Load", errors.New("missing file")))
	RecordError(errors.New("plain"))
	RecordError(nil)
	ObserveEvaluation(25 * time.Millisecond)

	body := scrape(t)
	assert.Contains(t, body, `allocator_errors_total{category="DATA"}`)
	assert.Contains(t, body, `allocator_errors_total{category="UNCATEGORIZED"}`)
	assert.Contains(t, body, "allocator_evaluation_duration_seconds_count")
}

func TestHealthChecker(t *testing.T) {
	now := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	checker := NewHealthChecker(time.Hour)
	checker.now = func() time.Time { return now }

	// no evaluation yet
	assert.Equal(t, "degraded", checker.Status().Status)

	checker.RecordDecision(tradeDecision())
	status := checker.Status()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "ROTATE_TO_PAIR2", status.LastOutcome)
	assert.Equal(t, 1, status.Evaluations)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, "degraded", checker.Status().Status)

	checker.RecordError(errors.New("exchange down"))
	status = checker.Status()
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "exchange down", status.Error)

	// a successful run clears the error
	checker.RecordDecision(tradeDecision())
	assert.Equal(t, "healthy", checker.Status().Status)
}

func TestHealthChecker_ServeHTTP(t *testing.T) {
	checker := NewHealthChecker(time.Hour)

	rec := httptest.NewRecorder()
	checker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	checker.RecordDecision(tradeDecision())
	rec = httptest.NewRecorder()
	checker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
}
