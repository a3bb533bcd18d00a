package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
)

var startTime = time.Now()

// HealthChecker reports whether the allocator is producing fresh decisions
type HealthChecker struct {
	mu          sync.RWMutex
	maxAge      time.Duration
	lastRun     time.Time
	lastBar     time.Time
	lastOutcome string
	lastNoTrade string
	lastError   string
	evaluations int
	now         func() time.Time
}

// HealthStatus is the JSON body of the health endpoint
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastRun     time.Time `json:"last_run"`
	LastBar     time.Time `json:"last_bar"`
	LastOutcome string    `json:"last_outcome,omitempty"`
	NoTrade     string    `json:"no_trade_reason,omitempty"`
	Evaluations int       `json:"evaluations"`
	Uptime      string    `json:"uptime"`
	Error       string    `json:"error,omitempty"`
}

// NewHealthChecker creates a checker that reports degraded once the last
// successful evaluation is older than maxAge
func NewHealthChecker(maxAge time.Duration) *HealthChecker {
	return &HealthChecker{
		maxAge: maxAge,
		now:    time.Now,
	}
}

// RecordDecision marks a successful evaluation
func (h *HealthChecker) RecordDecision(decision *strategy.AllocationDecision) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastRun = h.now()
	h.lastBar = decision.Timestamp
	h.lastOutcome = decision.Outcome.String()
	h.lastNoTrade = string(decision.NoTradeReason)
	h.lastError = ""
	h.evaluations++
}

// RecordError marks a failed evaluation
func (h *HealthChecker) RecordError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastError = err.Error()
}

// Status builds the current health status
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.now()
	status := "healthy"
	switch {
	case h.lastError != "":
		status = "unhealthy"
	case h.lastRun.IsZero() || (h.maxAge > 0 && now.Sub(h.lastRun) > h.maxAge):
		status = "degraded"
	}

	return HealthStatus{
		Status:      status,
		Timestamp:   now,
		LastRun:     h.lastRun,
		LastBar:     h.lastBar,
		LastOutcome: h.lastOutcome,
		NoTrade:     h.lastNoTrade,
		Evaluations: h.evaluations,
		Uptime:      time.Since(startTime).String(),
		Error:       h.lastError,
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	code := http.StatusOK
	switch health.Status {
	case "degraded":
		code = http.StatusServiceUnavailable
	case "unhealthy":
		code = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}
