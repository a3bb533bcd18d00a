package monitoring

import (
	"net/http"
	"time"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Decision metrics
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocator_decisions_total",
			Help: "Total number of allocation decisions by rotation outcome",
		},
		[]string{"outcome"},
	)

	noTradeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocator_no_trade_total",
			Help: "Total number of empty allocations by gate",
		},
		[]string{"reason"},
	)

	evaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "allocator_evaluation_duration_seconds",
			Help:    "Time spent loading history and evaluating one decision",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Allocation metrics
	targetWeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "allocator_target_weight",
			Help: "Latest target portfolio weight per instrument",
		},
		[]string{"symbol"},
	)

	overlayLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "allocator_overlay_level",
			Help: "Deepest trend overlay level applied to the latest decision (0 = none)",
		},
	)

	// Signal metrics
	ratioBand = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "allocator_ratio",
			Help: "Pair ratio statistics of the latest decision",
		},
		[]string{"series"},
	)

	ratioZScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "allocator_ratio_zscore",
			Help: "Distance of the latest pair ratio from its mean in standard deviations",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocator_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(noTradeTotal)
	prometheus.MustRegister(evaluationDuration)
	prometheus.MustRegister(targetWeight)
	prometheus.MustRegister(overlayLevel)
	prometheus.MustRegister(ratioBand)
	prometheus.MustRegister(ratioZScore)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordDecision publishes a decision. Weight gauges are cleared on a no-trade
// decision so stale targets do not linger.
func RecordDecision(decision *strategy.AllocationDecision) {
	if decision == nil {
		return
	}

	decisionsTotal.WithLabelValues(decision.Outcome.String()).Inc()

	if decision.IsNoTrade() {
		noTradeTotal.WithLabelValues(string(decision.NoTradeReason)).Inc()
		targetWeight.Reset()
		overlayLevel.Set(0)
		return
	}

	for _, symbol := range decision.Allocation.Symbols() {
		targetWeight.WithLabelValues(symbol).Set(decision.Allocation[symbol])
	}
	overlayLevel.Set(float64(decision.OverlayLevel))

	if b := decision.Bands; b != nil {
		ratioBand.WithLabelValues("last").Set(b.Last)
		ratioBand.WithLabelValues("mean").Set(b.Mean)
		ratioBand.WithLabelValues("upper").Set(b.Upper)
		ratioBand.WithLabelValues("lower").Set(b.Lower)
		ratioZScore.Set(b.ZScore())
	}
}

// ObserveEvaluation records how long one evaluation took
func ObserveEvaluation(d time.Duration) {
	evaluationDuration.Observe(d.Seconds())
}

// RecordError records an error metric under its allocator category
func RecordError(err error) {
	if err == nil {
		return
	}
	category := allocerrors.Category(err)
	if category == "" {
		category = "UNCATEGORIZED"
	}
	errorsTotal.WithLabelValues(string(category)).Inc()
}
