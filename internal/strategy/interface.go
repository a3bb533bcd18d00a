package strategy

import (
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/indicators/bands"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// AllocationStrategy defines the interface for allocation strategies
type AllocationStrategy interface {
	// Allocate returns target weights for the latest bar of history.
	// An empty allocation is the no-trade outcome, not an error.
	Allocate(history types.PriceHistory) (types.Allocation, error)

	// Evaluate returns the allocation together with its diagnostics
	Evaluate(history types.PriceHistory) (*AllocationDecision, error)

	// Assets returns the symbols the strategy needs history for
	Assets() []string

	// Interval returns the bar interval the strategy expects
	Interval() string

	// GetName returns the name of the strategy
	GetName() string
}

// AllocationDecision represents one allocation decision and how it was reached
type AllocationDecision struct {
	Timestamp     time.Time         `json:"timestamp"`
	Allocation    types.Allocation  `json:"allocation"`
	Outcome       RotationOutcome   `json:"outcome"`
	OverlayLevel  int               `json:"overlay_level"`
	OverlayName   string            `json:"overlay_name,omitempty"`
	Bands         *bands.RatioBands `json:"bands,omitempty"`
	MAFast        float64           `json:"ma_fast,omitempty"`
	MASlow        float64           `json:"ma_slow,omitempty"`
	NoTradeReason NoTradeReason     `json:"no_trade_reason,omitempty"`
	Bars          int               `json:"bars"`
	Reason        string            `json:"reason"`
}

// IsNoTrade reports whether the decision carries no allocation
func (d *AllocationDecision) IsNoTrade() bool {
	return d.NoTradeReason != NoTradeNone
}

// RotationOutcome represents which rotation template was selected
type RotationOutcome int

const (
	OutcomeNone RotationOutcome = iota
	OutcomeHold
	OutcomeRotateToPair1
	OutcomeRotateToPair2
)

func (o RotationOutcome) String() string {
	switch o {
	case OutcomeNone:
		return "NONE"
	case OutcomeHold:
		return "HOLD"
	case OutcomeRotateToPair1:
		return "ROTATE_TO_PAIR1"
	case OutcomeRotateToPair2:
		return "ROTATE_TO_PAIR2"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the outcome by name in JSON output
func (o RotationOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// NoTradeReason names the gate that produced an empty allocation
type NoTradeReason string

const (
	NoTradeNone                     NoTradeReason = ""
	NoTradeInsufficientHistory      NoTradeReason = "insufficient_history"
	NoTradeDegenerateRatioWindow    NoTradeReason = "degenerate_ratio_window"
	NoTradeMovingAverageUnavailable NoTradeReason = "moving_average_unavailable"
)
