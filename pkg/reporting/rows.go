package reporting

import (
	"fmt"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
)

const dateLayout = "2006-01-02"

// decisionHeader returns the column names shared by the table, CSV and sheet outputs
func decisionHeader(symbols []string) []string {
	header := []string{"Date", "Bars", "Outcome", "Ratio", "Lower", "Mean", "Upper", "Overlay"}
	return append(header, symbols...)
}

// overlayLabel renders the overlay column
func overlayLabel(d *strategy.AllocationDecision) string {
	switch {
	case d.IsNoTrade():
		return string(d.NoTradeReason)
	case d.OverlayLevel == 0:
		return "-"
	default:
		return fmt.Sprintf("%d:%s", d.OverlayLevel, d.OverlayName)
	}
}

// decisionDate renders the bar date, or "-" for a decision over empty history
func decisionDate(d *strategy.AllocationDecision) string {
	if d.Timestamp.IsZero() {
		return "-"
	}
	return d.Timestamp.UTC().Format(dateLayout)
}

// weightOf returns the weight for symbol and whether the decision carries one
func weightOf(d *strategy.AllocationDecision, symbol string) (float64, bool) {
	w, ok := d.Allocation[symbol]
	return w, ok
}
