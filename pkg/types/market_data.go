package types

import (
	"sort"
	"time"
)

type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// DailyBar holds one trading day of bars keyed by instrument symbol
type DailyBar struct {
	Timestamp time.Time
	Bars      map[string]OHLCV
}

// Close returns the close price of symbol for this day
func (b DailyBar) Close(symbol string) (float64, bool) {
	bar, ok := b.Bars[symbol]
	if !ok {
		return 0, false
	}
	return bar.Close, true
}

// PriceHistory is an ordered sequence of daily bars, oldest first
type PriceHistory []DailyBar

// Last returns the most recent bar
func (h PriceHistory) Last() (DailyBar, bool) {
	if len(h) == 0 {
		return DailyBar{}, false
	}
	return h[len(h)-1], true
}

// Tail returns the n most recent bars (or the whole history if it is shorter)
func (h PriceHistory) Tail(n int) PriceHistory {
	if n <= 0 {
		return PriceHistory{}
	}
	if n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

// Allocation maps instrument symbol to target portfolio weight.
// An empty allocation means no trade for the period.
type Allocation map[string]float64

// IsEmpty reports whether the allocation carries no decision
func (a Allocation) IsEmpty() bool {
	return len(a) == 0
}

// Total returns the sum of all weights
func (a Allocation) Total() float64 {
	total := 0.0
	for _, symbol := range a.Symbols() {
		total += a[symbol]
	}
	return total
}

// Symbols returns the allocation keys in sorted order
func (a Allocation) Symbols() []string {
	symbols := make([]string, 0, len(a))
	for symbol := range a {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
