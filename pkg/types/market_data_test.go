package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testHistory(n int) PriceHistory {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := make(PriceHistory, n)
	for i := range history {
		history[i] = DailyBar{
			Timestamp: start.AddDate(0, 0, i),
			Bars: map[string]OHLCV{
				"SPY": {Close: 100 + float64(i)},
			},
		}
	}
	return history
}

func TestDailyBar_Close(t *testing.T) {
	bar := testHistory(1)[0]

	price, ok := bar.Close("SPY")
	assert.True(t, ok)
	assert.Equal(t, 100.0, price)

	_, ok = bar.Close("AAPL")
	assert.False(t, ok)
}

func TestPriceHistory_Tail(t *testing.T) {
	history := testHistory(10)

	assert.Len(t, history.Tail(3), 3)
	assert.Equal(t, history[7].Timestamp, history.Tail(3)[0].Timestamp)
	assert.Len(t, history.Tail(50), 10)
	assert.Empty(t, history.Tail(0))
}

func TestPriceHistory_Last(t *testing.T) {
	_, ok := PriceHistory{}.Last()
	assert.False(t, ok)

	history := testHistory(5)
	last, ok := history.Last()
	assert.True(t, ok)
	assert.Equal(t, history[4].Timestamp, last.Timestamp)
}

func TestAllocation_TotalAndSymbols(t *testing.T) {
	alloc := Allocation{"SPY": 0.3, "TQQQ": 0.1, "AAPL": 0.2}

	assert.InDelta(t, 0.6, alloc.Total(), 1e-12)
	assert.Equal(t, []string{"AAPL", "SPY", "TQQQ"}, alloc.Symbols())
	assert.False(t, alloc.IsEmpty())
	assert.True(t, Allocation{}.IsEmpty())
}
