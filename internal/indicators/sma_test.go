package indicators

import (
	"testing"
	"time"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestValues(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = 100.0 + float64(i)*1.5
	}
	return values
}

func generateFlatHistory(symbol string, n int, price float64) types.PriceHistory {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	history := make(types.PriceHistory, n)
	for i := range history {
		history[i] = types.DailyBar{
			Timestamp: start.AddDate(0, 0, i),
			Bars:      map[string]types.OHLCV{symbol: {Close: price}},
		}
	}
	return history
}

func TestNewSMA(t *testing.T) {
	sma := NewSMA(20)

	assert.NotNil(t, sma)
	assert.Equal(t, 20, sma.period)
}

func TestSMA_Series_InsufficientData(t *testing.T) {
	sma := NewSMA(20)

	series := sma.Series(generateTestValues(10))
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestSMA_Series_ExactPeriod(t *testing.T) {
	sma := NewSMA(5)
	values := generateTestValues(5)

	series := sma.Series(values)
	require.Len(t, series, 1)

	expectedSum := 0.0
	for _, v := range values {
		expectedSum += v
	}
	assert.InDelta(t, expectedSum/5.0, series[0], 1e-9)
}

func TestSMA_Series_MoreThanPeriod(t *testing.T) {
	sma := NewSMA(5)
	values := generateTestValues(10)

	series := sma.Series(values)
	require.Len(t, series, 6)

	// Last value uses only the last 5 values
	expectedSum := 0.0
	for i := 5; i < 10; i++ {
		expectedSum += values[i]
	}
	assert.InDelta(t, expectedSum/5.0, series[len(series)-1], 1e-9)

	// Linear input gives a linear SMA
	for i := 1; i < len(series); i++ {
		assert.InDelta(t, 1.5, series[i]-series[i-1], 1e-9)
	}
}

func TestSMA_Series_PeriodOne(t *testing.T) {
	values := generateTestValues(5)
	assert.Equal(t, values, NewSMA(1).Series(values))
}

func TestSMA_Series_NonPositivePeriod(t *testing.T) {
	assert.Empty(t, NewSMA(0).Series(generateTestValues(5)))
	assert.Empty(t, NewSMA(-2).Series(generateTestValues(5)))
}

func TestSMA_GetRequiredPeriods(t *testing.T) {
	assert.Equal(t, 5, NewSMA(5).GetRequiredPeriods())
}

func TestSMASeries_FlatHistory(t *testing.T) {
	history := generateFlatHistory("SPY", 40, 100.0)

	fast, err := SMASeries("SPY", history, 20)
	require.NoError(t, err)
	slow, err := SMASeries("SPY", history, 32)
	require.NoError(t, err)

	require.Len(t, fast, 21)
	require.Len(t, slow, 9)
	assert.Equal(t, fast[len(fast)-1], slow[len(slow)-1])
}

func TestSMASeries_ShortHistoryIsEmpty(t *testing.T) {
	history := generateFlatHistory("SPY", 10, 100.0)

	series, err := SMASeries("SPY", history, 32)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestSMASeries_MissingClose(t *testing.T) {
	history := generateFlatHistory("SPY", 25, 100.0)
	delete(history[7].Bars, "SPY")

	_, err := SMASeries("SPY", history, 20)
	require.Error(t, err)
	assert.True(t, allocerrors.Is(err, allocerrors.ErrorCategoryMalformedInput))
}

func TestCloses(t *testing.T) {
	history := generateFlatHistory("SPY", 3, 42.0)

	closes, err := Closes("SPY", history)
	require.NoError(t, err)
	assert.Equal(t, []float64{42, 42, 42}, closes)

	_, err = Closes("QQQ", history)
	assert.Error(t, err)
}

// Benchmark tests
func BenchmarkSMA_Series(b *testing.B) {
	sma := NewSMA(32)
	values := generateTestValues(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sma.Series(values)
	}
}
