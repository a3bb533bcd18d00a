package indicators

import (
	"fmt"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// SMA represents the Simple Moving Average technical indicator
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
	}
}

// Series returns the trailing SMA for every index where a full window exists.
// Each window is summed independently so a value only depends on its own window.
func (s *SMA) Series(values []float64) []float64 {
	if s.period <= 0 || len(values) < s.period {
		return []float64{}
	}

	out := make([]float64, 0, len(values)-s.period+1)
	for end := s.period; end <= len(values); end++ {
		sum := 0.0
		for i := end - s.period; i < end; i++ {
			sum += values[i]
		}
		out = append(out, sum/float64(s.period))
	}
	return out
}

// GetRequiredPeriods returns the minimum number of periods needed
func (s *SMA) GetRequiredPeriods() int {
	return s.period
}

// Closes extracts symbol's close prices from history, oldest first
func Closes(symbol string, history types.PriceHistory) ([]float64, error) {
	closes := make([]float64, len(history))
	for i, bar := range history {
		price, ok := bar.Close(symbol)
		if !ok {
			return nil, allocerrors.NewMalformedInputError("indicators", "Closes",
				fmt.Sprintf("bar %d has no close for %s", i, symbol)).
				WithContext("symbol", symbol).
				WithContext("index", i)
		}
		closes[i] = price
	}
	return closes, nil
}

// SMASeries is the default MovingAverage
func SMASeries(symbol string, history types.PriceHistory, period int) ([]float64, error) {
	sma := NewSMA(period)
	if len(history) < sma.GetRequiredPeriods() {
		return []float64{}, nil
	}

	closes, err := Closes(symbol, history)
	if err != nil {
		return nil, err
	}
	return sma.Series(closes), nil
}

var _ MovingAverage = SMASeries
