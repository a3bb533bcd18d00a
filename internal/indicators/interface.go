package indicators

import (
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// MovingAverage returns the trailing moving-average series of symbol's closes
// over history, one value per bar where a full window of period bars exists.
// An empty series means the history is too short for the period. The error
// return is reserved for malformed bars (missing closes).
type MovingAverage func(symbol string, history types.PriceHistory, period int) ([]float64, error)
