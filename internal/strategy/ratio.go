package strategy

import (
	"fmt"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// RatioSeries builds close(pair1)/close(pair2) for every bar of window, oldest first.
// A missing close or a zero pair2 close is malformed input.
func RatioSeries(window types.PriceHistory, instruments config.Instruments) ([]float64, error) {
	ratios := make([]float64, len(window))
	for i, bar := range window {
		numerator, ok := bar.Close(instruments.PairAsset1)
		if !ok {
			return nil, missingClose(i, instruments.PairAsset1)
		}
		denominator, ok := bar.Close(instruments.PairAsset2)
		if !ok {
			return nil, missingClose(i, instruments.PairAsset2)
		}
		if denominator == 0 {
			return nil, allocerrors.NewMalformedInputError("strategy", "RatioSeries",
				fmt.Sprintf("zero close for %s at bar %d", instruments.PairAsset2, i)).
				WithContext("symbol", instruments.PairAsset2).
				WithContext("index", i)
		}
		ratios[i] = numerator / denominator
	}
	return ratios, nil
}

func missingClose(index int, symbol string) error {
	return allocerrors.NewMalformedInputError("strategy", "RatioSeries",
		fmt.Sprintf("bar %d has no close for %s", index, symbol)).
		WithContext("symbol", symbol).
		WithContext("index", index)
}
