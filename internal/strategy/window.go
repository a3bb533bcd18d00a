package strategy

import (
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// MinHistoryBars is the fixed history floor applied regardless of the
// configured windows. It is the smallest history the ratio step has ever run on.
const MinHistoryBars = 4

// MinimumHistory returns the bar count below which no allocation is produced:
// max(MinHistoryBars, lookback in rolling mode, slow SMA period).
func MinimumHistory(cfg *config.RotationConfig) int {
	minimum := MinHistoryBars
	if cfg.IsRolling() && cfg.RatioLookbackDays > minimum {
		minimum = cfg.RatioLookbackDays
	}
	if cfg.SMASlowPeriod > minimum {
		minimum = cfg.SMASlowPeriod
	}
	return minimum
}

// SelectRatioWindow returns the slice of history used for ratio statistics:
// all of it in full-history mode, else the min(L, len) most recent bars.
func SelectRatioWindow(history types.PriceHistory, cfg *config.RotationConfig) types.PriceHistory {
	if !cfg.IsRolling() {
		return history
	}
	return history.Tail(cfg.RatioLookbackDays)
}
