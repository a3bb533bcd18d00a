package strategy

import (
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
)

// ApplyOverlay walks the overlay levels from least to most severe and applies
// each one whose threshold is breached (maFast < ratio*maSlow). A level only
// runs after every milder level has run. Each level overwrites just the fields
// it specifies. weights is modified in place. It returns the 1-based index and
// name of the deepest level applied, or 0 and "" when none triggered.
func ApplyOverlay(weights map[string]float64, instruments config.Instruments, levels []config.OverlayLevel, maFast, maSlow float64) (int, string) {
	applied, name := 0, ""

	for i, level := range levels {
		if !(maFast < level.Ratio*maSlow) {
			break
		}

		if level.PairScale != nil {
			weights[instruments.PairAsset1] *= *level.PairScale
			weights[instruments.PairAsset2] *= *level.PairScale
		}
		weights[instruments.BaseAsset] = level.Base
		weights[instruments.LeveragedAsset] = level.Leveraged

		applied, name = i+1, level.Name
	}

	return applied, name
}
