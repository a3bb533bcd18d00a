package strategy

import (
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
)

// DecideRotation compares the latest ratio to the bands. The comparisons are
// strict: a ratio sitting exactly on a band keeps the default template.
func DecideRotation(last, upper, lower float64) RotationOutcome {
	switch {
	case last > upper:
		// pair1 rich relative to pair2
		return OutcomeRotateToPair2
	case last < lower:
		// pair1 cheap
		return OutcomeRotateToPair1
	default:
		return OutcomeHold
	}
}

// rotationTable indexes the weight templates by outcome
func rotationTable(templates config.RotationTemplates) map[RotationOutcome]config.WeightTemplate {
	return map[RotationOutcome]config.WeightTemplate{
		OutcomeHold:          templates.Default,
		OutcomeRotateToPair1: templates.RotateToPair1,
		OutcomeRotateToPair2: templates.RotateToPair2,
	}
}
