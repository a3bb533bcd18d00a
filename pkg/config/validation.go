package config

import (
	"fmt"
	"math"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
)

// RotationValidator implements validation for rotation configurations
type RotationValidator struct{}

// NewRotationValidator creates a new rotation validator
func NewRotationValidator() *RotationValidator {
	return &RotationValidator{}
}

// Validate checks the configuration once at construction time.
// Every failure is a ConfigurationError.
func (v *RotationValidator) Validate(cfg *RotationConfig) error {
	if cfg == nil {
		return configError("configuration is nil")
	}

	if err := v.validateInstruments(cfg.Instruments); err != nil {
		return err
	}

	if cfg.SMAFastPeriod <= 0 {
		return configError(fmt.Sprintf("sma_fast_period must be positive, got: %d", cfg.SMAFastPeriod))
	}
	if cfg.SMASlowPeriod <= 0 {
		return configError(fmt.Sprintf("sma_slow_period must be positive, got: %d", cfg.SMASlowPeriod))
	}

	if cfg.RatioStdDivisor == 0 || math.IsNaN(cfg.RatioStdDivisor) {
		return configError(fmt.Sprintf("ratio_std_divisor must be non-zero, got: %v", cfg.RatioStdDivisor))
	}
	if cfg.RatioLookbackDays < 0 {
		return configError(fmt.Sprintf("ratio_lookback_days must be zero (full history) or positive, got: %d", cfg.RatioLookbackDays))
	}

	templates := []struct {
		name string
		tmpl WeightTemplate
	}{
		{"default", cfg.Templates.Default},
		{"rotate_to_pair1", cfg.Templates.RotateToPair1},
		{"rotate_to_pair2", cfg.Templates.RotateToPair2},
	}
	for _, t := range templates {
		if err := v.validateTemplate(t.name, t.tmpl); err != nil {
			return err
		}
	}

	return v.validateOverlay(cfg.Overlay)
}

func (v *RotationValidator) validateInstruments(instruments Instruments) error {
	seen := make(map[string]string, 4)
	roles := []struct {
		role   string
		symbol string
	}{
		{"pair_asset_1", instruments.PairAsset1},
		{"pair_asset_2", instruments.PairAsset2},
		{"base_asset", instruments.BaseAsset},
		{"leveraged_asset", instruments.LeveragedAsset},
	}

	for _, r := range roles {
		if r.symbol == "" {
			return configError(fmt.Sprintf("%s must be set", r.role))
		}
		if other, dup := seen[r.symbol]; dup {
			return configError(fmt.Sprintf("%s and %s share symbol %q; instruments must be distinct", other, r.role, r.symbol))
		}
		seen[r.symbol] = r.role
	}
	return nil
}

func (v *RotationValidator) validateTemplate(name string, tmpl WeightTemplate) error {
	weights := []struct {
		role   string
		weight float64
	}{
		{"pair1", tmpl.Pair1},
		{"pair2", tmpl.Pair2},
		{"base", tmpl.Base},
		{"leveraged", tmpl.Leveraged},
	}
	for _, w := range weights {
		if w.weight < 0 || w.weight > 1 || math.IsNaN(w.weight) {
			return configError(fmt.Sprintf("template %s: %s weight must be within [0, 1], got: %v", name, w.role, w.weight))
		}
	}
	return nil
}

// validateOverlay requires strictly decreasing ratios so that a more severe
// level can only trigger when every milder level has triggered.
func (v *RotationValidator) validateOverlay(levels []OverlayLevel) error {
	for i, level := range levels {
		label := level.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		if level.Ratio <= 0 || math.IsNaN(level.Ratio) {
			return configError(fmt.Sprintf("overlay %s: ratio must be positive, got: %v", label, level.Ratio))
		}
		if i > 0 && level.Ratio >= levels[i-1].Ratio {
			return configError(fmt.Sprintf("overlay %s: ratio %.4f must be below the previous level's %.4f", label, level.Ratio, levels[i-1].Ratio))
		}
		if level.PairScale != nil && (*level.PairScale < 0 || *level.PairScale > 1) {
			return configError(fmt.Sprintf("overlay %s: pair_scale must be within [0, 1], got: %v", label, *level.PairScale))
		}
		if level.Base < 0 || level.Base > 1 || level.Leveraged < 0 || level.Leveraged > 1 {
			return configError(fmt.Sprintf("overlay %s: base and leveraged weights must be within [0, 1]", label))
		}
	}
	return nil
}

func configError(message string) error {
	return allocerrors.NewConfigurationError("config", "Validate", message)
}
