package config

import "fmt"

// Instruments names the four symbols the allocator trades. All four must be distinct.
type Instruments struct {
	PairAsset1     string `json:"pair_asset_1"`
	PairAsset2     string `json:"pair_asset_2"`
	BaseAsset      string `json:"base_asset"`
	LeveragedAsset string `json:"leveraged_asset"`
}

// Symbols returns the instruments in role order PAIR1, PAIR2, BASE, LEVER
func (i Instruments) Symbols() []string {
	return []string{i.PairAsset1, i.PairAsset2, i.BaseAsset, i.LeveragedAsset}
}

// WeightTemplate holds target weights for the four role slots. Weights need not sum to 1.
type WeightTemplate struct {
	Pair1     float64 `json:"pair1"`
	Pair2     float64 `json:"pair2"`
	Base      float64 `json:"base"`
	Leveraged float64 `json:"leveraged"`
}

// Materialize maps the template roles onto instrument symbols
func (w WeightTemplate) Materialize(instruments Instruments) map[string]float64 {
	return map[string]float64{
		instruments.PairAsset1:     w.Pair1,
		instruments.PairAsset2:     w.Pair2,
		instruments.BaseAsset:      w.Base,
		instruments.LeveragedAsset: w.Leveraged,
	}
}

// Total returns the sum of the four weights
func (w WeightTemplate) Total() float64 {
	return w.Pair1 + w.Pair2 + w.Base + w.Leveraged
}

// RotationTemplates holds the weight template for each rotation outcome
type RotationTemplates struct {
	Default       WeightTemplate `json:"default"`
	RotateToPair1 WeightTemplate `json:"rotate_to_pair1"`
	RotateToPair2 WeightTemplate `json:"rotate_to_pair2"`
}

// OverlayLevel is one severity step of the trend overlay. It triggers when
// fast SMA < Ratio * slow SMA. PairScale is optional: nil leaves the pair legs
// as they are, otherwise both pair weights are multiplied by it.
type OverlayLevel struct {
	Name      string   `json:"name"`
	Ratio     float64  `json:"ratio"`
	PairScale *float64 `json:"pair_scale,omitempty"`
	Base      float64  `json:"base"`
	Leveraged float64  `json:"leveraged"`
}

// RotationConfig holds the full, immutable configuration of the allocator
type RotationConfig struct {
	Name        string      `json:"name"`
	Interval    string      `json:"interval"`
	Instruments Instruments `json:"instruments"`

	SMAFastPeriod int `json:"sma_fast_period"`
	SMASlowPeriod int `json:"sma_slow_period"`

	RatioStdDivisor float64 `json:"ratio_std_divisor"`
	// 0 selects full-history ratio statistics
	RatioLookbackDays int `json:"ratio_lookback_days"`

	Templates RotationTemplates `json:"templates"`

	// Ordered from least to most severe
	Overlay []OverlayLevel `json:"overlay"`
}

// NewDefaultRotationConfig returns the full-history configuration
func NewDefaultRotationConfig() *RotationConfig {
	pairScale := DefaultPairScale

	return &RotationConfig{
		Name:     PresetFullHistory,
		Interval: DefaultInterval,
		Instruments: Instruments{
			PairAsset1:     DefaultPairAsset1,
			PairAsset2:     DefaultPairAsset2,
			BaseAsset:      DefaultBaseAsset,
			LeveragedAsset: DefaultLeveragedAsset,
		},
		SMAFastPeriod:     DefaultSMAFastPeriod,
		SMASlowPeriod:     DefaultSMASlowPeriod,
		RatioStdDivisor:   DefaultRatioStdDivisor,
		RatioLookbackDays: 0,
		Templates: RotationTemplates{
			Default:       WeightTemplate{Pair1: 0.0, Pair2: 0.0, Base: 0.8, Leveraged: 0.2},
			RotateToPair1: WeightTemplate{Pair1: 0.85, Pair2: 0.0, Base: 0.10, Leveraged: 0.05},
			RotateToPair2: WeightTemplate{Pair1: 0.0, Pair2: 0.85, Base: 0.10, Leveraged: 0.05},
		},
		Overlay: []OverlayLevel{
			{Name: "level1", Ratio: DefaultOverlayLevel1Ratio, PairScale: &pairScale, Base: 0.3, Leveraged: 0.1},
			{Name: "level2", Ratio: DefaultOverlayLevel2Ratio, Base: 0.2, Leveraged: 0.3},
		},
	}
}

// NewRollingRotationConfig returns the rolling-lookback variant of the default configuration
func NewRollingRotationConfig(lookbackDays int) *RotationConfig {
	cfg := NewDefaultRotationConfig()
	cfg.Name = PresetRollingLookback
	cfg.RatioLookbackDays = lookbackDays
	return cfg
}

// NewPresetConfig returns a configuration by preset name
func NewPresetConfig(name string) (*RotationConfig, error) {
	switch name {
	case "", PresetFullHistory:
		return NewDefaultRotationConfig(), nil
	case PresetRollingLookback:
		return NewRollingRotationConfig(DefaultRollingLookbackDays), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (expected %q or %q)", name, PresetFullHistory, PresetRollingLookback)
	}
}

// IsRolling reports whether ratio statistics use a rolling lookback window
func (c *RotationConfig) IsRolling() bool {
	return c.RatioLookbackDays > 0
}

// WindowMode returns a short label for the ratio window mode
func (c *RotationConfig) WindowMode() string {
	if c.IsRolling() {
		return fmt.Sprintf("rolling(%d)", c.RatioLookbackDays)
	}
	return "full"
}

// Clone returns a deep copy so that callers cannot mutate a running configuration
func (c *RotationConfig) Clone() *RotationConfig {
	clone := *c
	clone.Overlay = make([]OverlayLevel, len(c.Overlay))
	for i, level := range c.Overlay {
		clone.Overlay[i] = level
		if level.PairScale != nil {
			scale := *level.PairScale
			clone.Overlay[i].PairScale = &scale
		}
	}
	return &clone
}

// Validate validates the configuration
func (c *RotationConfig) Validate() error {
	return NewRotationValidator().Validate(c)
}
