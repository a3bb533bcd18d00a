package config

import (
	"os"
	"path/filepath"
	"testing"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRotationConfig(t *testing.T) {
	cfg := NewDefaultRotationConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.SMAFastPeriod)
	assert.Equal(t, 32, cfg.SMASlowPeriod)
	assert.Equal(t, 1.2, cfg.RatioStdDivisor)
	assert.False(t, cfg.IsRolling())
	assert.Equal(t, "full", cfg.WindowMode())
	assert.Equal(t, []string{"GOOG", "AAPL", "SPY", "TQQQ"}, cfg.Instruments.Symbols())

	require.Len(t, cfg.Overlay, 2)
	require.NotNil(t, cfg.Overlay[0].PairScale)
	assert.InDelta(t, 1.0/3.0, *cfg.Overlay[0].PairScale, 1e-15)
	assert.Nil(t, cfg.Overlay[1].PairScale)
	assert.Equal(t, 0.99, cfg.Overlay[0].Ratio)
	assert.Equal(t, 0.98, cfg.Overlay[1].Ratio)
}

func TestNewRollingRotationConfig(t *testing.T) {
	cfg := NewRollingRotationConfig(45)

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsRolling())
	assert.Equal(t, "rolling(45)", cfg.WindowMode())
	assert.Equal(t, PresetRollingLookback, cfg.Name)
}

func TestNewPresetConfig(t *testing.T) {
	cfg, err := NewPresetConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.IsRolling())

	cfg, err = NewPresetConfig(PresetRollingLookback)
	require.NoError(t, err)
	assert.Equal(t, DefaultRollingLookbackDays, cfg.RatioLookbackDays)

	_, err = NewPresetConfig("weekly")
	assert.Error(t, err)
}

func TestWeightTemplate_Materialize(t *testing.T) {
	cfg := NewDefaultRotationConfig()
	weights := cfg.Templates.RotateToPair2.Materialize(cfg.Instruments)

	assert.Equal(t, map[string]float64{"GOOG": 0.0, "AAPL": 0.85, "SPY": 0.10, "TQQQ": 0.05}, weights)
	assert.InDelta(t, 1.0, cfg.Templates.Default.Total(), 1e-12)
}

func TestRotationConfig_Clone(t *testing.T) {
	cfg := NewDefaultRotationConfig()
	clone := cfg.Clone()

	*clone.Overlay[0].PairScale = 0.5
	clone.Overlay[1].Base = 0.9
	clone.Instruments.BaseAsset = "QQQ"

	assert.InDelta(t, 1.0/3.0, *cfg.Overlay[0].PairScale, 1e-15)
	assert.Equal(t, 0.2, cfg.Overlay[1].Base)
	assert.Equal(t, "SPY", cfg.Instruments.BaseAsset)
}

func TestRotationValidator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *RotationConfig)
		message string
	}{
		{"duplicate instruments", func(c *RotationConfig) { c.Instruments.LeveragedAsset = "SPY" }, "distinct"},
		{"empty instrument", func(c *RotationConfig) { c.Instruments.PairAsset1 = "" }, "pair_asset_1"},
		{"zero fast period", func(c *RotationConfig) { c.SMAFastPeriod = 0 }, "sma_fast_period"},
		{"negative slow period", func(c *RotationConfig) { c.SMASlowPeriod = -3 }, "sma_slow_period"},
		{"zero divisor", func(c *RotationConfig) { c.RatioStdDivisor = 0 }, "ratio_std_divisor"},
		{"negative lookback", func(c *RotationConfig) { c.RatioLookbackDays = -1 }, "ratio_lookback_days"},
		{"negative weight", func(c *RotationConfig) { c.Templates.Default.Base = -0.1 }, "template default"},
		{"overlay not decreasing", func(c *RotationConfig) { c.Overlay[1].Ratio = 0.995 }, "must be below"},
		{"overlay pair scale", func(c *RotationConfig) {
			scale := 1.5
			c.Overlay[0].PairScale = &scale
		}, "pair_scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultRotationConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.True(t, allocerrors.Is(err, allocerrors.ErrorCategoryConfiguration))
		})
	}
}

func TestRotationValidator_Nil(t *testing.T) {
	assert.Error(t, NewRotationValidator().Validate(nil))
}

func TestRotationValidator_ReportsFirstInvalidTemplateField(t *testing.T) {
	cfg := NewDefaultRotationConfig()
	cfg.Templates.RotateToPair2.Leveraged = 2
	cfg.Templates.Default.Base = -0.5
	cfg.Templates.Default.Pair1 = 1.5

	// the same error on every run, in declaration order
	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template default: pair1 weight")
	}
}

func TestRotationValidator_NegativeDivisorAllowed(t *testing.T) {
	cfg := NewDefaultRotationConfig()
	cfg.RatioStdDivisor = -1.2
	assert.NoError(t, cfg.Validate())
}

func TestRotationConfigManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotation.json")
	content := `{
  "instruments": {"pair_asset_1": "MSFT", "pair_asset_2": "AAPL", "base_asset": "SPY", "leveraged_asset": "UPRO"},
  "ratio_std_divisor": 1.5,
  "overlay": [
    {"name": "mild", "ratio": 0.995, "pair_scale": 0.5, "base": 0.4, "leveraged": 0.1}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	manager := NewRotationConfigManager()
	cfg, err := manager.LoadConfig(path, map[string]interface{}{
		"sma_fast_period": 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "MSFT", cfg.Instruments.PairAsset1)
	assert.Equal(t, "UPRO", cfg.Instruments.LeveragedAsset)
	assert.Equal(t, 1.5, cfg.RatioStdDivisor)
	assert.Equal(t, 10, cfg.SMAFastPeriod)
	assert.Equal(t, DefaultSMASlowPeriod, cfg.SMASlowPeriod)
	require.Len(t, cfg.Overlay, 1)
	assert.Equal(t, "mild", cfg.Overlay[0].Name)
	assert.Equal(t, 0.5, *cfg.Overlay[0].PairScale)

	// Templates not in the file keep their defaults
	assert.Equal(t, 0.85, cfg.Templates.RotateToPair1.Pair1)
}

func TestRotationConfigManager_LoadConfig_RollingOverride(t *testing.T) {
	cfg, err := NewRotationConfigManager().LoadConfig("", map[string]interface{}{
		"ratio_lookback_days": 30,
		"base_asset":          "qqq",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsRolling())
	assert.Equal(t, PresetRollingLookback, cfg.Name)
	assert.Equal(t, "QQQ", cfg.Instruments.BaseAsset)
}

func TestRotationConfigManager_LoadConfig_Invalid(t *testing.T) {
	_, err := NewRotationConfigManager().LoadConfig("", map[string]interface{}{
		"pair_asset_2": "GOOG",
	})
	require.Error(t, err)
	assert.True(t, allocerrors.Is(err, allocerrors.ErrorCategoryConfiguration))

	_, err = NewRotationConfigManager().LoadConfig(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestRotationConfigManager_SaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saved.json")
	manager := NewRotationConfigManager()

	original := NewRollingRotationConfig(90)
	require.NoError(t, manager.SaveConfig(original, path))

	loaded, err := manager.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
