package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RotationConfigManager implements ConfigManager for rotation configurations
type RotationConfigManager struct {
	validator Validator
}

// NewRotationConfigManager creates a new configuration manager
func NewRotationConfigManager() *RotationConfigManager {
	return &RotationConfigManager{
		validator: NewRotationValidator(),
	}
}

// LoadConfig builds a configuration from the preset named by overrides["preset"],
// then the config file (if any), then the remaining command line overrides.
func (m *RotationConfigManager) LoadConfig(configFile string, overrides map[string]interface{}) (*RotationConfig, error) {
	preset, _ := overrides["preset"].(string)
	cfg, err := NewPresetConfig(preset)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyOverrides(cfg, overrides)

	if err := m.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a JSON file on top of cfg
func (m *RotationConfigManager) loadFromFile(configFile string, cfg *RotationConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	// A file that lists overlay levels replaces the preset's levels entirely
	var probe struct {
		Overlay json.RawMessage `json:"overlay"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}
	if len(probe.Overlay) > 0 {
		cfg.Overlay = nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}
	return nil
}

// applyOverrides applies flag values; zero values mean "not set"
func applyOverrides(cfg *RotationConfig, overrides map[string]interface{}) {
	if v, ok := overrides["pair_asset_1"].(string); ok && v != "" {
		cfg.Instruments.PairAsset1 = strings.ToUpper(v)
	}
	if v, ok := overrides["pair_asset_2"].(string); ok && v != "" {
		cfg.Instruments.PairAsset2 = strings.ToUpper(v)
	}
	if v, ok := overrides["base_asset"].(string); ok && v != "" {
		cfg.Instruments.BaseAsset = strings.ToUpper(v)
	}
	if v, ok := overrides["leveraged_asset"].(string); ok && v != "" {
		cfg.Instruments.LeveragedAsset = strings.ToUpper(v)
	}
	if v, ok := overrides["sma_fast_period"].(int); ok && v != 0 {
		cfg.SMAFastPeriod = v
	}
	if v, ok := overrides["sma_slow_period"].(int); ok && v != 0 {
		cfg.SMASlowPeriod = v
	}
	if v, ok := overrides["ratio_std_divisor"].(float64); ok && v != 0 {
		cfg.RatioStdDivisor = v
	}
	if v, ok := overrides["ratio_lookback_days"].(int); ok && v != 0 {
		cfg.RatioLookbackDays = v
		if v > 0 {
			cfg.Name = PresetRollingLookback
		}
	}
}

// ValidateConfig validates a configuration using the validator
func (m *RotationConfigManager) ValidateConfig(cfg *RotationConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig saves configuration to a JSON file
func (m *RotationConfigManager) SaveConfig(cfg *RotationConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
