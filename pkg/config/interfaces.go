package config

// Package config provides configuration management for the pair rotation allocator

// ConfigManager handles loading, validation and saving of rotation configurations
type ConfigManager interface {
	// LoadConfig loads configuration from file and command line overrides
	LoadConfig(configFile string, overrides map[string]interface{}) (*RotationConfig, error)

	// ValidateConfig validates a configuration
	ValidateConfig(cfg *RotationConfig) error

	// SaveConfig saves configuration to file
	SaveConfig(cfg *RotationConfig, path string) error
}

// Validator interface for configuration validation
type Validator interface {
	Validate(cfg *RotationConfig) error
}

// Common configuration constants
const (
	// Default instruments
	DefaultPairAsset1     = "GOOG"
	DefaultPairAsset2     = "AAPL"
	DefaultBaseAsset      = "SPY"
	DefaultLeveragedAsset = "TQQQ"
	DefaultInterval       = "1day"

	// Default signal parameters
	DefaultSMAFastPeriod       = 20
	DefaultSMASlowPeriod       = 32
	DefaultRatioStdDivisor     = 1.2
	DefaultRollingLookbackDays = 60

	// Default overlay thresholds (fast SMA vs slow SMA multipliers)
	DefaultOverlayLevel1Ratio = 0.99
	DefaultOverlayLevel2Ratio = 0.98
	DefaultPairScale          = 1.0 / 3.0

	// Preset names
	PresetFullHistory     = "full"
	PresetRollingLookback = "rolling"

	// File and directory constants
	DefaultDataRoot = "data"
	DefaultExchange = "bybit"
	ResultsDir      = "results"
	DecisionFile    = "allocation.json"
	DecisionsXLSX   = "allocations.xlsx"
)
