package exchange

import (
	"fmt"
	"strings"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/exchange/bybit"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/rs/zerolog"
)

// Supported history source names
const (
	SourceCSV   = "csv"
	SourceBybit = "bybit"
)

// SourceConfig holds configuration for creating history sources
type SourceConfig struct {
	Name  string       `json:"name"`            // Source name (csv, bybit)
	CSV   *CSVConfig   `json:"csv,omitempty"`   // CSV-specific config
	Bybit *BybitConfig `json:"bybit,omitempty"` // Bybit-specific config
}

// CSVConfig locates candle files under a data root
type CSVConfig struct {
	DataRoot string `json:"data_root"`
	Exchange string `json:"exchange"` // Directory under the data root
	Interval string `json:"interval"`
}

// BybitConfig holds Bybit-specific configuration
type BybitConfig struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Testnet   bool   `json:"testnet"` // Use testnet infrastructure
	Demo      bool   `json:"demo"`    // Use demo trading environment
	Category  string `json:"category"`
	Interval  string `json:"interval"` // Kline interval, "D" when empty
	Bars      int    `json:"bars"`     // Bars per symbol, provider default when zero
}

// SourceFactory creates history sources based on configuration
type SourceFactory struct {
	log zerolog.Logger
}

// NewSourceFactory creates a new source factory instance
func NewSourceFactory(log zerolog.Logger) *SourceFactory {
	return &SourceFactory{log: log}
}

// CreateSource creates a history source based on the provided configuration
func (f *SourceFactory) CreateSource(config SourceConfig) (data.SeriesSource, error) {
	if err := f.ValidateConfig(config); err != nil {
		return nil, err
	}

	switch normalize(config.Name) {
	case SourceBybit:
		return f.createBybitSource(config.Bybit), nil
	default:
		return f.createCSVSource(config.CSV), nil
	}
}

// GetSupportedSources returns a list of supported source names
func (f *SourceFactory) GetSupportedSources() []string {
	return []string{SourceCSV, SourceBybit}
}

// ValidateConfig validates the source configuration
func (f *SourceFactory) ValidateConfig(config SourceConfig) error {
	if strings.TrimSpace(config.Name) == "" {
		return allocerrors.NewConfigurationError("exchange", "ValidateConfig", "source name is required")
	}

	switch normalize(config.Name) {
	case SourceCSV:
		if config.CSV == nil {
			return allocerrors.NewConfigurationError("exchange", "ValidateConfig", "csv configuration is required")
		}
		if config.CSV.DataRoot == "" {
			return allocerrors.NewConfigurationError("exchange", "ValidateConfig", "csv data root is required")
		}
		return nil
	case SourceBybit:
		if config.Bybit == nil {
			return allocerrors.NewConfigurationError("exchange", "ValidateConfig", "bybit configuration is required")
		}
		switch config.Bybit.Category {
		case "", "spot", "linear", "inverse":
		default:
			return allocerrors.NewConfigurationError("exchange", "ValidateConfig",
				fmt.Sprintf("unsupported bybit category %q", config.Bybit.Category))
		}
		if config.Bybit.Bars < 0 {
			return allocerrors.NewConfigurationError("exchange", "ValidateConfig",
				fmt.Sprintf("bybit bar count cannot be negative, got %d", config.Bybit.Bars))
		}
		return nil
	default:
		return allocerrors.NewConfigurationError("exchange", "ValidateConfig",
			fmt.Sprintf("source %q is not supported (supported: %s)", config.Name, strings.Join(f.GetSupportedSources(), ", ")))
	}
}

func (f *SourceFactory) createCSVSource(config *CSVConfig) data.SeriesSource {
	exchange := config.Exchange
	if exchange == "" {
		exchange = SourceBybit
	}
	interval := config.Interval
	if interval == "" {
		interval = "1day"
	}
	return data.NewDataManager(config.DataRoot, exchange, interval)
}

func (f *SourceFactory) createBybitSource(config *BybitConfig) data.SeriesSource {
	client := bybit.NewClient(bybit.Config{
		APIKey:    config.APIKey,
		APISecret: config.APISecret,
		Testnet:   config.Testnet,
		Demo:      config.Demo,
	})

	historyCfg := bybit.DefaultHistoryConfig()
	if config.Category != "" {
		historyCfg.Category = config.Category
	}
	if config.Interval != "" {
		historyCfg.Interval = bybit.KlineInterval(config.Interval)
	}
	if config.Bars > 0 {
		historyCfg.Bars = config.Bars
	}

	f.log.Debug().
		Str("environment", client.GetEnvironment()).
		Str("category", historyCfg.Category).
		Int("bars", historyCfg.Bars).
		Msg("bybit history source created")

	return bybit.NewHistoryProvider(client, historyCfg, f.log)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
