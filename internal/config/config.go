package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported history sources
const (
	SourceCSV   = "csv"
	SourceBybit = "bybit"
)

// Config is the process configuration read from the environment. Strategy
// parameters live in pkg/config; this covers where data comes from and how the
// process runs.
type Config struct {
	Environment string
	LogLevel    string
	LogPretty   bool
	LogDir      string

	Data struct {
		Root     string
		Source   string
		Exchange string
		Interval string
	}

	Exchange struct {
		APIKey   string
		Secret   string
		Testnet  bool
		Demo     bool
		Category string
	}

	Strategy struct {
		ConfigFile  string
		Preset      string
		RunInterval time.Duration
	}

	Monitoring struct {
		MetricsPort int
	}
}

// Load reads envFile when it exists and builds the configuration from the
// environment. A missing envFile is not an error; variables already set in the
// process environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPretty:   getEnvBool("LOG_PRETTY", true),
		LogDir:      getEnv("LOG_DIR", "logs"),
	}

	cfg.Data.Root = getEnv("DATA_ROOT", "data")
	cfg.Data.Source = getEnv("DATA_SOURCE", SourceCSV)
	cfg.Data.Exchange = getEnv("DATA_EXCHANGE", "bybit")
	cfg.Data.Interval = getEnv("DATA_INTERVAL", "1day")

	cfg.Exchange.APIKey = getEnv("BYBIT_API_KEY", "")
	cfg.Exchange.Secret = getEnv("BYBIT_API_SECRET", "")
	cfg.Exchange.Testnet = getEnvBool("BYBIT_TESTNET", false)
	cfg.Exchange.Demo = getEnvBool("BYBIT_DEMO", false)
	cfg.Exchange.Category = getEnv("BYBIT_CATEGORY", "spot")

	cfg.Strategy.ConfigFile = getEnv("ALLOCATOR_CONFIG", "")
	cfg.Strategy.Preset = getEnv("ALLOCATOR_PRESET", "")
	cfg.Strategy.RunInterval = getEnvDuration("ALLOCATOR_RUN_INTERVAL", 24*time.Hour)

	cfg.Monitoring.MetricsPort = getEnvInt("METRICS_PORT", 8080)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted sensibly
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceCSV, SourceBybit:
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceCSV, SourceBybit, c.Data.Source)
	}
	if c.Strategy.RunInterval <= 0 {
		return fmt.Errorf("ALLOCATOR_RUN_INTERVAL must be positive, got %s", c.Strategy.RunInterval)
	}
	if c.Monitoring.MetricsPort <= 0 || c.Monitoring.MetricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT out of range: %d", c.Monitoring.MetricsPort)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}
