package data

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// ConvertIntervalToMinutes converts interval strings like "5m", "1h", "4h", "1day" to minute numbers
func (f *DefaultFileLocator) ConvertIntervalToMinutes(interval string) string {
	if _, err := strconv.Atoi(interval); err == nil {
		return interval
	}

	interval = strings.ToLower(strings.TrimSpace(interval))
	switch interval {
	case "d", "day", "daily":
		return strconv.Itoa(24 * 60)
	case "w", "week", "weekly":
		return strconv.Itoa(7 * 24 * 60)
	}
	interval = strings.TrimSuffix(strings.TrimSuffix(interval, "day"), "week") + unitSuffix(interval)

	if len(interval) < 2 {
		return interval
	}

	numStr := interval[:len(interval)-1]
	unit := interval[len(interval)-1:]

	num, err := strconv.Atoi(numStr)
	if err != nil {
		return interval
	}

	switch unit {
	case "m":
		return strconv.Itoa(num)
	case "h":
		return strconv.Itoa(num * 60)
	case "d":
		return strconv.Itoa(num * 24 * 60)
	case "w":
		return strconv.Itoa(num * 7 * 24 * 60)
	default:
		return interval
	}
}

// unitSuffix maps spelled-out units back to their one-letter form
func unitSuffix(interval string) string {
	switch {
	case strings.HasSuffix(interval, "day"):
		return "d"
	case strings.HasSuffix(interval, "week"):
		return "w"
	default:
		return ""
	}
}

// IntervalDirectory returns the directory name for an interval: the exchange
// kline code for daily and weekly bars ("D", "W"), minutes otherwise.
func (f *DefaultFileLocator) IntervalDirectory(interval string) string {
	switch f.ConvertIntervalToMinutes(interval) {
	case "1440":
		return "D"
	case "10080":
		return "W"
	default:
		return f.ConvertIntervalToMinutes(interval)
	}
}

// FindDataFile attempts to locate data files for a specific exchange.
// Structure: data/{exchange}/{category}/{symbol}/{interval}/candles.csv, with
// flat data/{exchange}/{symbol}.csv and data/{symbol}.csv files as fallbacks.
// Returns empty string if no file is found.
func (f *DefaultFileLocator) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	symbol = strings.ToUpper(symbol)
	intervalDir := f.IntervalDirectory(interval)

	var categories []string
	switch strings.ToLower(exchange) {
	case "bybit":
		categories = []string{"spot", "linear", "inverse"}
	default:
		categories = []string{"spot", "stocks", "etf", "linear"}
	}

	var attemptedPaths []string
	for _, category := range categories {
		attemptedPaths = append(attemptedPaths, filepath.Join(dataRoot, exchange, category, symbol, intervalDir, "candles.csv"))
	}
	attemptedPaths = append(attemptedPaths,
		filepath.Join(dataRoot, exchange, symbol+".csv"),
		filepath.Join(dataRoot, symbol+".csv"),
	)

	for _, path := range attemptedPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	log.Warn().
		Str("exchange", exchange).
		Str("symbol", symbol).
		Str("interval", interval).
		Strs("attempted", attemptedPaths).
		Msg("no data file found")

	return ""
}
