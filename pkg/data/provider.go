package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// DataManager combines all data operations in a convenient interface. It
// serves symbol series from CSV files under a data root and implements SeriesSource.
type DataManager struct {
	provider DataProvider
	locator  FileLocator

	dataRoot string
	exchange string
	interval string
}

// NewDataManager creates a new data manager with default components
func NewDataManager(dataRoot, exchange, interval string) *DataManager {
	return NewDataManagerWithProvider(NewCachedProvider(NewCSVProvider()), dataRoot, exchange, interval)
}

// NewDataManagerWithProvider creates a data manager with a custom provider
func NewDataManagerWithProvider(provider DataProvider, dataRoot, exchange, interval string) *DataManager {
	return &DataManager{
		provider: provider,
		locator:  NewDefaultFileLocator(),
		dataRoot: dataRoot,
		exchange: exchange,
		interval: interval,
	}
}

// GetName returns the name of the data source
func (dm *DataManager) GetName() string {
	return fmt.Sprintf("%s (%s/%s)", dm.provider.GetName(), dm.dataRoot, dm.exchange)
}

// LoadSeries locates and loads the CSV file of symbol
func (dm *DataManager) LoadSeries(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := dm.FindDataFile(symbol)
	if path == "" {
		return nil, allocerrors.NewDataError("data", "LoadSeries",
			fmt.Errorf("no %s data file for %s under %s", dm.interval, symbol, dm.dataRoot)).
			WithContext("symbol", symbol)
	}

	bars, err := dm.provider.LoadData(path)
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// LoadHistory assembles the joined daily history of symbols
func (dm *DataManager) LoadHistory(ctx context.Context, symbols []string, opts AssembleOptions) (types.PriceHistory, error) {
	return NewHistoryAssembler(dm).Assemble(ctx, symbols, opts)
}

// FindDataFile locates the data file of symbol
func (dm *DataManager) FindDataFile(symbol string) string {
	return dm.locator.FindDataFile(dm.dataRoot, dm.exchange, symbol, dm.interval)
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180d", "2y"
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}

	for suffix, days := range map[string]int{"d": 1, "y": 365} {
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		nStr := strings.TrimSuffix(s, suffix)
		if nStr == "" {
			return 0, false
		}
		n, err := strconv.Atoi(nStr)
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n*days) * 24 * time.Hour, true
	}

	// allow raw durations too (e.g., 168h)
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}

var _ SeriesSource = (*DataManager)(nil)
