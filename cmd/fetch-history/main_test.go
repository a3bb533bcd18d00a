package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource serves fixed series and fails for unknown symbols
type stubSource map[string][]types.OHLCV

func (s stubSource) LoadSeries(_ context.Context, symbol string) ([]types.OHLCV, error) {
	bars, ok := s[symbol]
	if !ok {
		return nil, errors.New("symbol not listed")
	}
	return bars, nil
}

func (s stubSource) GetName() string { return "stub" }

func dailyBars(n int, price float64) []types.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.OHLCV, n)
	for i := range bars {
		p := price + float64(i)
		bars[i] = types.OHLCV{Timestamp: start.AddDate(0, 0, i), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 10}
	}
	return bars
}

func newFetcher(root string, source data.SeriesSource) *historyFetcher {
	return &historyFetcher{
		source:   source,
		locator:  data.NewDefaultFileLocator(),
		root:     root,
		exchange: "bybit",
		category: "spot",
		interval: "D",
		log:      zerolog.Nop(),
	}
}

func TestHistoryFetcher_FetchAll(t *testing.T) {
	root := t.TempDir()
	fetcher := newFetcher(root, stubSource{
		"BTCUSDT": dailyBars(30, 100),
		"ETHUSDT": dailyBars(5, 10),
	})

	results, err := fetcher.FetchAll(context.Background(), []string{"BTCUSDT", "ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 30, results[0].Bars)
	assert.Equal(t, "2024-01-01", results[0].First)
	assert.Equal(t, "2024-01-30", results[0].Last)
	assert.Equal(t, filepath.Join(root, "bybit", "spot", "BTCUSDT", "D", "candles.csv"), results[0].Path)

	// the allocator's data manager finds and reads what was written
	loaded, err := data.NewDataManager(root, "bybit", "1day").LoadSeries(context.Background(), "ETHUSDT")
	require.NoError(t, err)
	assert.Len(t, loaded, 5)
}

func TestHistoryFetcher_ContinuesAfterFailure(t *testing.T) {
	fetcher := newFetcher(t.TempDir(), stubSource{
		"GOOD":  dailyBars(3, 50),
		"EMPTY": nil,
	})

	results, err := fetcher.FetchAll(context.Background(), []string{"MISSING", "EMPTY", "GOOD"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")

	require.Len(t, results, 3)
	assert.Error(t, results[0].Err)
	assert.EqualError(t, results[1].Err, "no klines returned")
	assert.NoError(t, results[2].Err)
	assert.FileExists(t, results[2].Path)

	var buf bytes.Buffer
	printSummary(&buf, results)
	assert.Contains(t, buf.String(), "DOWNLOAD SUMMARY")
	assert.Contains(t, buf.String(), "error: symbol not listed")
}

func TestHistoryFetcher_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newFetcher(t.TempDir(), stubSource{}).FetchAll(ctx, []string{"BTCUSDT"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRun_InvalidFlags(t *testing.T) {
	for _, key := range []string{"BYBIT_CATEGORY", "DATA_SOURCE", "ALLOCATOR_RUN_INTERVAL", "METRICS_PORT"} {
		t.Setenv(key, "")
	}

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-env", "", "-category", "options"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category must be one of")

	err = run(context.Background(), []string{"-env", "", "-interval", "2h"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval must be one of")
}
