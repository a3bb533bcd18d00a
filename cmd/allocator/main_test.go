package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/logger"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/monitoring"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/reporting"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func candle(day int, price float64) types.OHLCV {
	return types.OHLCV{
		Timestamp: testStart.AddDate(0, 0, day),
		Open:      price,
		High:      price * 1.01,
		Low:       price * 0.99,
		Close:     price,
		Volume:    1000,
	}
}

// writeDataRoot writes n days per instrument. GOOG/AAPL trade at a constant
// ratio of 2 until the last day, when AAPL drops to 80 and the ratio spikes to 2.5.
func writeDataRoot(t *testing.T, n int) string {
	t.Helper()
	root := t.TempDir()
	locator := data.NewDefaultFileLocator()

	series := map[string][]types.OHLCV{}
	for i := 0; i < n; i++ {
		aapl := 100.0
		if i == n-1 {
			aapl = 80
		}
		series["GOOG"] = append(series["GOOG"], candle(i, 200))
		series["AAPL"] = append(series["AAPL"], candle(i, aapl))
		series["SPY"] = append(series["SPY"], candle(i, 400+float64(i)))
		series["TQQQ"] = append(series["TQQQ"], candle(i, 50+float64(i)))
	}
	for symbol, candles := range series {
		path := locator.DataFilePath(root, "bybit", "spot", symbol, "1day")
		require.NoError(t, data.WriteCSV(path, candles, data.DefaultCSVFormat))
	}
	return root
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATA_SOURCE", "DATA_EXCHANGE", "DATA_INTERVAL", "DATA_ROOT",
		"ALLOCATOR_CONFIG", "ALLOCATOR_PRESET", "ALLOCATOR_RUN_INTERVAL", "METRICS_PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func baseArgs(t *testing.T, root string) []string {
	return []string{"-env", "", "-data-root", root, "-log-dir", t.TempDir(), "-log-level", "error", "-no-colors"}
}

func TestRun_LatestDecision(t *testing.T) {
	clearEnv(t)
	root := writeDataRoot(t, 40)
	jsonPath := filepath.Join(t.TempDir(), "today.json")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append(baseArgs(t, root), "-json", jsonPath), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "ALLOCATION 2024-02-09")
	assert.Contains(t, out, "ROTATE_TO_PAIR2")
	assert.Contains(t, out, "85.00%")

	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decision map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decision))
	assert.Equal(t, "ROTATE_TO_PAIR2", decision["outcome"])
	assert.Equal(t, float64(40), decision["bars"])
}

func TestRun_AsOfIgnoresLaterBars(t *testing.T) {
	clearEnv(t)
	root := writeDataRoot(t, 40)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append(baseArgs(t, root), "-as-of", "2024-02-08"), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	// a constant ratio sits on its own mean
	assert.Contains(t, stdout.String(), "ALLOCATION 2024-02-08")
	assert.Contains(t, stdout.String(), "HOLD")
}

func TestRun_Series(t *testing.T) {
	clearEnv(t)
	root := writeDataRoot(t, 40)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	args := append(baseArgs(t, root),
		"-series", "10",
		"-xlsx", filepath.Join(dir, "series.xlsx"),
		"-csv", filepath.Join(dir, "series.csv"),
		"-json", filepath.Join(dir, "series.json"))
	require.NoError(t, run(context.Background(), args, &stdout, &stderr), stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "DAILY DECISIONS (10)")
	assert.Contains(t, out, "insufficient_history")
	assert.Contains(t, out, "ROTATE_TO_PAIR2=1")

	assert.FileExists(t, filepath.Join(dir, "series.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "series.csv"))

	raw, err := os.ReadFile(filepath.Join(dir, "series.json"))
	require.NoError(t, err)
	var decisions []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decisions))
	assert.Len(t, decisions, 10)
}

func TestRun_InsufficientHistory(t *testing.T) {
	clearEnv(t)
	root := writeDataRoot(t, 10)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), baseArgs(t, root), &stdout, &stderr))
	assert.Contains(t, stdout.String(), "NO TRADE")
}

func TestRun_RollingOverrides(t *testing.T) {
	clearEnv(t)
	root := writeDataRoot(t, 40)

	var stdout, stderr bytes.Buffer
	// a 10-day window and SMA(5/10) still see the final spike
	args := append(baseArgs(t, root), "-lookback", "10", "-sma-fast", "5", "-sma-slow", "10")
	require.NoError(t, run(context.Background(), args, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "ROTATE_TO_PAIR2")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"unknown source", []string{"-source", "ftp"}, "source must be one of"},
		{"bad date", []string{"-as-of", "yesterday"}, "invalid date"},
		{"bad period", []string{"-period", "soon"}, "invalid period"},
		{"unknown preset", []string{"-preset", "weekly"}, "unknown preset"},
		{"missing config file", []string{"-config", "/nonexistent/config.json"}, "config file does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), append(baseArgs(t, t.TempDir()), tt.args...), &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestRun_MissingData(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), baseArgs(t, t.TempDir()), &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assemble history")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "allocator v")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// cancelAfter cancels the run once every instrument has been loaded
type cancelAfter struct {
	data.SeriesSource
	remaining int
	cancel    context.CancelFunc
}

func (c *cancelAfter) LoadSeries(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	bars, err := c.SeriesSource.LoadSeries(ctx, symbol)
	if c.remaining--; c.remaining == 0 {
		c.cancel()
	}
	return bars, err
}

func TestAllocator_ServeStopsOnCancel(t *testing.T) {
	root := writeDataRoot(t, 40)

	strat, err := strategy.NewPairRotation(config.NewDefaultRotationConfig())
	require.NoError(t, err)
	session, err := logger.NewSessionLogger(t.TempDir(), "serve", "1day", logger.Config{Level: "error"}, nil)
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := &cancelAfter{SeriesSource: data.NewDataManager(root, "bybit", "1day"), remaining: 4, cancel: cancel}

	var stdout bytes.Buffer
	health := monitoring.NewHealthChecker(time.Hour)
	allocator := NewAllocator(strat, source,
		reporting.NewDefaultReporter(reporting.NewConsoleReporter(&stdout)), session, health, zerolog.Nop())

	require.NoError(t, allocator.Serve(ctx, freePort(t), time.Hour, runOptions{}))

	status := health.Status()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "ROTATE_TO_PAIR2", status.LastOutcome)
	assert.Contains(t, stdout.String(), "ROTATE_TO_PAIR2")
}
