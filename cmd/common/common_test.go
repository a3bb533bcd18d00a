package common

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCommonFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterCommonFlags(fs)

	require.NoError(t, fs.Parse([]string{"-log-level", "debug", "-no-colors", "-data-root", "/tmp/data"}))

	assert.Equal(t, ".env", *flags.EnvFile)
	assert.Equal(t, "/tmp/data", *flags.DataRoot)

	cfg := flags.LoggerConfig("info", true)
	assert.Equal(t, "debug", cfg.Level)
	assert.False(t, cfg.Pretty)
}

func TestLoggerConfig_EnvDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg := flags.LoggerConfig("warn", true)
	assert.Equal(t, "warn", cfg.Level)
	assert.True(t, cfg.Pretty)
}

func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator()
	assert.NoError(t, v.GetError())

	v.ValidateInt("port", 8080, 1, 65535).
		ValidateChoice("source", "csv", []string{"csv", "bybit"})
	assert.False(t, v.HasErrors())

	v.ValidateChoice("source", "ftp", []string{"csv", "bybit"})
	require.True(t, v.HasErrors())
	assert.EqualError(t, v.GetError(), "validation error: source must be one of [csv, bybit], got: ftp")

	v.ValidateInt("port", 0, 1, 65535).
		ValidateFile("config", filepath.Join(t.TempDir(), "missing.json"), true).
		ValidateDirectory("data-root", "", true)
	assert.Contains(t, v.GetError().Error(), "validation errors:")
	assert.Contains(t, v.GetError().Error(), "data-root is required")
}

func TestCheckHelpAndVersion(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterCommonFlags(fs)
	formatter := NewUsageFormatter("allocator", "daily allocation").
		AddExample("allocator -series 30", "print the last 30 decisions")

	var buf bytes.Buffer
	require.NoError(t, fs.Parse(nil))
	assert.False(t, CheckHelpAndVersion(&buf, "allocator", flags, formatter, fs))

	require.NoError(t, fs.Parse([]string{"-help"}))
	assert.True(t, CheckHelpAndVersion(&buf, "allocator", flags, formatter, fs))
	assert.Contains(t, buf.String(), "print the last 30 decisions")
	assert.Contains(t, buf.String(), "-data-root")

	buf.Reset()
	require.NoError(t, fs.Parse([]string{"-version"}))
	assert.True(t, CheckHelpAndVersion(&buf, "allocator", flags, formatter, fs))
	assert.Contains(t, buf.String(), "allocator v"+ProjectVersion)
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), day)

	zero, err := ParseDate(" ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseDate("03/01/2024")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"GOOG", "AAPL"}, SplitList(" goog, ,AAPL,"))
	assert.Empty(t, SplitList(""))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "today.json"), ResolvePath("today", "results", ".json"))
	assert.Equal(t, "out/today.json", ResolvePath("out/today.json", "results", ".json"))
	assert.Equal(t, "", ResolvePath("", "results", ".json"))
}
