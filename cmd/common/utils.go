package common

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// DateLayout is the layout of date flags
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD flag value as a UTC day. Empty input returns
// the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// SplitList splits a comma-separated flag value, trimming and upper-casing
// entries and dropping empty ones
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.ToUpper(strings.TrimSpace(item)); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResolvePath places a bare file name under defaultDir and appends defaultExt
// when the name has no extension
func ResolvePath(path, defaultDir, defaultExt string) string {
	if path == "" {
		return ""
	}

	if filepath.Ext(path) == "" && defaultExt != "" {
		path += defaultExt
	}

	if defaultDir != "" && !strings.ContainsAny(path, "/\\") {
		path = filepath.Join(defaultDir, path)
	}

	return path
}
