package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
)

// DataFilePath returns the canonical candles.csv location that FindDataFile
// checks first for a category: {root}/{exchange}/{category}/{SYMBOL}/{interval dir}/candles.csv
func (f *DefaultFileLocator) DataFilePath(dataRoot, exchange, category, symbol, interval string) string {
	return filepath.Join(dataRoot, exchange, category, strings.ToUpper(symbol), f.IntervalDirectory(interval), "candles.csv")
}

// WriteCSV writes candles to path in the given column format so that
// CSVProvider can read them back. The file is replaced atomically.
func WriteCSV(path string, candles []types.OHLCV, format CSVColumnMapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".candles-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)

	header := make([]string, format.MinColumns)
	names := map[int]string{
		format.TimestampCol: "timestamp",
		format.OpenCol:      "open",
		format.HighCol:      "high",
		format.LowCol:       "low",
		format.CloseCol:     "close",
		format.VolumeCol:    "volume",
	}
	for col, name := range names {
		header[col] = name
	}
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}

	for _, c := range candles {
		record := make([]string, format.MinColumns)
		record[format.TimestampCol] = c.Timestamp.UTC().Format(format.DateFormat)
		record[format.OpenCol] = strconv.FormatFloat(c.Open, 'f', -1, 64)
		record[format.HighCol] = strconv.FormatFloat(c.High, 'f', -1, 64)
		record[format.LowCol] = strconv.FormatFloat(c.Low, 'f', -1, 64)
		record[format.CloseCol] = strconv.FormatFloat(c.Close, 'f', -1, 64)
		record[format.VolumeCol] = strconv.FormatFloat(c.Volume, 'f', -1, 64)
		if err := w.Write(record); err != nil {
			tmp.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
