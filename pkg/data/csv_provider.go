package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog/log"
)

// CSVProvider implements DataProvider for CSV files
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV data provider with default format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, allocerrors.NewDataError("data", "LoadData", err).WithContext("source", source)
	}
	defer file.Close()

	data, err := p.parse(file, source)
	if err != nil {
		return nil, allocerrors.NewDataError("data", "LoadData", err).WithContext("source", source)
	}
	return data, nil
}

// parse reads rows in the provider's column format. Rows that cannot be
// parsed or fail the OHLC sanity checks are skipped with a warning.
func (p *CSVProvider) parse(r io.Reader, source string) ([]types.OHLCV, error) {
	format := p.format
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file %s is empty", source)
		}
		return nil, err
	}

	var data []types.OHLCV

	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Warn().Str("source", source).Int("line", lineNum).
				Int("expected", format.MinColumns).Int("got", len(record)).
				Msg("insufficient columns, skipping")
			continue
		}

		timestamp, err := parseTimestamp(format.DateFormat, record[format.TimestampCol])
		if err != nil {
			log.Warn().Str("source", source).Int("line", lineNum).Err(err).Msg("invalid timestamp, skipping")
			continue
		}

		var prices [5]float64
		columns := [5]int{format.OpenCol, format.HighCol, format.LowCol, format.CloseCol, format.VolumeCol}
		valid := true
		for i, col := range columns {
			prices[i], err = strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				log.Warn().Str("source", source).Int("line", lineNum).Str("value", record[col]).
					Err(err).Msg("invalid number, skipping")
				valid = false
				break
			}
		}
		if !valid {
			continue
		}

		candle := types.OHLCV{
			Timestamp: timestamp,
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    prices[4],
		}
		if err := validateCandle(candle); err != nil {
			log.Warn().Str("source", source).Int("line", lineNum).Err(err).Msg("invalid price data, skipping")
			continue
		}

		data = append(data, candle)
	}

	return data, nil
}

// parseTimestamp accepts the configured layout, a bare date and unix milliseconds
func parseTimestamp(layout, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(layout, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

func validateCandle(candle types.OHLCV) error {
	if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
		return fmt.Errorf("prices must be positive")
	}
	if candle.High < candle.Low {
		return fmt.Errorf("high (%.4f) cannot be less than low (%.4f)", candle.High, candle.Low)
	}
	if candle.High < candle.Open || candle.High < candle.Close {
		return fmt.Errorf("high (%.4f) must be >= open (%.4f) and close (%.4f)", candle.High, candle.Open, candle.Close)
	}
	if candle.Low > candle.Open || candle.Low > candle.Close {
		return fmt.Errorf("low (%.4f) must be <= open (%.4f) and close (%.4f)", candle.Low, candle.Open, candle.Close)
	}
	return nil
}

// ValidateData validates the integrity of loaded data
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}

	for i, candle := range data {
		if err := validateCandle(candle); err != nil {
			return fmt.Errorf("invalid price data at index %d: %w", i, err)
		}

		if i > 0 && candle.Timestamp.Before(data[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: timestamps must be in chronological order", i)
		}
	}

	return nil
}
