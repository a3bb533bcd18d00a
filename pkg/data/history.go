package data

import (
	"context"
	"fmt"
	"sort"
	"time"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog/log"
)

// HistoryAssembler loads one series per symbol and joins them into a
// PriceHistory. Only calendar days present for every symbol are kept, so each
// DailyBar carries a close for all requested instruments.
type HistoryAssembler struct {
	source SeriesSource
	filter *DefaultDataFilter
}

// NewHistoryAssembler creates an assembler over source
func NewHistoryAssembler(source SeriesSource) *HistoryAssembler {
	return &HistoryAssembler{
		source: source,
		filter: NewDefaultDataFilter(),
	}
}

// AssembleOptions restricts the assembled history
type AssembleOptions struct {
	// AsOf drops bars after this day when set
	AsOf time.Time
	// Period keeps only the trailing period of each series when positive
	Period time.Duration
}

// Assemble loads and joins the series of symbols
func (a *HistoryAssembler) Assemble(ctx context.Context, symbols []string, opts AssembleOptions) (types.PriceHistory, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to assemble")
	}

	series := make(map[string][]types.OHLCV, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bars, err := a.source.LoadSeries(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("load %s from %s: %w", symbol, a.source.GetName(), err)
		}

		bars = a.filter.Normalize(bars)
		if !opts.AsOf.IsZero() {
			bars = a.filter.FilterByDateRange(bars, time.Time{}, endOfDay(opts.AsOf))
		}
		if opts.Period > 0 {
			bars = a.filter.FilterByPeriod(bars, opts.Period)
		}
		if len(bars) == 0 {
			return nil, allocerrors.NewDataError("data", "Assemble", fmt.Errorf("no bars for %s", symbol)).
				WithContext("symbol", symbol)
		}
		series[symbol] = bars
	}

	history := JoinByDate(series)

	log.Debug().
		Strs("symbols", symbols).
		Int("days", len(history)).
		Msg("assembled price history")

	return history, nil
}

// JoinByDate merges per-symbol series into daily bars keyed by trading day.
// Days missing from any series are dropped; when a series holds several bars
// for one day the last one wins.
func JoinByDate(series map[string][]types.OHLCV) types.PriceHistory {
	if len(series) == 0 {
		return types.PriceHistory{}
	}

	days := make(map[time.Time]map[string]types.OHLCV)
	for symbol, bars := range series {
		for _, bar := range bars {
			day := TradingDay(bar.Timestamp)
			row, ok := days[day]
			if !ok {
				row = make(map[string]types.OHLCV, len(series))
				days[day] = row
			}
			row[symbol] = bar
		}
	}

	history := make(types.PriceHistory, 0, len(days))
	for day, row := range days {
		if len(row) != len(series) {
			continue
		}
		history = append(history, types.DailyBar{Timestamp: day, Bars: row})
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})

	return history
}

// HistoryUntil returns the prefix of history up to and including asOf's trading day
func HistoryUntil(history types.PriceHistory, asOf time.Time) types.PriceHistory {
	cutoff := TradingDay(asOf)
	n := sort.Search(len(history), func(i int) bool {
		return TradingDay(history[i].Timestamp).After(cutoff)
	})
	return history[:n]
}

func endOfDay(ts time.Time) time.Time {
	return TradingDay(ts).Add(24*time.Hour - time.Nanosecond)
}
