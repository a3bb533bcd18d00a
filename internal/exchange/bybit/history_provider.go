package bybit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/pkg/types"
	"github.com/rs/zerolog"
)

// KlineFetcher is the part of Client the history provider needs
type KlineFetcher interface {
	GetKlines(ctx context.Context, params KlineParams) ([]Kline, error)
}

// HistoryConfig configures a HistoryProvider
type HistoryConfig struct {
	Category string        // "spot", "linear", "inverse"
	Interval KlineInterval // bar interval, daily by default
	Bars     int           // number of most recent bars to fetch
	PageSize int           // bars per request, at most MaxKlineLimit
	// IncludeOpenBar keeps the bar that has not closed yet
	IncludeOpenBar bool
	Retry          RetryConfig
}

// DefaultHistoryConfig returns two years of daily spot bars
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Category: "spot",
		Interval: Interval1d,
		Bars:     730,
		PageSize: MaxKlineLimit,
		Retry:    DefaultRetryConfig(),
	}
}

// HistoryProvider pages backwards through the kline endpoint and returns a
// symbol's most recent bars oldest first
type HistoryProvider struct {
	fetcher KlineFetcher
	config  HistoryConfig
	now     func() time.Time
	log     zerolog.Logger
}

// NewHistoryProvider creates a history provider over fetcher
func NewHistoryProvider(fetcher KlineFetcher, config HistoryConfig, log zerolog.Logger) *HistoryProvider {
	if config.Interval == "" {
		config.Interval = Interval1d
	}
	if config.Category == "" {
		config.Category = "spot"
	}
	if config.PageSize <= 0 || config.PageSize > MaxKlineLimit {
		config.PageSize = MaxKlineLimit
	}

	return &HistoryProvider{
		fetcher: fetcher,
		config:  config,
		now:     time.Now,
		log:     log.With().Str("component", "bybit_history").Logger(),
	}
}

// GetName returns the name of the source
func (p *HistoryProvider) GetName() string {
	return fmt.Sprintf("Bybit %s %s", p.config.Category, p.config.Interval)
}

// LoadSeries fetches the configured number of bars for symbol
func (p *HistoryProvider) LoadSeries(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	if p.config.Bars <= 0 {
		return nil, fmt.Errorf("bar count must be positive, got %d", p.config.Bars)
	}

	now := p.now()
	end := now
	seen := make(map[int64]Kline, p.config.Bars)

	for len(seen) < p.config.Bars {
		limit := min(p.config.PageSize, p.config.Bars-len(seen)+1)
		pageEnd := end

		var page []Kline
		err := Retry(ctx, p.config.Retry, func() error {
			var err error
			page, err = p.fetcher.GetKlines(ctx, KlineParams{
				Category: p.config.Category,
				Symbol:   symbol,
				Interval: p.config.Interval,
				End:      &pageEnd,
				Limit:    limit,
			})
			return err
		})
		if err != nil {
			return nil, Categorize(err, "LoadSeries").WithContext("symbol", symbol)
		}
		if len(page) == 0 {
			break
		}

		oldest := page[0].StartTime
		added := 0
		for _, k := range page {
			if k.StartTime.Before(oldest) {
				oldest = k.StartTime
			}
			if _, dup := seen[k.StartTime.UnixMilli()]; !dup {
				seen[k.StartTime.UnixMilli()] = k
				added++
			}
		}

		p.log.Debug().
			Str("symbol", symbol).
			Int("page", len(page)).
			Int("total", len(seen)).
			Time("oldest", oldest).
			Msg("fetched kline page")

		if added == 0 || len(page) < limit {
			break
		}
		end = oldest.Add(-time.Millisecond)
	}

	klines := make([]Kline, 0, len(seen))
	for _, k := range seen {
		if !p.config.IncludeOpenBar && !p.isClosed(k, now) {
			continue
		}
		klines = append(klines, k)
	}
	sort.Slice(klines, func(i, j int) bool {
		return klines[i].StartTime.Before(klines[j].StartTime)
	})
	if len(klines) > p.config.Bars {
		klines = klines[len(klines)-p.config.Bars:]
	}

	bars := make([]types.OHLCV, len(klines))
	for i, k := range klines {
		bars[i] = k.ToOHLCV()
	}

	p.log.Info().Str("symbol", symbol).Int("bars", len(bars)).Msg("loaded exchange history")
	return bars, nil
}

// isClosed reports whether the bar starting at k.StartTime has finished by now
func (p *HistoryProvider) isClosed(k Kline, now time.Time) bool {
	return !k.StartTime.Add(IntervalDuration(p.config.Interval)).After(now)
}

// IntervalDuration returns the length of one bar. Months count as 31 days.
func IntervalDuration(interval KlineInterval) time.Duration {
	switch interval {
	case Interval1d:
		return 24 * time.Hour
	case Interval1w:
		return 7 * 24 * time.Hour
	case Interval1M:
		return 31 * 24 * time.Hour
	}
	var minutes int
	if _, err := fmt.Sscanf(string(interval), "%d", &minutes); err != nil || minutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(minutes) * time.Minute
}
