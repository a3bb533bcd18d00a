package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ducminhle1904/pair-rotation-allocator/cmd/common"
	envconfig "github.com/ducminhle1904/pair-rotation-allocator/internal/config"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/exchange"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/exchange/bybit"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/logger"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
)

const appName = "fetch-history"

var supportedIntervals = []string{"1", "3", "5", "15", "30", "60", "120", "240", "360", "720", "D", "W", "M"}

func main() {
	ctx, cancel := common.SignalContext()
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	commonFlags := common.RegisterCommonFlags(fs)

	var (
		symbols  = fs.String("symbols", "", "Comma-separated symbols (default: the four configured instruments)")
		category = fs.String("category", "", "Market category: spot, linear, inverse (default BYBIT_CATEGORY)")
		interval = fs.String("interval", string(bybit.Interval1d), "Kline interval (1, 5, 15, 60, 240, D, W, M)")
		bars     = fs.Int("bars", 730, "Number of most recent bars per symbol")
	)

	formatter := common.NewUsageFormatter(appName, "download Bybit klines into the allocator's CSV layout").
		AddExample(appName+" -data-root data", "two years of daily bars for the default instruments").
		AddExample(appName+" -symbols BTCUSDT,ETHUSDT -category linear -bars 365", "one year of perpetual futures bars")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.CheckHelpAndVersion(stdout, appName, commonFlags, formatter, fs) {
		return nil
	}

	env, err := envconfig.Load(*commonFlags.EnvFile)
	if err != nil {
		return err
	}
	if *commonFlags.DataRoot != "" {
		env.Data.Root = *commonFlags.DataRoot
	}
	if *category != "" {
		env.Exchange.Category = *category
	}

	symbolList := common.SplitList(*symbols)
	if len(symbolList) == 0 {
		symbolList = config.NewDefaultRotationConfig().Instruments.Symbols()
	}

	validator := common.NewFlagValidator().
		ValidateChoice("category", env.Exchange.Category, []string{"spot", "linear", "inverse"}).
		ValidateInt("bars", *bars, 1, 100000).
		ValidateChoice("interval", *interval, supportedIntervals)
	if err := validator.GetError(); err != nil {
		return err
	}

	logCfg := commonFlags.LoggerConfig(env.LogLevel, env.LogPretty)
	log := logger.NewWithWriter(logCfg, stderr)
	logger.SetGlobalLogger(log)

	source, err := exchange.NewSourceFactory(log).CreateSource(exchange.SourceConfig{
		Name: exchange.SourceBybit,
		Bybit: &exchange.BybitConfig{
			APIKey:    env.Exchange.APIKey,
			APISecret: env.Exchange.Secret,
			Testnet:   env.Exchange.Testnet,
			Demo:      env.Exchange.Demo,
			Category:  env.Exchange.Category,
			Interval:  *interval,
			Bars:      *bars,
		},
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("source", source.GetName()).
		Strs("symbols", symbolList).
		Str("category", env.Exchange.Category).
		Str("interval", *interval).
		Int("bars", *bars).
		Msg("downloading klines")

	fetcher := &historyFetcher{
		source:   source,
		locator:  data.NewDefaultFileLocator(),
		root:     env.Data.Root,
		exchange: exchange.SourceBybit,
		category: env.Exchange.Category,
		interval: *interval,
		log:      log,
	}
	results, err := fetcher.FetchAll(ctx, symbolList)
	printSummary(stdout, results)
	return err
}

// fetchResult describes one downloaded symbol
type fetchResult struct {
	Symbol string
	Path   string
	Bars   int
	First  string
	Last   string
	Err    error
}

// historyFetcher writes each symbol's series to its canonical CSV path
type historyFetcher struct {
	source   data.SeriesSource
	locator  *data.DefaultFileLocator
	root     string
	exchange string
	category string
	interval string
	log      zerolog.Logger
}

// FetchAll downloads every symbol. A failing symbol does not stop the others;
// the first error is returned after all symbols were attempted.
func (f *historyFetcher) FetchAll(ctx context.Context, symbols []string) ([]fetchResult, error) {
	var firstErr error
	results := make([]fetchResult, 0, len(symbols))

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := f.fetch(ctx, symbol)
		if result.Err != nil {
			f.log.Error().Err(result.Err).Str("symbol", symbol).Msg("download failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", symbol, result.Err)
			}
		} else {
			f.log.Info().Str("symbol", symbol).Int("bars", result.Bars).Str("path", result.Path).Msg("saved")
		}
		results = append(results, result)
	}
	return results, firstErr
}

func (f *historyFetcher) fetch(ctx context.Context, symbol string) fetchResult {
	result := fetchResult{
		Symbol: symbol,
		Path:   f.locator.DataFilePath(f.root, f.exchange, f.category, symbol, f.interval),
	}

	candles, err := f.source.LoadSeries(ctx, symbol)
	if err != nil {
		result.Err = err
		return result
	}
	if len(candles) == 0 {
		result.Err = fmt.Errorf("no klines returned")
		return result
	}

	if err := data.WriteCSV(result.Path, candles, data.DefaultCSVFormat); err != nil {
		result.Err = err
		return result
	}

	result.Bars = len(candles)
	result.First = candles[0].Timestamp.Format(common.DateLayout)
	result.Last = candles[len(candles)-1].Timestamp.Format(common.DateLayout)
	return result
}

func printSummary(out io.Writer, results []fetchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("DOWNLOAD SUMMARY")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Symbol", "Bars", "First", "Last", "File"})

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Symbol, "-", "-", "-", "error: " + strings.TrimSpace(r.Err.Error())})
			continue
		}
		t.AppendRow(table.Row{r.Symbol, r.Bars, r.First, r.Last, r.Path})
	}
	t.Render()
}
