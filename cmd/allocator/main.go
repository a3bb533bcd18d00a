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
	"github.com/ducminhle1904/pair-rotation-allocator/internal/logger"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/monitoring"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/config"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/reporting"
	"github.com/rs/zerolog"
)

const appName = "allocator"

func main() {
	ctx, cancel := common.SignalContext()
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

// run parses args, builds the allocator and either evaluates once or serves.
// Reports go to stdout; logs go to stderr and the session file.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	commonFlags := common.RegisterCommonFlags(fs)

	var (
		configFile = fs.String("config", "", "Strategy config JSON file (default ALLOCATOR_CONFIG)")
		preset     = fs.String("preset", "", "Strategy preset: full_history or rolling_lookback (default ALLOCATOR_PRESET)")
		source     = fs.String("source", "", "History source: csv or bybit (default DATA_SOURCE)")
		category   = fs.String("category", "", "Bybit market category (default BYBIT_CATEGORY)")
		bars       = fs.Int("bars", 0, "Bars to fetch per symbol from bybit (0 = provider default)")
		logDir     = fs.String("log-dir", "", "Session log directory (default LOG_DIR)")

		pair1     = fs.String("pair1", "", "First pair instrument")
		pair2     = fs.String("pair2", "", "Second pair instrument")
		base      = fs.String("base", "", "Broad-market base instrument")
		leveraged = fs.String("leveraged", "", "Leveraged instrument")
		lookback  = fs.Int("lookback", 0, "Rolling ratio lookback in days (0 = preset)")
		divisor   = fs.Float64("divisor", 0, "Ratio band standard deviation divisor (0 = preset)")
		smaFast   = fs.Int("sma-fast", 0, "Fast SMA period (0 = preset)")
		smaSlow   = fs.Int("sma-slow", 0, "Slow SMA period (0 = preset)")

		asOf   = fs.String("as-of", "", "Evaluate as of this day (YYYY-MM-DD), ignoring later bars")
		period = fs.String("period", "", "Use only the trailing period of history, e.g. 365d or 2y")
		series = fs.Int("series", 0, "Print the decisions of the last N days instead of only the latest")

		jsonOut = fs.String("json", "", "Write the decision(s) as JSON to this path")
		xlsxOut = fs.String("xlsx", "", "Write the decision(s) as an Excel workbook to this path")
		csvOut  = fs.String("csv", "", "Write the decision(s) as CSV to this path")

		serve       = fs.Bool("serve", false, "Keep running, re-evaluate every run interval and expose /metrics and /health")
		metricsPort = fs.Int("metrics-port", 0, "Monitoring server port (default METRICS_PORT)")
	)

	formatter := common.NewUsageFormatter(appName, "daily pairs-rotation and trend-overlay allocation").
		AddExample(appName+" -data-root data -series 30", "print the last 30 daily decisions from CSV files").
		AddExample(appName+" -source bybit -preset rolling_lookback -json results/today.json", "evaluate from exchange history with a 60-day window").
		AddExample(appName+" -serve -metrics-port 9100", "run continuously with Prometheus metrics")

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
	applyFlagOverrides(env, commonFlags, *source, *category, *logDir, *configFile, *preset, *metricsPort)

	validator := common.NewFlagValidator().
		ValidateChoice("source", env.Data.Source, []string{envconfig.SourceCSV, envconfig.SourceBybit}).
		ValidateInt("metrics-port", env.Monitoring.MetricsPort, 1, 65535).
		ValidateInt("series", *series, 0, 100000).
		ValidateFile("config", env.Strategy.ConfigFile, false)
	asOfDay, err := common.ParseDate(*asOf)
	if err != nil {
		validator.AddError(err.Error())
	}
	trailing, ok := data.ParseTrailingPeriod(*period)
	if *period != "" && !ok {
		validator.AddError(fmt.Sprintf("invalid period %q", *period))
	}
	if err := validator.GetError(); err != nil {
		return err
	}

	logCfg := commonFlags.LoggerConfig(env.LogLevel, env.LogPretty)
	logger.SetGlobalLogger(logger.NewWithWriter(logCfg, stderr))

	rotationCfg, err := config.NewRotationConfigManager().LoadConfig(env.Strategy.ConfigFile, map[string]interface{}{
		"preset":              env.Strategy.Preset,
		"pair_asset_1":        *pair1,
		"pair_asset_2":        *pair2,
		"base_asset":          *base,
		"leveraged_asset":     *leveraged,
		"ratio_lookback_days": *lookback,
		"ratio_std_divisor":   *divisor,
		"sma_fast_period":     *smaFast,
		"sma_slow_period":     *smaSlow,
	})
	if err != nil {
		return err
	}

	session, err := logger.NewSessionLogger(env.LogDir, "PairRotation", rotationCfg.Interval, logCfg, stderr)
	if err != nil {
		return err
	}
	defer session.Close()
	log := session.Logger()

	strat, err := strategy.NewPairRotation(rotationCfg, strategy.WithLogger(log))
	if err != nil {
		return err
	}

	historySource, err := newSource(env, *bars, log)
	if err != nil {
		return err
	}
	log.Info().
		Str("strategy", strat.GetName()).
		Str("source", historySource.GetName()).
		Strs("assets", strat.Assets()).
		Msg("allocator configured")

	allocator := NewAllocator(strat, historySource, reporting.NewDefaultReporter(reporting.NewConsoleReporter(stdout)),
		session, monitoring.NewHealthChecker(2*env.Strategy.RunInterval), log)

	opts := runOptions{
		asOf:     asOfDay,
		period:   trailing,
		series:   *series,
		jsonPath: *jsonOut,
		xlsxPath: *xlsxOut,
		csvPath:  *csvOut,
	}

	if *serve {
		return allocator.Serve(ctx, env.Monitoring.MetricsPort, env.Strategy.RunInterval, opts)
	}

	_, err = allocator.RunOnce(ctx, opts)
	return err
}

// applyFlagOverrides lets non-empty flags win over environment values
func applyFlagOverrides(env *envconfig.Config, flags *common.CommonFlags, source, category, logDir, configFile, preset string, metricsPort int) {
	if *flags.DataRoot != "" {
		env.Data.Root = *flags.DataRoot
	}
	if source != "" {
		env.Data.Source = strings.ToLower(source)
	}
	if category != "" {
		env.Exchange.Category = category
	}
	if logDir != "" {
		env.LogDir = logDir
	}
	if configFile != "" {
		env.Strategy.ConfigFile = configFile
	}
	if preset != "" {
		env.Strategy.Preset = preset
	}
	if metricsPort != 0 {
		env.Monitoring.MetricsPort = metricsPort
	}
}

// newSource returns the configured history source
func newSource(env *envconfig.Config, bars int, log zerolog.Logger) (data.SeriesSource, error) {
	return exchange.NewSourceFactory(log).CreateSource(exchange.SourceConfig{
		Name: env.Data.Source,
		CSV: &exchange.CSVConfig{
			DataRoot: env.Data.Root,
			Exchange: env.Data.Exchange,
			Interval: env.Data.Interval,
		},
		Bybit: &exchange.BybitConfig{
			APIKey:    env.Exchange.APIKey,
			APISecret: env.Exchange.Secret,
			Testnet:   env.Exchange.Testnet,
			Demo:      env.Exchange.Demo,
			Category:  env.Exchange.Category,
			Bars:      bars,
		},
	})
}
