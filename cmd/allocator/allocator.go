package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/logger"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/monitoring"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/reporting"
	"github.com/rs/zerolog"
)

// runOptions controls one evaluation pass
type runOptions struct {
	asOf     time.Time
	period   time.Duration
	series   int
	jsonPath string
	xlsxPath string
	csvPath  string
}

// Allocator wires a history source to the strategy and publishes each
// decision to the console, the session log, metrics and optional files
type Allocator struct {
	strategy  *strategy.PairRotation
	assembler *data.HistoryAssembler
	reporter  *reporting.DefaultReporter
	session   *logger.SessionLogger
	health    *monitoring.HealthChecker
	log       zerolog.Logger
}

// NewAllocator creates an allocator over source
func NewAllocator(strat *strategy.PairRotation, source data.SeriesSource, reporter *reporting.DefaultReporter,
	session *logger.SessionLogger, health *monitoring.HealthChecker, log zerolog.Logger) *Allocator {
	return &Allocator{
		strategy:  strat,
		assembler: data.NewHistoryAssembler(source),
		reporter:  reporter,
		session:   session,
		health:    health,
		log:       log,
	}
}

// RunOnce loads history, evaluates the latest bar (or the trailing series)
// and publishes the result. It returns the latest decision.
func (a *Allocator) RunOnce(ctx context.Context, opts runOptions) (*strategy.AllocationDecision, error) {
	started := time.Now()
	decision, err := a.runOnce(ctx, opts)
	monitoring.ObserveEvaluation(time.Since(started))
	if err != nil {
		monitoring.RecordError(err)
		a.health.RecordError(err)
		return nil, err
	}

	monitoring.RecordDecision(decision)
	a.health.RecordDecision(decision)
	return decision, nil
}

func (a *Allocator) runOnce(ctx context.Context, opts runOptions) (*strategy.AllocationDecision, error) {
	symbols := a.strategy.Assets()

	history, err := a.assembler.Assemble(ctx, symbols, data.AssembleOptions{
		AsOf:   opts.asOf,
		Period: opts.period,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble history: %w", err)
	}
	a.log.Debug().Int("bars", len(history)).Strs("symbols", symbols).Msg("history assembled")

	seriesMode := opts.series > 0 && len(history) > 0

	var decisions []*strategy.AllocationDecision
	if seriesMode {
		decisions, err = a.strategy.EvaluateSeries(history, len(history)-opts.series)
	} else {
		var decision *strategy.AllocationDecision
		decision, err = a.strategy.Evaluate(history)
		decisions = []*strategy.AllocationDecision{decision}
	}
	if err != nil {
		return nil, err
	}
	if len(decisions) == 0 {
		return nil, errors.New("no decisions produced")
	}
	latest := decisions[len(decisions)-1]

	if seriesMode {
		a.reporter.OutputSeries(decisions, symbols)
	} else {
		a.reporter.OutputDecision(latest, symbols)
	}
	a.session.LogAllocation(latest.Timestamp, latest.Outcome.String(), latest.Allocation, latest.Reason)

	if err := a.writeFiles(decisions, latest, symbols, seriesMode, opts); err != nil {
		return nil, err
	}
	return latest, nil
}

func (a *Allocator) writeFiles(decisions []*strategy.AllocationDecision, latest *strategy.AllocationDecision, symbols []string, seriesMode bool, opts runOptions) error {
	if opts.jsonPath != "" {
		var v interface{} = latest
		if seriesMode {
			v = decisions
		}
		if err := a.reporter.WriteDecisionJSON(v, opts.jsonPath); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		a.log.Info().Str("path", opts.jsonPath).Msg("decision written")
	}
	if opts.xlsxPath != "" {
		if err := a.reporter.WriteDecisionsXLSX(decisions, symbols, opts.xlsxPath); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		a.log.Info().Str("path", opts.xlsxPath).Msg("workbook written")
	}
	if opts.csvPath != "" {
		if err := a.reporter.WriteDecisionsCSV(decisions, symbols, opts.csvPath); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		a.log.Info().Str("path", opts.csvPath).Msg("csv written")
	}
	return nil
}

// Serve exposes /metrics and /health on port and re-evaluates every interval
// until ctx is cancelled. Evaluation errors are logged and reported through
// the health endpoint; they do not stop the loop.
func (a *Allocator) Serve(ctx context.Context, port int, every time.Duration, opts runOptions) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", a.health)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info().Int("port", port).Msg("starting monitoring server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	evaluate := func() {
		evalCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if _, err := a.RunOnce(evalCtx, opts); err != nil {
			a.log.Error().Err(err).Msg("evaluation failed")
		}
	}

	evaluate()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var err error
loop:
	for {
		select {
		case <-ticker.C:
			evaluate()
		case err = <-serverErr:
			break loop
		case <-ctx.Done():
			a.log.Info().Msg("stop signal received")
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}
