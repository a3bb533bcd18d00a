package reporting

import (
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter(console *DefaultConsoleReporter) *DefaultReporter {
	if console == nil {
		console = NewDefaultConsoleReporter()
	}
	return &DefaultReporter{
		console: console,
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) OutputDecision(decision *strategy.AllocationDecision, symbols []string) {
	r.console.OutputDecision(decision, symbols)
}

func (r *DefaultReporter) OutputSeries(decisions []*strategy.AllocationDecision, symbols []string) {
	r.console.OutputSeries(decisions, symbols)
}

// File output methods
func (r *DefaultReporter) WriteDecisionsCSV(decisions []*strategy.AllocationDecision, symbols []string, path string) error {
	return r.csv.WriteDecisionsCSV(decisions, symbols, path)
}

func (r *DefaultReporter) WriteDecisionsXLSX(decisions []*strategy.AllocationDecision, symbols []string, path string) error {
	return r.excel.WriteDecisionsXLSX(decisions, symbols, path)
}

func (r *DefaultReporter) WriteDecisionJSON(v interface{}, path string) error {
	return WriteDecisionJSON(v, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(name, interval string) string {
	return r.paths.GetDefaultOutputDir(name, interval)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

var _ Reporter = (*DefaultReporter)(nil)
