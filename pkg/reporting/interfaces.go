package reporting

import (
	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
)

// Package reporting renders allocation decisions for people and files

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputDecision(decision *strategy.AllocationDecision, symbols []string)
	OutputSeries(decisions []*strategy.AllocationDecision, symbols []string)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteDecisionsCSV(decisions []*strategy.AllocationDecision, symbols []string, path string) error
	WriteDecisionsXLSX(decisions []*strategy.AllocationDecision, symbols []string, path string) error
	WriteDecisionJSON(v interface{}, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(name, interval string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	PercentStyle int
	RatioStyle   int
	BaseStyle    int
	NoTradeStyle int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
}
