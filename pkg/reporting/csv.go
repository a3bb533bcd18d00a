package reporting

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// WriteDecisionsCSV writes one row per decision. Paths ending in .xlsx are
// delegated to the Excel writer.
func (r *DefaultCSVReporter) WriteDecisionsCSV(decisions []*strategy.AllocationDecision, symbols []string, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}

	if isXLSX(path) {
		return NewDefaultExcelReporter().WriteDecisionsXLSX(decisions, symbols, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(decisionHeader(symbols)); err != nil {
		return err
	}

	for _, d := range decisions {
		record := []string{decisionDate(d), strconv.Itoa(d.Bars), d.Outcome.String()}
		if b := d.Bands; b != nil {
			record = append(record, formatFloat(b.Last), formatFloat(b.Lower), formatFloat(b.Mean), formatFloat(b.Upper))
		} else {
			record = append(record, "", "", "", "")
		}
		record = append(record, overlayLabel(d))
		for _, symbol := range symbols {
			if weight, ok := weightOf(d, symbol); ok {
				record = append(record, formatFloat(weight))
			} else {
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
