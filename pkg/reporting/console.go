package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return NewConsoleReporter(os.Stdout)
}

// NewConsoleReporter creates a console reporter writing to out
func NewConsoleReporter(out io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: out}
}

// OutputDecision prints one decision with its diagnostics
func (r *DefaultConsoleReporter) OutputDecision(decision *strategy.AllocationDecision, symbols []string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("ALLOCATION " + decisionDate(decision))
	t.SetStyle(table.StyleRounded)

	if decision.IsNoTrade() {
		t.AppendRows([]table.Row{
			{"Decision", "NO TRADE"},
			{"Reason", decision.NoTradeReason},
			{"Bars", decision.Bars},
		})
	} else {
		for _, symbol := range symbols {
			w, _ := weightOf(decision, symbol)
			t.AppendRow(table.Row{symbol, fmt.Sprintf("%.2f%%", w*100)})
		}
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Outcome", decision.Outcome},
			{"Overlay", overlayLabel(decision)},
			{"Bars", decision.Bars},
		})
		if b := decision.Bands; b != nil {
			t.AppendSeparator()
			t.AppendRows([]table.Row{
				{"Ratio", fmt.Sprintf("%.4f", b.Last)},
				{"Bands", fmt.Sprintf("%.4f .. %.4f (mean %.4f)", b.Lower, b.Upper, b.Mean)},
				{"Z-score", fmt.Sprintf("%.2f", b.ZScore())},
			})
		}
		t.AppendRow(table.Row{"SMA fast/slow", fmt.Sprintf("%.2f / %.2f", decision.MAFast, decision.MASlow)})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 14, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out, decision.Reason)
}

// OutputSeries prints one row per decision
func (r *DefaultConsoleReporter) OutputSeries(decisions []*strategy.AllocationDecision, symbols []string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("DAILY DECISIONS (%d)", len(decisions)))
	t.SetStyle(table.StyleRounded)

	header := table.Row{}
	for _, name := range decisionHeader(symbols) {
		header = append(header, name)
	}
	t.AppendHeader(header)

	counts := make(map[string]int)
	for _, d := range decisions {
		row := table.Row{decisionDate(d), d.Bars, d.Outcome}
		if b := d.Bands; b != nil {
			row = append(row, fmt.Sprintf("%.4f", b.Last), fmt.Sprintf("%.4f", b.Lower),
				fmt.Sprintf("%.4f", b.Mean), fmt.Sprintf("%.4f", b.Upper))
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		row = append(row, overlayLabel(d))
		for _, symbol := range symbols {
			if w, ok := weightOf(d, symbol); ok {
				row = append(row, fmt.Sprintf("%.2f%%", w*100))
			} else {
				row = append(row, "-")
			}
		}
		t.AppendRow(row)
		counts[d.Outcome.String()]++
	}

	summary := make([]string, 0, len(counts))
	for _, outcome := range []strategy.RotationOutcome{
		strategy.OutcomeNone, strategy.OutcomeHold, strategy.OutcomeRotateToPair1, strategy.OutcomeRotateToPair2,
	} {
		if n := counts[outcome.String()]; n > 0 {
			summary = append(summary, fmt.Sprintf("%s=%d", outcome, n))
		}
	}
	t.AppendFooter(table.Row{"Total", len(decisions), strings.Join(summary, " ")})

	t.Render()
}
