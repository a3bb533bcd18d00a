package reporting

import (
	"fmt"

	"github.com/ducminhle1904/pair-rotation-allocator/internal/strategy"
	"github.com/xuri/excelize/v2"
)

const (
	decisionsSheet = "Decisions"
	summarySheet   = "Summary"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteDecisionsXLSX writes a workbook with one row per decision and an
// outcome summary sheet
func (r *DefaultExcelReporter) WriteDecisionsXLSX(decisions []*strategy.AllocationDecision, symbols []string, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), decisionsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeDecisionsSheet(fx, decisions, symbols, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, decisions, symbols, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	// 0.00%
	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	decimals := "0.0000"
	styles.RatioStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &decimals,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.NoTradeStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Italic: true, Color: "808080"},
		Border: border,
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeDecisionsSheet(fx *excelize.File, decisions []*strategy.AllocationDecision, symbols []string, styles ExcelStyles) error {
	header := decisionHeader(symbols)
	if err := writeHeader(fx, decisionsSheet, header, styles.HeaderStyle); err != nil {
		return err
	}

	for i, d := range decisions {
		row := i + 2
		values := []interface{}{decisionDate(d), d.Bars, d.Outcome.String()}
		if b := d.Bands; b != nil {
			values = append(values, b.Last, b.Lower, b.Mean, b.Upper)
		} else {
			values = append(values, nil, nil, nil, nil)
		}
		values = append(values, overlayLabel(d))
		for _, symbol := range symbols {
			if w, ok := weightOf(d, symbol); ok {
				values = append(values, w)
			} else {
				values = append(values, nil)
			}
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if value != nil {
				if err := fx.SetCellValue(decisionsSheet, cell, value); err != nil {
					return err
				}
			}

			style := styles.BaseStyle
			switch {
			case d.IsNoTrade():
				style = styles.NoTradeStyle
			case col >= 3 && col <= 6:
				style = styles.RatioStyle
			case col >= 8:
				style = styles.PercentStyle
			}
			if err := fx.SetCellStyle(decisionsSheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := fx.SetColWidth(decisionsSheet, "A", "A", 12); err != nil {
		return err
	}
	if err := fx.SetColWidth(decisionsSheet, "C", "C", 18); err != nil {
		return err
	}
	if err := fx.SetColWidth(decisionsSheet, "H", lastCol, 14); err != nil {
		return err
	}

	return fx.SetPanes(decisionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, decisions []*strategy.AllocationDecision, symbols []string, styles ExcelStyles) error {
	if err := writeHeader(fx, summarySheet, []string{"Outcome", "Days", "Share"}, styles.HeaderStyle); err != nil {
		return err
	}

	counts := make(map[strategy.RotationOutcome]int)
	for _, d := range decisions {
		counts[d.Outcome]++
	}

	outcomes := []strategy.RotationOutcome{
		strategy.OutcomeNone, strategy.OutcomeHold, strategy.OutcomeRotateToPair1, strategy.OutcomeRotateToPair2,
	}
	for i, outcome := range outcomes {
		row := i + 2
		share := 0.0
		if len(decisions) > 0 {
			share = float64(counts[outcome]) / float64(len(decisions))
		}
		if err := fx.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &[]interface{}{outcome.String(), counts[outcome], share}); err != nil {
			return err
		}
		if err := fx.SetCellStyle(summarySheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), styles.PercentStyle); err != nil {
			return err
		}
	}

	// latest target weights
	row := len(outcomes) + 3
	if err := writeHeaderAt(fx, summarySheet, row, []string{"Symbol", "Latest weight"}, styles.HeaderStyle); err != nil {
		return err
	}
	if len(decisions) > 0 {
		latest := decisions[len(decisions)-1]
		for i, symbol := range symbols {
			w, _ := weightOf(latest, symbol)
			r := row + 1 + i
			if err := fx.SetSheetRow(summarySheet, fmt.Sprintf("A%d", r), &[]interface{}{symbol, w}); err != nil {
				return err
			}
			if err := fx.SetCellStyle(summarySheet, fmt.Sprintf("B%d", r), fmt.Sprintf("B%d", r), styles.PercentStyle); err != nil {
				return err
			}
		}
	}

	return fx.SetColWidth(summarySheet, "A", "C", 18)
}

func writeHeader(fx *excelize.File, sheet string, header []string, style int) error {
	return writeHeaderAt(fx, sheet, 1, header, style)
}

func writeHeaderAt(fx *excelize.File, sheet string, row int, header []string, style int) error {
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}
