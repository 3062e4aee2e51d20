// Package export writes run outputs: spreadsheets for people and CSV side
// files for the next stage or a follow-up review.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetCategorized  = "Categorized"
	SheetSummary      = "Summary"
	SheetJournal      = "Journal"
	SheetTrialBalance = "Trial Balance"
)

// TransferColor is the fill applied to e-transfer rows.
const TransferColor = "FFFF00"

const columnWidth = 16

// table is one worksheet. Highlighted rows are 0-based indexes into rows.
type table struct {
	name      string
	header    []string
	rows      [][]any
	highlight []int
}

// writeWorkbook renders tables as worksheets, in order, and writes the
// workbook to w.
func writeWorkbook(w io.Writer, tables ...table) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	transferStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{TransferColor}},
	})
	if err != nil {
		return fmt.Errorf("creating transfer style: %w", err)
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", t.name, err)
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return fmt.Errorf("adding sheet %s: %w", t.name, err)
		}
		if err := writeTable(f, t, headerStyle, transferStyle); err != nil {
			return fmt.Errorf("writing sheet %s: %w", t.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, t table, headerStyle, transferStyle int) error {
	header := t.header
	if err := f.SetSheetRow(t.name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(t.name, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &row); err != nil {
			return err
		}
	}
	for _, i := range t.highlight {
		if err := f.SetRowStyle(t.name, i+2, i+2, transferStyle); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(t.header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(t.name, "A", last, columnWidth); err != nil {
		return err
	}
	return f.SetPanes(t.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
