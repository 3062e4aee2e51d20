package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// XLSXParser reads a ledger worksheet from an Excel workbook.
type XLSXParser struct {
	Sheet   string // empty selects the first sheet
	Columns Columns
}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads the configured sheet. The first non-blank row is the header.
func (p *XLSXParser) Parse(r io.Reader) ([]model.Transaction, Stats, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, Stats{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, Stats{}, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return parseRecords(rows, p.Columns, true)
}

func parseRecords(records [][]string, cols Columns, serialDates bool) ([]model.Transaction, Stats, error) {
	start := 0
	for start < len(records) && isBlank(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, Stats{}, nil
	}

	idx, err := cols.resolve(records[start])
	if err != nil {
		return nil, Stats{}, err
	}

	rr := &rowReader{idx: idx, serialDates: serialDates}
	var txns []model.Transaction
	for i, rec := range records[start+1:] {
		if txn, ok := rr.read(i+1, rec); ok {
			txns = append(txns, txn)
		}
	}
	return txns, rr.stats, nil
}

// excelSerialDate converts a 1900-system serial date, dropping the time of day.
func excelSerialDate(serial float64) (time.Time, bool) {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}
