package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// Column names of the train and test files.
const (
	ColVendor   = "Vendor"
	ColDate     = "Date"
	ColDebit    = "Debit"
	ColCredit   = "Credit"
	ColCategory = "Category"
)

// ReadStats counts cells that were replaced while reading.
type ReadStats struct {
	Rows             int
	DefaultedDates   int
	DefaultedAmounts int
}

// WriteCSV writes examples. The Category column is written only when
// withCategory is set.
func WriteCSV(w io.Writer, examples []Example, withCategory bool) error {
	cw := csv.NewWriter(w)
	header := []string{ColVendor, ColDate, ColDebit, ColCredit}
	if withCategory {
		header = append(header, ColCategory)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, ex := range examples {
		row := []string{ex.Vendor, "", ex.Debit.StringFixed(2), ex.Credit.StringFixed(2)}
		if !ex.Date.IsZero() {
			row[1] = ex.Date.Format(dateFormat)
		}
		if withCategory {
			row = append(row, ex.Category)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a train or test file. Columns are located by header name
// and Category is optional. Unparseable dates become the null date and
// unparseable amounts become zero; both are counted in ReadStats.
func ReadCSV(r io.Reader) ([]Example, ReadStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("reading dataset CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ReadStats{}, nil
	}

	pos := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		pos[strings.ToLower(strings.TrimSpace(h))] = i
	}
	col := func(name string) int {
		if i, ok := pos[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}
	vendorCol := col(ColVendor)
	if vendorCol < 0 {
		return nil, ReadStats{}, fmt.Errorf("missing column %q", ColVendor)
	}
	dateCol, debitCol, creditCol, catCol := col(ColDate), col(ColDebit), col(ColCredit), col(ColCategory)

	var stats ReadStats
	var out []Example
	for _, rec := range records[1:] {
		cell := func(i int) string {
			if i >= 0 && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		if strings.Join(rec, "") == "" {
			continue
		}

		ex := Example{Index: len(out), Vendor: cell(vendorCol), Category: cell(catCol)}
		if raw := cell(dateCol); raw != "" {
			d, err := time.Parse(dateFormat, raw)
			if err != nil {
				stats.DefaultedDates++
			} else {
				ex.Date = d
			}
		}

		var badDebit, badCredit bool
		ex.Debit, badDebit = readAmount(cell(debitCol))
		ex.Credit, badCredit = readAmount(cell(creditCol))
		if badDebit || badCredit {
			stats.DefaultedAmounts++
		}

		out = append(out, ex)
	}
	stats.Rows = len(out)
	return out, stats, nil
}

func readAmount(raw string) (decimal.Decimal, bool) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, true
	}
	return d, false
}
