package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// Columns names the ledger header cells to read. Repeated header names are
// addressed the way spreadsheet tools dedupe them: the second "Date" column
// is "Date.1", the third "Date.2".
type Columns struct {
	Date        string `yaml:"date" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	Debit       string `yaml:"debit" validate:"required"`
	Credit      string `yaml:"credit" validate:"required"`
}

// DefaultColumns matches the bank ledger export layout, which repeats the
// Date and Description headers and carries the transaction in the second pair.
func DefaultColumns() Columns {
	return Columns{
		Date:        "Date.1",
		Description: "Description.1",
		Debit:       "Debit",
		Credit:      "Credit",
	}
}

type columnIndex struct {
	date, desc, debit, credit int
}

// dedupeHeader trims header cells and suffixes repeats with ".N".
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		key := strings.ToLower(name)
		if n, ok := seen[key]; ok {
			out[i] = fmt.Sprintf("%s.%d", name, n)
			seen[key] = n + 1
			continue
		}
		seen[key] = 1
		out[i] = name
	}
	return out
}

func (c Columns) resolve(header []string) (columnIndex, error) {
	names := dedupeHeader(header)
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[strings.ToLower(n)] = i
	}

	find := func(want string) (int, error) {
		i, ok := pos[strings.ToLower(strings.TrimSpace(want))]
		if !ok {
			return 0, fmt.Errorf("missing column %q (have %s)", want, strings.Join(names, ", "))
		}
		return i, nil
	}

	var idx columnIndex
	var err error
	if idx.date, err = find(c.Date); err != nil {
		return idx, err
	}
	if idx.desc, err = find(c.Description); err != nil {
		return idx, err
	}
	if idx.debit, err = find(c.Debit); err != nil {
		return idx, err
	}
	if idx.credit, err = find(c.Credit); err != nil {
		return idx, err
	}
	return idx, nil
}

// rowReader turns raw records into Transactions, absorbing bad cells.
type rowReader struct {
	idx   columnIndex
	stats Stats
	// serialDates accepts spreadsheet serial numbers in the date column.
	serialDates bool
}

func (rr *rowReader) read(rowNum int, rec []string) (model.Transaction, bool) {
	if isBlank(rec) {
		rr.stats.BlankRows++
		return model.Transaction{}, false
	}

	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	txn := model.Transaction{Row: rowNum, Description: cell(rr.idx.desc)}

	if raw := cell(rr.idx.date); raw != "" {
		d, ok := ParseDate(raw, rr.serialDates)
		if ok {
			txn.Date = d
		} else {
			txn.DateDefaulted = true
			rr.stats.DefaultedDates++
		}
	}

	var badDebit, badCredit bool
	txn.Debit, badDebit = parseAmountCell(cell(rr.idx.debit))
	txn.Credit, badCredit = parseAmountCell(cell(rr.idx.credit))
	if badDebit || badCredit {
		txn.AmountDefaulted = true
		rr.stats.DefaultedAmounts++
	}

	rr.stats.Rows++
	return txn, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
}

// ParseDate parses the date formats seen in bank exports. Month-first is
// assumed for ambiguous numeric dates. With serial set, a bare number is
// read as a spreadsheet serial date.
func ParseDate(raw string, serial bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if serial {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
			if t, ok := excelSerialDate(f); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a money cell, tolerating currency symbols and
// thousands separators. Empty cells are zero. Parenthesized values are negative.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Zero, nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// parseAmountCell parses a cell and rounds it to cents. The bool reports a
// repaired cell: unparseable, or carrying more than two decimal places.
func parseAmountCell(raw string) (decimal.Decimal, bool) {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero, true
	}
	cents := d.Round(2)
	return cents, !cents.Equal(d)
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
