package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// Header is the CSV header for chart-of-accounts.csv.
const Header = "category,account_name,account_type,normal_side"

const (
	numFields = 4
	colCat    = 0
	colName   = 1
	colType   = 2
	colSide   = 3
)

// ReadChart reads chart-of-accounts.csv.
func ReadChart(r io.Reader) ([]model.ChartEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.ChartEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteChart writes chart-of-accounts.csv.
func WriteChart(w io.Writer, entries []model.ChartEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts a ChartEntry to a CSV row.
func MarshalEntry(e model.ChartEntry) []string {
	row := make([]string, numFields)
	row[colCat] = e.Category
	row[colName] = e.AccountName
	row[colType] = string(e.AccountType)
	row[colSide] = string(e.NormalSide)
	return row
}

// UnmarshalEntry converts a CSV row to a ChartEntry.
func UnmarshalEntry(record []string) (model.ChartEntry, error) {
	if len(record) != numFields {
		return model.ChartEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	e := model.ChartEntry{
		Category:    strings.TrimSpace(record[colCat]),
		AccountName: strings.TrimSpace(record[colName]),
		AccountType: model.AccountType(strings.TrimSpace(record[colType])),
		NormalSide:  parseSide(record[colSide]),
	}
	if e.Category == "" {
		return model.ChartEntry{}, fmt.Errorf("empty category")
	}
	if e.AccountName == "" {
		return model.ChartEntry{}, fmt.Errorf("empty account_name for %q", e.Category)
	}
	if !e.NormalSide.Valid() {
		return model.ChartEntry{}, fmt.Errorf("normal_side %q must be Debit or Credit", record[colSide])
	}
	return e, nil
}

func parseSide(raw string) model.NormalSide {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debit", "dr":
		return model.SideDebit
	case "credit", "cr":
		return model.SideCredit
	}
	return model.NormalSide(raw)
}
