package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// Header is the CSV header for journal_entries.csv.
const Header = "entry_id,date,account,description,debit,credit,category,source_row"

// TrialBalanceHeader is the CSV header for trial_balance.csv.
const TrialBalanceHeader = "account,debit,credit"

const (
	numFields   = 8
	dateFormat  = "2006-01-02"
	colEntryID  = 0
	colDate     = 1
	colAccount  = 2
	colDesc     = 3
	colDebit    = 4
	colCredit   = 5
	colCategory = 6
	colRow      = 7
)

// ReadLegs reads all legs from a journal CSV reader.
func ReadLegs(r io.Reader) ([]model.Leg, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var legs []model.Leg
	for i, rec := range records[1:] {
		leg, err := UnmarshalLeg(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// WriteLegs writes legs to a journal CSV writer (including header).
func WriteLegs(w io.Writer, legs []model.Leg) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, leg := range legs {
		if err := cw.Write(MarshalLeg(leg)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLeg converts a Leg to a CSV row ([]string).
func MarshalLeg(leg model.Leg) []string {
	row := make([]string, numFields)
	row[colEntryID] = leg.EntryID
	if !leg.Date.IsZero() {
		row[colDate] = leg.Date.Format(dateFormat)
	}
	row[colAccount] = leg.Account
	row[colDesc] = leg.Description

	if !leg.Debit.IsZero() {
		row[colDebit] = leg.Debit.StringFixed(2)
	}
	if !leg.Credit.IsZero() {
		row[colCredit] = leg.Credit.StringFixed(2)
	}

	row[colCategory] = leg.Category
	if leg.SourceRow != 0 {
		row[colRow] = strconv.Itoa(leg.SourceRow)
	}
	return row
}

// UnmarshalLeg converts a CSV row to a Leg.
func UnmarshalLeg(record []string) (model.Leg, error) {
	if len(record) != numFields {
		return model.Leg{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var date time.Time
	var err error
	if record[colDate] != "" {
		date, err = time.Parse(dateFormat, record[colDate])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
	}

	var debit, credit decimal.Decimal

	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}

	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	var sourceRow int
	if record[colRow] != "" {
		sourceRow, err = strconv.Atoi(record[colRow])
		if err != nil {
			return model.Leg{}, fmt.Errorf("parsing source_row %q: %w", record[colRow], err)
		}
	}

	return model.Leg{
		EntryID:     record[colEntryID],
		Date:        date,
		Account:     record[colAccount],
		Description: record[colDesc],
		Debit:       debit,
		Credit:      credit,
		Category:    record[colCategory],
		SourceRow:   sourceRow,
	}, nil
}

// WriteTrialBalance writes the trial balance followed by a Total row.
func WriteTrialBalance(w io.Writer, rows []TrialBalanceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(TrialBalanceHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write([]string{r.Account, r.Debit.StringFixed(2), r.Credit.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	debit, credit := TrialBalanceTotals(rows)
	if err := cw.Write([]string{"Total", debit.StringFixed(2), credit.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
