package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// File names inside the log directory.
const (
	TextLog = "run-log.txt"
	CSVLog  = "run-log.csv"
)

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,command,source,stages,status,error," +
	"total_rows,unique_categories,transfers,uncategorized_vendors," +
	"train_rows,test_rows,validated,accuracy,model_labels,predicted," +
	"journal_entries,unique_accounts,total_debit,total_credit,balanced," +
	"skipped_unmapped,skipped_transfer,skipped_zero," +
	"defaulted_dates,defaulted_amounts,ambiguous_amounts"

const (
	colTimestamp = iota
	colRunID
	colCommand
	colSource
	colStages
	colStatus
	colError
	colTotalRows
	colUniqueCats
	colTransfers
	colUncatVendors
	colTrainRows
	colTestRows
	colValidated
	colAccuracy
	colModelLabels
	colPredicted
	colEntries
	colAccounts
	colTotalDebit
	colTotalCredit
	colBalanced
	colSkippedUnmapped
	colSkippedTransfer
	colSkippedZero
	colDefaultedDates
	colDefaultedAmounts
	colAmbiguous

	numFields
)

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colTimestamp] = r.Timestamp.Format(time.RFC3339)
	row[colRunID] = r.RunID
	row[colCommand] = r.Command
	row[colSource] = r.Source
	row[colStages] = strings.Join(r.Stages, ";")
	row[colStatus] = r.Status
	row[colError] = r.Error
	row[colTotalRows] = strconv.Itoa(r.TotalRows)
	row[colUniqueCats] = strconv.Itoa(r.UniqueCategories)
	row[colTransfers] = strconv.Itoa(r.Transfers)
	row[colUncatVendors] = strconv.Itoa(r.UncategorizedVendors)
	row[colTrainRows] = strconv.Itoa(r.TrainRows)
	row[colTestRows] = strconv.Itoa(r.TestRows)
	row[colValidated] = strconv.FormatBool(r.Validated)
	row[colAccuracy] = strconv.FormatFloat(r.Accuracy, 'f', 4, 64)
	row[colModelLabels] = strconv.Itoa(r.ModelLabels)
	row[colPredicted] = strconv.Itoa(r.Predicted)
	row[colEntries] = strconv.Itoa(r.JournalEntries)
	row[colAccounts] = strconv.Itoa(r.UniqueAccounts)
	row[colTotalDebit] = r.TotalDebit.StringFixed(2)
	row[colTotalCredit] = r.TotalCredit.StringFixed(2)
	row[colBalanced] = strconv.FormatBool(r.Balanced)
	row[colSkippedUnmapped] = strconv.Itoa(r.SkippedUnmapped)
	row[colSkippedTransfer] = strconv.Itoa(r.SkippedTransfer)
	row[colSkippedZero] = strconv.Itoa(r.SkippedZero)
	row[colDefaultedDates] = strconv.Itoa(r.DefaultedDates)
	row[colDefaultedAmounts] = strconv.Itoa(r.DefaultedAmounts)
	row[colAmbiguous] = strconv.Itoa(r.AmbiguousAmounts)
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(record []string) (Record, error) {
	if len(record) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	r := Record{
		Timestamp: ts,
		RunID:     record[colRunID],
		Command:   record[colCommand],
		Source:    record[colSource],
		Status:    record[colStatus],
		Error:     record[colError],
	}
	if record[colStages] != "" {
		r.Stages = strings.Split(record[colStages], ";")
	}

	ints := []struct {
		col int
		dst *int
	}{
		{colTotalRows, &r.TotalRows},
		{colUniqueCats, &r.UniqueCategories},
		{colTransfers, &r.Transfers},
		{colUncatVendors, &r.UncategorizedVendors},
		{colTrainRows, &r.TrainRows},
		{colTestRows, &r.TestRows},
		{colModelLabels, &r.ModelLabels},
		{colPredicted, &r.Predicted},
		{colEntries, &r.JournalEntries},
		{colAccounts, &r.UniqueAccounts},
		{colSkippedUnmapped, &r.SkippedUnmapped},
		{colSkippedTransfer, &r.SkippedTransfer},
		{colSkippedZero, &r.SkippedZero},
		{colDefaultedDates, &r.DefaultedDates},
		{colDefaultedAmounts, &r.DefaultedAmounts},
		{colAmbiguous, &r.AmbiguousAmounts},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(record[f.col]); err != nil {
			return Record{}, fmt.Errorf("parsing column %d %q: %w", f.col, record[f.col], err)
		}
	}

	if r.Validated, err = strconv.ParseBool(record[colValidated]); err != nil {
		return Record{}, fmt.Errorf("parsing validated %q: %w", record[colValidated], err)
	}
	if r.Balanced, err = strconv.ParseBool(record[colBalanced]); err != nil {
		return Record{}, fmt.Errorf("parsing balanced %q: %w", record[colBalanced], err)
	}
	if r.Accuracy, err = strconv.ParseFloat(record[colAccuracy], 64); err != nil {
		return Record{}, fmt.Errorf("parsing accuracy %q: %w", record[colAccuracy], err)
	}
	if r.TotalDebit, err = decimal.NewFromString(record[colTotalDebit]); err != nil {
		return Record{}, fmt.Errorf("parsing total_debit %q: %w", record[colTotalDebit], err)
	}
	if r.TotalCredit, err = decimal.NewFromString(record[colTotalCredit]); err != nil {
		return Record{}, fmt.Errorf("parsing total_credit %q: %w", record[colTotalCredit], err)
	}
	return r, nil
}

// WriteText writes the human-readable block for a record.
func WriteText(w io.Writer, r Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Run %s: %s (%s) ===\n", r.RunID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Command)
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", r.Source)
	}
	if r.Ran(StageImport) || r.Ran(StageCategorize) {
		fmt.Fprintf(&b, "Total Transactions: %d\n", r.TotalRows)
		fmt.Fprintf(&b, "Defaulted Dates: %d\n", r.DefaultedDates)
		fmt.Fprintf(&b, "Defaulted Amounts: %d\n", r.DefaultedAmounts)
	}
	if r.Ran(StageCategorize) {
		fmt.Fprintf(&b, "Categorized: %d unique categories\n", r.UniqueCategories)
		fmt.Fprintf(&b, "E-Transfers: %d\n", r.Transfers)
		fmt.Fprintf(&b, "Uncategorized Vendors: %d\n", r.UncategorizedVendors)
		fmt.Fprintf(&b, "Train Rows: %d\n", r.TrainRows)
		fmt.Fprintf(&b, "Test Rows: %d\n", r.TestRows)
	}
	if r.Ran(StageTrain) {
		fmt.Fprintf(&b, "Model Categories: %d\n", r.ModelLabels)
		if r.Validated {
			fmt.Fprintf(&b, "Accuracy: %.2f\n", r.Accuracy)
		} else {
			b.WriteString("Accuracy: not validated\n")
		}
	}
	if r.Ran(StagePredict) {
		fmt.Fprintf(&b, "Predicted: %d\n", r.Predicted)
	}
	if r.Ran(StageJournal) {
		fmt.Fprintf(&b, "Total Entries: %d\n", r.JournalEntries)
		fmt.Fprintf(&b, "Unique Accounts Used: %d\n", r.UniqueAccounts)
		fmt.Fprintf(&b, "Total Debit: %s\n", r.TotalDebit.StringFixed(2))
		fmt.Fprintf(&b, "Total Credit: %s\n", r.TotalCredit.StringFixed(2))
		if r.Balanced {
			b.WriteString("Journal Balanced: YES\n")
		} else {
			b.WriteString("Journal Balanced: NO (Check DR/CR mismatch!)\n")
		}
		fmt.Fprintf(&b, "Skipped (unmapped category): %d\n", r.SkippedUnmapped)
		fmt.Fprintf(&b, "Skipped (e-transfer): %d\n", r.SkippedTransfer)
		fmt.Fprintf(&b, "Skipped (zero amount): %d\n", r.SkippedZero)
		fmt.Fprintf(&b, "Both Debit and Credit: %d\n", r.AmbiguousAmounts)
	}
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Append writes rec to <logDir>/run-log.txt and <logDir>/run-log.csv,
// creating the files and the CSV header if needed.
func Append(logDir string, rec Record) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	tf, err := os.OpenFile(filepath.Join(logDir, TextLog), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer tf.Close()
	if err := WriteText(tf, rec); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	path := filepath.Join(logDir, CSVLog)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log CSV: %w", err)
	}
	defer f.Close()

	if err := writeRecord(f, rec, needsHeader); err != nil {
		return err
	}
	return f.Close()
}

// writeRecord writes one CSV row, preceded by the header when asked.
func writeRecord(w io.Writer, rec Record, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalRecord(rec)); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing run log: %w", err)
	}
	return nil
}

// Read returns all records from <logDir>/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(logDir string) ([]Record, error) {
	f, err := os.Open(filepath.Join(logDir, CSVLog))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

func readRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var out []Record
	for i, rec := range records[1:] {
		r, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, r)
	}
	return out, nil
}
