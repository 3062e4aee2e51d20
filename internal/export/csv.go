package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/model"
)

// Output file names inside the output directory.
const (
	CategorizedFile   = "categorized.xlsx"
	UncategorizedFile = "uncategorized_vendors.csv"
	TrainFile         = "train.csv"
	TestFile          = "test.csv"
	PredictedFile     = "predicted.csv"
	JournalXLSXFile   = "journal_entries.xlsx"
	JournalCSVFile    = "journal_entries.csv"
	TrialBalanceFile  = "trial_balance.xlsx"
	UnpostedFile      = "unposted.csv"
)

// CSV headers.
var (
	UncategorizedHeader = []string{"Vendor"}
	PredictedHeader     = []string{"Vendor", "Date", "Debit", "Credit", "Predicted Category", "Confidence"}
	UnpostedHeader      = []string{"Row", "Date", "Vendor", "Debit", "Credit", "Category", "Reason"}
)

// WriteUncategorizedVendors writes one vendor key per row.
func WriteUncategorizedVendors(w io.Writer, vendors []string) error {
	records := make([][]string, len(vendors))
	for i, v := range vendors {
		records[i] = []string{v}
	}
	return writeCSV(w, UncategorizedHeader, records)
}

// WritePredicted writes the rows whose category came from the classifier.
func WritePredicted(w io.Writer, rows []model.CategorizedTransaction) error {
	var records [][]string
	for _, r := range rows {
		if r.Source != model.SourceModel {
			continue
		}
		records = append(records, []string{
			r.Vendor,
			cellDate(r.Date),
			r.Debit.StringFixed(2),
			r.Credit.StringFixed(2),
			r.Category,
			strconv.FormatFloat(r.Confidence, 'f', 4, 64),
		})
	}
	return writeCSV(w, PredictedHeader, records)
}

// WriteUnposted writes rows the journal skipped, with the reason.
func WriteUnposted(w io.Writer, rows []journal.Unposted) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			strconv.Itoa(r.Row),
			cellDate(r.Date),
			r.Vendor,
			r.Debit.StringFixed(2),
			r.Credit.StringFixed(2),
			r.Category,
			string(r.Status),
		}
	}
	return writeCSV(w, UnpostedHeader, records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// WriteFile creates path and its parent directory, and replaces the file
// only after write succeeds.
func WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
