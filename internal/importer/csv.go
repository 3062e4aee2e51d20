package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// CSVParser reads a ledger exported as CSV with the same header layout as
// the workbook.
type CSVParser struct {
	Columns Columns
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads all rows. Ragged rows are tolerated.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading ledger CSV: %w", err)
	}
	return parseRecords(records, p.Columns, false)
}
