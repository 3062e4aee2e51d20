package export

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/model"
	"github.com/cleared-dev/ledgercat/internal/pipeline"
)

const dateFormat = "2006-01-02"

// Column headers.
var (
	CategorizedHeader  = []string{"Row", "Date", "Description", "Debit", "Credit", "Vendor", "Category", "Account Type", "Source", "Confidence"}
	SummaryHeader      = []string{"Category", "Count", "Total Debit", "Total Credit"}
	JournalHeader      = []string{"Entry ID", "Date", "Account", "Description", "Debit", "Credit", "Category", "Source Row"}
	TrialBalanceHeader = []string{"Account", "Debit", "Credit"}
)

// WriteCategorized writes the categorized ledger and its per-category
// summary. E-transfer rows are filled with TransferColor.
func WriteCategorized(w io.Writer, rows []model.CategorizedTransaction, summary []pipeline.CategorySummary) error {
	data := table{name: SheetCategorized, header: CategorizedHeader}
	for i, r := range rows {
		var confidence any = ""
		if r.Source == model.SourceModel {
			confidence = r.Confidence
		}
		data.rows = append(data.rows, []any{
			r.Row, cellDate(r.Date), r.Description, amount(r.Debit), amount(r.Credit),
			r.Vendor, r.Category, r.AccountType, string(r.Source), confidence,
		})
		if r.IsTransfer() {
			data.highlight = append(data.highlight, i)
		}
	}

	sum := table{name: SheetSummary, header: SummaryHeader}
	for _, s := range summary {
		sum.rows = append(sum.rows, []any{s.Category, s.Count, amount(s.TotalDebit), amount(s.TotalCredit)})
	}
	return writeWorkbook(w, data, sum)
}

// WriteJournal writes journal legs as a single-sheet workbook.
func WriteJournal(w io.Writer, legs []model.Leg) error {
	t := table{name: SheetJournal, header: JournalHeader}
	for _, l := range legs {
		var src any = ""
		if l.SourceRow > 0 {
			src = l.SourceRow
		}
		t.rows = append(t.rows, []any{
			l.EntryID, cellDate(l.Date), l.Account, l.Description,
			optionalAmount(l.Debit), optionalAmount(l.Credit), l.Category, src,
		})
	}
	return writeWorkbook(w, t)
}

// WriteTrialBalance writes per-account totals followed by a Total row.
func WriteTrialBalance(w io.Writer, rows []journal.TrialBalanceRow) error {
	t := table{name: SheetTrialBalance, header: TrialBalanceHeader}
	for _, r := range rows {
		t.rows = append(t.rows, []any{r.Account, amount(r.Debit), amount(r.Credit)})
	}
	debit, credit := journal.TrialBalanceTotals(rows)
	t.rows = append(t.rows, []any{"Total", amount(debit), amount(credit)})
	return writeWorkbook(w, t)
}

func cellDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalAmount(d decimal.Decimal) any {
	if d.IsZero() {
		return ""
	}
	return amount(d)
}
