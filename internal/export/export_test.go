package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/model"
	"github.com/cleared-dev/ledgercat/internal/pipeline"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func categorizedRows() []model.CategorizedTransaction {
	day := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	return []model.CategorizedTransaction{
		{
			Transaction: model.Transaction{Row: 1, Date: day, Description: "Starbucks Coffee", Debit: dec("12.50"), Credit: decimal.Zero},
			Vendor:      "starbucks coffee", Category: "Food Purchases", Source: model.SourceRule,
		},
		{
			Transaction: model.Transaction{Row: 2, Date: day, Description: "E-Transfer to John", Debit: decimal.Zero, Credit: dec("100")},
			Vendor:      "e-transfer to john", Category: model.CategoryTransfer, Source: model.SourceTransfer,
		},
		{
			Transaction: model.Transaction{Row: 3, Description: "Corner Cafe", Debit: dec("11"), Credit: decimal.Zero},
			Vendor:      "corner cafe", Category: "Food Purchases", Source: model.SourceModel, Confidence: 0.875,
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteCategorized(t *testing.T) {
	rows := categorizedRows()
	var buf bytes.Buffer
	require.NoError(t, WriteCategorized(&buf, rows, pipeline.Summarize(rows)))

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, []string{SheetCategorized, SheetSummary}, f.GetSheetList())

	got, err := f.GetRows(SheetCategorized)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, CategorizedHeader, got[0])
	assert.Equal(t, []string{"1", "2025-01-03", "Starbucks Coffee", "12.5", "0", "starbucks coffee", "Food Purchases", "", "rule"}, got[1])
	assert.Equal(t, "", got[3][1])
	assert.Equal(t, "0.875", got[3][9])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Food Purchases", "2", "23.5", "0"}, summary[1])
	assert.Equal(t, []string{"E-TRANSFER", "1", "0", "100"}, summary[2])
}

func TestWriteCategorized_HighlightsTransfers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCategorized(&buf, categorizedRows(), nil))
	f := openWorkbook(t, buf.Bytes())

	transfer, err := f.GetCellStyle(SheetCategorized, "C3")
	require.NoError(t, err)
	plain, err := f.GetCellStyle(SheetCategorized, "C2")
	require.NoError(t, err)
	assert.NotEqual(t, plain, transfer)

	style, err := f.GetStyle(transfer)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), TransferColor)
}

func TestWriteJournal(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "2025-01-001a", Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Account: "Food Purchases", Description: "starbucks coffee", Debit: dec("12.50"), Category: "Food Purchases", SourceRow: 1},
		{EntryID: "2025-01-001b", Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Account: model.CashAccount, Description: "starbucks coffee", Credit: dec("12.50"), Category: "Food Purchases", SourceRow: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJournal(&buf, legs))

	f := openWorkbook(t, buf.Bytes())
	got, err := f.GetRows(SheetJournal)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, JournalHeader, got[0])
	assert.Equal(t, []string{"2025-01-001a", "2025-01-03", "Food Purchases", "starbucks coffee", "12.5", "", "Food Purchases", "1"}, got[1])
	assert.Equal(t, "", got[2][4])
	assert.Equal(t, "12.5", got[2][5])
}

func TestWriteTrialBalance(t *testing.T) {
	rows := []journal.TrialBalanceRow{
		{Account: "Food Purchases", Debit: dec("12.50"), Credit: decimal.Zero},
		{Account: model.CashAccount, Debit: dec("640"), Credit: dec("12.50")},
		{Account: "Service Revenue", Debit: decimal.Zero, Credit: dec("640")},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTrialBalance(&buf, rows))

	f := openWorkbook(t, buf.Bytes())
	got, err := f.GetRows(SheetTrialBalance)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"Total", "652.5", "652.5"}, got[4])
}

func TestWriteUncategorizedVendors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUncategorizedVendors(&buf, []string{"corner cafe", "mystery, inc"}))
	assert.Equal(t, "Vendor\ncorner cafe\n\"mystery, inc\"\n", buf.String())
}

func TestWritePredicted_OnlyModelRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePredicted(&buf, categorizedRows()))
	assert.Equal(t,
		"Vendor,Date,Debit,Credit,Predicted Category,Confidence\n"+
			"corner cafe,,11.00,0.00,Food Purchases,0.8750\n",
		buf.String())
}

func TestWriteUnposted(t *testing.T) {
	rows := categorizedRows()
	var buf bytes.Buffer
	require.NoError(t, WriteUnposted(&buf, []journal.Unposted{
		{CategorizedTransaction: rows[1], Status: journal.SkippedTransfer},
	}))
	assert.Equal(t,
		"Row,Date,Vendor,Debit,Credit,Category,Reason\n"+
			"2,2025-01-03,e-transfer to john,0.00,100.00,E-TRANSFER,skipped_transfer\n",
		buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", UncategorizedFile)
	err := WriteFile(path, func(w io.Writer) error {
		return WriteUncategorizedVendors(w, []string{"corner cafe"})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Vendor\ncorner cafe\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_FailureKeepsOld(t *testing.T) {
	path := filepath.Join(t.TempDir(), PredictedFile)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := WriteFile(path, func(w io.Writer) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}
