package accounts

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgercat/internal/model"
)

func TestRoundTrip(t *testing.T) {
	entries := []model.ChartEntry{
		{Category: "Rent", AccountName: "Rent Expense", AccountType: model.AccountTypeExpense, NormalSide: model.SideDebit},
		{Category: "Cash Sales", AccountName: "Sales - Cash", AccountType: model.AccountTypeRevenue, NormalSide: model.SideCredit},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadChart(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadChart_Empty(t *testing.T) {
	got, err := ReadChart(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshalEntry(t *testing.T) {
	tests := []struct {
		name    string
		record  []string
		want    model.NormalSide
		wantErr string
	}{
		{"debit", []string{"Rent", "Rent Expense", "Expense", "Debit"}, model.SideDebit, ""},
		{"short form", []string{"Stripe", "Service Revenue", "Revenue", " cr "}, model.SideCredit, ""},
		{"bad side", []string{"Rent", "Rent Expense", "Expense", "Left"}, "", "normal_side"},
		{"empty category", []string{" ", "Rent Expense", "Expense", "Debit"}, "", "empty category"},
		{"empty account", []string{"Rent", "", "Expense", "Debit"}, "", "empty account_name"},
		{"short row", []string{"Rent"}, "", "expected 4 fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := UnmarshalEntry(tt.record)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.NormalSide)
		})
	}
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.Len(t, chart, 9)

	for _, e := range chart {
		assert.NotEmpty(t, e.Category)
		assert.NotEmpty(t, e.AccountName, "category %q missing account", e.Category)
		assert.True(t, e.NormalSide.Valid(), "category %q has side %q", e.Category, e.NormalSide)
		switch e.AccountType {
		case model.AccountTypeExpense:
			assert.Equal(t, model.SideDebit, e.NormalSide, e.Category)
		case model.AccountTypeRevenue:
			assert.Equal(t, model.SideCredit, e.NormalSide, e.Category)
		}
	}
}

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("../../testdata/chart-of-accounts.csv")
	require.NoError(t, err)
	defer f.Close()

	entries, err := ReadChart(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultChart(), entries, "testdata chart matches the built-in default")
}
