package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionAmount(t *testing.T) {
	tests := []struct {
		name          string
		debit, credit string
		want          string
		ambiguous     bool
	}{
		{"debit only", "12.50", "0", "12.50", false},
		{"credit only", "0", "100", "100", false},
		{"both set prefers debit", "10", "4", "10", true},
		{"neither", "0", "0", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := Transaction{Debit: dec(tt.debit), Credit: dec(tt.credit)}
			assert.True(t, txn.Amount().Equal(dec(tt.want)), "got %s", txn.Amount())
			assert.Equal(t, tt.ambiguous, txn.AmbiguousAmount())
		})
	}
}

func TestTransactionHasDate(t *testing.T) {
	assert.False(t, Transaction{}.HasDate())
	assert.True(t, Transaction{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}.HasDate())
}

func TestCategorizedTransactionFlags(t *testing.T) {
	ct := CategorizedTransaction{Category: CategoryTransfer}
	assert.True(t, ct.IsTransfer())
	assert.False(t, ct.IsUncategorized())

	ct = CategorizedTransaction{Category: CategoryUncategorized, Transaction: Transaction{Debit: decimal.NewFromInt(1)}}
	assert.False(t, ct.IsTransfer())
	assert.True(t, ct.IsUncategorized())
}

func TestNormalSideValid(t *testing.T) {
	assert.True(t, SideDebit.Valid())
	assert.True(t, SideCredit.Valid())
	assert.False(t, NormalSide("debit").Valid())
}
