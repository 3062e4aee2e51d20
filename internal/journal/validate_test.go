package journal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgercat/internal/accounts"
	"github.com/cleared-dev/ledgercat/internal/model"
)

func chartAccounts() *accounts.Service {
	return accounts.NewService(accounts.DefaultChart())
}

func balancedEntry(seq int, debitAcct, creditAcct string, amount string) []model.Leg {
	d := dec(amount)
	entryID := "2025-01-" + fmt.Sprintf("%03d", seq)
	return []model.Leg{
		{EntryID: entryID + "a", Date: date(2025, 1, 15), Account: debitAcct, Debit: d},
		{EntryID: entryID + "b", Date: date(2025, 1, 15), Account: creditAcct, Credit: d},
	}
}

func hasInvariant(errs []ValidationError, n int) bool {
	for _, e := range errs {
		if e.Invariant == n {
			return true
		}
	}
	return false
}

func TestValidate_Balanced(t *testing.T) {
	legs := balancedEntry(1, "Rent Expense", model.CashAccount, "100.00")
	assert.Empty(t, ValidateLegs(legs, chartAccounts()))
}

func TestValidate_Invariant1_Unbalanced(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "2025-01-001a", Date: date(2025, 1, 15), Account: "Rent Expense", Debit: dec("100.00")},
		{EntryID: "2025-01-001b", Date: date(2025, 1, 15), Account: model.CashAccount, Credit: dec("99.00")},
	}
	errs := ValidateLegs(legs, chartAccounts())
	require.NotEmpty(t, errs)
	assert.Equal(t, 1, errs[0].Invariant)
	assert.Contains(t, errs[0].Error(), "invariant 1 [2025-01-001]")
}

func TestValidate_Invariant2_BothDebitAndCredit(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "2025-01-001a", Date: date(2025, 1, 15), Account: "Rent Expense", Debit: dec("100.00"), Credit: dec("100.00")},
	}
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 2))
}

func TestValidate_Invariant2_NeitherDebitNorCredit(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "2025-01-001a", Date: date(2025, 1, 15), Account: "Rent Expense"},
	}
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 2))
}

func TestValidate_Invariant3_UnknownAccount(t *testing.T) {
	legs := balancedEntry(1, "Travel", model.CashAccount, "50.00")
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 3))
}

func TestValidate_Invariant4_WrongMonth(t *testing.T) {
	legs := balancedEntry(1, "Rent Expense", model.CashAccount, "50.00")
	legs[0].Date = date(2025, 2, 15)
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 4))
}

func TestValidate_Invariant4_UndatedEntry(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "0000-00-001a", Account: "Rent Expense", Debit: dec("50")},
		{EntryID: "0000-00-001b", Account: model.CashAccount, Credit: dec("50")},
	}
	assert.Empty(t, ValidateLegs(legs, chartAccounts()))

	legs[1].Date = date(2025, 1, 1)
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 4))
}

func TestValidate_Invariant5_NonContiguousSeq(t *testing.T) {
	legs := append(balancedEntry(1, "Rent Expense", model.CashAccount, "50.00"), balancedEntry(3, "Rent Expense", model.CashAccount, "75.00")...)
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 5))
}

func TestValidate_Invariant5_PerMonth(t *testing.T) {
	legs := balancedEntry(1, "Rent Expense", model.CashAccount, "50.00")
	legs = append(legs,
		model.Leg{EntryID: "2025-02-001a", Date: date(2025, 2, 1), Account: "Rent Expense", Debit: dec("10")},
		model.Leg{EntryID: "2025-02-001b", Date: date(2025, 2, 1), Account: model.CashAccount, Credit: dec("10")},
	)
	assert.Empty(t, ValidateLegs(legs, chartAccounts()))
}

func TestValidate_Invariant6_TooManyDecimals(t *testing.T) {
	legs := balancedEntry(1, "Rent Expense", model.CashAccount, "10.123")
	assert.True(t, hasInvariant(ValidateLegs(legs, chartAccounts()), 6))
}

func TestValidate_MultiError(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "2025-01-001a", Date: date(2025, 2, 1), Account: "Travel", Debit: dec("100.00")},
		{EntryID: "2025-01-001b", Date: date(2025, 1, 1), Account: model.CashAccount, Credit: dec("50.00")},
	}
	assert.Greater(t, len(ValidateLegs(legs, chartAccounts())), 1, "should have multiple errors")
}

func TestValidate_EmptyLegs(t *testing.T) {
	assert.Empty(t, ValidateLegs(nil, chartAccounts()))
}

func TestValidate_MultiLegBalanced(t *testing.T) {
	legs := []model.Leg{
		{EntryID: "2025-01-001a", Date: date(2025, 1, 15), Account: "Rent Expense", Debit: dec("60.00")},
		{EntryID: "2025-01-001b", Date: date(2025, 1, 15), Account: "Office Supplies", Debit: dec("40.00")},
		{EntryID: "2025-01-001c", Date: date(2025, 1, 15), Account: model.CashAccount, Credit: dec("100.00")},
	}
	assert.Empty(t, ValidateLegs(legs, chartAccounts()))
}

func TestVerify(t *testing.T) {
	res := Result{Legs: balancedEntry(1, "Rent Expense", model.CashAccount, "100"), Balanced: true}
	assert.NoError(t, Verify(res, chartAccounts()))

	res.Balanced = false
	res.TotalDebit, res.TotalCredit = dec("100"), dec("90")
	assert.ErrorIs(t, Verify(res, chartAccounts()), ErrUnbalanced)

	res = Result{Legs: balancedEntry(1, "Travel", model.CashAccount, "100"), Balanced: true}
	err := Verify(res, chartAccounts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
