package journal

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// TrialBalanceRow is the per-account sum of debit and credit legs.
type TrialBalanceRow struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// TrialBalance groups legs by account in first-appearance order. Debits and
// credits are summed separately and never netted.
func TrialBalance(legs []model.Leg) []TrialBalanceRow {
	pos := make(map[string]int)
	var rows []TrialBalanceRow
	for _, l := range legs {
		i, ok := pos[l.Account]
		if !ok {
			i = len(rows)
			pos[l.Account] = i
			rows = append(rows, TrialBalanceRow{Account: l.Account, Debit: decimal.Zero, Credit: decimal.Zero})
		}
		rows[i].Debit = rows[i].Debit.Add(l.Debit)
		rows[i].Credit = rows[i].Credit.Add(l.Credit)
	}
	return rows
}

// TrialBalanceTotals sums the trial balance columns.
func TrialBalanceTotals(rows []TrialBalanceRow) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, r := range rows {
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	return debit, credit
}
