// Package dataset separates categorized ledger rows into the labeled
// training set and the unlabeled set the classifier must fill in.
package dataset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// Example is one classifier row. Category is empty for test rows.
type Example struct {
	Index    int // position in the categorized input
	Vendor   string
	Date     time.Time
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Category string
}

// Split is the result of partitioning categorized rows.
type Split struct {
	Train     []Example
	Test      []Example
	Transfers int // rows dropped because they are e-transfers
}

// Total returns the number of input rows accounted for.
func (s Split) Total() int {
	return len(s.Train) + len(s.Test) + s.Transfers
}

// Labels returns the distinct training categories in first-seen order.
func (s Split) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range s.Train {
		if !seen[ex.Category] {
			seen[ex.Category] = true
			out = append(out, ex.Category)
		}
	}
	return out
}

// SplitRows drops transfer rows, sends labeled rows to Train and
// Uncategorized rows to Test with the category cleared. Input order is kept.
func SplitRows(rows []model.CategorizedTransaction) Split {
	var s Split
	for i, row := range rows {
		if row.IsTransfer() {
			s.Transfers++
			continue
		}
		ex := Example{
			Index:  i,
			Vendor: row.Vendor,
			Date:   row.Date,
			Debit:  row.Debit,
			Credit: row.Credit,
		}
		if row.IsUncategorized() {
			s.Test = append(s.Test, ex)
			continue
		}
		ex.Category = row.Category
		s.Train = append(s.Train, ex)
	}
	return s
}
