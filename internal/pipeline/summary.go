package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/model"
)

// CategorySummary aggregates the rows assigned to one category.
type CategorySummary struct {
	Category    string
	Count       int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Summarize groups rows by category in first-appearance order.
func Summarize(rows []model.CategorizedTransaction) []CategorySummary {
	idx := make(map[string]int)
	var out []CategorySummary
	for _, row := range rows {
		i, ok := idx[row.Category]
		if !ok {
			i = len(out)
			idx[row.Category] = i
			out = append(out, CategorySummary{
				Category:    row.Category,
				TotalDebit:  decimal.Zero,
				TotalCredit: decimal.Zero,
			})
		}
		out[i].Count++
		out[i].TotalDebit = out[i].TotalDebit.Add(row.Debit)
		out[i].TotalCredit = out[i].TotalCredit.Add(row.Credit)
	}
	return out
}

// UncategorizedVendors returns the distinct vendor keys no rule matched, in
// first-appearance order.
func UncategorizedVendors(rows []model.CategorizedTransaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		if !row.IsUncategorized() || seen[row.Vendor] {
			continue
		}
		seen[row.Vendor] = true
		out = append(out, row.Vendor)
	}
	return out
}

// uniqueCategories counts distinct categories, transfers included.
func uniqueCategories(rows []model.CategorizedTransaction) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.Category] = true
	}
	return len(seen)
}
