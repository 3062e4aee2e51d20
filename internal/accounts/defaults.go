package accounts

import "github.com/cleared-dev/ledgercat/internal/model"

// DefaultChart returns the built-in category to account mapping.
func DefaultChart() []model.ChartEntry {
	return []model.ChartEntry{
		{Category: "Food Purchases", AccountName: "Food Purchases", AccountType: model.AccountTypeExpense, NormalSide: model.SideDebit},
		{Category: "Service Revenue", AccountName: "Service Revenue", AccountType: model.AccountTypeRevenue, NormalSide: model.SideCredit},
		{Category: "Office Supplies", AccountName: "Office Supplies", AccountType: model.AccountTypeExpense, NormalSide: model.SideDebit},
		{Category: "Cash Sales", AccountName: "Sales - Cash", AccountType: model.AccountTypeRevenue, NormalSide: model.SideCredit},
		{Category: "Rent", AccountName: "Rent Expense", AccountType: model.AccountTypeExpense, NormalSide: model.SideDebit},
		{Category: "Bank Charges", AccountName: "Bank Charges", AccountType: model.AccountTypeExpense, NormalSide: model.SideDebit},
		{Category: "Miscellaneous", AccountName: "Misc Expenses", AccountType: model.AccountTypeExpense, NormalSide: model.SideDebit},
		{Category: "Stripe", AccountName: "Service Revenue", AccountType: model.AccountTypeRevenue, NormalSide: model.SideCredit},
		{Category: "Paypal", AccountName: "Service Revenue", AccountType: model.AccountTypeRevenue, NormalSide: model.SideCredit},
	}
}
