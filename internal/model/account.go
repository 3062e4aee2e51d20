package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

// NormalSide is the side on which an account increases.
type NormalSide string

const (
	SideDebit  NormalSide = "Debit"
	SideCredit NormalSide = "Credit"
)

// Valid reports whether s is one of the two posting sides.
func (s NormalSide) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// CashAccount is the clearing account on the other side of every posting.
const CashAccount = "Cash/Bank"

// ChartEntry maps a category label to a ledger account.
type ChartEntry struct {
	Category    string
	AccountName string
	AccountType AccountType
	NormalSide  NormalSide
}
