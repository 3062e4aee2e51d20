package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category labels with special meaning to the pipeline.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryTransfer      = "E-TRANSFER"

	// TransferMarker is matched against the normalized vendor key.
	TransferMarker = "e-transfer"
)

// CategorySource records which path assigned a category.
type CategorySource string

const (
	SourceNone     CategorySource = ""
	SourceRule     CategorySource = "rule"
	SourceTransfer CategorySource = "transfer"
	SourceModel    CategorySource = "model"
)

// Transaction is one row of the source ledger.
type Transaction struct {
	Row         int       // 1-based data row in the source file
	Date        time.Time // zero when missing or unparseable
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal

	DateDefaulted   bool // a date cell was present but could not be parsed
	AmountDefaulted bool // a debit/credit cell was present but could not be parsed
}

// HasDate reports whether the row carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Amount returns the posting amount: debit when positive, otherwise credit.
func (t Transaction) Amount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}

// AmbiguousAmount reports whether both debit and credit are nonzero.
func (t Transaction) AmbiguousAmount() bool {
	return !t.Debit.IsZero() && !t.Credit.IsZero()
}

// CategorizedTransaction is a Transaction with its resolved category.
type CategorizedTransaction struct {
	Transaction
	Vendor      string // normalized description
	Category    string
	AccountType string
	Source      CategorySource
	Confidence  float64 // set only when Source == SourceModel
}

// IsTransfer reports whether the row carries the transfer marker category.
// Exports use it to highlight the row.
func (c CategorizedTransaction) IsTransfer() bool {
	return c.Category == CategoryTransfer
}

// IsUncategorized reports whether neither rules nor the model resolved a category.
func (c CategorizedTransaction) IsUncategorized() bool {
	return c.Category == "" || c.Category == CategoryUncategorized
}
