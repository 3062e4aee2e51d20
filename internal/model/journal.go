package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/id"
)

// Leg is a single row in the journal (one side of a double-entry).
type Leg struct {
	EntryID     string    // "YYYY-MM-NNNx" where x = a,b
	Date        time.Time // zero for undated source rows
	Description string
	Account     string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Category    string
	SourceRow   int
}

// EntryGroup returns the base entry ID (without leg suffix).
func (l Leg) EntryGroup() string {
	return id.EntryGroup(l.EntryID)
}
