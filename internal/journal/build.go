package journal

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/id"
	"github.com/cleared-dev/ledgercat/internal/model"
)

// ErrUnbalanced is returned when total debits and credits differ by more
// than the configured tolerance.
var ErrUnbalanced = errors.New("journal is not balanced")

// ErrUnmappedCategory is returned when unmapped rows are configured to fail
// the run instead of being left unposted.
var ErrUnmappedCategory = errors.New("category not in chart of accounts")

// Status is the posting outcome of one categorized row.
type Status string

const (
	Posted                  Status = "posted"
	SkippedUnmappedCategory Status = "skipped_unmapped_category"
	SkippedTransfer         Status = "skipped_transfer"
	SkippedZeroAmount       Status = "skipped_zero_amount"
)

// ChartLookup resolves a category label to its chart entry.
type ChartLookup interface {
	Lookup(category string) (model.ChartEntry, bool)
}

// Options configure posting.
type Options struct {
	CashAccount string          // clearing account; defaults to model.CashAccount
	Tolerance   decimal.Decimal // balance tolerance; defaults to 0.01
}

// DefaultOptions posts against Cash/Bank with a 0.01 balance tolerance.
func DefaultOptions() Options {
	return Options{CashAccount: model.CashAccount, Tolerance: decimal.New(1, -2)}
}

// Outcome records what happened to one input row.
type Outcome struct {
	Index   int // position in the input slice
	Row     int // source ledger row
	Status  Status
	EntryID string // set when Posted
}

// Unposted is a row that produced no journal entry, with the reason.
type Unposted struct {
	model.CategorizedTransaction
	Status Status
}

// Result is the output of Build.
type Result struct {
	Legs        []model.Leg
	Outcomes    []Outcome
	Unposted    []Unposted
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balanced    bool
	// Ambiguous counts posted rows that carried both a debit and a credit.
	// The debit was used.
	Ambiguous int
}

// Count returns the number of rows with the given status.
func (r Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Entries returns the number of posted entries (two legs each).
func (r Result) Entries() int {
	return r.Count(Posted)
}

// Accounts returns the distinct accounts touched, in first-posting order.
func (r Result) Accounts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range r.Legs {
		if !seen[l.Account] {
			seen[l.Account] = true
			out = append(out, l.Account)
		}
	}
	return out
}

// Build posts each categorized row as a two-leg entry against the cash
// account. Legs follow input order. Rows that cannot be posted are kept in
// Unposted with their Status.
func Build(rows []model.CategorizedTransaction, chart ChartLookup, opts Options) Result {
	if opts.CashAccount == "" {
		opts.CashAccount = model.CashAccount
	}
	if opts.Tolerance.IsZero() {
		opts.Tolerance = DefaultOptions().Tolerance
	}

	res := Result{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	seq := id.NewSequencer()

	for i, row := range rows {
		out := Outcome{Index: i, Row: row.Row}

		entry, ok := chart.Lookup(row.Category)
		amount := row.Amount()
		switch {
		case row.IsTransfer():
			out.Status = SkippedTransfer
		case !ok:
			out.Status = SkippedUnmappedCategory
		case amount.IsZero():
			out.Status = SkippedZeroAmount
		default:
			out.Status = Posted
		}
		if out.Status != Posted {
			res.Outcomes = append(res.Outcomes, out)
			res.Unposted = append(res.Unposted, Unposted{CategorizedTransaction: row, Status: out.Status})
			continue
		}

		if row.AmbiguousAmount() {
			res.Ambiguous++
		}

		out.EntryID = seq.Next(row.Date)
		debitAcct, creditAcct := entry.AccountName, opts.CashAccount
		if entry.NormalSide == model.SideCredit {
			debitAcct, creditAcct = opts.CashAccount, entry.AccountName
		}

		desc := row.Vendor
		if desc == "" {
			desc = row.Description
		}
		res.Legs = append(res.Legs,
			model.Leg{
				EntryID:     id.FormatLegID(out.EntryID, 0),
				Date:        row.Date,
				Description: desc,
				Account:     debitAcct,
				Debit:       amount,
				Category:    entry.Category,
				SourceRow:   row.Row,
			},
			model.Leg{
				EntryID:     id.FormatLegID(out.EntryID, 1),
				Date:        row.Date,
				Description: desc,
				Account:     creditAcct,
				Credit:      amount,
				Category:    entry.Category,
				SourceRow:   row.Row,
			},
		)
		res.TotalDebit = res.TotalDebit.Add(amount)
		res.TotalCredit = res.TotalCredit.Add(amount)
		res.Outcomes = append(res.Outcomes, out)
	}

	res.Balanced = res.TotalDebit.Sub(res.TotalCredit).Abs().LessThan(opts.Tolerance)
	return res
}
