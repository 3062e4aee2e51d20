package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/id"
	"github.com/cleared-dev/ledgercat/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests whether an account name exists in the chart of accounts.
type AccountChecker interface {
	Exists(accountName string) bool
}

type extraAccounts struct {
	AccountChecker
	names map[string]bool
}

func (c extraAccounts) Exists(accountName string) bool {
	return c.names[strings.ToLower(strings.TrimSpace(accountName))] || c.AccountChecker.Exists(accountName)
}

// WithAccounts returns a checker that also accepts the named accounts,
// such as a configured cash account that has no chart entry.
func WithAccounts(accounts AccountChecker, names ...string) AccountChecker {
	c := extraAccounts{AccountChecker: accounts, names: make(map[string]bool, len(names))}
	for _, n := range names {
		c.names[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return c
}

// ValidateLegs enforces 6 invariants on a set of journal legs.
func ValidateLegs(legs []model.Leg, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	// Group legs by entry.
	groups := make(map[string][]model.Leg)
	var groupOrder []string
	for _, leg := range legs {
		g := leg.EntryGroup()
		if _, seen := groups[g]; !seen {
			groupOrder = append(groupOrder, g)
		}
		groups[g] = append(groups[g], leg)
	}

	// Invariant 1: Entry groups balance (sum(debits) == sum(credits) per group).
	for _, g := range groupOrder {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for _, leg := range groups[g] {
			totalDebit = totalDebit.Add(leg.Debit)
			totalCredit = totalCredit.Add(leg.Credit)
		}
		if !totalDebit.Equal(totalCredit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     g,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
			})
		}
	}

	two := decimal.NewFromInt(100)
	for _, leg := range legs {
		// Invariant 2: Exactly one of debit/credit per row.
		if leg.Debit.IsZero() == leg.Credit.IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     leg.EntryID,
				Description: "leg must have exactly one of debit or credit",
			})
		}

		// Invariant 3: Valid account references.
		if !accounts.Exists(leg.Account) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("unknown account %q", leg.Account),
			})
		}

		// Invariant 4: Date agrees with the entry ID's month.
		if year, month, _, err := id.ParseEntryID(leg.EntryID); err == nil {
			wantYear, wantMonth := 0, 0
			if !leg.Date.IsZero() {
				wantYear, wantMonth = leg.Date.Year(), int(leg.Date.Month())
			}
			if year != wantYear || month != wantMonth {
				errs = append(errs, ValidationError{
					Invariant:   4,
					EntryID:     leg.EntryID,
					Description: fmt.Sprintf("date %s not in %04d-%02d", formatDate(leg.Date), year, month),
				})
			}
		}

		// Invariant 6: Exact decimals, no more than 2 decimal places.
		if !leg.Debit.IsZero() && !leg.Debit.Mul(two).Equal(leg.Debit.Mul(two).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   6,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("debit %s has more than 2 decimal places", leg.Debit),
			})
		}
		if !leg.Credit.IsZero() && !leg.Credit.Mul(two).Equal(leg.Credit.Mul(two).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   6,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("credit %s has more than 2 decimal places", leg.Credit),
			})
		}
	}

	// Invariant 5: Sequences are contiguous 1..N within each month.
	seqSeen := make(map[string]map[int]bool)
	var monthOrder []string
	for _, leg := range legs {
		year, month, seq, err := id.ParseEntryID(leg.EntryID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("invalid entry ID: %v", err),
			})
			continue
		}
		m := fmt.Sprintf("%04d-%02d", year, month)
		if seqSeen[m] == nil {
			seqSeen[m] = make(map[int]bool)
			monthOrder = append(monthOrder, m)
		}
		seqSeen[m][seq] = true
	}
	for _, m := range monthOrder {
		seen := seqSeen[m]
		for i := 1; i <= len(seen); i++ {
			if !seen[i] {
				errs = append(errs, ValidationError{
					Invariant:   5,
					EntryID:     fmt.Sprintf("%s seq %d", m, i),
					Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seen)),
				})
			}
		}
	}

	return errs
}

// Verify checks a built journal: the leg invariants and the overall balance.
func Verify(res Result, accounts AccountChecker) error {
	if verrs := ValidateLegs(res.Legs, accounts); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	if !res.Balanced {
		return fmt.Errorf("%w: debits %s, credits %s", ErrUnbalanced, res.TotalDebit.StringFixed(2), res.TotalCredit.StringFixed(2))
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}
