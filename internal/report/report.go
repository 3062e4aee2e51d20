// Package report collects per-run statistics and appends them to the
// project's run log.
package report

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/stage"
)

// Stage names as they appear in the run log.
const (
	StageImport     = string(stage.Import)
	StageCategorize = string(stage.Categorize)
	StageTrain      = string(stage.Train)
	StagePredict    = string(stage.Predict)
	StageJournal    = string(stage.Journal)
)

// Record is the summary of one run.
type Record struct {
	RunID     string
	Timestamp time.Time
	Command   string
	Source    string
	Stages    []string // stages that completed, in order

	TotalRows            int
	UniqueCategories     int
	Transfers            int
	UncategorizedVendors int

	TrainRows   int
	TestRows    int
	Validated   bool
	Accuracy    float64
	ModelLabels int
	Predicted   int

	JournalEntries  int
	UniqueAccounts  int
	TotalDebit      decimal.Decimal
	TotalCredit     decimal.Decimal
	Balanced        bool
	SkippedUnmapped int
	SkippedTransfer int
	SkippedZero     int

	DefaultedDates   int
	DefaultedAmounts int
	AmbiguousAmounts int

	Status string // "ok" or "failed"
	Error  string
}

// Ran reports whether the named stage completed during the run.
func (r Record) Ran(name string) bool {
	return slices.Contains(r.Stages, name)
}

// Reporter accumulates a Record over the stages of one run. It is owned by
// a single run and is not safe for concurrent use.
type Reporter struct {
	rec Record
	now func() time.Time
}

// New returns a Reporter for runID. now may be nil to use time.Now.
func New(runID, command string, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{
		rec: Record{RunID: runID, Command: command, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero},
		now: now,
	}
}

func (r *Reporter) done(name string) {
	if !r.rec.Ran(name) {
		r.rec.Stages = append(r.rec.Stages, name)
	}
}

// Imported records the ledger file and the cells that were defaulted.
func (r *Reporter) Imported(source string, rows, defaultedDates, defaultedAmounts int) {
	r.rec.Source = source
	r.rec.TotalRows = rows
	r.rec.DefaultedDates = defaultedDates
	r.rec.DefaultedAmounts = defaultedAmounts
	r.done(StageImport)
}

// Categorized records rule categorization and the dataset split.
func (r *Reporter) Categorized(rows, uniqueCategories, transfers, uncategorizedVendors, trainRows, testRows int) {
	r.rec.TotalRows = rows
	r.rec.UniqueCategories = uniqueCategories
	r.rec.Transfers = transfers
	r.rec.UncategorizedVendors = uncategorizedVendors
	r.rec.TrainRows = trainRows
	r.rec.TestRows = testRows
	r.done(StageCategorize)
}

// Trained records classifier training.
func (r *Reporter) Trained(rows, labels int, validated bool, accuracy float64) {
	r.rec.TrainRows = rows
	r.rec.ModelLabels = labels
	r.rec.Validated = validated
	r.rec.Accuracy = accuracy
	r.done(StageTrain)
}

// PredictedRows records how many rows the classifier labeled.
func (r *Reporter) PredictedRows(n int) {
	r.rec.Predicted = n
	r.done(StagePredict)
}

// JournalStats is the journal stage summary.
type JournalStats struct {
	Entries          int
	Accounts         int
	TotalDebit       decimal.Decimal
	TotalCredit      decimal.Decimal
	Balanced         bool
	SkippedUnmapped  int
	SkippedTransfer  int
	SkippedZero      int
	AmbiguousAmounts int
}

// Journaled records journal generation.
func (r *Reporter) Journaled(s JournalStats) {
	r.rec.JournalEntries = s.Entries
	r.rec.UniqueAccounts = s.Accounts
	r.rec.TotalDebit = s.TotalDebit
	r.rec.TotalCredit = s.TotalCredit
	r.rec.Balanced = s.Balanced
	r.rec.SkippedUnmapped = s.SkippedUnmapped
	r.rec.SkippedTransfer = s.SkippedTransfer
	r.rec.SkippedZero = s.SkippedZero
	r.rec.AmbiguousAmounts = s.AmbiguousAmounts
	r.done(StageJournal)
}

// Finish stamps the record and returns it. A non-nil err marks the run failed.
func (r *Reporter) Finish(err error) Record {
	rec := r.rec
	rec.Stages = slices.Clone(r.rec.Stages)
	rec.Timestamp = r.now()
	rec.Status = "ok"
	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
	}
	return rec
}
