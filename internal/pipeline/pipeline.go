// Package pipeline runs the categorization stages over a parsed ledger:
// rule matching, dataset split, classifier training and prediction, and
// journal posting.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/dataset"
	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/model"
	"github.com/cleared-dev/ledgercat/internal/report"
	"github.com/cleared-dev/ledgercat/internal/stage"
)

// Categorizer assigns rule-based categories to transactions.
type Categorizer interface {
	Categorize(txns []model.Transaction) []model.CategorizedTransaction
}

// Chart resolves categories to accounts and knows which accounts exist.
type Chart interface {
	journal.ChartLookup
	journal.AccountChecker
}

// Options configure a Runner.
type Options struct {
	Train   classifier.TrainOptions
	Journal journal.Options
	// Model, when set, is used for prediction and training is skipped.
	Model classifier.Predictor
	// RejectUnmapped fails the journal stage when any row's category is
	// missing from the chart. Otherwise such rows are left unposted.
	RejectUnmapped bool
}

// DefaultOptions returns the default training and posting options.
func DefaultOptions() Options {
	return Options{
		Train:   classifier.DefaultTrainOptions(),
		Journal: journal.DefaultOptions(),
	}
}

// Runner executes pipeline stages for one run.
type Runner struct {
	rules  Categorizer
	chart  Chart
	opts   Options
	log    zerolog.Logger
	report *report.Reporter
}

// New returns a Runner. A nil reporter records into a throwaway Reporter.
func New(rules Categorizer, chart Chart, log zerolog.Logger, rep *report.Reporter, opts Options) *Runner {
	if rep == nil {
		rep = report.New("", "", nil)
	}
	return &Runner{rules: rules, chart: chart, opts: opts, log: log, report: rep}
}

// Categorization is the output of the categorize stage.
type Categorization struct {
	Rows                 []model.CategorizedTransaction
	Split                dataset.Split
	Summary              []CategorySummary
	UncategorizedVendors []string
}

// Categorize applies the vendor rules and splits the rows into the
// labeled training set and the rows left for the classifier.
func (r *Runner) Categorize(txns []model.Transaction) Categorization {
	rows := r.rules.Categorize(txns)
	c := Categorization{
		Rows:                 rows,
		Split:                dataset.SplitRows(rows),
		Summary:              Summarize(rows),
		UncategorizedVendors: UncategorizedVendors(rows),
	}
	r.report.Categorized(len(rows), uniqueCategories(rows), c.Split.Transfers,
		len(c.UncategorizedVendors), len(c.Split.Train), len(c.Split.Test))
	r.log.Info().
		Str("stage", string(stage.Categorize)).
		Int("rows", len(rows)).
		Int("train", len(c.Split.Train)).
		Int("test", len(c.Split.Test)).
		Int("transfers", c.Split.Transfers).
		Msg("categorized")
	return c
}

// Train fits the classifier on the labeled examples.
func (r *Runner) Train(examples []dataset.Example) (classifier.Predictor, classifier.TrainReport, error) {
	m, rep, err := classifier.Train(examples, r.opts.Train)
	if err != nil {
		return nil, rep, stage.Wrap(stage.Train, err)
	}
	r.report.Trained(rep.TrainRows, len(rep.Classes), rep.Validated, rep.Accuracy)
	ev := r.log.Info().
		Str("stage", string(stage.Train)).
		Int("rows", rep.Rows).
		Int("classes", len(rep.Classes))
	if rep.Validated {
		ev = ev.Int("holdout", rep.HoldoutRows).Float64("accuracy", rep.Accuracy)
	}
	ev.Msg("trained")
	return m, rep, nil
}

// Predict labels the test examples and merges the predictions back into
// a copy of rows, matched by Example.Index.
func (r *Runner) Predict(p classifier.Predictor, rows []model.CategorizedTransaction, test []dataset.Example) []model.CategorizedTransaction {
	out := make([]model.CategorizedTransaction, len(rows))
	copy(out, rows)
	for i, pred := range classifier.PredictAll(p, test) {
		row := &out[test[i].Index]
		row.Category = pred.Category
		row.AccountType = ""
		if entry, ok := r.chart.Lookup(pred.Category); ok {
			row.AccountType = string(entry.AccountType)
		}
		row.Source = model.SourceModel
		row.Confidence = pred.Confidence
	}
	r.report.PredictedRows(len(test))
	r.log.Info().Str("stage", string(stage.Predict)).Int("rows", len(test)).Msg("predicted")
	return out
}

// Journal posts rows to the journal and self-checks the legs. The report
// is updated even when the check fails.
func (r *Runner) Journal(rows []model.CategorizedTransaction) (journal.Result, []journal.TrialBalanceRow, error) {
	res := journal.Build(rows, r.chart, r.opts.Journal)
	r.report.Journaled(report.JournalStats{
		Entries:          res.Entries(),
		Accounts:         len(res.Accounts()),
		TotalDebit:       res.TotalDebit,
		TotalCredit:      res.TotalCredit,
		Balanced:         res.Balanced,
		SkippedUnmapped:  res.Count(journal.SkippedUnmappedCategory),
		SkippedTransfer:  res.Count(journal.SkippedTransfer),
		SkippedZero:      res.Count(journal.SkippedZeroAmount),
		AmbiguousAmounts: res.Ambiguous,
	})
	r.log.Info().
		Str("stage", string(stage.Journal)).
		Int("entries", res.Entries()).
		Int("unposted", len(res.Unposted)).
		Str("debit", res.TotalDebit.StringFixed(2)).
		Str("credit", res.TotalCredit.StringFixed(2)).
		Bool("balanced", res.Balanced).
		Msg("journaled")
	if len(res.Unposted) > 0 {
		r.log.Warn().
			Int("unmapped", res.Count(journal.SkippedUnmappedCategory)).
			Int("zero", res.Count(journal.SkippedZeroAmount)).
			Msg("rows not posted")
	}

	if err := journal.Verify(res, journal.WithAccounts(r.chart, r.opts.Journal.CashAccount)); err != nil {
		return res, nil, stage.Wrap(stage.Journal, err)
	}
	if n := res.Count(journal.SkippedUnmappedCategory); n > 0 && r.opts.RejectUnmapped {
		return res, nil, stage.Errorf(stage.Journal, "%w: %d rows", journal.ErrUnmappedCategory, n)
	}
	return res, journal.TrialBalance(res.Legs), nil
}

// Output is the result of a full run.
type Output struct {
	Categorization
	// Final holds every row after prediction, in input order.
	Final        []model.CategorizedTransaction
	Model        classifier.Predictor    // nil when no row needed a prediction
	Training     *classifier.TrainReport // nil when an existing model was used or nothing needed predicting
	Journal      journal.Result
	TrialBalance []journal.TrialBalanceRow
}

// Run executes every stage in order. Errors carry the failing stage.
func (r *Runner) Run(ctx context.Context, txns []model.Transaction) (Output, error) {
	var out Output
	out.Categorization = r.Categorize(txns)
	if err := ctx.Err(); err != nil {
		return out, stage.Wrap(stage.Categorize, err)
	}

	out.Model = r.opts.Model
	switch {
	case out.Model == nil && len(out.Split.Test) == 0:
		r.log.Info().Str("stage", string(stage.Train)).Msg("nothing to predict, training skipped")
	case out.Model == nil:
		m, rep, err := r.Train(out.Split.Train)
		if err != nil {
			return out, err
		}
		out.Model = m
		out.Training = &rep
	default:
		r.log.Info().Str("stage", string(stage.Train)).Msg("using existing model")
	}
	if err := ctx.Err(); err != nil {
		return out, stage.Wrap(stage.Train, err)
	}

	out.Final = r.Predict(out.Model, out.Rows, out.Split.Test)
	if err := ctx.Err(); err != nil {
		return out, stage.Wrap(stage.Predict, err)
	}

	res, tb, err := r.Journal(out.Final)
	out.Journal = res
	out.TrialBalance = tb
	return out, err
}

// Reporter returns the run's reporter.
func (r *Runner) Reporter() *report.Reporter {
	return r.report
}
