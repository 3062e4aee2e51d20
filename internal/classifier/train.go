package classifier

import (
	"math"
	"math/rand"

	"github.com/cleared-dev/ledgercat/internal/dataset"
)

// TrainOptions control the hold-out evaluation.
type TrainOptions struct {
	Seed         int64   `yaml:"seed"`
	HoldoutRatio float64 `yaml:"holdout_ratio" validate:"gte=0,lt=1"`
	// RefitOnFull refits the returned model on every row after evaluation.
	// Otherwise the model fitted on the training partition is returned.
	RefitOnFull bool `yaml:"refit_on_full"`
}

// DefaultTrainOptions returns an 80/20 split with seed 42.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Seed: 42, HoldoutRatio: 0.2}
}

// TrainReport summarizes a training run.
type TrainReport struct {
	Rows        int
	TrainRows   int
	HoldoutRows int
	Classes     []string
	// Validated is false when no hold-out evaluation could be made, e.g.
	// too few rows or a training partition with a single category.
	Validated bool
	Accuracy  float64 // fraction of hold-out rows predicted correctly
}

// Train fits a model with a seeded hold-out evaluation. Accuracy is
// reported but never used to reject the model.
func Train(examples []dataset.Example, opts TrainOptions) (*NaiveBayes, TrainReport, error) {
	report := TrainReport{Rows: len(examples), Classes: labels(examples)}

	full, err := Fit(examples)
	if err != nil {
		return nil, report, err
	}

	fit, holdout := holdoutSplit(examples, opts.HoldoutRatio, opts.Seed)
	if len(holdout) == 0 || len(labels(fit)) < 2 {
		report.TrainRows = len(examples)
		return full, report, nil
	}

	m, err := Fit(fit)
	if err != nil {
		return nil, report, err
	}

	correct := 0
	for i, p := range PredictAll(m, holdout) {
		if p.Category == holdout[i].Category {
			correct++
		}
	}
	report.TrainRows = len(fit)
	report.HoldoutRows = len(holdout)
	report.Validated = true
	report.Accuracy = float64(correct) / float64(len(holdout))

	if opts.RefitOnFull {
		report.TrainRows = len(examples)
		return full, report, nil
	}
	return m, report, nil
}

// holdoutSplit shuffles examples with a seeded source and sets aside
// ceil(ratio*n) rows, keeping at least one row for fitting.
func holdoutSplit(examples []dataset.Example, ratio float64, seed int64) (fit, holdout []dataset.Example) {
	n := len(examples)
	size := int(math.Ceil(ratio * float64(n)))
	if size >= n {
		size = n - 1
	}
	if size <= 0 {
		return examples, nil
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	for i, j := range perm {
		if i < size {
			holdout = append(holdout, examples[j])
		} else {
			fit = append(fit, examples[j])
		}
	}
	return fit, holdout
}
