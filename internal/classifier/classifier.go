// Package classifier predicts categories for rows the vendor rules could
// not resolve. The model is multinomial naive Bayes over vendor tokens and
// the amount bucket and month pseudo-terms.
package classifier

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jbrukh/bayesian"

	"github.com/cleared-dev/ledgercat/internal/dataset"
)

var (
	// ErrInsufficientData is returned when the training set is empty or has
	// fewer than two distinct categories.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrModelUnavailable is returned when a model artifact is missing or unreadable.
	ErrModelUnavailable = errors.New("model unavailable")
)

// Prediction is a single category guess.
type Prediction struct {
	Category   string
	Confidence float64 // posterior probability of Category, in [0, 1]
}

// Predictor is a fitted category model.
type Predictor interface {
	Predict(f Features) Prediction
	Classes() []string
	Save(w io.Writer) error
}

// NaiveBayes is a Predictor backed by a bayesian.Classifier.
type NaiveBayes struct {
	c *bayesian.Classifier
}

// Fit trains a new model on labeled examples.
func Fit(examples []dataset.Example) (*NaiveBayes, error) {
	classes := labels(examples)
	if len(examples) == 0 || len(classes) < 2 {
		return nil, fmt.Errorf("%w: %d rows, %d categories", ErrInsufficientData, len(examples), len(classes))
	}

	bc := make([]bayesian.Class, len(classes))
	for i, c := range classes {
		bc[i] = bayesian.Class(c)
	}
	c := bayesian.NewClassifier(bc...)
	for _, ex := range examples {
		if ex.Category == "" {
			continue
		}
		c.Learn(FromExample(ex).Terms(), bayesian.Class(ex.Category))
	}
	return &NaiveBayes{c: c}, nil
}

// Predict returns the most likely category. Ties go to the first class in
// sorted order.
func (m *NaiveBayes) Predict(f Features) Prediction {
	scores, best, _ := m.c.LogScores(f.Terms())
	return Prediction{
		Category:   string(m.c.Classes[best]),
		Confidence: softmax(scores)[best],
	}
}

// Classes returns the categories the model can emit, sorted.
func (m *NaiveBayes) Classes() []string {
	out := make([]string, len(m.c.Classes))
	for i, c := range m.c.Classes {
		out[i] = string(c)
	}
	return out
}

// Save serializes the model.
func (m *NaiveBayes) Save(w io.Writer) error {
	if err := m.c.WriteTo(w); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// Load deserializes a model written by Save.
func Load(r io.Reader) (*NaiveBayes, error) {
	c, err := bayesian.NewClassifierFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding model: %v", ErrModelUnavailable, err)
	}
	if len(c.Classes) < 2 {
		return nil, fmt.Errorf("%w: model has %d classes", ErrModelUnavailable, len(c.Classes))
	}
	return &NaiveBayes{c: c}, nil
}

// PredictAll predicts every example. The result is aligned with examples.
func PredictAll(p Predictor, examples []dataset.Example) []Prediction {
	out := make([]Prediction, len(examples))
	for i, ex := range examples {
		out[i] = p.Predict(FromExample(ex))
	}
	return out
}

// labels returns the distinct non-empty categories, sorted.
func labels(examples []dataset.Example) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range examples {
		if ex.Category == "" || seen[ex.Category] {
			continue
		}
		seen[ex.Category] = true
		out = append(out, ex.Category)
	}
	sort.Strings(out)
	return out
}

func softmax(logScores []float64) []float64 {
	out := make([]float64, len(logScores))
	if len(logScores) == 0 {
		return out
	}
	top := logScores[0]
	for _, s := range logScores[1:] {
		if s > top {
			top = s
		}
	}
	var sum float64
	for i, s := range logScores {
		out[i] = math.Exp(s - top)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
