package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/model"
	"github.com/cleared-dev/ledgercat/internal/report"
	"github.com/cleared-dev/ledgercat/internal/stage"
)

func newPredictCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict categories for the uncategorized test set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return p.finish(cmd.Context(), runPredict(p))
		},
	}
}

func runPredict(p *project) error {
	m, err := p.loadModel()
	if err != nil {
		return err
	}
	test, err := p.readDataset(export.TestFile, stage.Predict)
	if err != nil {
		return err
	}
	r, err := p.runner(m)
	if err != nil {
		return err
	}

	rows := make([]model.CategorizedTransaction, len(test))
	for i, ex := range test {
		rows[i] = model.CategorizedTransaction{
			Transaction: model.Transaction{Date: ex.Date, Debit: ex.Debit, Credit: ex.Credit},
			Vendor:      ex.Vendor,
			Category:    model.CategoryUncategorized,
		}
	}
	predicted := r.Predict(m, rows, test)

	if err := p.writeOutput(export.PredictedFile, func(w io.Writer) error {
		return export.WritePredicted(w, predicted)
	}); err != nil {
		return err
	}
	printStage(p.out, report.StagePredict, "%d rows labeled by the model", len(test))
	return nil
}

func (p *project) loadModel() (*classifier.NaiveBayes, error) {
	m, err := classifier.LoadFile(p.path(p.cfg.Paths.Model))
	if err != nil {
		return nil, stage.Wrap(stage.Predict, err)
	}
	return m, nil
}
