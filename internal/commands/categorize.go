package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/dataset"
	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/pipeline"
)

func newCategorizeCommand(opts *options) *cobra.Command {
	var ledger string

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Apply vendor rules and write the categorized ledger and train/test sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return p.finish(cmd.Context(), runCategorize(p, ledger))
		},
	}

	cmd.Flags().StringVar(&ledger, "ledger", "", "ledger file (default: first ledger in the import dir)")

	return cmd
}

func runCategorize(p *project, ledger string) error {
	path, err := p.ledgerPath(ledger)
	if err != nil {
		return err
	}
	txns, err := p.importLedger(path)
	if err != nil {
		return err
	}
	r, err := p.runner(nil)
	if err != nil {
		return err
	}

	c := r.Categorize(txns)
	if err := p.writeCategorization(c); err != nil {
		return err
	}
	printCategorization(p.out, c)
	return nil
}

// writeCategorization writes the categorized workbook, the vendors no
// rule matched, and the train/test sets.
func (p *project) writeCategorization(c pipeline.Categorization) error {
	if err := p.writeOutput(export.CategorizedFile, func(w io.Writer) error {
		return export.WriteCategorized(w, c.Rows, c.Summary)
	}); err != nil {
		return err
	}
	if err := p.writeOutput(export.UncategorizedFile, func(w io.Writer) error {
		return export.WriteUncategorizedVendors(w, c.UncategorizedVendors)
	}); err != nil {
		return err
	}
	if err := p.writeOutput(export.TrainFile, func(w io.Writer) error {
		return dataset.WriteCSV(w, c.Split.Train, true)
	}); err != nil {
		return err
	}
	return p.writeOutput(export.TestFile, func(w io.Writer) error {
		return dataset.WriteCSV(w, c.Split.Test, false)
	})
}
