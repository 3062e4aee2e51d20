package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/journal"
)

func newJournalCommand(opts *options) *cobra.Command {
	var ledger string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Post the ledger to a double-entry journal using the saved model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return p.finish(cmd.Context(), runJournal(p, ledger))
		},
	}

	cmd.Flags().StringVar(&ledger, "ledger", "", "ledger file (default: first ledger in the import dir)")

	return cmd
}

func runJournal(p *project, ledger string) error {
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
	rows := c.Rows
	if len(c.Split.Test) > 0 {
		m, err := p.loadModel()
		if err != nil {
			return err
		}
		rows = r.Predict(m, c.Rows, c.Split.Test)
	}

	res, tb, err := r.Journal(rows)
	printJournal(p.out, res)
	if err != nil {
		return err
	}
	return p.writeJournal(res, tb)
}

// writeJournal writes the journal legs, trial balance and unposted rows.
func (p *project) writeJournal(res journal.Result, tb []journal.TrialBalanceRow) error {
	if err := p.writeOutput(export.JournalXLSXFile, func(w io.Writer) error {
		return export.WriteJournal(w, res.Legs)
	}); err != nil {
		return err
	}
	if err := p.writeOutput(export.JournalCSVFile, func(w io.Writer) error {
		return journal.WriteLegs(w, res.Legs)
	}); err != nil {
		return err
	}
	if err := p.writeOutput(export.TrialBalanceFile, func(w io.Writer) error {
		return export.WriteTrialBalance(w, tb)
	}); err != nil {
		return err
	}
	return p.writeOutput(export.UnpostedFile, func(w io.Writer) error {
		return export.WriteUnposted(w, res.Unposted)
	})
}
