package commands

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/importer"
	"github.com/cleared-dev/ledgercat/internal/stage"
)

type runFlags struct {
	ledger     string
	dryRun     bool
	reuseModel bool
	archive    bool
}

func newRunCommand(opts *options) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every stage: categorize, train, predict and journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return p.finish(cmd.Context(), runAll(cmd, p, flags))
		},
	}

	cmd.Flags().StringVar(&flags.ledger, "ledger", "", "ledger file (default: first ledger in the import dir)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "run without writing outputs or the model")
	cmd.Flags().BoolVar(&flags.reuseModel, "reuse-model", false, "predict with the saved model instead of retraining")
	cmd.Flags().BoolVar(&flags.archive, "archive", false, "move the ledger to the import dir's processed/ folder afterwards")

	return cmd
}

func runAll(cmd *cobra.Command, p *project, flags runFlags) error {
	path, err := p.ledgerPath(flags.ledger)
	if err != nil {
		return err
	}
	txns, err := p.importLedger(path)
	if err != nil {
		return err
	}

	var existing classifier.Predictor
	if flags.reuseModel {
		m, err := p.loadModel()
		if err != nil {
			return err
		}
		existing = m
	}
	r, err := p.runner(existing)
	if err != nil {
		return err
	}

	out, runErr := r.Run(cmd.Context(), txns)
	printCategorization(p.out, out.Categorization)
	if out.Training != nil {
		printTraining(p, *out.Training)
	}
	if out.Final != nil {
		printJournal(p.out, out.Journal)
	}
	if runErr != nil || flags.dryRun {
		return runErr
	}

	if err := p.writeCategorization(out.Categorization); err != nil {
		return err
	}
	if out.Training != nil {
		if err := p.saveModel(out.Model); err != nil {
			return err
		}
	}
	if err := p.writeOutput(export.PredictedFile, func(w io.Writer) error {
		return export.WritePredicted(w, out.Final)
	}); err != nil {
		return err
	}
	if err := p.writeJournal(out.Journal, out.TrialBalance); err != nil {
		return err
	}

	if flags.archive && filepath.Dir(path) == p.path(p.cfg.Paths.ImportDir) {
		if err := importer.MarkProcessed(filepath.Dir(path), filepath.Base(path)); err != nil {
			return stage.Wrap(stage.Import, err)
		}
		p.log.Info().Str("file", filepath.Base(path)).Msg("archived ledger")
	}
	return nil
}
