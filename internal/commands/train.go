package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/report"
	"github.com/cleared-dev/ledgercat/internal/stage"
)

func newTrainCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the category model on the labeled train set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return p.finish(cmd.Context(), runTrain(p))
		},
	}
}

func runTrain(p *project) error {
	examples, err := p.readDataset(export.TrainFile, stage.Train)
	if err != nil {
		return err
	}
	r, err := p.runner(nil)
	if err != nil {
		return err
	}

	m, rep, err := r.Train(examples)
	if err != nil {
		return err
	}
	if err := p.saveModel(m); err != nil {
		return err
	}
	printTraining(p, rep)
	return nil
}

func (p *project) saveModel(m classifier.Predictor) error {
	path := p.path(p.cfg.Paths.Model)
	if err := classifier.SaveFile(path, m); err != nil {
		return stage.Wrap(stage.Train, err)
	}
	p.track(path)
	return nil
}

func printTraining(p *project, rep classifier.TrainReport) {
	if rep.Validated {
		printStage(p.out, report.StageTrain, "%d rows, %d categories, hold-out accuracy %.2f%% on %d rows",
			rep.Rows, len(rep.Classes), rep.Accuracy*100, rep.HoldoutRows)
		return
	}
	printStage(p.out, report.StageTrain, "%d rows, %d categories, not validated", rep.Rows, len(rep.Classes))
}
