package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/accounts"
	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/config"
	"github.com/cleared-dev/ledgercat/internal/dataset"
	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/gitops"
	"github.com/cleared-dev/ledgercat/internal/importer"
	"github.com/cleared-dev/ledgercat/internal/logger"
	"github.com/cleared-dev/ledgercat/internal/model"
	"github.com/cleared-dev/ledgercat/internal/pipeline"
	"github.com/cleared-dev/ledgercat/internal/report"
	"github.com/cleared-dev/ledgercat/internal/stage"
	"github.com/cleared-dev/ledgercat/internal/vendor"
)

// project is one command invocation against a ledgercat project directory.
type project struct {
	root    string
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	runID   string
	command string
	rep     *report.Reporter
	written []string // files produced by the run, relative to root
}

func openProject(cmd *cobra.Command, opts *options) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadProject(root)
	if err != nil {
		return nil, stage.Wrap(stage.Config, err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	log, err := logger.New(cmd.ErrOrStderr(), logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, stage.Wrap(stage.Config, err)
	}

	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Str("command", cmd.Name()).Logger()
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	return &project{
		root:    root,
		cfg:     cfg,
		log:     log,
		out:     cmd.OutOrStdout(),
		runID:   runID,
		command: cmd.Name(),
		rep:     report.New(runID, cmd.Name(), nil),
	}, nil
}

func (p *project) path(rel string) string {
	return config.Resolve(p.root, rel)
}

func (p *project) outputPath(name string) string {
	return filepath.Join(p.path(p.cfg.Paths.OutputDir), name)
}

// runner loads the vendor rules and chart of accounts.
func (p *project) runner(m classifier.Predictor) (*pipeline.Runner, error) {
	rules, err := vendor.LoadRules(p.path(p.cfg.Paths.Rules))
	if err != nil {
		return nil, stage.Wrap(stage.Config, err)
	}
	for _, w := range rules.Warnings() {
		p.log.Warn().Msg(w)
	}
	chart, err := accounts.LoadFile(p.path(p.cfg.Paths.Chart))
	if err != nil {
		return nil, stage.Wrap(stage.Config, err)
	}

	return pipeline.New(rules, chart, p.log, p.rep, pipeline.Options{
		Train:          p.cfg.Classifier,
		Journal:        p.cfg.JournalOptions(),
		Model:          m,
		RejectUnmapped: p.cfg.Journal.RejectUnmapped,
	}), nil
}

// ledgerPath returns the explicit ledger file, or the first ledger found
// in the import directory.
func (p *project) ledgerPath(ledger string) (string, error) {
	if ledger != "" {
		return filepath.Abs(ledger)
	}
	dir := p.path(p.cfg.Paths.ImportDir)
	files, err := importer.Scan(dir)
	if err != nil {
		return "", stage.Wrap(stage.Import, err)
	}
	if len(files) == 0 {
		return "", stage.Errorf(stage.Import, "no ledger files in %s", dir)
	}
	if len(files) > 1 {
		p.log.Warn().Int("files", len(files)).Str("using", files[0].Name).Msg("multiple ledgers in import dir")
	}
	return files[0].Path, nil
}

// importLedger parses the ledger and records it in the run report.
func (p *project) importLedger(path string) ([]model.Transaction, error) {
	reg := importer.DefaultRegistry(p.cfg.Ledger.Sheet, p.cfg.Ledger.Columns)
	txns, stats, err := reg.ParseFile(path)
	if err != nil {
		return nil, stage.Wrap(stage.Import, err)
	}
	p.rep.Imported(filepath.Base(path), stats.Rows, stats.DefaultedDates, stats.DefaultedAmounts)
	p.log.Info().
		Str("stage", string(stage.Import)).
		Str("file", filepath.Base(path)).
		Int("rows", stats.Rows).
		Int("blank", stats.BlankRows).
		Int("defaulted_dates", stats.DefaultedDates).
		Int("defaulted_amounts", stats.DefaultedAmounts).
		Msg("imported")
	return txns, nil
}

// write replaces an output file and remembers it for the commit.
func (p *project) write(path string, fn func(io.Writer) error) error {
	if err := export.WriteFile(path, fn); err != nil {
		return stage.Wrap(stage.Export, err)
	}
	p.track(path)
	return nil
}

func (p *project) track(path string) {
	if rel, err := filepath.Rel(p.root, path); err == nil {
		p.written = append(p.written, rel)
	}
}

func (p *project) writeOutput(name string, fn func(io.Writer) error) error {
	return p.write(p.outputPath(name), fn)
}

func (p *project) readDataset(name string, s stage.Name) ([]dataset.Example, error) {
	f, err := os.Open(p.outputPath(name))
	if err != nil {
		return nil, stage.Errorf(s, "opening %s (run categorize first): %w", name, err)
	}
	defer f.Close()

	examples, stats, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, stage.Wrap(s, fmt.Errorf("reading %s: %w", name, err))
	}
	p.log.Debug().Str("file", name).Int("rows", stats.Rows).
		Int("defaulted_dates", stats.DefaultedDates).
		Int("defaulted_amounts", stats.DefaultedAmounts).
		Msg("read dataset")
	return examples, nil
}

// finish appends the run record to the run log, prints it and, when
// enabled, commits the run's outputs. It returns runErr unchanged unless
// runErr is nil and logging fails.
func (p *project) finish(ctx context.Context, runErr error) error {
	rec := p.rep.Finish(runErr)
	logDir := p.path(p.cfg.Paths.LogDir)
	if err := report.Append(logDir, rec); err != nil {
		p.log.Error().Err(err).Msg("appending run log")
		if runErr == nil {
			runErr = err
		}
	} else {
		p.track(filepath.Join(logDir, report.TextLog))
		p.track(filepath.Join(logDir, report.CSVLog))
	}
	printRecord(p.out, rec)

	if runErr != nil {
		p.log.Error().Err(runErr).Str("stage", string(stage.Of(runErr))).Msg("run failed")
		return runErr
	}
	return p.commit(ctx)
}

func (p *project) commit(ctx context.Context) error {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
		return nil
	}
	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	msg := fmt.Sprintf("%s: run %s", p.command, p.runID)
	hash, err := gitops.CommitPaths(ctx, p.root, p.written, msg, author)
	if err != nil {
		return fmt.Errorf("committing outputs: %w", err)
	}
	if hash != "" {
		p.log.Info().Str("commit", hash).Int("files", len(p.written)).Msg("committed outputs")
	}
	return nil
}
