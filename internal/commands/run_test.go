package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/config"
	"github.com/cleared-dev/ledgercat/internal/dataset"
	"github.com/cleared-dev/ledgercat/internal/export"
	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/stage"
)

func readDataset(t *testing.T, path string) []dataset.Example {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	examples, _, err := dataset.ReadCSV(f)
	require.NoError(t, err)
	return examples
}

func TestRun_EndToEnd(t *testing.T) {
	dir := newProject(t)
	out, err := execute(t, "run", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Journal Balanced:")

	for _, name := range []string{
		export.CategorizedFile,
		export.UncategorizedFile,
		export.TrainFile,
		export.TestFile,
		export.PredictedFile,
		export.JournalXLSXFile,
		export.JournalCSVFile,
		export.TrialBalanceFile,
		export.UnpostedFile,
	} {
		_, err := os.Stat(outputPath(dir, name))
		assert.NoError(t, err, "%s should exist", name)
	}
	_, err = classifier.LoadFile(filepath.Join(dir, "models", "category.model"))
	require.NoError(t, err)

	f, err := os.Open(outputPath(dir, export.JournalCSVFile))
	require.NoError(t, err)
	defer f.Close()
	legs, err := journal.ReadLegs(f)
	require.NoError(t, err)
	assert.Len(t, legs, 18)

	recs := runLog(t, dir)
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "ok", rec.Status)
	assert.Equal(t, "run", rec.Command)
	assert.Equal(t, "ledger.csv", rec.Source)
	assert.Equal(t, 10, rec.TotalRows)
	assert.Equal(t, 1, rec.Transfers)
	assert.Equal(t, 1, rec.Predicted)
	assert.Equal(t, 9, rec.JournalEntries)
	assert.Equal(t, 1, rec.SkippedTransfer)
	assert.True(t, rec.Balanced)
	assert.Equal(t, "928.60", rec.TotalDebit.StringFixed(2))
}

func TestStagedCommands(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "categorize", "--repo", dir)
	require.NoError(t, err)
	assert.Len(t, readDataset(t, outputPath(dir, export.TrainFile)), 8)
	test := readDataset(t, outputPath(dir, export.TestFile))
	require.Len(t, test, 1)
	assert.Equal(t, "corner cafe", test[0].Vendor)

	vendors, err := os.ReadFile(outputPath(dir, export.UncategorizedFile))
	require.NoError(t, err)
	assert.Equal(t, "Vendor\ncorner cafe\n", string(vendors))

	_, err = execute(t, "train", "--repo", dir)
	require.NoError(t, err)

	_, err = execute(t, "predict", "--repo", dir)
	require.NoError(t, err)
	predicted, err := os.ReadFile(outputPath(dir, export.PredictedFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(predicted)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "corner cafe,2025-02-05,11.00,0.00,"))

	_, err = execute(t, "journal", "--repo", dir)
	require.NoError(t, err)

	recs := runLog(t, dir)
	require.Len(t, recs, 4)
	var cmds []string
	for _, r := range recs {
		cmds = append(cmds, r.Command)
		assert.Equal(t, "ok", r.Status)
	}
	assert.Equal(t, []string{"categorize", "train", "predict", "journal"}, cmds)
	assert.Equal(t, 9, recs[3].JournalEntries)
}

func TestPredict_WithoutModel(t *testing.T) {
	dir := newProject(t)
	_, err := execute(t, "categorize", "--repo", dir)
	require.NoError(t, err)

	_, err = execute(t, "predict", "--repo", dir)
	require.Error(t, err)
	assert.Equal(t, stage.Predict, stage.Of(err))
	assert.ErrorIs(t, err, classifier.ErrModelUnavailable)

	recs := runLog(t, dir)
	require.Len(t, recs, 2)
	assert.Equal(t, "failed", recs[1].Status)
	assert.Contains(t, recs[1].Error, "model unavailable")
}

func TestTrain_SingleCategoryFails(t *testing.T) {
	dir := newProject(t)
	writeLedger(t, dir, `Date,Description,Date,Description,Debit,Credit
2025-01-02,POS,2025-01-02,Starbucks Coffee,12.50,
2025-01-03,POS,2025-01-03,Tim Hortons,4.00,
2025-01-04,POS,2025-01-04,Corner Cafe,6.00,
`)
	_, err := execute(t, "run", "--repo", dir)
	require.Error(t, err)
	assert.Equal(t, stage.Train, stage.Of(err))
	assert.ErrorIs(t, err, classifier.ErrInsufficientData)

	_, statErr := os.Stat(outputPath(dir, export.JournalCSVFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_NoLedger(t *testing.T) {
	dir := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "import", "ledger.csv")))

	_, err := execute(t, "run", "--repo", dir)
	require.Error(t, err)
	assert.Equal(t, stage.Import, stage.Of(err))
}

func TestRun_NotAProject(t *testing.T) {
	_, err := execute(t, "run", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, stage.Config, stage.Of(err))
}

func TestRun_ExplicitLedger(t *testing.T) {
	dir := newProject(t)
	other := filepath.Join(t.TempDir(), "march.csv")
	require.NoError(t, os.Rename(filepath.Join(dir, "import", "ledger.csv"), other))

	_, err := execute(t, "run", "--repo", dir, "--ledger", other)
	require.NoError(t, err)
	assert.Equal(t, "march.csv", runLog(t, dir)[0].Source)
}

func TestRun_DryRun(t *testing.T) {
	dir := newProject(t)
	out, err := execute(t, "run", "--repo", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal Balanced:")

	entries, err := os.ReadDir(filepath.Join(dir, "output"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = os.Stat(filepath.Join(dir, "models", "category.model"))
	assert.True(t, os.IsNotExist(err))

	assert.Len(t, runLog(t, dir), 1)
}

func TestRun_Archive(t *testing.T) {
	dir := newProject(t)
	_, err := execute(t, "run", "--repo", dir, "--archive")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "ledger.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "ledger.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ReuseModel(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "run", "--repo", dir, "--reuse-model")
	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrModelUnavailable)

	_, err = execute(t, "run", "--repo", dir)
	require.NoError(t, err)
	first, err := os.ReadFile(outputPath(dir, export.PredictedFile))
	require.NoError(t, err)

	_, err = execute(t, "run", "--repo", dir, "--reuse-model")
	require.NoError(t, err)
	second, err := os.ReadFile(outputPath(dir, export.PredictedFile))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	recs := runLog(t, dir)
	require.Len(t, recs, 3)
	assert.False(t, recs[2].Ran("train"))
}

func TestRun_AutoCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)
	writeLedger(t, dir, ledgerCSV)

	path := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Git.AutoCommit = true
	require.NoError(t, config.Save(path, cfg))

	_, err = execute(t, "run", "--repo", dir)
	require.NoError(t, err)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	subject, err := log.Output()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(subject), "run: run "), string(subject))

	show := exec.Command("git", "show", "--name-only", "--format=", "HEAD")
	show.Dir = dir
	files, err := show.Output()
	require.NoError(t, err)
	assert.Contains(t, string(files), "output/journal_entries.csv")
	assert.Contains(t, string(files), "logs/run-log.csv")
	assert.Contains(t, string(files), "models/category.model")
}

func TestRun_AllRowsMatchedSkipsTraining(t *testing.T) {
	dir := newProject(t)
	writeLedger(t, dir, `Date,Description,Date,Description,Debit,Credit
2025-01-02,POS,2025-01-02,Starbucks Coffee,12.50,
2025-01-03,POS,2025-01-03,Starbucks Reserve,9.75,
`)

	out, err := execute(t, "run", "--repo", dir)
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(dir, "models", "category.model"))
	assert.True(t, os.IsNotExist(err), "no model is trained when nothing needs predicting")

	f, err := os.Open(outputPath(dir, export.JournalCSVFile))
	require.NoError(t, err)
	defer f.Close()
	legs, err := journal.ReadLegs(f)
	require.NoError(t, err)
	assert.Len(t, legs, 4)

	recs := runLog(t, dir)
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].Status)
	assert.Equal(t, 2, recs[0].TrainRows)
	assert.Equal(t, 0, recs[0].TestRows)
}
