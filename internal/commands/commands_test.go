package commands_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgercat/internal/commands"
	"github.com/cleared-dev/ledgercat/internal/report"
)

const ledgerCSV = `Date,Description,Date,Description,Debit,Credit
2025-01-02,POS,2025-01-02,Starbucks Coffee,12.50,
2025-01-03,POS,2025-01-03,Staples #441,80.00,
2025-01-04,DEP,2025-01-04,Stripe Payout,,640.00
2025-01-05,XFER,2025-01-05,E-Transfer to John,,100.00
2025-01-06,POS,2025-01-06,Tim Hortons,6.25,
2025-02-02,POS,2025-02-02,Starbucks Reserve,9.75,
2025-02-03,FEE,2025-02-03,Service Charge,4.00,
2025-02-04,DEP,2025-02-04,Paypal Payout,,120.00
2025-02-05,POS,2025-02-05,Corner Cafe,11.00,
2025-02-06,POS,2025-02-06,Staples Online,45.10,
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// newProject initializes a project without git and drops the test ledger
// into its import dir.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--name", "Test Biz", "--no-git")
	require.NoError(t, err)
	writeLedger(t, dir, ledgerCSV)
	return dir
}

func writeLedger(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "import", "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runLog(t *testing.T, dir string) []report.Record {
	t.Helper()
	recs, err := report.Read(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	return recs
}

func outputPath(dir, name string) string {
	return filepath.Join(dir, "output", name)
}
