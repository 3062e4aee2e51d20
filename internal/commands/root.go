package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/buildinfo"
)

// options are the persistent flags shared by project commands.
type options struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "ledgercat",
		Short:   "Categorize ledger transactions and build a double-entry journal",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(),
		newCategorizeCommand(opts),
		newTrainCommand(opts),
		newPredictCommand(opts),
		newJournalCommand(opts),
		newRunCommand(opts),
	)

	return rootCmd
}
