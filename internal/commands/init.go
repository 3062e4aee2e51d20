package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercat/internal/accounts"
	"github.com/cleared-dev/ledgercat/internal/config"
	"github.com/cleared-dev/ledgercat/internal/gitops"
	"github.com/cleared-dev/ledgercat/internal/vendor"
)

// sampleRules seed rules/vendor_mapping.csv in a new project.
var sampleRules = []vendor.Rule{
	{Substring: "starbucks", Category: "Food Purchases", AccountType: "Expense"},
	{Substring: "tim hortons", Category: "Food Purchases", AccountType: "Expense"},
	{Substring: "staples", Category: "Office Supplies", AccountType: "Expense"},
	{Substring: "service charge", Category: "Bank Charges", AccountType: "Expense"},
	{Substring: "stripe", Category: "Stripe", AccountType: "Revenue"},
	{Substring: "paypal", Category: "Paypal", AccountType: "Revenue"},
}

func newInitCommand() *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledgercat project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(cmd.Context(), absDir, name, !noGit)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledgercat project at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledgercat project at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git init and the initial commit")

	return cmd
}

// runInit lays out a project in dir and returns the initial commit hash,
// or "" when git is skipped.
func runInit(ctx context.Context, dir, name string, withGit bool) (string, error) {
	cfg := config.Default(name)

	dirs := []string{
		filepath.Dir(cfg.Paths.Chart),
		filepath.Dir(cfg.Paths.Rules),
		filepath.Dir(cfg.Paths.Model),
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Paths.ImportDir,
		filepath.Join(cfg.Paths.ImportDir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return "", fmt.Errorf("writing chart of accounts: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, cfg.Paths.Rules))
	if err != nil {
		return "", fmt.Errorf("writing rules: %w", err)
	}
	if err := vendor.WriteRulesCSV(f, sampleRules); err != nil {
		f.Close()
		return "", fmt.Errorf("writing rules: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing rules: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n*.tmp\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	for _, d := range []string{cfg.Paths.ImportDir, filepath.Join(cfg.Paths.ImportDir, "processed")} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return "", fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	if !withGit {
		return "", nil
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return "", fmt.Errorf("git init: %w", err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, author)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
