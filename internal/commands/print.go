package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/pipeline"
	"github.com/cleared-dev/ledgercat/internal/report"
)

var (
	okLabel   = color.New(color.BgGreen, color.FgBlack)
	failLabel = color.New(color.BgRed, color.FgWhite)
	warnLabel = color.New(color.BgHiYellow, color.FgBlack)
	stageName = color.New(color.FgCyan)
)

func printStage(w io.Writer, name string, format string, args ...any) {
	stageName.Fprintf(w, "%-11s", name)
	fmt.Fprintf(w, format+"\n", args...)
}

func printCategorization(w io.Writer, c pipeline.Categorization) {
	printStage(w, report.StageCategorize, "%d rows, %d e-transfers, %d train, %d test, %d uncategorized vendors",
		len(c.Rows), c.Split.Transfers, len(c.Split.Train), len(c.Split.Test), len(c.UncategorizedVendors))
	for _, s := range c.Summary {
		fmt.Fprintf(w, "  %-24s %5d  DR %12s  CR %12s\n",
			s.Category, s.Count, s.TotalDebit.StringFixed(2), s.TotalCredit.StringFixed(2))
	}
}

func printJournal(w io.Writer, res journal.Result) {
	printStage(w, report.StageJournal, "%d entries, %d legs, %d unposted",
		res.Entries(), len(res.Legs), len(res.Unposted))
	fmt.Fprintf(w, "  Total Debit:  %s\n", res.TotalDebit.StringFixed(2))
	fmt.Fprintf(w, "  Total Credit: %s\n", res.TotalCredit.StringFixed(2))
	fmt.Fprint(w, "  Journal Balanced: ")
	if res.Balanced {
		okLabel.Fprint(w, " YES ")
		fmt.Fprintln(w)
		return
	}
	failLabel.Fprint(w, " NO ")
	fmt.Fprintln(w, " (Check DR/CR mismatch!)")
}

func printRecord(w io.Writer, rec report.Record) {
	if rec.Status == "ok" {
		okLabel.Fprintf(w, " %s ", rec.Status)
	} else {
		failLabel.Fprintf(w, " %s ", rec.Status)
	}
	fmt.Fprintf(w, " %s run %s\n", rec.Command, rec.RunID)
	if rec.DefaultedDates+rec.DefaultedAmounts+rec.AmbiguousAmounts > 0 {
		warnLabel.Fprint(w, " data ")
		fmt.Fprintf(w, " %d defaulted dates, %d defaulted amounts, %d rows with both debit and credit\n",
			rec.DefaultedDates, rec.DefaultedAmounts, rec.AmbiguousAmounts)
	}
	if rec.Error != "" {
		fmt.Fprintf(w, "  %s\n", rec.Error)
	}
}
