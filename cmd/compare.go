package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/srri"
	"github.com/etnz/srri/renderer"
)

type compareCmd struct {
	monitoringFile string
	permalinkFile  string
	output         string
	markdown       bool
}

func (*compareCmd) Name() string { return "compare" }
func (*compareCmd) Synopsis() string {
	return "reconcile monitoring records against published document records"
}
func (*compareCmd) Usage() string {
	return `suc compare -m <monitoring.csv> -p <permalink.csv> [-o <mismatches.csv>] [-md]

  Joins the two canonical record sets on identifier, keeps the share
  classes with a stable 16-week history whose published score disagrees
  with the observed one, and writes the mismatch report. With -md the
  report renders as markdown in the terminal instead.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.monitoringFile, "m", "", "Canonical monitoring records (CSV)")
	f.StringVar(&c.permalinkFile, "p", "", "Canonical permalink records (CSV)")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
	f.BoolVar(&c.markdown, "md", false, "Render the report as markdown")
}

func (c *compareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := outputFormat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.monitoringFile == "" || c.permalinkFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -m and -p are required")
		return subcommands.ExitUsageError
	}

	monitoring, permalink, err := loadRecords(c.monitoringFile, c.permalinkFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	mismatches, diags := srri.Reconcile(monitoring, permalink)
	fmt.Fprintln(os.Stderr, diags)

	if c.markdown {
		printMarkdown(renderer.MismatchMarkdown(mismatches, diags))
		return subcommands.ExitSuccess
	}

	w, closeOutput, err := openOutput(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := srri.EncodeMismatches(w, mismatches, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := closeOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
