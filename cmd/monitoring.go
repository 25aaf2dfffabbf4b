package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/srri"
)

type monitoringCmd struct {
	input  string
	output string
}

func (*monitoringCmd) Name() string { return "monitoring" }
func (*monitoringCmd) Synopsis() string {
	return "normalize the raw SRRI monitoring export into canonical records"
}
func (*monitoringCmd) Usage() string {
	return `suc monitoring -i <export.csv> [-o <records.csv>]

  Reads the raw weekly monitoring export (two-row header, week-indexed
  score columns), computes the 16-week stability analysis per share class,
  and writes the canonical records as CSV.
`
}

func (c *monitoringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Path to the raw monitoring export (CSV)")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
}

func (c *monitoringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := outputFormat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}

	raw, err := readRawCSV(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	records, diags, err := srri.ProcessMonitoring(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stderr, diags)

	w, closeOutput, err := openOutput(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := srri.EncodeMonitoring(w, records, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing records: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := closeOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
