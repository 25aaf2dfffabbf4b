package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/srri"
	"github.com/etnz/srri/kiid"
)

type permalinkCmd struct {
	input       string
	output      string
	concurrency int
	timeout     time.Duration
	resolve     bool
}

func (*permalinkCmd) Name() string { return "permalink" }
func (*permalinkCmd) Synopsis() string {
	return "build canonical permalink records from the document catalog"
}
func (*permalinkCmd) Usage() string {
	return `suc permalink -i <catalog.txt> [-o <records.csv>]

  Reads the raw document catalog (one line per published document), keeps
  the English UK investor lines, retrieves each KIID and fact sheet, and
  extracts the published SRRI, the ongoing charges and the share-class
  inception date into canonical records.
`
}

func (c *permalinkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Path to the raw document catalog")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
	f.IntVar(&c.concurrency, "c", 4, "Number of documents retrieved at once")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Per-document retrieval timeout")
	f.BoolVar(&c.resolve, "resolve", false, "Resolve permalinks through the document library API")
}

func (c *permalinkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := outputFormat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}

	lines, err := readLines(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fetcher := &kiid.Fetcher{Timeout: c.timeout}
	if c.resolve {
		fetcher.Library = &kiid.Library{}
	}

	records, diags, err := srri.ProcessPermalink(ctx, lines, fetcher, srri.PermalinkOptions{Concurrency: c.concurrency})
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
	if err := srri.EncodePermalink(w, records, format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing records: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := closeOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
