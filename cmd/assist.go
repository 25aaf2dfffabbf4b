package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/etnz/srri"
	"github.com/etnz/srri/agent"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	monitoringFile string
	permalinkFile  string
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short one-line synopsis of the command.
func (*AssistCmd) Synopsis() string {
	return "Start an interactive session with the reconciliation assistant."
}

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `suc assist -m <monitoring.csv> -p <permalink.csv> [question...]

  Reconciles the two canonical record sets and starts an interactive
  session with an assistant that can read the mismatch report.
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.monitoringFile, "m", "", "Canonical monitoring records (CSV)")
	f.StringVar(&c.permalinkFile, "p", "", "Canonical permalink records (CSV)")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewAnalyst(mismatches, diags)
	a := agent.New(os.Stdout, os.Stdin, analyst)

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
