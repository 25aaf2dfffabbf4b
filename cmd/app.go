// Package cmd implements the CLI application to run the SRRI
// reconciliation pipeline.
package cmd

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/srri"
	"github.com/etnz/srri/date"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&monitoringCmd{},
	&permalinkCmd{},
	&compareCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var dateFormatFlag = flag.String("date-format", "yyyy-mm-dd", "Output date format (yyyy-mm-dd or yyyy-dd-mm)")

// outputFormat resolves the global date format flag.
func outputFormat() (date.Format, error) {
	return date.ParseFormat(*dateFormatFlag)
}

// readRawCSV reads a whole raw export. Header rows have fewer populated
// cells than data rows, so records of varying length are accepted.
func readRawCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return rows, nil
}

// readLines reads a raw permalink export, one catalog line per file line.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// openOutput opens the output file, or stdout when no path is given. The
// returned close function is a no-op for stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// loadRecords reads previously exported canonical record sets back, for
// the commands that work on a finished run.
func loadRecords(monitoringFile, permalinkFile string) ([]srri.MonitoringRecord, []srri.PermalinkRecord, error) {
	mf, err := os.Open(monitoringFile)
	if err != nil {
		return nil, nil, err
	}
	defer mf.Close()
	monitoring, err := srri.DecodeMonitoring(mf)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", monitoringFile, err)
	}

	pf, err := os.Open(permalinkFile)
	if err != nil {
		return nil, nil, err
	}
	defer pf.Close()
	permalink, err := srri.DecodePermalink(pf)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %q: %w", permalinkFile, err)
	}
	return monitoring, permalink, nil
}
