package srri

import (
	"fmt"
	"strings"
)

// StructuralError reports that a raw table's shape cannot be understood at
// all (no recognizable header rows). It is fatal: the caller must not
// proceed to row extraction.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s", e.Reason)
}

// MissingFieldError reports a required field or column absent at the
// dataset level. It is fatal when returned from a pipeline entry point, and
// row-level when accumulated in a Diagnostics.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Reason classifies why a row was excluded or a value left absent.
type Reason string

const (
	InsufficientHistory Reason = "insufficient history"
	MissingField        Reason = "missing field"
	DuplicateIdentifier Reason = "duplicate identifier"
	DuplicateISIN       Reason = "duplicate isin"
	InvalidISIN         Reason = "invalid isin"
	ExtractionFailed    Reason = "extraction failed"
	ISINMismatch        Reason = "isin mismatch"
)

// Issue is one row-level diagnostic: the row is dropped or a value left
// absent, the run continues.
type Issue struct {
	Row        int        // source row index, -1 when not row-bound
	Identifier Identifier // may be empty when the identifier itself is missing
	Reason     Reason
	Detail     string
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Row >= 0 {
		fmt.Fprintf(&b, "row %d: ", i.Row)
	}
	b.WriteString(string(i.Reason))
	if i.Identifier != "" {
		fmt.Fprintf(&b, " (%s)", i.Identifier)
	}
	if i.Detail != "" {
		fmt.Fprintf(&b, ": %s", i.Detail)
	}
	return b.String()
}

// Diagnostics accumulates row-level issues during a pipeline stage. It is
// returned alongside the stage's result so callers can report processed and
// excluded counts without losing the successfully processed rows.
type Diagnostics struct {
	Processed int
	Excluded  int
	Issues    []Issue
}

// Exclude records that a row was dropped for the given reason.
func (d *Diagnostics) Exclude(row int, id Identifier, reason Reason, format string, args ...any) {
	d.Excluded++
	d.Issues = append(d.Issues, Issue{Row: row, Identifier: id, Reason: reason, Detail: fmt.Sprintf(format, args...)})
}

// Warn records an issue that does not drop the row (a value left absent, a
// duplicate observed before dedup).
func (d *Diagnostics) Warn(row int, id Identifier, reason Reason, format string, args ...any) {
	d.Issues = append(d.Issues, Issue{Row: row, Identifier: id, Reason: reason, Detail: fmt.Sprintf(format, args...)})
}

// String renders the "N processed, M excluded" summary with one line per issue.
func (d *Diagnostics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows processed, %d excluded", d.Processed, d.Excluded)
	for _, i := range d.Issues {
		fmt.Fprintf(&b, "\n  - %s", i)
	}
	return b.String()
}
