// Package renderer formats the reconciliation results as markdown, for the
// terminal or for pasting into the weekly review.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/srri"
)

// MismatchMarkdown generates a markdown report from the mismatch set and
// the diagnostics of the runs that produced it.
func MismatchMarkdown(records []srri.MismatchRecord, diags ...*srri.Diagnostics) string {
	r := &reportRenderer{Builder: &strings.Builder{}}

	r.Printf("# SRRI Reconciliation\n\n")
	if len(records) == 0 {
		r.Printf("All published risk scores agree with the monitored history.\n")
	} else {
		r.Printf("%d share classes publish a risk score that disagrees with the monitored history.\n\n", len(records))
		r.renderMismatches(records)
	}

	for _, d := range diags {
		if d == nil || (d.Excluded == 0 && len(d.Issues) == 0) {
			continue
		}
		r.renderDiagnostics(d)
	}
	return r.String()
}

// reportRenderer formats the output of the report generator into a markdown string.
type reportRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *reportRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func (r *reportRenderer) renderMismatches(records []srri.MismatchRecord) {
	r.Printf("## Mismatches\n\n")
	r.Printf("| Fund | Share Class | ISIN | Published | Observed | Week of Change | Documents |\n")
	r.Printf("|:---|:---|:---|---:|---:|:---|:---|\n")
	for _, rec := range records {
		r.Printf("| %s | %s | %s | %s | %d | %s | %s |\n",
			rec.FundName, rec.ShareClass, rec.ISIN,
			score(rec.KIIDSRRI), rec.LatestSRRI, rec.WeekOfChange, links(rec))
	}
	r.Printf("\n")
}

func (r *reportRenderer) renderDiagnostics(d *srri.Diagnostics) {
	r.Printf("## Diagnostics\n\n")
	r.Printf("%d rows processed, %d excluded.\n\n", d.Processed, d.Excluded)
	for _, issue := range d.Issues {
		r.Printf("- %s\n", issue)
	}
	r.Printf("\n")
}

// score renders a published score, "none" when the document yielded no
// value (that absence is exactly what the row reports).
func score(v int) string {
	if v == 0 {
		return "none"
	}
	return fmt.Sprintf("%d", v)
}

func links(rec srri.MismatchRecord) string {
	var parts []string
	if rec.KIIDURL != "" {
		parts = append(parts, fmt.Sprintf("[KIID](%s)", rec.KIIDURL))
	}
	if rec.FactSheetURL != "" {
		parts = append(parts, fmt.Sprintf("[Fact Sheet](%s)", rec.FactSheetURL))
	}
	return strings.Join(parts, " ")
}
