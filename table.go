package srri

import (
	"regexp"
	"strings"
)

// The monitoring spreadsheet opens with two header rows: a week row holding
// labels like "Week 12" above the report-date columns, and a label row
// holding the column names proper, where every week repeats the same
// "SRRI Report" / "SRRI Result" pair. The parser works in two passes:
// pass 1 locates the header rows and builds a fixed canonical-name to
// column-index map, pass 2 reads data rows against that map. No per-row
// dynamic lookup happens after pass 1.

// Table is the canonical view over a raw two-dimensional table.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

var weekLabelRegex = regexp.MustCompile(`(?i)week\s*(\d+)`)

// canonicalName uppercases a header label and collapses every run of
// non-alphanumeric characters to a single underscore.
func canonicalName(label string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToUpper(strings.TrimSpace(label)) {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeHeader parses a raw table into its canonical form. It scans the
// leading rows for the label row (the one naming both "Share Class" and
// "Currency"); the row above it, when present, is the week row. Repeated
// "SRRI Result" labels are disambiguated with the week label of the nearest
// preceding "SRRI Report" column. A table with no recognizable label row
// yields a StructuralError.
func NormalizeHeader(raw [][]string) (*Table, error) {
	labelAt := -1
	const scanDepth = 5 // headers live in the first few rows or not at all
	for i := 0; i < len(raw) && i < scanDepth; i++ {
		hasShareClass, hasCurrency := false, false
		for _, cell := range raw[i] {
			switch canonicalName(cell) {
			case "SHARE_CLASS":
				hasShareClass = true
			case "CURRENCY":
				hasCurrency = true
			}
		}
		if hasShareClass && hasCurrency {
			labelAt = i
			break
		}
	}
	if labelAt < 0 {
		return nil, &StructuralError{Reason: "no header row names both Share Class and Currency"}
	}

	var weekRow []string
	if labelAt > 0 {
		weekRow = raw[labelAt-1]
	}
	labelRow := raw[labelAt]

	columns := make([]string, len(labelRow))
	index := make(map[string]int, len(labelRow))
	lastWeek := ""
	for j, label := range labelRow {
		week := ""
		if j < len(weekRow) {
			if m := weekLabelRegex.FindStringSubmatch(weekRow[j]); m != nil {
				week = "WEEK_" + m[1]
			}
		}
		name := canonicalName(label)
		switch {
		case name == "SRRI_REPORT" && week != "":
			lastWeek = week
			name = "SRRI_REPORT_" + week
		case name == "SRRI_RESULT" && lastWeek != "":
			name = "SRRI_RESULT_" + lastWeek
		case week != "":
			name = name + "_" + week
		}
		columns[j] = name
		// first occurrence wins so data reads stay deterministic
		if _, taken := index[name]; !taken && name != "" {
			index[name] = j
		}
	}

	return &Table{columns: columns, index: index, rows: raw[labelAt+1:]}, nil
}

// Columns returns the canonical column names in table order.
func (t *Table) Columns() []string { return t.columns }

// Rows returns the data rows, header rows excluded.
func (t *Table) Rows() [][]string { return t.rows }

// Has reports whether a canonical column exists.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Cell returns the raw cell of a data row under a canonical column name, or
// the empty string when the column is unknown or the row too short.
func (t *Table) Cell(row []string, column string) string {
	j, ok := t.index[column]
	if !ok || j >= len(row) {
		return ""
	}
	return row[j]
}

// ColumnsMatching returns, in table order, the canonical column names with
// the given prefix. Used to enumerate the week-indexed score columns.
func (t *Table) ColumnsMatching(prefix string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range t.columns {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	return out
}
