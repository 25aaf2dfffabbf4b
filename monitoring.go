package srri

import (
	"slices"
	"strings"

	"github.com/etnz/srri/date"
)

// Canonical column names of the monitoring table.
const (
	colFund          = "FUND"
	colSubFund       = "SUB_FUND"
	colShareClass    = "SHARE_CLASS"
	colCurrency      = "CURRENCY"
	colLastValidated = "LAST_VALIDATED_DOCUMENT_DATE"

	resultPrefix = "SRRI_RESULT_WEEK_"
	reportPrefix = "SRRI_REPORT_WEEK_"
)

// MonitoringRecord is the canonical per-share-class view of the internal
// SRRI monitoring table. Constructed once per normalization pass,
// immutable afterward; a newer source row for the same identifier
// supersedes the older one during deduplication.
type MonitoringRecord struct {
	Identifier    Identifier
	Fund          string
	SubFund       string
	ShareClass    string
	Currency      string
	LastValidated date.Date
	Series        []Observation
	Stability     Stability
}

// ProcessMonitoring normalizes a raw monitoring table into canonical
// records. The returned Diagnostics lists every excluded row and every
// duplicate identifier observed before deduplication. A table whose shape
// cannot be parsed, or one lacking the share-class or currency column,
// fails as a whole.
func ProcessMonitoring(raw [][]string) ([]MonitoringRecord, *Diagnostics, error) {
	diags := &Diagnostics{}

	table, err := NormalizeHeader(raw)
	if err != nil {
		return nil, diags, err
	}
	for _, required := range []string{colShareClass, colCurrency} {
		if !table.Has(required) {
			return nil, diags, &MissingFieldError{Field: required}
		}
	}
	scoreColumns := table.ColumnsMatching(resultPrefix)
	if len(scoreColumns) == 0 {
		return nil, diags, &StructuralError{Reason: "no week-indexed SRRI result columns found"}
	}

	var records []MonitoringRecord
	for i, row := range table.Rows() {
		diags.Processed++

		series := make([]Observation, 0, len(scoreColumns))
		for _, col := range scoreColumns {
			obs := Observation{Week: weekDisplay(col)}
			// Out-of-range values are treated as absent: the scale stops at 7.
			if v, ok := coerceInt(table.Cell(row, col)); ok && v >= 1 && v <= 7 {
				obs.SRRI = v
			}
			report := reportPrefix + strings.TrimPrefix(col, resultPrefix)
			if d, err := date.Parse(cleanCell(table.Cell(row, report))); err == nil {
				obs.Date = d
			}
			series = append(series, obs)
		}

		stability, err := Analyze(series)
		if err != nil {
			diags.Exclude(i, "", InsufficientHistory, "only %d of %d scores present", stability.Count, stabilityWindow)
			continue
		}

		id, err := NewIdentifier(table.Cell(row, colShareClass), table.Cell(row, colCurrency))
		if err != nil {
			diags.Exclude(i, "", MissingField, "%v", err)
			continue
		}

		rec := MonitoringRecord{
			Identifier: id,
			Fund:       cleanCell(table.Cell(row, colFund)),
			SubFund:    cleanCell(table.Cell(row, colSubFund)),
			ShareClass: cleanCell(table.Cell(row, colShareClass)),
			Currency:   strings.ToUpper(cleanCell(table.Cell(row, colCurrency))),
			Series:     series,
			Stability:  stability,
		}
		if d, err := date.Parse(cleanCell(table.Cell(row, colLastValidated))); err == nil {
			rec.LastValidated = d
		}
		records = append(records, rec)
	}

	// One record per identifier: the most recently validated row wins, a
	// tie keeps the earlier row.
	records = dedupBy(records,
		func(r MonitoringRecord) Identifier { return r.Identifier },
		func(challenger, kept MonitoringRecord) bool { return challenger.LastValidated.After(kept.LastValidated) },
		diags)

	slices.SortStableFunc(records, func(a, b MonitoringRecord) int {
		return strings.Compare(string(a.Identifier), string(b.Identifier))
	})
	return records, diags, nil
}

// weekDisplay turns a canonical score column name back into its display
// label: "SRRI_RESULT_WEEK_12" reads "Week 12".
func weekDisplay(column string) string {
	n := column[strings.LastIndex(column, "_")+1:]
	return "Week " + n
}
