package srri

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/srri/date"
)

// This file writes and reads the three record sets as CSV. The column
// orders are fixed so two runs over the same inputs produce byte-identical
// files.

var monitoringColumns = []string{
	"IDENTIFIER",
	"FUND",
	"SUB_FUND",
	"SHARE_CLASS",
	"CURRENCY",
	"LAST_VALIDATED_DOCUMENT",
	"PREVIOUS_SRRI",
	"LATEST_SRRI",
	"WEEK_OF_CHANGE",
	"CHANGE_DATE",
	"LAST_16_WEEKS_STABLE",
	"ANY_16_WEEKS_STABLE",
}

var permalinkColumns = []string{
	"IDENTIFIER",
	"FUND_NAME",
	"SHARE_CLASS",
	"ISIN",
	"KIID_PDF_URL",
	"FACT_SHEET_URL",
	"KIID_SRRI",
	"MANAGEMENT_FEE",
	"SHARE_CLASS_INCEPTION_DATE",
	"KIID_ISIN",
	"FACTSHEET_ISIN",
	"KIID_ISIN_MISMATCH",
	"FACTSHEET_ISIN_MISMATCH",
}

// formatScore renders a 1..7 score, empty when absent.
func formatScore(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// EncodeMonitoring writes the canonical monitoring records as CSV, dates
// rendered in the selected format.
func EncodeMonitoring(w io.Writer, records []MonitoringRecord, f date.Format) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(monitoringColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			string(r.Identifier),
			r.Fund,
			r.SubFund,
			r.ShareClass,
			r.Currency,
			r.LastValidated.Format(f),
			formatScore(r.Stability.Previous),
			formatScore(r.Stability.Latest),
			r.Stability.ChangeWeek,
			r.Stability.ChangeDate.Format(f),
			strconv.FormatBool(r.Stability.Last16Stable),
			strconv.FormatBool(r.Stability.Any16Stable),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodePermalink writes the canonical permalink records as CSV.
func EncodePermalink(w io.Writer, records []PermalinkRecord, f date.Format) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(permalinkColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			string(r.Identifier),
			r.FundName,
			r.ShareClass,
			r.ISIN,
			r.KIIDURL,
			r.FactSheetURL,
			formatScore(r.KIIDSRRI),
			r.ManagementFee.String(),
			r.InceptionDate.Format(f),
			r.KIIDISIN,
			r.FactsheetISIN,
			strconv.FormatBool(r.KIIDISINMismatch),
			strconv.FormatBool(r.FactsheetISINMismatch),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// mismatchColumn binds one report column to its value. Optional columns
// are dropped from the file entirely when no record carries a value,
// rather than writing an empty column.
type mismatchColumn struct {
	name     string
	optional bool
	value    func(MismatchRecord) string
}

func mismatchColumns(f date.Format) []mismatchColumn {
	return []mismatchColumn{
		{"FUND_NAME", false, func(r MismatchRecord) string { return r.FundName }},
		{"SHARE_CLASS", false, func(r MismatchRecord) string { return r.ShareClass }},
		{"ISIN", false, func(r MismatchRecord) string { return r.ISIN }},
		{"KIID_PDF_URL", false, func(r MismatchRecord) string { return r.KIIDURL }},
		{"FACT_SHEET_URL", true, func(r MismatchRecord) string { return r.FactSheetURL }},
		{"IDENTIFIER", false, func(r MismatchRecord) string { return string(r.Identifier) }},
		{"KIID_SRRI", false, func(r MismatchRecord) string { return formatScore(r.KIIDSRRI) }},
		{"LATEST_SRRI", false, func(r MismatchRecord) string { return formatScore(r.LatestSRRI) }},
		{"WEEK_OF_CHANGE", true, func(r MismatchRecord) string { return r.WeekOfChange }},
		{"MANAGEMENT_FEE", true, func(r MismatchRecord) string { return r.ManagementFee.String() }},
		{"SHARE_CLASS_INCEPTION_DATE", true, func(r MismatchRecord) string { return r.InceptionDate.Format(f) }},
	}
}

// EncodeMismatches writes the mismatch report as CSV in the preferred
// column order.
func EncodeMismatches(w io.Writer, records []MismatchRecord, f date.Format) error {
	var columns []mismatchColumn
	for _, c := range mismatchColumns(f) {
		if c.optional {
			present := false
			for _, r := range records {
				if c.value(r) != "" {
					present = true
					break
				}
			}
			if !present {
				continue
			}
		}
		columns = append(columns, c)
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, r := range records {
		for i, c := range columns {
			row[i] = c.value(r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvTable reads a whole CSV file and indexes its header.
type csvTable struct {
	index map[string]int
	rows  [][]string
}

func readCSV(r io.Reader) (*csvTable, error) {
	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(all) == 0 {
		return nil, &StructuralError{Reason: "empty file"}
	}
	index := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		index[name] = i
	}
	return &csvTable{index: index, rows: all[1:]}, nil
}

func (t *csvTable) require(columns ...string) error {
	for _, name := range columns {
		if _, ok := t.index[name]; !ok {
			return &MissingFieldError{Field: name}
		}
	}
	return nil
}

// cell returns the named cell of a row, empty when the column is absent.
func (t *csvTable) cell(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// DecodeMonitoring reads canonical monitoring records back from CSV, for
// reconciling previously exported runs. A file without the identifier or
// score column is rejected outright.
func DecodeMonitoring(r io.Reader) ([]MonitoringRecord, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	if err := t.require("IDENTIFIER", "LATEST_SRRI"); err != nil {
		return nil, err
	}

	records := make([]MonitoringRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := MonitoringRecord{
			Identifier: Identifier(t.cell(row, "IDENTIFIER")),
			Fund:       t.cell(row, "FUND"),
			SubFund:    t.cell(row, "SUB_FUND"),
			ShareClass: t.cell(row, "SHARE_CLASS"),
			Currency:   t.cell(row, "CURRENCY"),
		}
		rec.Stability.Previous, _ = coerceInt(t.cell(row, "PREVIOUS_SRRI"))
		rec.Stability.Latest, _ = coerceInt(t.cell(row, "LATEST_SRRI"))
		rec.Stability.ChangeWeek = t.cell(row, "WEEK_OF_CHANGE")
		rec.Stability.Last16Stable, _ = coerceBool(t.cell(row, "LAST_16_WEEKS_STABLE"))
		rec.Stability.Any16Stable, _ = coerceBool(t.cell(row, "ANY_16_WEEKS_STABLE"))
		if d, err := date.Parse(cleanCell(t.cell(row, "LAST_VALIDATED_DOCUMENT"))); err == nil {
			rec.LastValidated = d
		}
		if d, err := date.Parse(cleanCell(t.cell(row, "CHANGE_DATE"))); err == nil {
			rec.Stability.ChangeDate = d
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodePermalink reads canonical permalink records back from CSV.
func DecodePermalink(r io.Reader) ([]PermalinkRecord, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	if err := t.require("IDENTIFIER"); err != nil {
		return nil, err
	}

	records := make([]PermalinkRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := PermalinkRecord{
			Identifier:    Identifier(t.cell(row, "IDENTIFIER")),
			FundName:      t.cell(row, "FUND_NAME"),
			ShareClass:    t.cell(row, "SHARE_CLASS"),
			ISIN:          t.cell(row, "ISIN"),
			KIIDURL:       t.cell(row, "KIID_PDF_URL"),
			FactSheetURL:  t.cell(row, "FACT_SHEET_URL"),
			KIIDISIN:      t.cell(row, "KIID_ISIN"),
			FactsheetISIN: t.cell(row, "FACTSHEET_ISIN"),
		}
		rec.KIIDSRRI, _ = coerceInt(t.cell(row, "KIID_SRRI"))
		if fee, ok := ParseFee(trimPercent(t.cell(row, "MANAGEMENT_FEE"))); ok {
			rec.ManagementFee = fee
		}
		if d, err := date.Parse(cleanCell(t.cell(row, "SHARE_CLASS_INCEPTION_DATE"))); err == nil {
			rec.InceptionDate = d
		}
		rec.KIIDISINMismatch, _ = coerceBool(t.cell(row, "KIID_ISIN_MISMATCH"))
		rec.FactsheetISINMismatch, _ = coerceBool(t.cell(row, "FACTSHEET_ISIN_MISMATCH"))
		records = append(records, rec)
	}
	return records, nil
}

func trimPercent(s string) string {
	if n := len(s); n > 0 && s[n-1] == '%' {
		return s[:n-1]
	}
	return s
}
