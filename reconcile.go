package srri

import (
	"slices"
	"strings"

	"github.com/etnz/srri/date"
)

// MismatchRecord is one share class whose published risk score disagrees
// with the score observed in the monitoring history.
type MismatchRecord struct {
	FundName     string
	ShareClass   string
	ISIN         string
	KIIDURL      string
	FactSheetURL string
	Identifier   Identifier
	KIIDSRRI     int // 0 when the document yielded no score
	LatestSRRI   int
	WeekOfChange string

	ManagementFee Fee
	InceptionDate date.Date
}

// Reconcile joins the two canonical record sets on identifier and reports
// the share classes whose scores disagree.
//
// Only monitoring records with a stable 16-week run qualify: an unstable
// history means the published document may legitimately lag behind. Within
// a joined pair, an absent document score counts as a disagreement, since
// the monitoring side always carries one. The result is sorted by
// identifier and is identical across runs for the same inputs.
//
// A record missing its identifier or its score is excluded and reported in
// the Diagnostics; the remaining records are still reconciled. Missing
// columns, the fatal case, are caught before records exist, when the sets
// are built or decoded.
func Reconcile(monitoring []MonitoringRecord, permalink []PermalinkRecord) ([]MismatchRecord, *Diagnostics) {
	diags := &Diagnostics{}

	published := make(map[Identifier]PermalinkRecord, len(permalink))
	for i, p := range permalink {
		if p.Identifier == "" {
			diags.Exclude(i, "", MissingField, "permalink record %q has no identifier", p.ShareClass)
			continue
		}
		published[p.Identifier] = p
	}

	var mismatches []MismatchRecord
	for i, m := range monitoring {
		diags.Processed++
		if m.Identifier == "" {
			diags.Exclude(i, "", MissingField, "monitoring record %q has no identifier", m.ShareClass)
			continue
		}
		if m.Stability.Latest < 1 || m.Stability.Latest > 7 {
			diags.Exclude(i, m.Identifier, MissingField, "no latest score")
			continue
		}
		if !m.Stability.Any16Stable {
			continue
		}
		p, ok := published[m.Identifier]
		if !ok {
			continue
		}
		if p.KIIDSRRI == m.Stability.Latest {
			continue
		}
		mismatches = append(mismatches, MismatchRecord{
			FundName:      p.FundName,
			ShareClass:    p.ShareClass,
			ISIN:          p.ISIN,
			KIIDURL:       p.KIIDURL,
			FactSheetURL:  p.FactSheetURL,
			Identifier:    m.Identifier,
			KIIDSRRI:      p.KIIDSRRI,
			LatestSRRI:    m.Stability.Latest,
			WeekOfChange:  m.Stability.ChangeWeek,
			ManagementFee: p.ManagementFee,
			InceptionDate: p.InceptionDate,
		})
	}

	slices.SortStableFunc(mismatches, func(a, b MismatchRecord) int {
		return strings.Compare(string(a.Identifier), string(b.Identifier))
	})
	return mismatches, diags
}
