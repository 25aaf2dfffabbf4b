package srri

import (
	"strings"
	"testing"
)

func monitored(id Identifier, latest int, stable bool) MonitoringRecord {
	return MonitoringRecord{
		Identifier: id,
		ShareClass: "Class A",
		Stability:  Stability{Latest: latest, Any16Stable: stable, Last16Stable: stable, Count: 16},
	}
}

func published(id Identifier, srri int) PermalinkRecord {
	return PermalinkRecord{
		Identifier: id,
		FundName:   "First Trust Global Equity Fund",
		ShareClass: "Class A",
		ISIN:       "IE00B8KMSQ34",
		KIIDURL:    "https://docs.example.com/KIID.pdf",
		KIIDSRRI:   srri,
	}
}

func TestReconcile(t *testing.T) {
	testCases := []struct {
		name       string
		monitoring []MonitoringRecord
		permalink  []PermalinkRecord
		want       int
	}{
		{
			name:       "differing scores",
			monitoring: []MonitoringRecord{monitored("x", 4, true)},
			permalink:  []PermalinkRecord{published("x", 5)},
			want:       1,
		},
		{
			name:       "equal scores",
			monitoring: []MonitoringRecord{monitored("x", 4, true)},
			permalink:  []PermalinkRecord{published("x", 4)},
			want:       0,
		},
		{
			name:       "unstable history is skipped even when scores differ",
			monitoring: []MonitoringRecord{monitored("x", 4, false)},
			permalink:  []PermalinkRecord{published("x", 5)},
			want:       0,
		},
		{
			name:       "no published counterpart",
			monitoring: []MonitoringRecord{monitored("x", 4, true)},
			permalink:  []PermalinkRecord{published("y", 4)},
			want:       0,
		},
		{
			name:       "absent document score differs from any observed score",
			monitoring: []MonitoringRecord{monitored("x", 4, true)},
			permalink:  []PermalinkRecord{published("x", 0)},
			want:       1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := Reconcile(tc.monitoring, tc.permalink)
			if len(got) != tc.want {
				t.Fatalf("got %d mismatches, want %d", len(got), tc.want)
			}
		})
	}
}

func TestReconcile_RecordContent(t *testing.T) {
	monitoring := []MonitoringRecord{
		{
			Identifier: "x",
			Stability:  Stability{Latest: 4, Previous: 3, ChangeWeek: "Week 12", Any16Stable: true, Count: 20},
		},
	}
	p := published("x", 5)
	p.ManagementFee = FeePercent(0.65)

	got, _ := Reconcile(monitoring, []PermalinkRecord{p})
	if len(got) != 1 {
		t.Fatalf("got %d mismatches, want 1", len(got))
	}
	rec := got[0]
	if rec.FundName != p.FundName || rec.ISIN != p.ISIN || rec.KIIDURL != p.KIIDURL {
		t.Errorf("document fields not carried over: %+v", rec)
	}
	if rec.KIIDSRRI != 5 || rec.LatestSRRI != 4 {
		t.Errorf("scores = %d/%d, want 5/4", rec.KIIDSRRI, rec.LatestSRRI)
	}
	if rec.WeekOfChange != "Week 12" {
		t.Errorf("WeekOfChange = %q, want Week 12", rec.WeekOfChange)
	}
	if !rec.ManagementFee.Equal(FeePercent(0.65)) {
		t.Errorf("ManagementFee = %s", rec.ManagementFee)
	}
}

func TestReconcile_SortedByIdentifier(t *testing.T) {
	monitoring := []MonitoringRecord{
		monitored("zzz", 4, true),
		monitored("aaa", 2, true),
	}
	permalink := []PermalinkRecord{
		published("zzz", 5),
		published("aaa", 3),
	}
	got, _ := Reconcile(monitoring, permalink)
	if len(got) != 2 || got[0].Identifier != "aaa" || got[1].Identifier != "zzz" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestReconcile_RowGapsAreExcludedNotFatal(t *testing.T) {
	// A record with a missing identifier or score is a row-level gap: it is
	// dropped with a diagnostic while every other pair still reconciles.
	monitoring := []MonitoringRecord{
		monitored("firsttrusta", 4, true),
		{ShareClass: "Class B", Stability: Stability{Latest: 4, Any16Stable: true}},
		{Identifier: "firsttrustb", Stability: Stability{Any16Stable: true}},
	}
	permalink := []PermalinkRecord{
		published("firsttrusta", 5),
		published("firsttrustb", 5),
		{ShareClass: "Class C", KIIDSRRI: 5},
	}

	got, diags := Reconcile(monitoring, permalink)
	if len(got) != 1 || got[0].Identifier != "firsttrusta" {
		t.Fatalf("got %+v, want the single firsttrusta mismatch", got)
	}
	if diags.Excluded != 3 {
		t.Errorf("Excluded = %d, want 3 (two monitoring gaps, one permalink gap)", diags.Excluded)
	}
	for _, issue := range diags.Issues {
		if issue.Reason != MissingField {
			t.Errorf("issue reason = %q, want %q", issue.Reason, MissingField)
		}
	}
}

func TestReconcile_DecodedRowWithEmptyScore(t *testing.T) {
	// An empty score cell under a present LATEST_SRRI column must cost only
	// its own row, never the run.
	in := "IDENTIFIER,LATEST_SRRI,ANY_16_WEEKS_STABLE\n" +
		"firsttrusta,4,true\n" +
		"firsttrustb,,true\n"
	monitoring, err := DecodeMonitoring(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeMonitoring: %v", err)
	}

	got, diags := Reconcile(monitoring, []PermalinkRecord{
		published("firsttrusta", 5),
		published("firsttrustb", 5),
	})
	if len(got) != 1 || got[0].Identifier != "firsttrusta" {
		t.Fatalf("got %+v, want the firsttrusta mismatch kept", got)
	}
	if diags.Excluded != 1 {
		t.Errorf("Excluded = %d, want 1 for the scoreless row", diags.Excluded)
	}
}
