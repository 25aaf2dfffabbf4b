package srri

import (
	"fmt"
	"testing"

	"github.com/etnz/srri/date"
)

// monitoringTable builds a raw monitoring table with 17 week columns. Each
// data row is (fund, shareClass, currency, lastValidated, scores...), with
// score 0 leaving the cell empty.
func monitoringTable(rows ...[]string) [][]string {
	const weeks = 17
	weekRow := []string{"", "", "", ""}
	labelRow := []string{"Fund", "Share Class", "Currency", "last validated document date"}
	for w := 1; w <= weeks; w++ {
		weekRow = append(weekRow, fmt.Sprintf("Week %d", w), "")
		labelRow = append(labelRow, "SRRI Report", "SRRI Result")
	}
	return append([][]string{weekRow, labelRow}, rows...)
}

// monitoringRow lays out one data row; scores[i]==0 leaves the cell empty.
func monitoringRow(fund, shareClass, currency, lastValidated string, scores []int) []string {
	row := []string{fund, shareClass, currency, lastValidated}
	for w, v := range scores {
		row = append(row, fmt.Sprintf("%d/03/2021", w+1)) // report date, day-first
		if v == 0 {
			row = append(row, "")
		} else {
			row = append(row, fmt.Sprintf("%d", v))
		}
	}
	return row
}

func TestProcessMonitoring(t *testing.T) {
	stable := repeat(4, 17)
	changed := append(repeat(3, 16), 4)
	short := append(repeat(5, 10), repeat(0, 7)...)

	raw := monitoringTable(
		monitoringRow("F1", "First Trust Global Equity Class A USD", "USD", "01/06/2021", stable),
		monitoringRow("F1", "First Trust Global Bond Class B EUR", "EUR", "01/06/2021", changed),
		monitoringRow("F1", "First Trust Short History Class C GBP", "GBP", "01/06/2021", short),
	)

	records, diags, err := ProcessMonitoring(raw)
	if err != nil {
		t.Fatalf("ProcessMonitoring: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (short-history row excluded)", len(records))
	}
	if diags.Processed != 3 || diags.Excluded != 1 {
		t.Errorf("diagnostics = %d processed, %d excluded, want 3, 1", diags.Processed, diags.Excluded)
	}

	// Sorted by identifier: globalbond before globalequity.
	bond, equity := records[0], records[1]
	if bond.Identifier != "firsttrustglobalbondbeur" {
		t.Fatalf("records[0].Identifier = %q", bond.Identifier)
	}
	if equity.Identifier != "firsttrustglobalequityausd" {
		t.Fatalf("records[1].Identifier = %q", equity.Identifier)
	}

	if !equity.Stability.Last16Stable || !equity.Stability.Any16Stable {
		t.Error("unchanged series should be stable on both flags")
	}
	if equity.Stability.Latest != 4 {
		t.Errorf("equity Latest = %d, want 4", equity.Stability.Latest)
	}

	if bond.Stability.Last16Stable {
		t.Error("changed series cannot be last-16 stable")
	}
	if !bond.Stability.Any16Stable {
		t.Error("changed series still holds a historical 16-week run")
	}
	if bond.Stability.Latest != 4 || bond.Stability.Previous != 3 {
		t.Errorf("bond Latest, Previous = %d, %d, want 4, 3", bond.Stability.Latest, bond.Stability.Previous)
	}
	if bond.Stability.ChangeWeek != "Week 17" {
		t.Errorf("bond ChangeWeek = %q, want %q", bond.Stability.ChangeWeek, "Week 17")
	}
	if want := date.MustParse("17/03/2021"); bond.Stability.ChangeDate != want {
		t.Errorf("bond ChangeDate = %v, want %v", bond.Stability.ChangeDate, want)
	}

	if equity.LastValidated != date.MustParse("01/06/2021") {
		t.Errorf("LastValidated = %v", equity.LastValidated)
	}
}

func TestProcessMonitoring_Dedup(t *testing.T) {
	stable := repeat(4, 17)
	newer := repeat(5, 17)

	raw := monitoringTable(
		monitoringRow("F1", "First Trust Global Equity Class A USD", "USD", "01/06/2021", stable),
		monitoringRow("F1", "First Trust Global Equity Class A USD", "USD", "08/06/2021", newer),
	)

	records, diags, err := ProcessMonitoring(raw)
	if err != nil {
		t.Fatalf("ProcessMonitoring: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 after dedup", len(records))
	}
	if records[0].Stability.Latest != 5 {
		t.Errorf("kept Latest = %d, want the more recently validated row's 5", records[0].Stability.Latest)
	}

	var dup int
	for _, issue := range diags.Issues {
		if issue.Reason == DuplicateIdentifier {
			dup++
		}
	}
	if dup != 1 {
		t.Errorf("got %d duplicate-identifier diagnostics, want 1", dup)
	}
}

func TestProcessMonitoring_MissingIdentifierInputs(t *testing.T) {
	raw := monitoringTable(
		monitoringRow("F1", "", "USD", "01/06/2021", repeat(4, 17)),
	)
	records, diags, err := ProcessMonitoring(raw)
	if err != nil {
		t.Fatalf("ProcessMonitoring: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
	if diags.Excluded != 1 || diags.Issues[0].Reason != MissingField {
		t.Errorf("diagnostics = %+v, want one missing-field exclusion", diags.Issues)
	}
}

func TestProcessMonitoring_NoHeader(t *testing.T) {
	if _, _, err := ProcessMonitoring([][]string{{"a", "b"}, {"c", "d"}}); err == nil {
		t.Fatal("headerless table accepted")
	}
}
