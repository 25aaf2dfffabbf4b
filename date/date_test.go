package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name  string
		in    string
		want  Date
		valid bool
	}{
		{"iso", "2021-03-15", New(2021, time.March, 15), true},
		{"iso single digits", "2021-3-5", New(2021, time.March, 5), true},
		{"dotted day first", "15.03.2021", New(2021, time.March, 15), true},
		{"slashed day first", "15/03/2021", New(2021, time.March, 15), true},
		{"dashed day first", "15-03-2021", New(2021, time.March, 15), true},
		{"ambiguous resolves day first", "01/02/2021", New(2021, time.February, 1), true},
		{"long month name", "3 September 2019", New(2019, time.September, 3), true},
		{"short month name", "3 Sep 2019", New(2019, time.September, 3), true},
		{"two digit year", "15/03/21", New(2021, time.March, 15), true},
		{"before the fund era", "15/03/1929", Date{}, false},
		{"in the future", "15/03/2999", Date{}, false},
		{"not a date", "Week 12", Date{}, false},
		{"empty", "", Date{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.valid && err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	d := New(2021, time.March, 15)
	if got := d.Format(ISO); got != "2021-03-15" {
		t.Errorf("Format(ISO) = %q, want %q", got, "2021-03-15")
	}
	if got := d.Format(YearDayMonth); got != "2021-15-03" {
		t.Errorf("Format(YearDayMonth) = %q, want %q", got, "2021-15-03")
	}
	var zero Date
	if got := zero.Format(ISO); got != "" {
		t.Errorf("zero date Format(ISO) = %q, want empty", got)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("yyyy-mm-dd"); err != nil || f != ISO {
		t.Errorf("ParseFormat(yyyy-mm-dd) = %v, %v", f, err)
	}
	if f, err := ParseFormat("yyyy-dd-mm"); err != nil || f != YearDayMonth {
		t.Errorf("ParseFormat(yyyy-dd-mm) = %v, %v", f, err)
	}
	if _, err := ParseFormat("mm/dd/yyyy"); err == nil {
		t.Error("ParseFormat accepted an unknown format name")
	}
}
