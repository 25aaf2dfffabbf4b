package srri

import "testing"

func TestCoerceInt(t *testing.T) {
	testCases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{" 4 ", 4, true},
		{"4.0", 4, true},
		{"4,0", 4, true},
		{"4.5", 0, false},
		{"", 0, false},
		{"nan", 0, false},
		{"N/A", 0, false},
		{"four", 0, false},
	}
	for _, tc := range testCases {
		got, ok := coerceInt(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("coerceInt(%q) = %d, %v, want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.65", 0.65, true},
		{"0,65", 0.65, true},
		{"1", 1, true},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range testCases {
		got, ok := coerceFloat(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("coerceFloat(%q) = %v, %v, want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDedupBy(t *testing.T) {
	type row struct {
		id   Identifier
		rank int
	}
	rows := []row{
		{"a", 1},
		{"b", 1},
		{"a", 2}, // supersedes a/1
		{"a", 2}, // ties with the kept a/2, earlier wins
	}
	var diags Diagnostics
	got := dedupBy(rows,
		func(r row) Identifier { return r.id },
		func(challenger, kept row) bool { return challenger.rank > kept.rank },
		&diags)

	if len(got) != 2 {
		t.Fatalf("dedupBy kept %d rows, want 2", len(got))
	}
	if got[0].id != "a" || got[0].rank != 2 {
		t.Errorf("kept %+v, want the most recent a row", got[0])
	}
	if got[1].id != "b" {
		t.Errorf("kept %+v, want b", got[1])
	}
	if len(diags.Issues) != 2 {
		t.Errorf("got %d duplicate warnings, want 2", len(diags.Issues))
	}
}
