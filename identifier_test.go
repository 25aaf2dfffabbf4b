package srri

import (
	"errors"
	"testing"
)

func TestNewIdentifier(t *testing.T) {
	testCases := []struct {
		name       string
		shareClass string
		currency   string
		want       Identifier
	}{
		{
			name:       "full promoter name",
			shareClass: "First Trust Low Duration Global Government Bond UCITS ETF Class A USD Acc",
			currency:   "USD",
			want:       "firsttrustlowdurationglobalgovernmentbondaaccusd",
		},
		{
			name:       "promoter name absent gets prefixed",
			shareClass: "Low Duration Global Government Bond UCITS ETF Class A USD Acc",
			currency:   "USD",
			want:       "firsttrustlowdurationglobalgovernmentbondaaccusd",
		},
		{
			name:       "trademark glyph stripped",
			shareClass: "First Trust AlphaDEX® US Equity Class B EUR",
			currency:   "EUR",
			want:       "firsttrustalphadexusequitybeur",
		},
		{
			name:       "accu folded to acc",
			shareClass: "First Trust Global Equity Class A GBP Accu",
			currency:   "GBP",
			want:       "firsttrustglobalequityaaccgbp",
		},
		{
			name:       "hedged marker becomes suffix",
			shareClass: "First Trust Global Bond Class A EUR (Hedged) Acc",
			currency:   "EUR",
			want:       "firsttrustglobalbondahedgedacceureurhedged",
		},
		{
			name:       "ucts misspelling stripped",
			shareClass: "First Trust Capital Strength UCTS ETF Class A USD",
			currency:   "USD",
			want:       "firsttrustcapitalstrengthausd",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewIdentifier(tc.shareClass, tc.currency)
			if err != nil {
				t.Fatalf("NewIdentifier(%q, %q) unexpected error: %v", tc.shareClass, tc.currency, err)
			}
			if got != tc.want {
				t.Errorf("NewIdentifier(%q, %q) = %q, want %q", tc.shareClass, tc.currency, got, tc.want)
			}
		})
	}
}

func TestNewIdentifier_Deterministic(t *testing.T) {
	// Records that describe the same legal share class must agree on the key
	// whatever the source's formatting quirks.
	pairs := [][2]string{
		{"First Trust Global Equity UCITS ETF Class A USD Acc", "Global Equity Class A USD Acc"},
		{"First Trust Global Equity Class A Acc USD", "First Trust Global Equity USD Class A Acc"},
	}
	for _, p := range pairs {
		a, err := NewIdentifier(p[0], "USD")
		if err != nil {
			t.Fatalf("NewIdentifier(%q): %v", p[0], err)
		}
		b, err := NewIdentifier(p[1], "USD")
		if err != nil {
			t.Fatalf("NewIdentifier(%q): %v", p[1], err)
		}
		if a != b {
			t.Errorf("equivalent inputs diverge: %q vs %q", a, b)
		}
	}

	// Reasonably distinct names must not collide.
	a, _ := NewIdentifier("First Trust Global Equity Class A USD", "USD")
	b, _ := NewIdentifier("First Trust Global Equity Class B USD", "USD")
	if a == b {
		t.Errorf("distinct share classes collide on %q", a)
	}
	c, _ := NewIdentifier("First Trust Global Equity Class A USD", "USD")
	d, _ := NewIdentifier("First Trust Global Equity Class A EUR", "EUR")
	if c == d {
		t.Errorf("distinct currencies collide on %q", c)
	}
}

func TestNewIdentifier_MissingFields(t *testing.T) {
	var mf *MissingFieldError

	_, err := NewIdentifier("", "USD")
	if !errors.As(err, &mf) || mf.Field != "Share Class" {
		t.Errorf("missing name: got %v, want MissingFieldError{Share Class}", err)
	}
	_, err = NewIdentifier("First Trust Global Equity Class A", "")
	if !errors.As(err, &mf) || mf.Field != "Currency" {
		t.Errorf("missing currency: got %v, want MissingFieldError{Currency}", err)
	}
	if _, err := NewIdentifier("First Trust Global Equity Class A", "XYZ"); err == nil {
		t.Error("unknown currency code accepted")
	}
}

func TestValidateISIN(t *testing.T) {
	if err := ValidateISIN("US0378331005"); err != nil {
		t.Errorf("valid ISIN rejected: %v", err)
	}
	if err := ValidateISIN("US0378331004"); err == nil {
		t.Error("wrong check digit accepted")
	}
	if err := ValidateISIN("US037833100"); err == nil {
		t.Error("short ISIN accepted")
	}
	if err := ValidateISIN("us0378331005"); err == nil {
		t.Error("lowercase ISIN accepted")
	}
}
