package srri

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fee is an annual charge expressed as a percentage of the share class's
// net assets (an ongoing-charges or management-fee figure). The zero value
// means "not extracted", distinct from a genuine 0%.
type Fee struct {
	value decimal.Decimal
	valid bool
}

// FeePercent builds a Fee from a percentage value (0.65 means 0.65%).
func FeePercent(v float64) Fee { return Fee{value: decimal.NewFromFloat(v), valid: true} }

// ParseFee reads a percentage figure as captured from document text,
// accepting a comma decimal separator.
func ParseFee(s string) (Fee, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Fee{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Fee{}, false
	}
	return Fee{value: d, valid: true}, true
}

// Valid reports whether a fee was actually extracted.
func (f Fee) Valid() bool { return f.valid }

func (f Fee) Equal(g Fee) bool { return f.valid == g.valid && f.value.Equal(g.value) }

// Fraction returns the fee as a decimal fraction (0.65% -> 0.0065).
func (f Fee) Fraction() decimal.Decimal { return f.value.Shift(-2) }

// String renders the fee the way documents print it, "0.65%". An absent
// fee renders as the empty string.
func (f Fee) String() string {
	if !f.valid {
		return ""
	}
	return f.value.String() + "%"
}
