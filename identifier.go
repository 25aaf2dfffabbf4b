package srri

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// Identifier is the synthesized join key uniquely naming a share class
// across both data sources. Two records describing the same legal share
// class must normalize to an identical key; collisions across distinct
// share classes are detected and reported before deduplication, never
// silently merged.
type Identifier string

func (id Identifier) String() string { return string(id) }

// promoterKey is the normalized promoter prefix. Monitoring share-class
// names carry the promoter name, permalink ones usually do not; forcing the
// prefix on both sides keeps the keys joinable.
const promoterKey = "firsttrust"

var (
	// ucitsRegex strips the regulatory wrapper wording ("UCITS ETF" and its
	// frequent misspelling) that appears inconsistently across sources.
	ucitsRegex = regexp.MustCompile(`(?i)(ucits|ucts)(\s*etf)?`)
	// markRegex strips the trademark glyphs and their common mojibake forms.
	markRegex = regexp.MustCompile(`[®¬Æ]`)
	// hedgedRegex captures the currency of a "XXX (Hedged)" marker.
	hedgedRegex    = regexp.MustCompile(`([a-z]{3})\s*\(hedged\)`)
	nonLetterRegex = regexp.MustCompile(`[^a-z]`)
)

// NewIdentifier derives the canonical join key for a share class from its
// name and currency code. It is pure: the same inputs always yield the same
// key regardless of invocation order.
//
// The name is lower-cased, stripped of regulatory wording, trademark glyphs,
// the "class " prefix and all non-letters ("accu" is folded to "acc" first,
// both spellings circulate). Any embedded currency code is removed and the
// currency appended once, so "Class A USD Acc" and "A Acc USD" agree. A
// "XXX (Hedged)" marker becomes a trailing "xxxhedged".
func NewIdentifier(shareClass, currency string) (Identifier, error) {
	if strings.TrimSpace(shareClass) == "" {
		return "", &MissingFieldError{Field: "Share Class"}
	}
	ccy := strings.ToUpper(strings.TrimSpace(currency))
	if ccy == "" {
		return "", &MissingFieldError{Field: "Currency"}
	}
	if money.GetCurrency(ccy) == nil {
		return "", fmt.Errorf("unknown currency code %q for share class %q", currency, shareClass)
	}

	original := strings.ToLower(shareClass)
	var hedged string
	if m := hedgedRegex.FindStringSubmatch(original); m != nil {
		hedged = m[1] + "hedged"
	}

	name := ucitsRegex.ReplaceAllString(original, "")
	name = markRegex.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "class ", "")
	name = strings.ReplaceAll(name, "accu", "acc")
	name = nonLetterRegex.ReplaceAllString(name, "")

	low := strings.ToLower(ccy)
	name = strings.ReplaceAll(name, low, "") + low
	if !strings.HasPrefix(name, promoterKey) {
		name = promoterKey + name
	}
	name += hedged

	return Identifier(name), nil
}

// isinRegex checks the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidateISIN checks that a string is a validly formatted ISIN, including
// its check digit. It returns nil if valid, or a descriptive error.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// Letters expand to two digits (A=10 .. Z=35) before the Luhn pass.
	var digits strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			digits.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			digits.WriteRune(char)
		}
	}

	sum := 0
	double := true
	expanded := digits.String()
	for i := len(expanded) - 1; i >= 0; i-- {
		digit := int(expanded[i] - '0')
		if double {
			digit *= 2
		}
		sum += digit/10 + digit%10
		double = !double
	}

	want := (10 - sum%10) % 10
	got := int(isin[11] - '0')
	if want != got {
		return fmt.Errorf("invalid check digit: expected %d, got %d", want, got)
	}
	return nil
}
