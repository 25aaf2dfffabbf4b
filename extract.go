package srri

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/etnz/srri/date"
)

// ErrExtractionFailed marks a value a document simply does not yield: the
// row proceeds with the field absent, only the reconciliation caller
// decides whether that matters.
var ErrExtractionFailed = errors.New("no pattern matched")

// Extraction patterns are tried in declared order, most specific first,
// most permissive last. Each match reports the name of the pattern that
// fired so diagnostics (and tests) can tell them apart.

// srriPattern is one entry of the SRRI fallback chain.
type srriPattern struct {
	name    string
	extract func(text string) (int, bool)
}

var (
	// The KIID risk scale prints the seven categories in a row; the
	// selected category repeats right after the scale.
	srriLabelRegex = regexp.MustCompile(`(?i)\bSRRI\s*[:\-]?\s*([1-7])\b`)
	riskScaleRegex = regexp.MustCompile(`(?i)Risk and Reward Profile\s*1\s*2\s*3\s*4\s*5\s*6\s*7`)
	bareScoreRegex = regexp.MustCompile(`\b([1-7])\b`)
	riskWordRegex  = regexp.MustCompile(`(?is)risk.*?([1-7])`)
	categoryRegex  = regexp.MustCompile(`(?i)category\s+([1-7])\s+reflects`)
)

var srriPatterns = []srriPattern{
	{"srri label", func(text string) (int, bool) {
		m := srriLabelRegex.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		return mustAtoi(m[1]), true
	}},
	{"risk scale", func(text string) (int, bool) {
		loc := riskScaleRegex.FindStringIndex(text)
		if loc == nil {
			return 0, false
		}
		m := bareScoreRegex.FindStringSubmatch(text[loc[1]:])
		if m == nil {
			return 0, false
		}
		return mustAtoi(m[1]), true
	}},
	{"risk wording", func(text string) (int, bool) {
		m := riskWordRegex.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		return mustAtoi(m[1]), true
	}},
	{"category reflects", func(text string) (int, bool) {
		m := categoryRegex.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		return mustAtoi(m[1]), true
	}},
}

// ExtractSRRI pulls the 1..7 risk score out of KIID text. It returns the
// score and the name of the pattern that matched, or ErrExtractionFailed.
func ExtractSRRI(text string) (int, string, error) {
	for _, p := range srriPatterns {
		if v, ok := p.extract(text); ok {
			return v, p.name, nil
		}
	}
	return 0, "", ErrExtractionFailed
}

// feePatterns tolerate the varying label wording around the percentage.
// The numeric shape allows one or two integer digits and an optional
// one-or-two digit decimal part with either separator.
var feePatterns = []struct {
	name  string
	regex *regexp.Regexp
}{
	{"ongoing charges", regexp.MustCompile(`(?i)Ongoing charges[^%]{0,100}?(\d{1,2}(?:[.,]\d{1,2})?)\s?%`)},
	{"management fee", regexp.MustCompile(`(?i)Management fee[^%]{0,100}?(\d{1,2}(?:[.,]\d{1,2})?)\s?%`)},
	{"annual fee", regexp.MustCompile(`(?i)Annual (?:management )?fee[^%]{0,100}?(\d{1,2}(?:[.,]\d{1,2})?)\s?%`)},
}

// ExtractFee pulls the annual charge percentage out of KIID text.
func ExtractFee(text string) (Fee, string, error) {
	for _, p := range feePatterns {
		m := p.regex.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if fee, ok := ParseFee(m[1]); ok {
			return fee, p.name, nil
		}
	}
	return Fee{}, "", ErrExtractionFailed
}

// inceptionRegex locates the labeled date near the share-class context of a
// fact sheet: numeric day-first shapes with any common separator, or a
// written-out month.
var inceptionRegex = regexp.MustCompile(
	`Share Class Inception\s*[:\-]?\s*(\d{1,2}[./ -]\d{1,2}[./ -]\d{2,4}|\d{1,2} [A-Za-z]{3,9} \d{4})`)

// ExtractInceptionDate pulls the share-class inception date out of
// fact-sheet text. Parsing ambiguity is resolved by the date package's
// fixed layout order and plausible-range check.
func ExtractInceptionDate(text string) (date.Date, string, error) {
	m := inceptionRegex.FindStringSubmatch(text)
	if m == nil {
		return date.Date{}, "", ErrExtractionFailed
	}
	d, err := date.Parse(m[1])
	if err != nil {
		return date.Date{}, "", ErrExtractionFailed
	}
	return d, "share class inception", nil
}

// labeledISINRegex finds the ISIN a document states about itself.
var labeledISINRegex = regexp.MustCompile(`ISIN\s*[:\-]?\s*(IE[0-9A-Z]{10})`)

// ExtractLabeledISIN pulls the document's own ISIN statement, used to
// cross-check the catalog row that pointed at the document.
func ExtractLabeledISIN(text string) (string, error) {
	m := labeledISINRegex.FindStringSubmatch(text)
	if m == nil {
		return "", ErrExtractionFailed
	}
	return m[1], nil
}

func mustAtoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}
	return v
}
