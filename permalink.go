package srri

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/etnz/srri/date"
)

// DocumentSource provides the plain text of a remote document. Retrieval
// and text-layer decoding live behind this interface; implementations must
// be safe for concurrent use.
type DocumentSource interface {
	Text(ctx context.Context, url string) (string, error)
}

// PermalinkRecord is the canonical per-document view of the permalink
// catalog, one row per share class after filtering and extraction.
type PermalinkRecord struct {
	Identifier    Identifier
	FundName      string
	ShareClass    string
	Currency      string
	ISIN          string
	KIIDURL       string
	FactSheetURL  string
	KIIDSRRI      int // 1..7, 0 when extraction failed
	ManagementFee Fee
	InceptionDate date.Date

	// The ISINs the documents state about themselves, cross-checked
	// against the catalog row.
	KIIDISIN              string
	FactsheetISIN         string
	KIIDISINMismatch      bool
	FactsheetISINMismatch bool
}

// PermalinkOptions configures the document-bound half of the pipeline.
type PermalinkOptions struct {
	// Concurrency bounds the number of documents processed at once, to
	// respect the document portal's rate limits. Defaults to 4.
	Concurrency int
}

var (
	kiidURLRegex       = regexp.MustCompile(`https?://\S+?KIID\.pdf`)
	factURLRegex       = regexp.MustCompile(`https?://\S+?FactSheet\.pdf`)
	lineISINRegex      = regexp.MustCompile(`\bIE[0-9A-Z]{10}\b`)
	currencyTokenRegex = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// audienceOK keeps only the catalog lines published for the UK
// professional or retail audience in English.
func audienceOK(line string) bool {
	if !strings.Contains(line, "English") {
		return false
	}
	return strings.Contains(line, "UK Professional Investor") || strings.Contains(line, "UK Retail Investor")
}

// permalinkRow is one qualifying KIID catalog line before extraction.
type permalinkRow struct {
	line         int
	FundName     string
	ShareClass   string
	ISIN         string
	KIIDURL      string
	FactSheetURL string
}

// parsePermalinkLines filters the raw catalog to qualifying rows and
// collects the fact-sheet URL per ISIN (first occurrence wins).
func parsePermalinkLines(lines []string) ([]permalinkRow, map[string]string) {
	var rows []permalinkRow
	factsheets := make(map[string]string)

	for i, line := range lines {
		if !audienceOK(line) {
			continue
		}
		switch {
		case strings.Contains(line, "UCITS KIID") && strings.Contains(line, "KIID.pdf"):
			url := kiidURLRegex.FindString(line)
			isin := lineISINRegex.FindString(line)
			fields := strings.Split(strings.Trim(line, `"`), ",")
			if url == "" || isin == "" || len(fields) < 4 {
				continue
			}
			fund := strings.TrimSpace(fields[1])
			third, fourth := strings.TrimSpace(fields[2]), strings.TrimSpace(fields[3])
			share := third
			if !strings.HasPrefix(fourth, "IE") {
				// the share-class name spills over two fields
				share = third + " - " + fourth
			}
			rows = append(rows, permalinkRow{line: i, FundName: fund, ShareClass: share, ISIN: isin, KIIDURL: url})

		case strings.Contains(line, "Fact Sheet") && strings.Contains(line, "FactSheet.pdf"):
			url := factURLRegex.FindString(line)
			isin := lineISINRegex.FindString(line)
			if url == "" || isin == "" {
				continue
			}
			if _, seen := factsheets[isin]; !seen {
				factsheets[isin] = url
			}
		}
	}
	return rows, factsheets
}

// currencyOf finds the share class's currency code inside its name: the
// first three-letter token that names a known ISO currency.
func currencyOf(shareClass string) string {
	for _, token := range currencyTokenRegex.FindAllString(shareClass, -1) {
		if money.GetCurrency(token) != nil {
			return token
		}
	}
	return ""
}

// extraction is the per-document outcome of one row's text passes.
type extraction struct {
	srri      int
	fee       Fee
	inception date.Date
	kiidISIN  string
	factISIN  string
	issues    []Issue
}

// extractRow runs the three independent extractions for one catalog row.
// Every failure is recorded, none is fatal, the remaining extractions
// still run.
func extractRow(ctx context.Context, docs DocumentSource, row permalinkRow) extraction {
	var ex extraction
	fail := func(format string, args ...any) {
		ex.issues = append(ex.issues, Issue{Row: row.line, Reason: ExtractionFailed, Detail: fmt.Sprintf(format, args...)})
	}

	if docs == nil || row.KIIDURL == "" {
		fail("no KIID document to read")
	} else if text, err := docs.Text(ctx, row.KIIDURL); err != nil {
		fail("kiid %s: %v", row.KIIDURL, err)
	} else {
		if v, _, err := ExtractSRRI(text); err == nil {
			ex.srri = v
		} else {
			fail("kiid %s: srri: tried %d patterns, none matched", row.KIIDURL, len(srriPatterns))
		}
		if fee, _, err := ExtractFee(text); err == nil {
			ex.fee = fee
		} else {
			fail("kiid %s: fee: tried %d patterns, none matched", row.KIIDURL, len(feePatterns))
		}
		if isin, err := ExtractLabeledISIN(text); err == nil {
			ex.kiidISIN = isin
		}
	}

	if docs == nil || row.FactSheetURL == "" {
		// a missing fact sheet only costs the inception date
	} else if text, err := docs.Text(ctx, row.FactSheetURL); err != nil {
		fail("fact sheet %s: %v", row.FactSheetURL, err)
	} else {
		if d, _, err := ExtractInceptionDate(text); err == nil {
			ex.inception = d
		} else {
			fail("fact sheet %s: inception date pattern did not match", row.FactSheetURL)
		}
		if isin, err := ExtractLabeledISIN(text); err == nil {
			ex.factISIN = isin
		}
	}
	return ex
}

// ProcessPermalink turns the raw permalink catalog into canonical records:
// audience filtering, line parsing, per-document extraction (bounded
// worker pool, one task per row), identifier synthesis and deduplication.
// The Diagnostics lists every excluded row, extraction failure, duplicate
// and cross-check warning; the result and diagnostics order is
// deterministic for a fixed input.
func ProcessPermalink(ctx context.Context, lines []string, docs DocumentSource, opts PermalinkOptions) ([]PermalinkRecord, *Diagnostics, error) {
	diags := &Diagnostics{}
	rows, factsheets := parsePermalinkLines(lines)
	for i := range rows {
		rows[i].FactSheetURL = factsheets[rows[i].ISIN]
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	// Per-document extraction is stateless and side-effect free: fan out,
	// then assemble sequentially in row order so output and diagnostics
	// stay deterministic.
	extractions := make([]extraction, len(rows))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			extractions[i] = extractRow(ctx, docs, rows[i])
		}()
	}
	wg.Wait()

	var records []PermalinkRecord
	for i, row := range rows {
		diags.Processed++
		ex := extractions[i]
		diags.Issues = append(diags.Issues, ex.issues...)

		currency := currencyOf(row.ShareClass)
		id, err := NewIdentifier(row.ShareClass, currency)
		if err != nil {
			diags.Exclude(row.line, "", MissingField, "%v", err)
			continue
		}
		if err := ValidateISIN(row.ISIN); err != nil {
			diags.Warn(row.line, id, InvalidISIN, "catalog isin %q: %v", row.ISIN, err)
		}

		rec := PermalinkRecord{
			Identifier:    id,
			FundName:      row.FundName,
			ShareClass:    row.ShareClass,
			Currency:      currency,
			ISIN:          row.ISIN,
			KIIDURL:       row.KIIDURL,
			FactSheetURL:  row.FactSheetURL,
			KIIDSRRI:      ex.srri,
			ManagementFee: ex.fee,
			InceptionDate: ex.inception,
			KIIDISIN:      ex.kiidISIN,
			FactsheetISIN: ex.factISIN,
		}
		rec.KIIDISINMismatch = rec.KIIDISIN != "" && rec.KIIDISIN != rec.ISIN
		rec.FactsheetISINMismatch = rec.FactsheetISIN != "" && rec.FactsheetISIN != rec.ISIN
		if rec.KIIDISINMismatch {
			diags.Warn(row.line, id, ISINMismatch, "kiid states %s, catalog says %s", rec.KIIDISIN, rec.ISIN)
		}
		if rec.FactsheetISINMismatch {
			diags.Warn(row.line, id, ISINMismatch, "fact sheet states %s, catalog says %s", rec.FactsheetISIN, rec.ISIN)
		}
		records = append(records, rec)
	}

	// Duplicate ISINs across distinct rows are worth a warning before the
	// identifier-level dedup hides them.
	byISIN := make(map[string]int)
	for _, rec := range records {
		byISIN[rec.ISIN]++
	}
	for _, rec := range records {
		if byISIN[rec.ISIN] > 1 {
			diags.Warn(-1, rec.Identifier, DuplicateISIN, "isin %s appears %d times", rec.ISIN, byISIN[rec.ISIN])
			byISIN[rec.ISIN] = 0 // report each group once
		}
	}

	records = dedupBy(records,
		func(r PermalinkRecord) Identifier { return r.Identifier },
		func(challenger, kept PermalinkRecord) bool { return false }, // first row wins
		diags)

	slices.SortStableFunc(records, func(a, b PermalinkRecord) int {
		return strings.Compare(string(a.Identifier), string(b.Identifier))
	})
	return records, diags, nil
}
