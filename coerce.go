package srri

import (
	"strconv"
	"strings"
)

// This file holds the tolerant coercion helpers shared by both pipelines.
// Spreadsheet exports are sloppy about types: integer scores arrive as
// "4", "4.0" or " 4 ", decimals use either separator.

// cleanCell trims a raw cell and maps the spreadsheet notions of absence
// ("", "nan", "NaN", "N/A") to the empty string.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "n/a", "na", "none", "null", "-":
		return ""
	}
	return s
}

// coerceInt reads an integer from a raw cell, accepting float-ish forms
// like "4.0". The second result is false when the cell is absent or not a
// number.
func coerceInt(s string) (int, bool) {
	s = cleanCell(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, ok := coerceFloat(s)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// coerceFloat reads a decimal from a raw cell, accepting a comma as the
// decimal separator.
func coerceFloat(s string) (float64, bool) {
	s = cleanCell(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// coerceBool reads the spreadsheet spellings of a boolean.
func coerceBool(s string) (bool, bool) {
	switch strings.ToLower(cleanCell(s)) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	}
	return false, false
}

// dedupBy keeps exactly one element per key, deterministically. Elements
// are visited in slice order; when two share a key, newer reports whether
// the challenger should supersede the kept one (false keeps the earlier
// element, making first-wins the tie-break). Every duplicate observed is
// reported through diags before being resolved.
func dedupBy[T any](rows []T, key func(T) Identifier, newer func(challenger, kept T) bool, diags *Diagnostics) []T {
	kept := make(map[Identifier]int, len(rows))
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		k := key(row)
		at, seen := kept[k]
		if !seen {
			kept[k] = len(out)
			out = append(out, row)
			continue
		}
		diags.Warn(i, k, DuplicateIdentifier, "multiple rows share this identifier")
		if newer(row, out[at]) {
			out[at] = row
		}
	}
	return out
}
