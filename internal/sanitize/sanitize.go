// Package sanitize cleans free text that mvca writes into CSV files and
// logs. It strips control characters and neutralizes leading characters
// that spreadsheet programs would evaluate as formulas.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxNameLength is the maximum allowed length for batch names.
const MaxNameLength = 80

// Pre-compiled regular expressions for performance.
var (
	// reWhitespaceRun matches runs of whitespace, including newlines and tabs.
	reWhitespaceRun = regexp.MustCompile(`\s+`)
)

// formulaPrefixes start a cell that spreadsheets treat as a formula.
const formulaPrefixes = "=+-@"

// SanitizeName sanitizes a human-readable batch name for a CSV cell.
//
// The pipeline runs in this order:
//  1. Strip null bytes and ASCII control characters
//  2. Collapse whitespace runs to a single space
//  3. Trim leading/trailing whitespace
//  4. Prefix a formula-like value with a single quote
//  5. Truncate to MaxNameLength
func SanitizeName(input string) string {
	if input == "" {
		return ""
	}

	s := stripControlChars(input)
	s = reWhitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s != "" && strings.ContainsRune(formulaPrefixes, rune(s[0])) {
		s = "'" + s
	}

	if len(s) > MaxNameLength {
		s = truncateRunes(s, MaxNameLength)
	}

	return s
}

// stripControlChars removes ASCII control characters (0x00-0x1F and 0x7F)
// except tab and newline, which later collapse to a space.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r < 0x20 && r != '\n' && r != '\t') || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
