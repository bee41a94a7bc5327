// Package parse extracts per-day shift tokens from raw OCR output.
//
// Two structural formats are recognized: a delimited table (any `|` in
// the input) and loosely-structured free text. In both cases the parser
// locates the target person's row or section and emits raw tokens in
// reading order; repairing those tokens against the registry is the
// reconciler's job.
package parse

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	nonAlnum    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	emphasisSet = strings.NewReplacer("**", "", "__", "")
)

// Result is the parser output: whether the person was located and the
// ordered raw tokens of their row/section.
type Result struct {
	RawText   string
	RawTokens []string
	Found     bool
	Table     bool
}

// Options control parsing behavior.
type Options struct {
	// SkipNameMatch treats the input as already scoped to the target
	// person (manual paste mode): the first data line is used instead
	// of searching for the name.
	SkipNameMatch bool
}

// Clean normalizes OCR text: carriage returns stripped, horizontal
// whitespace runs collapsed to single spaces, lines trimmed.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// IsTable reports whether the text looks like a delimited table.
func IsTable(text string) bool {
	return strings.Contains(text, "|")
}

// Extract locates the person in the OCR text and returns up to
// daysInMonth raw tokens. When the person cannot be located, Found is
// false and no tokens are returned.
func Extract(text, personName string, daysInMonth int, opts Options) Result {
	cleaned := Clean(text)
	res := Result{RawText: cleaned}

	res.Table = IsTable(cleaned)
	if res.Table {
		res.Found, res.RawTokens = extractTableRow(cleaned, personName, daysInMonth, opts)
	} else {
		res.Found, res.RawTokens = extractFreeText(cleaned, personName, daysInMonth, opts)
	}

	slog.Debug("parsed OCR text",
		"person", personName,
		"table", IsTable(cleaned),
		"found", res.Found,
		"tokens", len(res.RawTokens))
	return res
}

// extractTableRow finds the person's table row and returns its per-day
// cells. Cell 0 is the name and cell 1 an unrelated metric; day tokens
// start at cell 2.
func extractTableRow(text, personName string, daysInMonth int, opts Options) (bool, []string) {
	row, ok := findLine(text, personName, opts)
	if !ok {
		return false, nil
	}

	cells := strings.Split(row, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	// A row like "| ALICE | 80% | JRD |" yields empty edge cells.
	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}

	var tokens []string
	for i := 2; i < len(cells) && len(tokens) < daysInMonth; i++ {
		tokens = append(tokens, emphasisSet.Replace(cells[i]))
	}
	// A located row counts as found even when every day cell is blank;
	// the user can still review and fill it in by hand.
	return true, tokens
}

// extractFreeText scans the lines after the person's for short tokens
// that look like daily codes (2-4 alphanumeric characters once
// punctuation is stripped). Digit-only tokens are roster metrics like
// "90%", never codes, and are skipped.
func extractFreeText(text, personName string, daysInMonth int, opts Options) (bool, []string) {
	lines := nonEmptyLines(text)

	start := 0
	if !opts.SkipNameMatch {
		idx := -1
		for i, line := range lines {
			if containsFold(line, personName) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, nil
		}
		start = idx + 1
	}

	var tokens []string
	for _, line := range lines[start:] {
		for _, field := range strings.Fields(line) {
			cleaned := nonAlnum.ReplaceAllString(field, "")
			if len(cleaned) < 2 || len(cleaned) > 4 || !containsLetter(cleaned) {
				continue
			}
			tokens = append(tokens, cleaned)
			if len(tokens) >= daysInMonth {
				return true, tokens
			}
		}
	}
	return true, tokens
}

// findLine returns the first non-empty line containing personName
// case-insensitively, or the first non-empty line in SkipNameMatch mode.
func findLine(text, personName string, opts Options) (string, bool) {
	lines := nonEmptyLines(text)
	if opts.SkipNameMatch {
		if len(lines) == 0 {
			return "", false
		}
		return lines[0], true
	}
	for _, line := range lines {
		if containsFold(line, personName) {
			return line, true
		}
	}
	return "", false
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func containsLetter(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLetter)
}
