// Package match implements string-similarity scoring used to repair
// noisy OCR tokens against the code registry.
package match

import "strings"

// Default thresholds for the two reconciliation paths. The automated
// OCR path is stricter than manual entry, where the user is assumed to
// be typing codes on purpose.
const (
	OCRThreshold    = 0.7
	ManualThreshold = 0.5
)

// shortCodeLen is the length at or below which edit distance is too
// unstable to be meaningful and a shared-character ratio is used instead.
const shortCodeLen = 3

// Similarity returns a normalized similarity score in [0,1] between two
// strings. Both inputs are trimmed and upper-cased before comparison.
func Similarity(a, b string) float64 {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))

	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	if len(ra) <= shortCodeLen && len(rb) <= shortCodeLen {
		return float64(sharedChars(ra, rb)) / float64(maxLen)
	}

	d := levenshtein(ra, rb)
	return 1 - float64(d)/float64(maxLen)
}

// FindBestMatch scans candidates in order and returns the one with the
// highest similarity to token, provided that score is strictly greater
// than threshold. Ties keep the first candidate encountered.
func FindBestMatch(token string, candidates []string, threshold float64) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		if score := Similarity(token, candidate); score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if bestScore > threshold {
		return best, true
	}
	return "", false
}

// sharedChars counts the multiset intersection of the two rune slices.
func sharedChars(a, b []rune) int {
	counts := make(map[rune]int, len(a))
	for _, r := range a {
		counts[r]++
	}
	shared := 0
	for _, r := range b {
		if counts[r] > 0 {
			counts[r]--
			shared++
		}
	}
	return shared
}

// levenshtein computes the edit distance between two rune slices with
// unit costs, using the two-row dynamic programming formulation.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(min(prev[j]+1, curr[j-1]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
