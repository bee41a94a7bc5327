// Package reconcile maps noisy OCR tokens to valid registry codes and
// assembles them into fixed-length month schedules.
package reconcile

import (
	"log/slog"
	"regexp"

	"github.com/rotaflow/rota/internal/match"
	"github.com/rotaflow/rota/internal/model"
)

// delimiterRuns splits manual code lists on whitespace/comma/semicolon runs.
var delimiterRuns = regexp.MustCompile(`[\s,;]+`)

// Codebook is the registry surface the reconciler needs.
type Codebook interface {
	Normalize(id string) string
	Get(id string) (model.Code, bool)
	List() []string
}

// Options select the reconciliation policy for one call site.
//
// The automated OCR path uses a strict threshold and drops tokens it
// cannot repair, so garbage never reaches an export. The manual path is
// more permissive and keeps unmatched tokens verbatim: the user may be
// entering codes the registry does not know yet.
type Options struct {
	Threshold     float64
	KeepUnmatched bool
}

// OCROptions is the policy for the automated OCR path.
func OCROptions() Options {
	return Options{Threshold: match.OCRThreshold}
}

// ManualOptions is the policy for manual/pasted entry.
func ManualOptions() Options {
	return Options{Threshold: match.ManualThreshold, KeepUnmatched: true}
}

// Reconcile maps each raw token to a registry code. Exact matches (case
// insensitive) normalize to the canonical identifier without invoking
// fuzzy matching; otherwise the best fuzzy candidate above the threshold
// wins; otherwise the day is left unresolved (or kept verbatim under
// KeepUnmatched).
func Reconcile(tokens []string, codebook Codebook, opts Options) []string {
	candidates := codebook.List()
	out := make([]string, len(tokens))
	for i, token := range tokens {
		normalized := codebook.Normalize(token)
		if normalized == "" {
			continue
		}
		if _, ok := codebook.Get(normalized); ok {
			out[i] = normalized
			continue
		}
		if best, ok := match.FindBestMatch(normalized, candidates, opts.Threshold); ok {
			slog.Debug("fuzzy-repaired token", "raw", token, "code", best)
			out[i] = best
			continue
		}
		if opts.KeepUnmatched {
			out[i] = normalized
		}
	}
	return out
}

// Assemble pads or truncates a reconciled token list to exactly the
// number of days in the target month.
func Assemble(tokens []string, month, year int) model.DaySequence {
	days := model.NewDaySequence(month, year)
	copy(days, tokens)
	return days
}

// SplitManualCodes splits a hand-typed delimited code list into tokens.
func SplitManualCodes(input string) []string {
	var tokens []string
	for _, tok := range delimiterRuns.Split(input, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
