// file: internal/matcher/fold.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package matcher

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips accents, case-folds, and collapses everything that is not a
// letter or digit into single spaces. "Brandón  Sanderson!" -> "brandon sanderson".
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = cases.Fold().String(stripped)

	var b strings.Builder
	space := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Similarity is 1 minus the normalized edit distance of two folded words.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
}

// ScoreMatch scores how well query matches target. Returns 0-100.
func ScoreMatch(query, target string) int {
	q, t := Fold(query), Fold(target)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 100
	}

	score := 0
	if strings.HasPrefix(t, q) {
		score = 90
	}
	if strings.Contains(t, q) {
		ratio := float64(len(q)) / float64(len(t))
		score = max(score, 60+int(ratio*25))
	}

	// Every query word must find a close target word for the word score to count.
	targetWords := strings.Fields(t)
	worst := 1.0
	for _, qw := range strings.Fields(q) {
		best := 0.0
		for _, tw := range targetWords {
			best = max(best, wordScore(qw, tw))
		}
		worst = min(worst, best)
	}
	return max(score, int(worst*80))
}

// wordScore treats initials and abbreviations ("b" or "sndrsn" against
// "sanderson") as exact and otherwise falls back to edit-distance similarity.
func wordScore(qw, tw string) float64 {
	if qw[0] == tw[0] && fuzzy.MatchNormalizedFold(qw, tw) {
		return 1
	}
	return Similarity(qw, tw)
}
