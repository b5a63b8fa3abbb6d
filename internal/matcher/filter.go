// file: internal/matcher/filter.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

// Package matcher narrows a run to the books a user asked for by author or
// series. Matching is accent- and case-insensitive and tolerates small typos.
package matcher

import (
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
)

// MinScore is the lowest ScoreMatch result accepted as a match.
const MinScore = 70

// Filter selects books by author and/or series. Empty fields match everything.
type Filter struct {
	Author string
	Series string
}

// IsZero reports whether the filter accepts every book.
func (f Filter) IsZero() bool {
	return Fold(f.Author) == "" && Fold(f.Series) == ""
}

// Matches reports whether book passes both the author and series criteria.
// A series criterion is checked against the core title of books without a series.
func (f Filter) Matches(book grouping.LogicalBookInfo) bool {
	if Fold(f.Author) != "" && ScoreMatch(f.Author, book.Author) < MinScore {
		return false
	}
	if Fold(f.Series) != "" && ScoreMatch(f.Series, book.BaseName()) < MinScore {
		return false
	}
	return true
}

// Apply returns the books that match, in their original order.
func (f Filter) Apply(books []grouping.LogicalBookInfo) []grouping.LogicalBookInfo {
	if f.IsZero() {
		return books
	}
	var kept []grouping.LogicalBookInfo
	for _, b := range books {
		if f.Matches(b) {
			kept = append(kept, b)
		}
	}
	return kept
}

// Folders lists the distinct source folders of books, in first-seen order.
func Folders(books []grouping.LogicalBookInfo) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range books {
		for _, dir := range b.Folders {
			if !seen[dir] {
				seen[dir] = true
				out = append(out, dir)
			}
		}
	}
	return out
}
