// file: internal/resolver/resolver.go
// version: 1.0.0
// guid: 3c5a8e0f-b217-4d96-a4c1-7e0d92f6b38a

// Package resolver computes the whole-collection facts naming depends on:
// which (author, name) pairs need a publisher or narrator suffix, and how
// wide series numbers must be padded.
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// NameKey is an (author, series-or-title) pair.
type NameKey struct {
	Author   string
	BaseName string
}

// AmbiguousNameSet holds the NameKeys seen with more than one distinct
// (publisher, performer) combination.
type AmbiguousNameSet map[NameKey]struct{}

// Contains reports whether k is ambiguous.
func (s AmbiguousNameSet) Contains(k NameKey) bool {
	_, ok := s[k]
	return ok
}

// SeriesMaxNumbers maps a series name to its highest book number.
type SeriesMaxNumbers map[string]float64

// Resolution is the result of resolving a complete book list.
type Resolution struct {
	Ambiguous AmbiguousNameSet
	SeriesMax SeriesMaxNumbers
}

type variant struct {
	publisher, performer string
}

// Resolve must be given every final book, including each part of multi-part
// books; both aggregates are whole-collection properties.
func Resolve(books []grouping.LogicalBookInfo) Resolution {
	variants := make(map[NameKey]map[variant]struct{})
	seriesMax := make(SeriesMaxNumbers)

	for _, b := range books {
		key := KeyOf(b)
		if variants[key] == nil {
			variants[key] = make(map[variant]struct{})
		}
		variants[key][variant{b.Publisher, b.Performer}] = struct{}{}

		if b.Series != "" && b.Number.Valid {
			if cur, ok := seriesMax[b.Series]; !ok || b.Number.Value > cur {
				seriesMax[b.Series] = b.Number.Value
			}
		}
	}

	ambiguous := make(AmbiguousNameSet)
	for key, vs := range variants {
		if len(vs) > 1 {
			ambiguous[key] = struct{}{}
		}
	}
	return Resolution{Ambiguous: ambiguous, SeriesMax: seriesMax}
}

// KeyOf returns the ambiguity key of a book.
func KeyOf(b grouping.LogicalBookInfo) NameKey {
	return NameKey{Author: b.Author, BaseName: b.BaseName()}
}

// Prefix returns "NN - " for a numbered series book and "" otherwise.
func (r Resolution) Prefix(b grouping.LogicalBookInfo) string {
	if b.Series == "" || !b.Number.Valid {
		return ""
	}
	return PadSeriesNumber(b.Number.Value, r.SeriesMax[b.Series]) + " - "
}

// Distinguisher returns the suffix that separates ambiguous books:
// " (Published by X)", " (Narrated by Y)", or "" when not needed.
func (r Resolution) Distinguisher(b grouping.LogicalBookInfo) string {
	if !r.Ambiguous.Contains(KeyOf(b)) {
		return ""
	}
	if b.Publisher != "" {
		return fmt.Sprintf(" (Published by %s)", metadata.NormalizePublisher(b.Publisher))
	}
	if b.Performer != "" {
		return fmt.Sprintf(" (Narrated by %s)", fileops.SanitizeFilename(b.Performer))
	}
	return ""
}

// PadSeriesNumber zero-pads the integer part of number to the digit count of
// seriesMax when that is 10 or more. A fractional suffix is kept as-is: (2.5, 12)
// gives "02.5" and (2.5, 9) gives "2.5".
func PadSeriesNumber(number, seriesMax float64) string {
	width := 1
	if m := int(seriesMax); m >= 10 {
		width = len(strconv.Itoa(m))
	}
	s := series.FormatNumber(number)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if pad := width - len(intPart); pad > 0 {
		intPart = strings.Repeat("0", pad) + intPart
	}
	if hasFrac {
		return intPart + "." + frac
	}
	return intPart
}
