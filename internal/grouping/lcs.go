// file: internal/grouping/lcs.go
// version: 1.0.0
// guid: b47d03e2-9a61-4f85-8c2d-e1f6a5093b78

package grouping

import (
	"regexp"
	"strings"
	"unicode"
)

// LongestCommonSubstring returns the longest substring shared by all inputs,
// compared case-insensitively, in the casing of the first input. Ties go to
// the leftmost candidate. A single input is returned trimmed.
func LongestCommonSubstring(inputs []string) string {
	switch len(inputs) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(inputs[0])
	}

	first := []rune(inputs[0])
	folded := []rune(strings.Map(unicode.ToLower, inputs[0]))
	others := make([]string, len(inputs)-1)
	for i, s := range inputs[1:] {
		others[i] = strings.Map(unicode.ToLower, s)
	}

	for length := len(folded); length > 0; length-- {
		for start := 0; start+length <= len(folded); start++ {
			candidate := string(folded[start : start+length])
			if containedInAll(candidate, others) {
				return string(first[start : start+length])
			}
		}
	}
	return ""
}

func containedInAll(sub string, others []string) bool {
	for _, o := range others {
		if !strings.Contains(o, sub) {
			return false
		}
	}
	return true
}

const titleEdgeChars = " \t-–—:,.(["

var danglingDesignation = regexp.MustCompile(`(?i)(?:^|\s)(?:part|disc|volume|vol|book)\.?$`)

// SharedTitle derives the title common to all parts of a multi-part book.
// When the common text stops short of the part numbering ("Kings Part 1" /
// "Kings Part 2") the dangling separator and designation word are dropped.
func SharedTitle(titles []string) string {
	common := strings.Trim(LongestCommonSubstring(titles), titleEdgeChars)
	if common == "" {
		return ""
	}
	for _, t := range titles {
		if !strings.EqualFold(strings.Trim(t, titleEdgeChars), common) {
			common = strings.Trim(danglingDesignation.ReplaceAllString(common, ""), titleEdgeChars)
			break
		}
	}
	return common
}
