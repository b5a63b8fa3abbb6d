// file: internal/series/part.go
// version: 1.0.0
// guid: 5b8e0d37-c4a1-4f29-8e6b-d3a7f1029c54

package series

import (
	"regexp"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPartDesignation is used when a folder name carries a part number
// without saying what kind of part it is.
const DefaultPartDesignation = "Part"

// PartInfo describes which piece of a multi-part book a folder holds.
type PartInfo struct {
	Designation string // "Part", "Disc", "Volume"; empty when nothing matched
	Number      Number
	Total       int // 0 when unknown
}

// HasTotal reports whether the total part count is known.
func (p PartInfo) HasTotal() bool { return p.Total > 0 }

var (
	partWithDesignation = regexp.MustCompile(`(?i)\((?:(Part|Disc|Volume)\s+)?(\d+(?:\.\d+)?)\s+of\s+(\d+)\)`)
	partOfTotal         = regexp.MustCompile(`(?i)\((\d+(?:\.\d+)?)\s*of\s*(\d+)\)`)
	partBare            = regexp.MustCompile(`\((\d+(?:\.\d+)?)\)`)
)

// ExtractPartInfo looks for "(Disc 2 of 5)", "(2 of 5)", "(2of5)" or "(2)" in a
// folder name, in that order.
func ExtractPartInfo(folderName string) PartInfo {
	if m := partWithDesignation.FindStringSubmatch(folderName); m != nil {
		info := PartInfo{Designation: DefaultPartDesignation, Number: ParseNumber(m[2]), Total: parseTotal(m[3])}
		if m[1] != "" {
			info.Designation = cases.Title(language.Und).String(m[1])
		}
		if info.Number.Valid {
			return info
		}
	}
	if m := partOfTotal.FindStringSubmatch(folderName); m != nil {
		info := PartInfo{Designation: DefaultPartDesignation, Number: ParseNumber(m[1]), Total: parseTotal(m[2])}
		if info.Number.Valid {
			return info
		}
	}
	if m := partBare.FindStringSubmatch(folderName); m != nil {
		info := PartInfo{Designation: DefaultPartDesignation, Number: ParseNumber(m[1])}
		if info.Number.Valid {
			return info
		}
	}
	return PartInfo{}
}

func parseTotal(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
