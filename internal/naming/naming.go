// file: internal/naming/naming.go
// version: 1.0.0
// guid: 5e0b7d93-2f48-4c16-a8e5-c91d3a6f0b27

// Package naming turns a resolved logical book into destination paths for
// every file it owns. Paths are relative to the organized root.
package naming

import (
	"path/filepath"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
	"github.com/jdfalk/audiobook-librarian/internal/resolver"
)

// Kind classifies a placement.
type Kind string

const (
	KindAudio    Kind = "audio"
	KindCover    Kind = "cover"
	KindExtra    Kind = "extra"
	KindPlaylist Kind = "playlist"
)

// ExtrasDir is the subfolder that receives files without a dedicated place.
const ExtrasDir = "Extras"

// Placement maps one source file to its destination.
type Placement struct {
	Source  string
	RelPath string
	Kind    Kind
}

// BookPlan is the destination layout of one book or part.
type BookPlan struct {
	Book         grouping.LogicalBookInfo
	RelDir       string // folder holding the files
	ParentRelDir string // shared book folder of a multi-part book; empty otherwise
	Placements   []Placement
}

// Plan computes the destination of every file of book.
func Plan(book grouping.LogicalBookInfo, res resolver.Resolution) BookPlan {
	bookDir, partDir := folderNames(book, res)
	plan := BookPlan{Book: book, RelDir: bookDir}
	if partDir != "" {
		plan.ParentRelDir = bookDir
		plan.RelDir = filepath.Join(bookDir, partDir)
	}

	for _, p := range audioPlacements(book) {
		p.RelPath = filepath.Join(plan.RelDir, p.RelPath)
		plan.Placements = append(plan.Placements, p)
	}
	for _, p := range otherPlacements(book) {
		p.RelPath = filepath.Join(plan.RelDir, p.RelPath)
		plan.Placements = append(plan.Placements, p)
	}
	return plan
}

// PlanAll plans every book against one shared resolution.
func PlanAll(books []grouping.LogicalBookInfo, res resolver.Resolution) []BookPlan {
	plans := make([]BookPlan, 0, len(books))
	for _, b := range books {
		plans = append(plans, Plan(b, res))
	}
	return plans
}

// folderNames returns the book folder relative to the root and, for a part,
// the part subfolder name.
func folderNames(book grouping.LogicalBookInfo, res resolver.Resolution) (string, string) {
	author := fileops.SanitizeFilename(book.Author)
	suffix := res.Distinguisher(book)
	prefix := res.Prefix(book)

	var bookDir string
	if book.Series != "" {
		seriesDir := fileops.SanitizeWithSuffix(book.Series, suffix)
		bookDir = filepath.Join(author, seriesDir, fileops.SanitizeFilename(prefix+book.CoreTitle))
	} else {
		bookDir = filepath.Join(author, fileops.SanitizeWithSuffix(prefix+book.CoreTitle, suffix))
	}

	if book.IsMultiPart && book.PartLabel != "" {
		return bookDir, fileops.SanitizeFilename(bareLabel(book.PartLabel))
	}
	return bookDir, ""
}

// bareLabel strips the outer parentheses: "(Part 1 of 2)" -> "Part 1 of 2".
func bareLabel(label string) string {
	return strings.Trim(label, "()")
}
