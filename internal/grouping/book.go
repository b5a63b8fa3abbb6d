// file: internal/grouping/book.go
// version: 1.0.0
// guid: 1a9c5e70-84d2-4b3f-a6e8-d07f2c19b45e

// Package grouping clusters physical folders into logical books. A logical
// book spread over several folders becomes one entry per part, all sharing
// a core title and key.
package grouping

import (
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// UnknownAuthor is used when a folder has no usable artist.
const UnknownAuthor = "Unknown Author"

// LogicalBookKey identifies a logical book. Folders with equal keys are parts
// of the same book; a different publisher always yields a different book.
type LogicalBookKey struct {
	Author    string
	Series    string
	Number    series.Number
	Publisher string
}

// LogicalBookInfo is one logical book, or one part of a multi-part book.
type LogicalBookInfo struct {
	Author           string
	Series           string
	Number           series.Number
	CoreTitle        string
	Publisher        string
	Performer        string
	HasEmbeddedImage bool
	Folders          []string
	Files            []metadata.AudioFileRecord
	OtherFiles       []string // full paths of non-audio files in the folders
	IsMultiPart      bool
	PartLabel        string // "(Part 1 of 2)"; empty unless IsMultiPart
	PartIndex        int    // 1-based position among siblings; 0 unless IsMultiPart
}

// Key returns the grouping identity of the book.
func (b LogicalBookInfo) Key() LogicalBookKey {
	return LogicalBookKey{Author: b.Author, Series: b.Series, Number: b.Number, Publisher: b.Publisher}
}

// BaseName is the series name when there is one, otherwise the core title.
func (b LogicalBookInfo) BaseName() string {
	if b.Series != "" {
		return b.Series
	}
	return b.CoreTitle
}
