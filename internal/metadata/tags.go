// file: internal/metadata/tags.go
// version: 1.0.0
// guid: 61d0c4f8-2b7e-4a93-9e15-c8f3a07d2b64

package metadata

import (
	"path/filepath"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// Recognized file extensions, lowercase with leading dot.
var (
	AudioExtensions = []string{".mp3", ".m4a", ".m4b"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// IsAudioFile reports whether path has an audio extension.
func IsAudioFile(path string) bool { return hasExt(path, AudioExtensions) }

// IsImageFile reports whether path has an image extension.
func IsImageFile(path string) bool { return hasExt(path, ImageExtensions) }

// IsOPFFile reports whether path is a package-description sidecar.
func IsOPFFile(path string) bool { return strings.EqualFold(filepath.Ext(path), ".opf") }

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Tags is the fixed schema every container's tag vocabulary is mapped into.
// Empty strings mean the field was not present.
type Tags struct {
	Artist        string        `json:"artist,omitempty"`
	Album         string        `json:"album,omitempty"`
	Title         string        `json:"title,omitempty"`
	Genre         string        `json:"genre,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	Grouping      string        `json:"grouping,omitempty"`
	Description   string        `json:"description,omitempty"`
	Subtitle      string        `json:"subtitle,omitempty"`
	Track         string        `json:"track,omitempty"` // "3" or "3/12"
	TrackTotal    string        `json:"track_total,omitempty"`
	Disc          string        `json:"disc,omitempty"`
	Publisher     string        `json:"publisher,omitempty"`
	Performer     string        `json:"performer,omitempty"`
	Composer      string        `json:"composer,omitempty"`
	Copyright     string        `json:"copyright,omitempty"`
	NarratedBy    string        `json:"narrated_by,omitempty"`
	Date          string        `json:"date,omitempty"`
	Series        string        `json:"series,omitempty"`
	SeriesBookNum series.Number `json:"series_book_num"`
	Author        string        `json:"author,omitempty"`
}

// IsZero reports whether no field was populated.
func (t Tags) IsZero() bool { return t == Tags{} }

// genericArtists are artist values that say nothing about who wrote the book.
var genericArtists = map[string]bool{
	"":                true,
	"various artists": true,
	"unknown artist":  true,
}

// finalize derives Author and the publisher fallback once all sources have
// been read.
func (t *Tags) finalize() {
	if genericArtists[strings.ToLower(strings.TrimSpace(t.Artist))] && t.Performer != "" {
		t.Author = t.Performer
	} else if t.Artist != "" {
		t.Author = t.Artist
	}
	if t.Publisher == "" && t.Copyright != "" {
		t.Publisher = t.Copyright
	}
}

// AudioFileRecord is one audio file's extracted metadata. Records are not
// modified after extraction.
type AudioFileRecord struct {
	Path             string `json:"path"`
	Tags             Tags   `json:"tags"`
	HasEmbeddedImage bool   `json:"has_embedded_image"`
}

// FolderMetadata is the combined view of one physical folder.
type FolderMetadata struct {
	Path             string
	Name             string
	Tags             Tags
	HasEmbeddedImage bool
	Files            []AudioFileRecord
	OtherFiles       []string // non-audio basenames directly in the folder
	Part             series.PartInfo
}
