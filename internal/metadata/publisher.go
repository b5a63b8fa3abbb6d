// file: internal/metadata/publisher.go
// version: 1.0.0
// guid: f2a8c1d3-5e74-4b06-8d9a-3c1e7b52f480

package metadata

import (
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
)

// canonicalPublishers maps lowercase spellings to a canonical name. Order
// matters for the substring pass: "audible studios" must be tried before
// "audible", and the loose "graphic" entry comes last.
var canonicalPublishers = []struct {
	match, name string
}{
	{"graphic audio", "Graphic Audio"},
	{"audible studios", "Audible"},
	{"audible", "Audible"},
	{"hachette audio", "Hachette Audio"},
	{"random house audio", "Random House Audio"},
	{"macmillan audio", "Macmillan Audio"},
	{"harperaudio", "HarperAudio"},
	{"simon & schuster audio", "Simon & Schuster Audio"},
	{"prh audio", "PRH Audio"},
	{"tantor audio", "Tantor Audio"},
	{"brilliance audio", "Brilliance Audio"},
	{"podium audio", "Podium Audio"},
	{"dreamscape media", "Dreamscape Media"},
	{"recorded books", "Recorded Books"},
	{"blackstone audio", "Blackstone Audio"},
	{"scholastic audio", "Scholastic Audio"},
	{"michael-scott earle", "Self-Published"},
	{"actors everywhere", "Actors Everywhere"},
	{"graphic", "Graphic Audio"},
}

// NormalizePublisher maps publisher spellings onto one canonical name so that
// "Audible Studios" and "audible" group together. Unknown publishers are
// sanitized and returned as-is; empty input returns "".
func NormalizePublisher(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return ""
	}
	for _, p := range canonicalPublishers {
		if normalized == p.match {
			return p.name
		}
	}
	for _, p := range canonicalPublishers {
		if strings.Contains(normalized, p.match) {
			return p.name
		}
	}
	return fileops.SanitizeFilename(strings.TrimSpace(name))
}
