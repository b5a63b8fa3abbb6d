// file: internal/fileops/sanitize.go
// version: 1.1.0
// guid: 3e9b1f0c-7a42-4d8e-b615-2c7d9a0e4f31

package fileops

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxNameBytes caps a single path segment in UTF-8 bytes, below the 255-byte
// NAME_MAX of common filesystems.
const MaxNameBytes = 200

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// dropControl removes control characters that are not whitespace; whitespace
// controls (tabs, newlines) are collapsed to a space later on.
var dropControl = runes.Remove(runes.Predicate(func(r rune) bool {
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}))

// SanitizeFilename turns an arbitrary string into a single safe path segment.
// Input that cleans down to nothing yields "Untitled".
func SanitizeFilename(name string) string {
	return SanitizeWithSuffix(name, "")
}

// SanitizeWithSuffix sanitizes base and appends suffix (a track marker, an
// extension or both). Only base is shortened to fit MaxNameBytes, so the
// suffix always survives intact.
func SanitizeWithSuffix(base, suffix string) string {
	suffix = cleanChars(suffix)
	if len(suffix) > MaxNameBytes/2 {
		suffix = TruncateBytes(suffix, MaxNameBytes/2)
	}

	base = strings.Trim(cleanChars(base), " .")
	if base == "" {
		return "Untitled" + suffix
	}
	base = strings.TrimRight(TruncateBytes(base, MaxNameBytes-len(suffix)), " .")
	if base == "" {
		base = "Untitled"
	}
	return base + suffix
}

// IsPlaceholder reports whether SanitizeFilename replaced name with the
// "Untitled" placeholder because nothing usable was left.
func IsPlaceholder(name string) bool {
	return strings.Trim(cleanChars(name), " .") == ""
}

// TruncateBytes shortens s to at most n bytes without splitting a rune.
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func cleanChars(s string) string {
	if s == "" {
		return ""
	}
	if cleaned, _, err := transform.String(transform.Chain(norm.NFC, dropControl), s); err == nil {
		s = cleaned
	}
	s = invalidNameChars.ReplaceAllString(s, "_")
	return whitespaceRun.ReplaceAllString(s, " ")
}
