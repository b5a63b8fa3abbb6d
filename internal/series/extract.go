// file: internal/series/extract.go
// version: 1.0.0
// guid: 2f7a4c19-e08b-4d63-b5f2-9a1c6e3d7b08

package series

import (
	"regexp"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
)

// seriesPattern pairs a regex with the submatch indexes holding the name and number.
type seriesPattern struct {
	name   string
	re     *regexp.Regexp
	nameIx int
	numIx  int
}

// seriesPatterns are tried in order against each candidate and the first match
// with a non-empty name wins. The order is a contract: the generic trailing-number
// fallback must stay last because it also matches plain numbered titles
// ("Chapter 12"), a false positive we accept.
var seriesPatterns = []seriesPattern{
	{"hash", regexp.MustCompile(`(?i)^(.*?)\s*[#S]\s*(\d+(?:\.\d+)?)\s*[-–—:]?\s*(.*)?$`), 1, 2},
	{"comma-book", regexp.MustCompile(`(?i)^(.*?),\s*(?:Book|Vol|Volume|Part)\s*(\d+(?:\.\d+)?)\s*[-–—:]?\s*(.*)?$`), 1, 2},
	{"dash-book", regexp.MustCompile(`(?i)^(.*?)\s*[-–—:]\s*(?:Book|Vol|Volume|Part)\s*(\d+(?:\.\d+)?)\s*[-–—:]?\s*(.*)?$`), 1, 2},
	{"trailing-number", regexp.MustCompile(`(?i)^(.*?)\s*(\d+(?:\.\d+)?)\s*[-–—:]?\s*(.*)?$`), 1, 2},
}

var seriesNameCleanup = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:,\s*)?(?:Book|Vol|Volume|Part)\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\s*[-–—:]\s*)?(?:Book|Vol|Volume|Part)\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`\s*(\d+(?:\.\d+)?)$`),
}

// ExtractSeriesInfo recovers a series name and book number from the grouping,
// album and title fields, tried in that order. Unmatched input returns ("", Number{}).
func ExtractSeriesInfo(grouping, album, title string) (string, Number) {
	var name string
	var number Number

candidates:
	for _, candidate := range []string{grouping, album, title} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		for _, p := range seriesPatterns {
			m := p.re.FindStringSubmatch(candidate)
			if m == nil {
				continue
			}
			if extracted := strings.TrimSpace(m[p.nameIx]); extracted != "" {
				name = extracted
			}
			number = ParseNumber(m[p.numIx])
			if name != "" && number.Valid {
				break candidates
			}
		}
	}

	if name == "" {
		return "", number
	}
	return cleanSeriesName(name), number
}

func cleanSeriesName(name string) string {
	for _, re := range seriesNameCleanup {
		name = strings.TrimSpace(re.ReplaceAllString(name, ""))
	}
	if fileops.IsPlaceholder(name) {
		return ""
	}
	return fileops.SanitizeFilename(name)
}

var seriesTagCleanup = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\[Dramatized Adaptation\]`), ""},
	{regexp.MustCompile(`(?i)\s*(?:#\d+(?:\.\d+)?(?:[ -].*)?|\((?:book|part|disc|volume|vol)\s*\d+(?:\.\d+)?(?:\s+of\s*\d+(?:\.\d+)?)?\)|\[.*?\])$`), ""},
	{regexp.MustCompile(`(?i)\s*(?:Part|Disc|Volume|Vol)\s*\d+(?:\s+of\s*\d+)?`), ""},
	{regexp.MustCompile(`(?i)#\d+(?:\.\d+)?(?:,\s*(?:Part|Disc|Volume|Vol)\s*\d+(?:\s+of\s*\d+)?)?`), ""},
	{regexp.MustCompile(`(?i)\s*#\d+(?:\.\d+)?$`), ""},
	{whitespace, " "},
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanSeriesTag turns a raw grouping or series tag ("Stormlight Archive #2
// [Dramatized Adaptation]") into a bare series name. Used when the book number
// came from a sidecar but no pattern produced a name.
func CleanSeriesTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if fileops.IsPlaceholder(tag) {
		return ""
	}
	name := fileops.SanitizeFilename(tag)
	for _, step := range seriesTagCleanup {
		name = strings.TrimSpace(step.re.ReplaceAllString(name, step.repl))
	}
	return name
}
