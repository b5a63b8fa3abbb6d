// file: internal/series/clean.go
// version: 1.1.0
// guid: d7403e1a-96bc-4f58-a2e7-15c0b8f94d63

package series

import (
	"regexp"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/cache"
)

// maxCachedSeries bounds the memoized regex sets; older series are rebuilt on demand.
const maxCachedSeries = 512

// seriesStrippers memoizes the per-series regex set; a library has few series
// but many titles per series.
var seriesStrippers = cache.NewBounded[[]stripper](0, maxCachedSeries)

type stripper struct {
	re   *regexp.Regexp
	repl string
}

func strip(expr string) stripper { return stripper{re: regexp.MustCompile(expr)} }

func strippersFor(seriesName string, number Number) []stripper {
	key := seriesName + "\x00" + number.String()
	return seriesStrippers.GetOrCompute(key, func() []stripper {
		var res []stripper
		if seriesName != "" {
			e := regexp.QuoteMeta(seriesName)
			res = append(res,
				// prefixes: "Name #2 - ", "Name, Book 2: ", "Name - Book 2 - "
				strip(`(?i)^`+e+`\s*[#S]\s*\d+(\.\d+)?\s*[-–—:]?\s*`),
				strip(`(?i)^`+e+`,\s*(?:Book|Vol|Volume|Part)\s*\d+(\.\d+)?\s*[-–—:]?\s*`),
				strip(`(?i)^`+e+`\s*[-–—:]\s*(?:Book|Vol|Volume|Part)\s*\d+(\.\d+)?\s*[-–—:]?\s*`),
				// suffixes
				strip(`(?i)\s*[-–—:]?\s*`+e+`\s*[#S]\s*\d+(\.\d+)?$`),
				strip(`(?i)\s*,\s*`+e+`,\s*(?:Book|Vol|Volume|Part)\s*\d+(\.\d+)?$`),
				strip(`(?i)\s*[-–—:]\s*`+e+`\s*[-–—:]\s*(?:Book|Vol|Volume|Part)\s*\d+(\.\d+)?$`),
				// bare name
				strip(`(?i)^`+e+`\s*[-–—:]?\s*`),
				strip(`(?i)\s*[-–—:]?\s*`+e+`$`),
			)
		}
		if number.Valid {
			n := regexp.QuoteMeta(number.String())
			res = append(res,
				// keep the preceding character so "Book 11" survives number 1
				stripper{re: regexp.MustCompile(`(?i)(^|[^\d.])\s*[-–—:]?\s*` + n + `(\s*of\s*\d+)?$`), repl: "${1}"},
				strip(`(?i)\s*\((?:Book|Vol|Volume|Part)?\s*`+n+`(\s*of\s*\d+)?\)`),
			)
		}
		return res
	})
}

// StripSeriesInfo removes the series name and book number from a title,
// leaving the core title. Empty input returns "".
func StripSeriesInfo(title, seriesName string, number Number) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	strippers := strippersFor(seriesName, number)
	if len(strippers) == 0 {
		return title
	}
	return untilStable(title, func(s string) string {
		for _, st := range strippers {
			s = strings.TrimSpace(st.re.ReplaceAllString(s, st.repl))
		}
		return s
	})
}

// partPatterns run in order; each removes one style of part notation.
var partPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\(Part\s+\d+(?:\.\d+)?\s+of\s+\d+\)`),
	regexp.MustCompile(`(?i)\s*\(\d+(?:\.\d+)?\s*of\s*\d+\)`),
	regexp.MustCompile(`(?i)\s*\(Disc\s+\d+\s+of\s+\d+\)`),
	regexp.MustCompile(`(?i)\s*\(\d+(?:\.\d+)?\)`),
	regexp.MustCompile(`(?i)\s*\[Part\s+\d+(?:\.\d+)?\s+of\s+\d+\]`),
	regexp.MustCompile(`(?i)\s*\[\d+(?:\.\d+)?\s+of\s+\d+\]`),
	regexp.MustCompile(`(?i)\s*\[Disc\s+\d+\s+of\s+\d+\]`),
	regexp.MustCompile(`(?i)\s*\[\d+(?:\.\d+)?\]`),
	regexp.MustCompile(`(?i)\s*-\s*Part\s+\d+(?:\.\d+)?(?:\s+of\s+\d+)?`),
	regexp.MustCompile(`(?i)\s*-\s*\d+(?:\.\d+)?(?:\s+of\s+\d+)?`),
	regexp.MustCompile(`(?i)\s*\(Dramatized Adaptation\)`),
}

// StripPartInfo removes part notations such as "(Part 1 of 5)", "[2]" or
// " - Part 3". Applying it to its own output is a no-op.
func StripPartInfo(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return untilStable(title, func(s string) string {
		for _, re := range partPatterns {
			s = strings.TrimSpace(re.ReplaceAllString(s, ""))
		}
		return strings.TrimSpace(strings.Trim(s, " -."))
	})
}

// untilStable applies step until the string stops changing. Every step only
// removes text, so it terminates.
func untilStable(s string, step func(string) string) string {
	for {
		next := step(s)
		if next == s {
			return s
		}
		s = next
	}
}
