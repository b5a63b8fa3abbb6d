// file: internal/naming/audio.go
// version: 1.1.0
// guid: a4d17f0c-6b35-4e82-9c0a-2e8f5b71d396

package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// placeholderTitle matches per-track titles that say nothing about the book:
// "Chapter", "Track 3", "part_02" or a bare number such as an "01" file stem.
var placeholderTitle = regexp.MustCompile(`(?i)^(?:(?:chapter|track|part)(?:[\s._-]*\d+)?|\d+)$`)

// audioPlacements names the audio files of book; RelPath is a bare filename.
func audioPlacements(book grouping.LogicalBookInfo) []Placement {
	count := len(book.Files)
	index := pathIndex(book.Files)

	placements := make([]Placement, 0, count)
	for _, f := range book.Files {
		base := audioBaseName(book, f)
		suffix := ""
		if count > 1 {
			suffix = trackSuffix(f.Tags, index[f.Path], count)
		}
		name := fileops.SanitizeWithSuffix(base, suffix+filepath.Ext(f.Path))
		placements = append(placements, Placement{Source: f.Path, RelPath: name, Kind: KindAudio})
	}
	return placements
}

func audioBaseName(book grouping.LogicalBookInfo, f metadata.AudioFileRecord) string {
	if book.IsMultiPart && book.PartLabel != "" {
		return book.CoreTitle + " - " + bareLabel(book.PartLabel)
	}
	raw := f.Tags.Title
	if strings.TrimSpace(raw) == "" {
		raw = strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
	}
	if title := trackTitle(raw, book.Series, book.Number); title != "" &&
		!strings.EqualFold(title, fileops.SanitizeFilename(book.CoreTitle)) && !placeholderTitle.MatchString(title) {
		return title
	}
	return book.CoreTitle
}

// trackTitle is a file's own title with series and part notation removed.
func trackTitle(raw, seriesName string, number series.Number) string {
	t := series.StripPartInfo(series.StripSeriesInfo(raw, seriesName, number))
	if t == "" {
		return ""
	}
	return fileops.SanitizeFilename(t)
}

// pathIndex gives each file its 1-based position in path order.
func pathIndex(files []metadata.AudioFileRecord) map[string]int {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)
	index := make(map[string]int, len(paths))
	for i, p := range paths {
		index[p] = i + 1
	}
	return index
}

// trackSuffix renders " Track NN of MM", " Track NN" or, without usable tag
// numbers, the file's path-order index out of count.
func trackSuffix(t metadata.Tags, index, count int) string {
	num, total := ParseTrack(t)

	width := 2
	if total > 0 {
		width = max(width, len(strconv.Itoa(total)))
	} else {
		width = max(width, len(strconv.Itoa(count)))
	}

	switch {
	case num > 0 && total > 0:
		return fmt.Sprintf(" Track %0*d of %0*d", width, num, width, total)
	case num > 0:
		return fmt.Sprintf(" Track %0*d", width, num)
	default:
		return fmt.Sprintf(" Track %0*d of %0*d", width, index, width, count)
	}
}

// ParseTrack reads the track number and total from "N/M" or "N" plus the
// TRACKTOTAL fallback. Each part parses independently; zero means unknown.
func ParseTrack(t metadata.Tags) (num, total int) {
	numStr, totalStr, _ := strings.Cut(t.Track, "/")
	num = positiveInt(numStr)
	total = positiveInt(totalStr)
	if total == 0 {
		total = positiveInt(t.TrackTotal)
	}
	return num, total
}

func positiveInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
