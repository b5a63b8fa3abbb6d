// file: internal/grouping/group.go
// version: 1.0.0
// guid: 6e24b8d1-f035-4a7c-9c1e-58b3a0d7f26c

package grouping

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// folderBook is one physical folder with its derived grouping fields.
type folderBook struct {
	fm        metadata.FolderMetadata
	key       LogicalBookKey
	coreTitle string
}

// Group clusters folders into logical books. The result depends only on the
// set of folders, not on their order.
func Group(folders []metadata.FolderMetadata) []LogicalBookInfo {
	sorted := append([]metadata.FolderMetadata(nil), folders...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	groups := make(map[LogicalBookKey][]folderBook)
	var order []LogicalBookKey
	for _, fm := range sorted {
		if len(fm.Files) == 0 {
			continue
		}
		fb := deriveFolderBook(fm)
		if _, seen := groups[fb.key]; !seen {
			order = append(order, fb.key)
		}
		groups[fb.key] = append(groups[fb.key], fb)
	}

	var books []LogicalBookInfo
	for _, key := range order {
		members := groups[key]
		if len(members) == 1 {
			books = append(books, newBook(members[0], members[0].coreTitle))
			continue
		}
		books = append(books, splitParts(key, members)...)
	}
	return books
}

func deriveFolderBook(fm metadata.FolderMetadata) folderBook {
	t := fm.Tags
	name, number := deriveSeries(t)
	raw := rawTitle(fm)
	return folderBook{
		fm: fm,
		key: LogicalBookKey{
			Author:    DeriveAuthor(t),
			Series:    name,
			Number:    number,
			Publisher: t.Publisher,
		},
		coreTitle: CoreTitle(raw, name, number),
	}
}

var authorSplit = regexp.MustCompile(`[;,/&]| and `)

// DeriveAuthor takes the first listed name from the author (or artist) tag.
func DeriveAuthor(t metadata.Tags) string {
	artist := t.Author
	if artist == "" {
		artist = t.Artist
	}
	first := strings.TrimSpace(authorSplit.Split(artist, 2)[0])
	if fileops.IsPlaceholder(first) {
		return UnknownAuthor
	}
	return fileops.SanitizeFilename(first)
}

// deriveSeries prefers an explicit sidecar book number over a pattern match
// and falls back to the grouping or series tags for the name.
func deriveSeries(t metadata.Tags) (string, series.Number) {
	name, number := series.ExtractSeriesInfo(t.Grouping, t.Album, t.Title)
	if t.SeriesBookNum.Valid {
		number = t.SeriesBookNum
		if name == "" {
			name = series.CleanSeriesTag(t.Grouping)
		}
	}
	if name == "" {
		name = series.CleanSeriesTag(t.Series)
	}
	return name, number
}

func rawTitle(fm metadata.FolderMetadata) string {
	if s := strings.TrimSpace(fm.Tags.Title); s != "" {
		return s
	}
	if s := strings.TrimSpace(fm.Tags.Album); s != "" {
		return s
	}
	return filepath.Base(fm.Path)
}

// CoreTitle strips series then part annotations from raw. If that leaves
// nothing it falls back to the series-stripped string, then raw itself.
func CoreTitle(raw, seriesName string, number series.Number) string {
	stripped := series.StripSeriesInfo(raw, seriesName, number)
	core := series.StripPartInfo(stripped)
	if core == "" {
		core = stripped
	}
	if core == "" {
		core = raw
	}
	return fileops.SanitizeFilename(core)
}

func newBook(fb folderBook, coreTitle string) LogicalBookInfo {
	b := LogicalBookInfo{
		Author:           fb.key.Author,
		Series:           fb.key.Series,
		Number:           fb.key.Number,
		CoreTitle:        coreTitle,
		Publisher:        fb.key.Publisher,
		Performer:        fb.fm.Tags.Performer,
		HasEmbeddedImage: fb.fm.HasEmbeddedImage,
		Folders:          []string{fb.fm.Path},
		Files:            append([]metadata.AudioFileRecord(nil), fb.fm.Files...),
	}
	for _, name := range fb.fm.OtherFiles {
		b.OtherFiles = append(b.OtherFiles, filepath.Join(fb.fm.Path, name))
	}
	return b
}

// splitParts turns folders sharing one key into sibling parts with a shared
// title and ordered labels.
func splitParts(key LogicalBookKey, members []folderBook) []LogicalBookInfo {
	titles := make([]string, len(members))
	for i, m := range members {
		titles[i] = series.StripPartInfo(rawTitle(m.fm))
	}
	shared := SharedTitle(titles)
	if shared == "" {
		base := key.Series
		if base == "" {
			base = "Book"
		}
		shared = strings.TrimSpace(base+" "+key.Number.String()) + " (Multi-Part)"
	}
	shared = fileops.SanitizeFilename(shared)

	sort.SliceStable(members, func(i, j int) bool {
		return partSortValue(members[i].fm.Part) < partSortValue(members[j].fm.Part)
	})

	parts := make([]LogicalBookInfo, 0, len(members))
	for i, m := range members {
		b := newBook(m, shared)
		b.IsMultiPart = true
		b.PartIndex = i + 1
		b.PartLabel = PartLabel(m.fm.Part, i)
		parts = append(parts, b)
	}
	return parts
}

func partSortValue(p series.PartInfo) float64 {
	if !p.Number.Valid {
		return 0
	}
	return p.Number.Value
}

// PartLabel renders a part's display label: "(Disc 02 of 12)" when the total
// is known, "(Disc 2)" without it, else "(Part i+1)" from its position.
func PartLabel(p series.PartInfo, index int) string {
	designation := p.Designation
	if designation == "" {
		designation = series.DefaultPartDesignation
	}
	switch {
	case p.Number.Valid && p.HasTotal():
		n := int(p.Number.Value)
		width := max(len(strconv.Itoa(n)), len(strconv.Itoa(p.Total)))
		return fmt.Sprintf("(%s %0*d of %0*d)", designation, width, n, width, p.Total)
	case p.Number.Valid:
		return fmt.Sprintf("(%s %d)", designation, int(p.Number.Value))
	default:
		return fmt.Sprintf("(%s %d)", series.DefaultPartDesignation, index+1)
	}
}
