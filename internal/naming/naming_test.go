// file: internal/naming/naming_test.go
// version: 1.1.0
// guid: c3f58a20-9e14-4b7d-a6c2-05d8e1b7f394

package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/resolver"
	"github.com/jdfalk/audiobook-librarian/internal/series"
)

func audioFiles(dir string, tags ...metadata.Tags) []metadata.AudioFileRecord {
	recs := make([]metadata.AudioFileRecord, len(tags))
	for i, t := range tags {
		recs[i] = metadata.AudioFileRecord{Path: filepath.Join(dir, fmt.Sprintf("%02d.mp3", i+1)), Tags: t}
	}
	return recs
}

func placementsOf(plan BookPlan, kind Kind) []string {
	var out []string
	for _, p := range plan.Placements {
		if p.Kind == kind {
			out = append(out, p.RelPath)
		}
	}
	return out
}

func TestPlan_SingleFileHasNoTrackSuffix(t *testing.T) {
	book := grouping.LogicalBookInfo{
		Author:    "Frank Herbert",
		CoreTitle: "Dune",
		Folders:   []string{"/src/Dune"},
		Files:     audioFiles("/src/Dune", metadata.Tags{Title: "Dune", Track: "1/3"}),
	}
	plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))

	assert.Equal(t, filepath.Join("Frank Herbert", "Dune"), plan.RelDir)
	assert.Empty(t, plan.ParentRelDir)
	assert.Equal(t, []string{filepath.Join("Frank Herbert", "Dune", "Dune.mp3")}, placementsOf(plan, KindAudio))
}

func TestPlan_TrackSuffixes(t *testing.T) {
	book := grouping.LogicalBookInfo{
		Author:    "Brandon Sanderson",
		Series:    "Mistborn",
		Number:    series.Some(1),
		CoreTitle: "The Final Empire",
		Files: audioFiles("/src/TFE",
			metadata.Tags{Title: "Chapter 1", Track: "1", TrackTotal: "3"},
			metadata.Tags{Title: "Chapter 2", Track: "2/3"},
			metadata.Tags{Title: "Chapter 3", Track: "3/3"},
		),
	}
	plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))

	dir := filepath.Join("Brandon Sanderson", "Mistborn", "1 - The Final Empire")
	assert.Equal(t, dir, plan.RelDir)
	assert.Equal(t, []string{
		filepath.Join(dir, "The Final Empire Track 01 of 03.mp3"),
		filepath.Join(dir, "The Final Empire Track 02 of 03.mp3"),
		filepath.Join(dir, "The Final Empire Track 03 of 03.mp3"),
	}, placementsOf(plan, KindAudio))
}

func TestPlan_IndexFallbackAndTrackOnly(t *testing.T) {
	book := grouping.LogicalBookInfo{
		Author:    "A",
		CoreTitle: "Book",
		Files:     audioFiles("/src/B", metadata.Tags{}, metadata.Tags{}),
	}
	plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))
	assert.Equal(t, []string{
		filepath.Join("A", "Book", "Book Track 01 of 02.mp3"),
		filepath.Join("A", "Book", "Book Track 02 of 02.mp3"),
	}, placementsOf(plan, KindAudio))

	assert.Equal(t, " Track 07", trackSuffix(metadata.Tags{Track: "7"}, 1, 2))
	assert.Equal(t, " Track 007 of 120", trackSuffix(metadata.Tags{Track: "7/120"}, 1, 2))
	assert.Equal(t, " Track 003 of 100", trackSuffix(metadata.Tags{Track: "x"}, 3, 100))
}

func TestPlan_PerTrackTitle(t *testing.T) {
	book := grouping.LogicalBookInfo{
		Author:    "A",
		Series:    "Saga",
		Number:    series.Some(2),
		CoreTitle: "Collected",
		Files: audioFiles("/src/C",
			metadata.Tags{Title: "Saga #2 - The Long Night", Track: "1/2"},
			metadata.Tags{Title: "Track 2", Track: "2/2"},
		),
	}
	plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))
	dir := filepath.Join("A", "Saga", "2 - Collected")
	assert.Equal(t, []string{
		filepath.Join(dir, "The Long Night Track 01 of 02.mp3"),
		filepath.Join(dir, "Collected Track 02 of 02.mp3"),
	}, placementsOf(plan, KindAudio))
}

func TestPlan_UntaggedTracksUseFileStem(t *testing.T) {
	book := grouping.LogicalBookInfo{
		Author:    "A",
		CoreTitle: "Book",
		Files: []metadata.AudioFileRecord{
			{Path: "/src/B/The Storm.mp3"},
			{Path: "/src/B/Prologue.mp3"},
		},
	}
	plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))
	assert.ElementsMatch(t, []string{
		filepath.Join("A", "Book", "The Storm Track 02 of 02.mp3"),
		filepath.Join("A", "Book", "Prologue Track 01 of 02.mp3"),
	}, placementsOf(plan, KindAudio))
}

func TestPlan_LongTitlesKeepTrackSuffixAndExtension(t *testing.T) {
	titles := map[string]string{
		"latin": strings.TrimSpace(strings.Repeat("Long Title ", 18)),
		"cjk":   strings.Repeat("書", 200),
	}
	for name, title := range titles {
		t.Run(name, func(t *testing.T) {
			book := grouping.LogicalBookInfo{
				Author:    "A",
				CoreTitle: title,
				Files: audioFiles("/src/L",
					metadata.Tags{Title: title, Track: "1/3"},
					metadata.Tags{Title: title, Track: "2/3"},
					metadata.Tags{Title: title, Track: "3/3"},
				),
			}
			plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))

			audio := placementsOf(plan, KindAudio)
			require.Len(t, audio, 3)
			seen := make(map[string]bool)
			for i, p := range audio {
				base := filepath.Base(p)
				assert.True(t, strings.HasSuffix(base, fmt.Sprintf(" Track %02d of 03.mp3", i+1)), base)
				assert.LessOrEqual(t, len(base), fileops.MaxNameBytes)
				assert.True(t, utf8.ValidString(base))
				seen[base] = true
			}
			assert.Len(t, seen, 3, "track names must stay distinct")
			for _, segment := range strings.Split(plan.RelDir, string(filepath.Separator)) {
				assert.LessOrEqual(t, len(segment), fileops.MaxNameBytes)
			}
		})
	}
}

func TestPlan_MultiPart(t *testing.T) {
	part := func(i int) grouping.LogicalBookInfo {
		folder := fmt.Sprintf("/src/Mistborn (Part %d of 2)", i)
		return grouping.LogicalBookInfo{
			Author:      "Brandon Sanderson",
			Series:      "Mistborn",
			Number:      series.Some(1),
			CoreTitle:   "Mistborn",
			Publisher:   "Audible",
			Folders:     []string{folder},
			Files:       audioFiles(folder, metadata.Tags{}),
			OtherFiles:  []string{filepath.Join(folder, "cover.jpg")},
			IsMultiPart: true,
			PartLabel:   fmt.Sprintf("(Part %d of 2)", i),
			PartIndex:   i,
		}
	}
	books := []grouping.LogicalBookInfo{part(1), part(2)}
	res := resolver.Resolve(books)
	plans := PlanAll(books, res)
	require.Len(t, plans, 2)

	parent := filepath.Join("Brandon Sanderson", "Mistborn", "1 - Mistborn")
	for i, plan := range plans {
		label := fmt.Sprintf("Part %d of 2", i+1)
		assert.Equal(t, parent, plan.ParentRelDir)
		assert.Equal(t, filepath.Join(parent, label), plan.RelDir)
		assert.Equal(t, []string{filepath.Join(parent, label, "Mistborn - "+label+".mp3")}, placementsOf(plan, KindAudio))
		assert.Equal(t, []string{filepath.Join(parent, label, "Mistborn "+label+" Cover.jpg")}, placementsOf(plan, KindCover))
	}
}

func TestPlan_AmbiguousSuffix(t *testing.T) {
	a := grouping.LogicalBookInfo{Author: "Brandon Sanderson", CoreTitle: "Mistborn", Publisher: "Audible",
		Files: audioFiles("/src/a", metadata.Tags{})}
	b := grouping.LogicalBookInfo{Author: "Brandon Sanderson", CoreTitle: "Mistborn", Publisher: "Graphic Audio",
		Files: audioFiles("/src/b", metadata.Tags{})}
	res := resolver.Resolve([]grouping.LogicalBookInfo{a, b})

	assert.Equal(t, filepath.Join("Brandon Sanderson", "Mistborn (Published by Audible)"), Plan(a, res).RelDir)
	assert.Equal(t, filepath.Join("Brandon Sanderson", "Mistborn (Published by Graphic Audio)"), Plan(b, res).RelDir)

	sa := a
	sa.Series, sa.Number = "Mistborn Saga", series.Some(1)
	sb := b
	sb.Series, sb.Number = "Mistborn Saga", series.Some(1)
	res = resolver.Resolve([]grouping.LogicalBookInfo{sa, sb})
	assert.Equal(t, filepath.Join("Brandon Sanderson", "Mistborn Saga (Published by Audible)", "1 - Mistborn"), Plan(sa, res).RelDir)
}

func TestPlan_NonAudio(t *testing.T) {
	dir := "/src/Dune"
	book := grouping.LogicalBookInfo{
		Author:    "Frank Herbert",
		CoreTitle: "Dune",
		Files:     audioFiles(dir, metadata.Tags{}),
		OtherFiles: []string{
			filepath.Join(dir, "back.png"),
			filepath.Join(dir, "Cover.JPG"),
			filepath.Join(dir, "dune.epub"),
			filepath.Join(dir, "metadata.opf"),
			filepath.Join(dir, "notes?.txt"),
			filepath.Join(dir, "playlist.ll"),
			filepath.Join(dir, "stray.mp3"),
		},
	}
	plan := Plan(book, resolver.Resolve([]grouping.LogicalBookInfo{book}))
	root := filepath.Join("Frank Herbert", "Dune")

	assert.Equal(t, []string{filepath.Join(root, "Dune Cover.JPG")}, placementsOf(plan, KindCover))
	assert.Equal(t, []string{filepath.Join(root, "playlist.ll")}, placementsOf(plan, KindPlaylist))
	assert.Equal(t, []string{
		filepath.Join(root, ExtrasDir, "back.png"),
		filepath.Join(root, ExtrasDir, "dune.epub"),
		filepath.Join(root, ExtrasDir, "notes_.txt"),
	}, placementsOf(plan, KindExtra))
}

func TestPickCover(t *testing.T) {
	assert.Equal(t, "/a/only.png", pickCover([]string{"/a/only.png"}))
	assert.Equal(t, "/a/folder.jpg", pickCover([]string{"/a/art.jpg", "/a/folder.jpg", "/a/front.jpg"}))
	assert.Equal(t, "", pickCover([]string{"/a/one.jpg", "/a/two.jpg"}))
	assert.Equal(t, "", pickCover(nil))
}

func TestParseTrack(t *testing.T) {
	tests := []struct {
		tags     metadata.Tags
		num, tot int
	}{
		{metadata.Tags{Track: "3/12"}, 3, 12},
		{metadata.Tags{Track: "3"}, 3, 0},
		{metadata.Tags{Track: "3", TrackTotal: "9"}, 3, 9},
		{metadata.Tags{Track: "3/", TrackTotal: "9"}, 3, 9},
		{metadata.Tags{Track: "x/5"}, 0, 5},
		{metadata.Tags{}, 0, 0},
	}
	for _, tt := range tests {
		num, tot := ParseTrack(tt.tags)
		if num != tt.num || tot != tt.tot {
			t.Errorf("ParseTrack(%+v) = %d, %d; want %d, %d", tt.tags, num, tot, tt.num, tt.tot)
		}
	}
}
