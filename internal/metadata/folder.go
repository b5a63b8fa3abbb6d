// file: internal/metadata/folder.go
// version: 1.0.0
// guid: c85d2a17-04e9-4f3b-9b6c-e1a7d3f05b92

package metadata

import (
	"path/filepath"
	"sort"

	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// BuildFolderMetadata combines per-file records and an optional OPF sidecar
// into one folder view. OPF values win; fields the OPF lacks are filled from
// the first audio file (by path). Returns false when there is no audio record,
// in which case the folder cannot be organized.
func BuildFolderMetadata(folder string, records []AudioFileRecord, opf *Tags, otherFiles []string) (FolderMetadata, bool) {
	fm := FolderMetadata{
		Path:       folder,
		Name:       filepath.Base(folder),
		OtherFiles: append([]string(nil), otherFiles...),
	}
	sort.Strings(fm.OtherFiles)
	if len(records) == 0 {
		return fm, false
	}

	fm.Files = append([]AudioFileRecord(nil), records...)
	sort.SliceStable(fm.Files, func(i, j int) bool { return fm.Files[i].Path < fm.Files[j].Path })
	for _, r := range fm.Files {
		if r.HasEmbeddedImage {
			fm.HasEmbeddedImage = true
			break
		}
	}

	firstTags := fm.Files[0].Tags
	if opf != nil && !opf.IsZero() {
		fm.Tags = overlayAudioTags(*opf, firstTags)
	} else {
		fm.Tags = firstTags
	}
	fm.Tags.Publisher = NormalizePublisher(fm.Tags.Publisher)
	fm.Part = series.ExtractPartInfo(fm.Name)
	return fm, true
}

// overlayAudioTags fills the book-level fields an OPF did not provide from an
// audio file's tags. Series fields are never taken from audio here; an OPF
// that carries no series keeps it that way.
func overlayAudioTags(opf, audio Tags) Tags {
	merged := opf
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&merged.Artist, audio.Artist)
	fill(&merged.Album, audio.Album)
	fill(&merged.Title, audio.Title)
	fill(&merged.Genre, audio.Genre)
	fill(&merged.Comment, audio.Comment)
	fill(&merged.Grouping, audio.Grouping)
	fill(&merged.Description, audio.Description)
	fill(&merged.Subtitle, audio.Subtitle)
	fill(&merged.TrackTotal, audio.TrackTotal)
	fill(&merged.Copyright, audio.Copyright)
	fill(&merged.Publisher, audio.Publisher)
	fill(&merged.Performer, audio.Performer)
	fill(&merged.Date, audio.Date)
	return merged
}
