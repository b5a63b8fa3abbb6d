// file: internal/naming/extras.go
// version: 1.0.0
// guid: 2b96e4a1-d70f-4c53-b81e-6a0c3f9d25e4

package naming

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jdfalk/audiobook-librarian/internal/fileops"
	"github.com/jdfalk/audiobook-librarian/internal/grouping"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
)

// PlaylistName is kept verbatim in the book folder.
const PlaylistName = "playlist.ll"

var coverKeywords = []string{"cover", "folder", "front"}

// otherPlacements routes the non-audio files of book: one cover image,
// playlist.ll beside the audio, everything else under Extras. OPF sidecars
// and audio files are never placed here.
func otherPlacements(book grouping.LogicalBookInfo) []Placement {
	others := append([]string(nil), book.OtherFiles...)
	sort.Strings(others)

	var images []string
	for _, p := range others {
		if metadata.IsImageFile(p) {
			images = append(images, p)
		}
	}
	cover := pickCover(images)

	var placements []Placement
	for _, p := range others {
		name := filepath.Base(p)
		switch {
		case metadata.IsAudioFile(p) || metadata.IsOPFFile(p):
			continue
		case p == cover:
			placements = append(placements, Placement{Source: p, RelPath: coverName(book, name), Kind: KindCover})
		case strings.EqualFold(name, PlaylistName):
			placements = append(placements, Placement{Source: p, RelPath: fileops.SanitizeFilename(name), Kind: KindPlaylist})
		default:
			placements = append(placements, Placement{
				Source:  p,
				RelPath: filepath.Join(ExtrasDir, extraName(name)),
				Kind:    KindExtra,
			})
		}
	}
	return placements
}

// pickCover returns the first image whose name carries a cover keyword, or
// the only image when there is exactly one.
func pickCover(images []string) string {
	for _, img := range images {
		lower := strings.ToLower(filepath.Base(img))
		for _, kw := range coverKeywords {
			if strings.Contains(lower, kw) {
				return img
			}
		}
	}
	if len(images) == 1 {
		return images[0]
	}
	return ""
}

func coverName(book grouping.LogicalBookInfo, srcName string) string {
	base := book.CoreTitle
	if book.IsMultiPart && book.PartLabel != "" {
		base += " " + bareLabel(book.PartLabel)
	}
	return fileops.SanitizeWithSuffix(base, " Cover"+filepath.Ext(srcName))
}

// extraName sanitizes a file name while keeping its extension out of reach
// of the length cap. Dotfiles have no separate extension.
func extraName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == "" || fileops.IsPlaceholder(stem) {
		return fileops.SanitizeFilename(name)
	}
	return fileops.SanitizeWithSuffix(stem, ext)
}
