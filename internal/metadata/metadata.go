// file: internal/metadata/metadata.go
// version: 2.0.0
// guid: 9d0e1f2a-3b4c-5d6e-7f8a-9b0c1d2e3f4a

// Package metadata reads audio tags and OPF sidecars and maps every container
// vocabulary onto one fixed Tags schema.
package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// ReadAudioFile extracts tags and the embedded-image flag from one audio file.
// An error means no usable tags could be read; callers hold such files aside.
func ReadAudioFile(path string) (AudioFileRecord, error) {
	rec := AudioFileRecord{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return rec, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	m, readErr := tag.ReadFrom(f)
	if readErr == nil {
		rec.Tags = tagsFromMetadata(m)
		rec.HasEmbeddedImage = m.Picture() != nil
	}

	if IsMP3(path) {
		if frames, err := readUserTextFrames(path); err == nil {
			applyUserTextFrames(&rec.Tags, frames)
		}
	}

	if native, err := readNativeTags(path); err == nil {
		fillFromNative(&rec.Tags, native)
	}

	if rec.Tags.IsZero() {
		if readErr != nil {
			return rec, fmt.Errorf("reading tags from %s: %w", path, readErr)
		}
		return rec, fmt.Errorf("no tags found in %s", path)
	}

	rec.Tags.finalize()
	return rec, nil
}

// NativeTagsAvailable reports whether the TagLib reader was compiled in.
func NativeTagsAvailable() bool { return taglibAvailable }

// IsMP3 reports whether path is an MP3 file, the only container carrying TXXX frames.
func IsMP3(path string) bool { return hasExt(path, []string{".mp3"}) }

func tagsFromMetadata(m tag.Metadata) Tags {
	raw := m.Raw()
	t := Tags{
		Artist:   strings.TrimSpace(m.Artist()),
		Album:    strings.TrimSpace(m.Album()),
		Title:    strings.TrimSpace(m.Title()),
		Genre:    strings.TrimSpace(m.Genre()),
		Comment:  strings.TrimSpace(m.Comment()),
		Composer: strings.TrimSpace(m.Composer()),
	}

	t.Grouping = rawString(raw, "TIT1", "GRP1", "\xa9grp", "©grp", "grouping")
	t.Description = rawString(raw, "desc", "\xa9des", "©des", "ldes")
	t.Subtitle = rawString(raw, "TIT3")
	t.Publisher = rawString(raw, "TPUB", "\xa9pub", "©pub", "publisher")
	t.Performer = rawString(raw, "TPE4", "performer")
	t.Copyright = rawString(raw, "TCOP", "cprt")
	if t.Composer == "" {
		t.Composer = rawString(raw, "TCOM", "\xa9wrt", "©wrt")
	}
	t.Date = rawString(raw, "TDRC", "TYER", "\xa9day", "©day")
	if t.Date == "" && m.Year() > 0 {
		t.Date = strconv.Itoa(m.Year())
	}

	t.Track = numberPair(m.Track())
	t.Disc = numberPair(m.Disc())
	return t
}

// numberPair renders a (number, total) pair the way ID3 stores it: "3/12" or "3".
func numberPair(n, total int) string {
	switch {
	case n <= 0:
		return ""
	case total > 0:
		return fmt.Sprintf("%d/%d", n, total)
	default:
		return strconv.Itoa(n)
	}
}

// rawString returns the first non-empty string value among keys in a raw tag map.
func rawString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case []string:
			if len(val) > 0 {
				s = val[0]
			}
		case *tag.Comm:
			if val != nil {
				s = val.Text
			}
		case fmt.Stringer:
			s = val.String()
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// fillFromNative fills fields the pure-Go reader missed from a native
// TagLib property map (uppercase keys, multi-valued).
func fillFromNative(t *Tags, props map[string][]string) {
	get := func(keys ...string) string {
		for _, k := range keys {
			if vals := props[k]; len(vals) > 0 {
				if s := strings.TrimSpace(vals[0]); s != "" {
					return s
				}
			}
		}
		return ""
	}
	fill := func(dst *string, keys ...string) {
		if *dst == "" {
			*dst = get(keys...)
		}
	}
	fill(&t.Artist, "ARTIST", "ALBUMARTIST")
	fill(&t.Album, "ALBUM")
	fill(&t.Title, "TITLE")
	fill(&t.Genre, "GENRE")
	fill(&t.Comment, "COMMENT")
	fill(&t.Grouping, "GROUPING", "CONTENTGROUP")
	fill(&t.Description, "DESCRIPTION")
	fill(&t.Subtitle, "SUBTITLE")
	fill(&t.Track, "TRACKNUMBER")
	fill(&t.TrackTotal, "TRACKTOTAL")
	fill(&t.Disc, "DISCNUMBER")
	fill(&t.Publisher, "PUBLISHER", "LABEL")
	fill(&t.Performer, "PERFORMER")
	fill(&t.Composer, "COMPOSER")
	fill(&t.Copyright, "COPYRIGHT")
	fill(&t.NarratedBy, "NARRATEDBY", "NARRATOR")
	fill(&t.Date, "DATE", "YEAR")
	fill(&t.Series, "SERIES")
}
