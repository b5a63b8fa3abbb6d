// file: internal/metadata/id3.go
// version: 1.0.0
// guid: 7a3e9d12-c6f0-4b58-a1e4-0d92b6c8f375

package metadata

import (
	"fmt"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/jdfalk/audiobook-librarian/internal/series"
)

const userTextFrame = "User defined text information frame"

// readUserTextFrames returns the TXXX frames of an MP3 keyed by lowercased
// description. Only the first value per description is kept.
func readUserTextFrames(path string) (map[string]string, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{userTextFrame}})
	if err != nil {
		return nil, fmt.Errorf("failed to open ID3 tag: %w", err)
	}
	defer t.Close()

	frames := make(map[string]string)
	for _, f := range t.GetFrames(t.CommonID(userTextFrame)) {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(udtf.Description))
		if _, seen := frames[key]; seen || key == "" {
			continue
		}
		frames[key] = strings.TrimSpace(udtf.Value)
	}
	return frames, nil
}

// applyUserTextFrames maps TXXX values onto t. TRACKTOTAL, SERIES and
// SERIES_BOOK_NUM are authoritative; the rest only fill empty fields.
func applyUserTextFrames(t *Tags, frames map[string]string) {
	if v := frames["tracktotal"]; v != "" {
		t.TrackTotal = v
	}
	if v := frames["series"]; v != "" {
		t.Series = v
	}
	if v, ok := frames["series_book_num"]; ok {
		if n := series.ParseNumber(v); n.Valid {
			t.SeriesBookNum = n
		}
	}
	fallback := func(dst *string, key string) {
		if *dst == "" {
			*dst = frames[key]
		}
	}
	fallback(&t.Publisher, "publisher")
	fallback(&t.Performer, "performer")
	fallback(&t.Copyright, "copyright")
	fallback(&t.Composer, "composer")
	fallback(&t.NarratedBy, "narratedby")
}
