// file: internal/metadata/opf.go
// version: 1.0.0
// guid: 3b6f0e84-d21a-4c97-85e3-a4f9c0d71e26

package metadata

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/jdfalk/audiobook-librarian/internal/series"
)

// opfPackage holds the subset of an OPF package document we read. Element
// names match regardless of namespace prefix (dc:, opf:).
type opfPackage struct {
	XMLName  xml.Name `xml:"package"`
	Metadata struct {
		Title       []string `xml:"title"`
		Creator     []string `xml:"creator"`
		Publisher   []string `xml:"publisher"`
		Date        []string `xml:"date"`
		Description []string `xml:"description"`
		Meta        []struct {
			Text     string `xml:",chardata"`
			Name     string `xml:"name,attr"`
			Content  string `xml:"content,attr"`
			Property string `xml:"property,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
}

// ParseOPF reads title, creator, publisher, date, description and series
// information from an OPF sidecar. Both EPUB3 properties and calibre meta
// names are understood. An unparsable series index leaves SeriesBookNum absent.
func ParseOPF(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, fmt.Errorf("error opening OPF: %w", err)
	}
	defer f.Close()

	var pkg opfPackage
	dec := xml.NewDecoder(f)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&pkg); err != nil {
		return Tags{}, fmt.Errorf("could not parse OPF %s: %w", path, err)
	}

	md := pkg.Metadata
	t := Tags{
		Title:       first(md.Title),
		Artist:      first(md.Creator),
		Publisher:   first(md.Publisher),
		Date:        first(md.Date),
		Description: first(md.Description),
	}
	t.Author = t.Artist

	for _, m := range md.Meta {
		text := strings.TrimSpace(m.Text)
		content := strings.TrimSpace(m.Content)
		switch {
		case m.Property == "belongs-to-series" && text != "":
			t.Series = text
		case m.Property == "series-index" || m.Property == "group-position":
			if n := series.ParseNumber(text); n.Valid {
				t.SeriesBookNum = n
			}
		case m.Name == "calibre:series" && content != "" && t.Series == "":
			t.Series = content
		case m.Name == "calibre:series_index" && !t.SeriesBookNum.Valid:
			t.SeriesBookNum = series.ParseNumber(content)
		}
	}
	return t, nil
}

func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
