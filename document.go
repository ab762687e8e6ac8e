package docsnap

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// UntitledTitle is used when a page provides no title at all.
const UntitledTitle = "Untitled"

// Document is the normalized, immutable record of one documentation page.
type Document struct {
	Route       string    `json:"route"`
	URL         string    `json:"url,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"markdown"`
	Headings    []Heading `json:"headings"`
	ContentHash string    `json:"contentHash,omitempty"`
}

// Heading is a markdown heading with the byte span of the content it owns.
// The span runs from the heading line to the next heading of the same or a
// shallower level, so it includes every nested sub-section.
type Heading struct {
	Level       int    `json:"level"`
	Text        string `json:"text"`
	ID          string `json:"id"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Route == "" {
		return Errorf(EINVALID, "document route required")
	}
	if !strings.HasPrefix(d.Route, "/") {
		return Errorf(EINVALID, "document route %q must begin with a slash", d.Route)
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	for _, h := range d.Headings {
		if h.Level < 1 || h.Level > 6 {
			return Errorf(EINVALID, "heading %q has invalid level %d", h.ID, h.Level)
		}
		if h.StartOffset < 0 || h.StartOffset > h.EndOffset || h.EndOffset > len(d.Body) {
			return Errorf(EINVALID, "heading %q has invalid span [%d:%d] for body of length %d",
				h.ID, h.StartOffset, h.EndOffset, len(d.Body))
		}
	}
	return nil
}

// FindHeading returns the first heading with the given id.
func (d *Document) FindHeading(id string) (Heading, bool) {
	for _, h := range d.Headings {
		if h.ID == id {
			return h, true
		}
	}
	return Heading{}, false
}

// Key returns the identifier shown to callers: the full URL when the
// snapshot was built with a base URL, otherwise the route.
func (d *Document) Key() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Route
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return formatHash(xxhash.Sum64String(content))
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%x", h)
}
