package docsnap

import (
	"context"
	"fmt"
)

// QueryService answers read-only queries against a loaded snapshot.
type QueryService interface {
	// Search returns ranked results for a free-text query.
	// Returns EINVALID for an empty or whitespace-only query.
	// No matches is an empty slice, not an error.
	Search(ctx context.Context, query string, limit int) ([]*SearchResult, error)

	// GetDocument looks a document up by route or full URL.
	// Returns ENOTFOUND if no document matches.
	GetDocument(ctx context.Context, routeOrURL string) (*Document, error)

	// GetSection returns the content owned by a heading.
	// Returns ENOTFOUND if the document does not exist and a
	// *SectionNotFoundError if the document has no such heading.
	GetSection(ctx context.Context, route, headingID string) (*SectionResult, error)
}

// SectionResult is the content owned by one heading of a document.
type SectionResult struct {
	Document *Document
	Heading  Heading
	Content  string
}

// SectionNotFoundError reports a missing heading together with the
// headings the document does have, so callers can retry with a valid id.
type SectionNotFoundError struct {
	Route     string
	HeadingID string
	Available []Heading
}

// Error implements the error interface.
func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found in %s", e.HeadingID, e.Route)
}

// Stats summarises a loaded snapshot.
type Stats struct {
	DocCount int
	Searcher string
	Manifest Manifest
}
