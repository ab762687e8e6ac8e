package docsnap

// DefaultMinTextLength is the amount of trimmed text a candidate content
// region must exceed before an extractor accepts it.
const DefaultMinTextLength = 50

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the first h1, else the <title>, else UntitledTitle.
	Title string

	// Description comes from page metadata and may be empty.
	Description string

	// ContentHTML is the main content region as clean HTML.
	// Navigation chrome and scripts have been removed.
	ContentHTML string
}

// Extractor isolates the main content of a rendered page.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// Returns ENOTFOUND when the page has no usable content region at all;
	// callers treat that as a skip, not a failure.
	Extract(html string) (*ExtractResult, error)
}
