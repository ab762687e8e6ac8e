// Package trafilatura implements docsnap.Extractor with go-trafilatura,
// which combines its own heuristics with readability and dom-distiller.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docsnap"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docsnap.Extractor at compile time.
var _ docsnap.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with fallback extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docsnap.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docsnap.Errorf(docsnap.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "no content extracted: %v", err)
	}
	if result.ContentNode == nil {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "no content extracted")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = docsnap.UntitledTitle
	}

	return &docsnap.ExtractResult{
		Title:       title,
		Description: strings.TrimSpace(result.Metadata.Description),
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
