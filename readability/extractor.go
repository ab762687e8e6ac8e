// Package readability implements docsnap.Extractor with go-readability's
// article scoring, for sites whose markup defeats the selector extractor.
package readability

import (
	"strings"

	"github.com/fwojciec/docsnap"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docsnap.Extractor at compile time.
var _ docsnap.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// The description is readability's excerpt, which prefers page metadata.
func (e *Extractor) Extract(rawHTML string) (*docsnap.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docsnap.Errorf(docsnap.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "no readable content: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "no readable content")
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = docsnap.UntitledTitle
	}

	return &docsnap.ExtractResult{
		Title:       title,
		Description: strings.TrimSpace(article.Excerpt),
		ContentHTML: article.Content,
	}, nil
}
