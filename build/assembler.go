package build

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docsnap"
)

// Assembler turns a rendered page into a Document.
type Assembler struct {
	Extractor docsnap.Extractor
	Converter docsnap.Converter

	// MinContentLength is the minimum number of characters of trimmed
	// markdown a page needs. Zero disables the check.
	MinContentLength int

	// BaseURL is joined with the route when the page carries no URL.
	BaseURL string
}

// Outcome describes how a page was converted.
type Outcome struct {
	Mode docsnap.ConversionMode

	// Err is the structured conversion error when Mode is
	// docsnap.ConversionPlainText.
	Err error
}

// Fallback reports whether the plain-text fallback produced the markdown.
func (o Outcome) Fallback() bool {
	return o.Mode == docsnap.ConversionPlainText
}

// Assemble extracts, converts and indexes the headings of page.
// Pages without usable content return an EINVALID or ENOTFOUND error that
// callers treat as a skip.
func (a *Assembler) Assemble(page *docsnap.Page) (*docsnap.Document, Outcome, error) {
	if page == nil {
		return nil, Outcome{}, docsnap.Errorf(docsnap.EINVALID, "page required")
	}
	route := docsnap.NormalizeRoute(page.Route)

	extracted, err := a.Extractor.Extract(page.HTML)
	if err != nil {
		return nil, Outcome{}, err
	}

	conv := a.Converter.Convert(extracted.ContentHTML)
	outcome := Outcome{Mode: conv.Mode, Err: conv.Err}
	if conv.Mode == docsnap.ConversionEmpty {
		return nil, outcome, docsnap.Errorf(docsnap.EINVALID, "%s: no content", route)
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(conv.Markdown)); n < a.MinContentLength {
		return nil, outcome, docsnap.Errorf(docsnap.EINVALID, "%s: content too short (%d < %d characters)", route, n, a.MinContentLength)
	}

	title := strings.TrimSpace(extracted.Title)
	if title == "" {
		title = docsnap.UntitledTitle
	}
	url := page.URL
	if url == "" {
		url = docsnap.JoinURL(a.BaseURL, route)
	}

	doc := &docsnap.Document{
		Route:       route,
		URL:         url,
		Title:       title,
		Description: strings.TrimSpace(extracted.Description),
		Body:        conv.Markdown,
		Headings:    docsnap.ExtractHeadings(conv.Markdown),
		ContentHash: docsnap.ComputeHash(conv.Markdown),
	}
	return doc, outcome, nil
}
