// Package goquery implements docsnap.Extractor with CSS selectors: it picks
// the main content region of a rendered page and strips navigation chrome.
package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsnap"
)

var _ docsnap.Extractor = (*Extractor)(nil)

// DefaultContentSelectors are tried in order after any framework-specific
// selectors.
var DefaultContentSelectors = []string{
	"article",
	"main article",
	"main .markdown",
	".theme-doc-markdown",
	"[role=main]",
	"main",
	".content",
	"#content",
}

// DefaultExcludeSelectors are removed from the content region unless the
// caller supplies its own list.
var DefaultExcludeSelectors = []string{
	"nav",
	"header",
	"footer",
	"aside",
	".hash-link",
	".theme-edit-this-page",
	".pagination-nav",
	".breadcrumbs",
	".theme-doc-toc-mobile",
	".theme-doc-footer",
}

// alwaysExcluded never carries readable content.
var alwaysExcluded = []string{"script", "style", "noscript"}

// excludeSelectorRe accepts a bare tag, a single class, or one
// attribute-equality test.
var excludeSelectorRe = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9-]*|\.[a-zA-Z0-9_-]+|\[[a-zA-Z_:][a-zA-Z0-9_:.-]*=(?:"[^"\]]*"|'[^'\]]*'|[^"'\]\s]+)\])$`)

// Extractor isolates the main content of a page using CSS selectors.
type Extractor struct {
	contentSelectors []string
	excludeSelectors []string
	minTextLength    int
	detector         *Detector
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContentSelectors replaces DefaultContentSelectors.
func WithContentSelectors(selectors ...string) Option {
	return func(e *Extractor) {
		e.contentSelectors = selectors
	}
}

// WithExcludeSelectors replaces DefaultExcludeSelectors. Script, style and
// noscript elements are removed regardless.
func WithExcludeSelectors(selectors ...string) Option {
	return func(e *Extractor) {
		e.excludeSelectors = selectors
	}
}

// WithMinTextLength sets how much text a candidate region must exceed.
// Defaults to docsnap.DefaultMinTextLength.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) {
		e.minTextLength = n
	}
}

// WithoutFrameworkDetection disables framework-specific content selectors.
func WithoutFrameworkDetection() Option {
	return func(e *Extractor) {
		e.detector = nil
	}
}

// NewExtractor creates an Extractor. It returns EINVALID when an exclude
// selector is not a tag, a .class, or an [attr=value] test.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		contentSelectors: DefaultContentSelectors,
		excludeSelectors: DefaultExcludeSelectors,
		minTextLength:    docsnap.DefaultMinTextLength,
		detector:         NewDetector(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, sel := range e.excludeSelectors {
		if !excludeSelectorRe.MatchString(strings.TrimSpace(sel)) {
			return nil, docsnap.Errorf(docsnap.EINVALID, "unsupported exclude selector %q", sel)
		}
	}
	return e, nil
}

// Extract returns the title, description and cleaned content region of html.
// The parsed page is never modified; cleaning works on a copy of the
// chosen region.
func (e *Extractor) Extract(html string) (*docsnap.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "failed to parse HTML: %v", err)
	}

	region := e.contentRegion(doc)
	if region == nil {
		return nil, docsnap.Errorf(docsnap.ENOTFOUND, "no content region")
	}

	content, err := goquery.OuterHtml(region)
	if err != nil {
		return nil, docsnap.Errorf(docsnap.EINTERNAL, "failed to render content: %v", err)
	}

	return &docsnap.ExtractResult{
		Title:       title(doc),
		Description: description(doc),
		ContentHTML: content,
	}, nil
}

// contentRegion returns a cleaned copy of the first candidate with enough
// text, falling back to the body. Nil means the page has no usable region.
func (e *Extractor) contentRegion(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.candidates(doc) {
		found := doc.Find(sel).First()
		if found.Length() == 0 {
			continue
		}
		cleaned := e.clean(found)
		if utf8.RuneCountInString(strings.TrimSpace(cleaned.Text())) > e.minTextLength {
			return cleaned
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	cleaned := e.clean(body)
	if strings.TrimSpace(cleaned.Text()) == "" {
		return nil
	}
	return cleaned
}

func (e *Extractor) candidates(doc *goquery.Document) []string {
	if e.detector == nil {
		return e.contentSelectors
	}
	specific := ContentSelectors(e.detector.DetectDocument(doc))
	if len(specific) == 0 {
		return e.contentSelectors
	}
	return append(append([]string{}, specific...), e.contentSelectors...)
}

// clean deep-copies sel and removes excluded elements from the copy.
func (e *Extractor) clean(sel *goquery.Selection) *goquery.Selection {
	cloned := sel.Clone()
	for _, s := range alwaysExcluded {
		cloned.Find(s).Remove()
	}
	for _, s := range e.excludeSelectors {
		cloned.Find(s).Remove()
	}
	return cloned
}

// title resolves the first h1, then <title>, then the untitled sentinel.
func title(doc *goquery.Document) string {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		h := h1.Clone()
		h.Find(".hash-link").Remove()
		if t := collapse(h.Text()); t != "" {
			return t
		}
	}
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return docsnap.UntitledTitle
}

// description resolves meta description, then og:description.
func description(doc *goquery.Document) string {
	if d := collapse(doc.Find(`meta[name="description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	return collapse(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
