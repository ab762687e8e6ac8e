// Package htmltomarkdown implements docsnap.Converter on top of
// html-to-markdown, with a plain-text fallback for input it cannot convert.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docsnap"
)

// Ensure Converter implements docsnap.Converter at compile time.
var _ docsnap.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to normalized Markdown.
// Headings whose HTML id differs from the slug of their text keep that id
// as an explicit {#id} anchor.
type Converter struct {
	conv    *converter.Converter
	domain  string
	convert func(html string) (string, error)
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and images against domain.
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.convert = c.structured
	return c
}

// Convert transforms an HTML fragment into normalized Markdown. When the
// structured conversion fails the result is a plain-text rendering tagged
// docsnap.ConversionPlainText with the conversion error attached.
func (c *Converter) Convert(html string) docsnap.Conversion {
	if strings.TrimSpace(html) == "" {
		return docsnap.Conversion{Mode: docsnap.ConversionEmpty}
	}

	md, err := c.convert(html)
	if err != nil {
		text := Normalize(PlainText(html))
		if text == "" {
			return docsnap.Conversion{Mode: docsnap.ConversionEmpty, Err: err}
		}
		return docsnap.Conversion{Markdown: text, Mode: docsnap.ConversionPlainText, Err: err}
	}

	md = Normalize(annotateAnchors(md, headingIDs(html)))
	if md == "" {
		return docsnap.Conversion{Mode: docsnap.ConversionEmpty}
	}
	return docsnap.Conversion{Markdown: md, Mode: docsnap.ConversionStructured}
}

func (c *Converter) structured(html string) (string, error) {
	if c.domain != "" {
		return c.conv.ConvertString(html, converter.WithDomain(c.domain))
	}
	return c.conv.ConvertString(html)
}

// annotateAnchors appends " {#id}" to converted headings whose source id
// would not be reproduced by slugifying the heading text. Headings are
// paired in document order; nothing is annotated when the counts differ.
func annotateAnchors(md string, ids []string) string {
	headings := docsnap.ExtractHeadings(md)
	if len(headings) == 0 || len(headings) != len(ids) {
		return md
	}

	var sb strings.Builder
	last := 0
	for i, h := range headings {
		id := ids[i]
		if id == "" || id == h.ID || !validAnchor(id) {
			continue
		}
		lineEnd := strings.IndexByte(md[h.StartOffset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(md)
		} else {
			lineEnd += h.StartOffset
		}
		line := strings.TrimRight(md[h.StartOffset:lineEnd], " \t\r")
		sb.WriteString(md[last:h.StartOffset])
		sb.WriteString(line)
		sb.WriteString(" {#")
		sb.WriteString(id)
		sb.WriteString("}")
		last = lineEnd
	}
	sb.WriteString(md[last:])
	return sb.String()
}

func validAnchor(id string) bool {
	return !strings.ContainsAny(id, "{} \t\r\n")
}
