package htmltomarkdown

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// blockTags start a new line in plain-text output.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// Normalize strips trailing whitespace from every line, collapses runs of
// blank lines to one, and ends non-empty output with exactly one newline.
func Normalize(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	md = strings.Join(lines, "\n")
	md = blankLinesRe.ReplaceAllString(md, "\n\n")
	md = strings.Trim(md, "\n")
	if md == "" {
		return ""
	}
	return md + "\n"
}

// PlainText strips all markup from an HTML fragment, dropping script and
// style contents and decoding entities. Whitespace inside a block is
// collapsed; blocks are separated by blank lines.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		sb   strings.Builder
		line []string
		skip int
	)
	flush := func() {
		if len(line) > 0 {
			sb.WriteString(strings.Join(strings.Fields(strings.Join(line, " ")), " "))
			sb.WriteString("\n\n")
			line = line[:0]
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return sb.String()
		case html.TextToken:
			if skip == 0 {
				line = append(line, string(z.Text()))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
			}
			if blockTags[tag] {
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				flush()
			}
		}
	}
}

// headingIDs returns the id attribute of every h1-h6 element in document
// order, with "" for headings without one.
func headingIDs(fragment string) []string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var ids []string
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return ids
		}
		if tt != html.StartTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if len(name) != 2 || name[0] != 'h' || name[1] < '1' || name[1] > '6' {
			continue
		}
		id := ""
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) == "id" {
				id = strings.TrimSpace(string(val))
			}
		}
		ids = append(ids, id)
	}
}
