package docsnap

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Snippet sizing, in characters.
const (
	SnippetLength = 200
	snippetBefore = 50
	snippetAfter  = 150
)

// MaxMatchingHeadings caps the headings reported per search result.
const MaxMatchingHeadings = 3

var (
	snippetHeadingRe    = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	snippetAnchorRe     = regexp.MustCompile(`[ \t]*\{#[^}\s]+\}`)
	snippetImageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	snippetLinkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	snippetFenceRe      = regexp.MustCompile("(?m)^[ \t]*(```|~~~)[^\n]*")
	snippetInlineCodeRe = regexp.MustCompile("`([^`]*)`")
)

// QueryTerms splits a query into lowercase whitespace-separated terms
// followed by any stemmed forms that differ from them.
func QueryTerms(query string) []string {
	raw := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, 2*len(raw))
	seen := make(map[string]bool, 2*len(raw))
	for _, t := range raw {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	for _, t := range raw {
		if s := Stem(t); s != "" && !seen[s] {
			seen[s] = true
			terms = append(terms, s)
		}
	}
	return terms
}

// Snippet returns a short excerpt of body around the earliest occurrence of
// any query term. Without a match it returns the first SnippetLength
// characters of body.
func Snippet(body, query string) string {
	pos, termLen := -1, 0
	for _, term := range QueryTerms(query) {
		i := indexFold(body, term)
		if i >= 0 && (pos < 0 || i < pos) {
			pos, termLen = i, len(term)
		}
	}
	if pos < 0 {
		return truncateRunes(body, SnippetLength)
	}

	start := pos - backBytes(body, pos, snippetBefore)
	end := pos + termLen + forwardBytes(body, pos+termLen, snippetAfter)

	text := cleanSnippet(body[start:end])
	truncated := utf8.RuneCountInString(text) > SnippetLength
	text = truncateRunes(text, SnippetLength)

	if start > 0 {
		text = "..." + text
	}
	if end < len(body) || truncated {
		text += "..."
	}
	return text
}

// MatchingHeadings returns the text of up to limit headings whose text, or
// whose stemmed text, contains a raw or stemmed query term.
func MatchingHeadings(headings []Heading, query string, limit int) []string {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var matches []string
	for _, h := range headings {
		if len(matches) >= limit {
			break
		}
		lower := strings.ToLower(h.Text)
		stemmed := StemWords(h.Text)
		for _, term := range terms {
			if strings.Contains(lower, term) || strings.Contains(stemmed, term) {
				matches = append(matches, h.Text)
				break
			}
		}
	}
	return matches
}

func cleanSnippet(s string) string {
	s = snippetFenceRe.ReplaceAllString(s, " ")
	s = snippetHeadingRe.ReplaceAllString(s, "")
	s = snippetAnchorRe.ReplaceAllString(s, "")
	s = snippetImageRe.ReplaceAllString(s, "")
	s = snippetLinkRe.ReplaceAllString(s, "$1")
	s = snippetInlineCodeRe.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

// indexFold returns the byte offset of the first case-insensitive
// occurrence of lowercase term in s, or -1.
func indexFold(s, term string) int {
	if term == "" {
		return -1
	}
	for i := range s {
		if len(s)-i < len(term) {
			break
		}
		if strings.EqualFold(s[i:i+len(term)], term) {
			return i
		}
	}
	return -1
}

// backBytes returns how many bytes precede pos within n characters.
func backBytes(s string, pos, n int) int {
	i := pos
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return pos - i
}

// forwardBytes returns how many bytes follow pos within n characters.
func forwardBytes(s string, pos, n int) int {
	i := pos
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i - pos
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for n > 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return s[:i]
}
