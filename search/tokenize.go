package search

import (
	"strings"
	"unicode"

	"github.com/fwojciec/docsnap"
)

// punctuation separates tokens in addition to whitespace.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Substring lengths indexed for every token.
const (
	MinSubstringLength = 2
	MaxSubstringLength = 20
)

// Tokenize lowercases text, splits it on whitespace and punctuation, and
// stems every token.
func Tokenize(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	for i, tok := range tokens {
		tokens[i] = docsnap.Stem(tok)
	}
	return tokens
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(punctuation, r)
}

// Substrings returns every substring of token between MinSubstringLength
// and MaxSubstringLength runes long, in order of start position. A token
// shorter than MinSubstringLength yields only itself.
func Substrings(token string) []string {
	runes := []rune(token)
	if len(runes) < MinSubstringLength {
		return []string{token}
	}
	var subs []string
	for i := range runes {
		for j := i + MinSubstringLength; j <= len(runes) && j-i <= MaxSubstringLength; j++ {
			subs = append(subs, string(runes[i:j]))
		}
	}
	return subs
}

// contextKey names an adjacent token pair independent of order.
func contextKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// queryTerms returns the distinct tokens of query in first-seen order
// together with the full token sequence used for context lookups.
func queryTerms(query string) (terms, tokens []string) {
	tokens = Tokenize(query)
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			terms = append(terms, tok)
		}
	}
	return terms, tokens
}
