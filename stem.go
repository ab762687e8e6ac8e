package docsnap

import (
	"regexp"
	"strings"
)

type stemRule struct {
	re   *regexp.Regexp
	repl string
}

// stemRules are applied in order, each to the output of the previous one.
var stemRules = []stemRule{
	{regexp.MustCompile(`ing$`), ""},
	{regexp.MustCompile(`tion$`), "t"},
	{regexp.MustCompile(`sion$`), "s"},
	{regexp.MustCompile(`([^aeiou])ed$`), "$1"},
	{regexp.MustCompile(`([^aeiou])es$`), "$1"},
	{regexp.MustCompile(`ly$`), ""},
	{regexp.MustCompile(`ment$`), ""},
	{regexp.MustCompile(`ness$`), ""},
	{regexp.MustCompile(`ies$`), "y"},
	{regexp.MustCompile(`([^s])s$`), "$1"},
}

// Stem reduces a lowercase word to a rough root form with a fixed list of
// suffix rules. Words of three characters or fewer are returned unchanged.
func Stem(word string) string {
	if len([]rune(word)) <= 3 {
		return word
	}
	for _, r := range stemRules {
		word = r.re.ReplaceAllString(word, r.repl)
	}
	return word
}

// StemWords lowercases s and stems every whitespace-separated word.
func StemWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = Stem(w)
	}
	return strings.Join(words, " ")
}
