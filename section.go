package docsnap

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// headingRe matches ATX headings with an optional explicit {#anchor} suffix.
	headingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)(?:[ \t]+\{#([^}\s]+)\})?(?:[ \t]+#+)?[ \t]*$`)

	// fenceRe matches the opening or closing line of a fenced code block.
	fenceRe = regexp.MustCompile("^ {0,3}(```|~~~)")

	boldStarRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`(^|[^\w])__(.+?)__([^\w]|$)`)
	italStarRe   = regexp.MustCompile(`\*(.+?)\*`)
	italUnderRe  = regexp.MustCompile(`(^|[^\w])_(.+?)_([^\w]|$)`)
	inlineCodeRe = regexp.MustCompile("`+([^`]+?)`+")
	inlineLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	escapeRe     = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!<>])`)
)

// ExtractHeadings scans normalized markdown and returns its headings (H1-H6)
// in document order. Offsets are byte offsets into markdown. Lines inside
// fenced code blocks are never treated as headings. Duplicate ids are kept;
// lookups take the first match.
func ExtractHeadings(markdown string) []Heading {
	if markdown == "" {
		return nil
	}

	var headings []Heading
	inFence := false
	offset := 0

	for offset < len(markdown) {
		end := strings.IndexByte(markdown[offset:], '\n')
		var line string
		next := len(markdown)
		if end >= 0 {
			line = markdown[offset : offset+end]
			next = offset + end + 1
		} else {
			line = markdown[offset:]
		}
		line = strings.TrimSuffix(line, "\r")

		if fenceRe.MatchString(line) {
			inFence = !inFence
		} else if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				text := StripInlineMarkup(m[2])
				id := m[3]
				if id == "" {
					id = Slugify(text)
				}
				headings = append(headings, Heading{
					Level:       len(m[1]),
					Text:        text,
					ID:          id,
					StartOffset: offset,
				})
			}
		}

		offset = next
	}

	// A heading owns everything up to the next heading at the same or a
	// shallower level.
	for i := range headings {
		headings[i].EndOffset = len(markdown)
		for j := i + 1; j < len(headings); j++ {
			if headings[j].Level <= headings[i].Level {
				headings[i].EndOffset = headings[j].StartOffset
				break
			}
		}
	}

	return headings
}

// ExtractSection returns the trimmed markdown owned by the first heading with
// the given id. The boolean is false when no heading has that id.
func ExtractSection(markdown, id string, headings []Heading) (string, bool) {
	for _, h := range headings {
		if h.ID != id {
			continue
		}
		start, end := h.StartOffset, h.EndOffset
		if start < 0 || end > len(markdown) || start > end {
			return "", false
		}
		return strings.TrimSpace(markdown[start:end]), true
	}
	return "", false
}

// StripInlineMarkup removes emphasis, inline code, link and escape markup
// from a heading label.
func StripInlineMarkup(s string) string {
	s = inlineLinkRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = boldStarRe.ReplaceAllString(s, "$1")
	s = boldUnderRe.ReplaceAllString(s, "$1$2$3")
	s = italStarRe.ReplaceAllString(s, "$1")
	s = italUnderRe.ReplaceAllString(s, "$1$2$3")
	s = escapeRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// Slugify creates a URL-safe anchor from heading text.
// Converts to lowercase, drops everything except letters, digits, underscores,
// whitespace and hyphens, then joins words with single hyphens.
func Slugify(text string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			sb.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// TableOfContents renders a nested markdown list of headings up to maxLevel,
// linking each entry to its anchor.
func TableOfContents(headings []Heading, maxLevel int) string {
	minLevel := 0
	for _, h := range headings {
		if h.Level <= maxLevel && (minLevel == 0 || h.Level < minLevel) {
			minLevel = h.Level
		}
	}
	if minLevel == 0 {
		return ""
	}

	var sb strings.Builder
	for _, h := range headings {
		if h.Level > maxLevel {
			continue
		}
		sb.WriteString(strings.Repeat("  ", h.Level-minLevel))
		sb.WriteString("- [")
		sb.WriteString(h.Text)
		sb.WriteString("](#")
		sb.WriteString(h.ID)
		sb.WriteString(")\n")
	}
	return sb.String()
}
