package docsnap

import (
	"fmt"
	"strings"
)

// NoResultsMessage is rendered when a search matches nothing.
const NoResultsMessage = "No matching documents found."

// tocMaxLevel is the deepest heading level listed in a page's contents.
const tocMaxLevel = 3

// FormatSearchResults renders ranked results for display or LLM context.
func FormatSearchResults(query string, results []*SearchResult) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s) for %q:\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. **%s**\n", i+1, r.Title)
		fmt.Fprintf(&sb, "   Route: %s\n", r.Key())
		if len(r.MatchingHeadings) > 0 {
			fmt.Fprintf(&sb, "   Matching sections: %s\n", strings.Join(r.MatchingHeadings, ", "))
		}
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Snippet)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Use docs_fetch with a route to read the full page, or docs_get_section with a route and heading id to read a single section.")
	return sb.String()
}

// FormatDocument renders a full page: title, description, location, a table
// of contents for headings up to level 3, and the body.
func FormatDocument(doc *Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Title)
	if doc.Description != "" {
		fmt.Fprintf(&sb, "> %s\n\n", doc.Description)
	}
	fmt.Fprintf(&sb, "URL: %s\n\n", doc.Key())
	if toc := TableOfContents(doc.Headings, tocMaxLevel); toc != "" {
		sb.WriteString("## Table of Contents\n\n")
		sb.WriteString(toc)
		sb.WriteString("\n---\n\n")
	}
	sb.WriteString(doc.Body)
	return sb.String()
}

// FormatPageNotFound renders the message shown for an unknown page.
func FormatPageNotFound(routeOrURL string) string {
	return fmt.Sprintf("Page not found: %s\n\nUse docs_search to find available pages.", routeOrURL)
}

// FormatSection renders one section with a byline naming its page.
func FormatSection(res *SectionResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", res.Heading.Text)
	fmt.Fprintf(&sb, "From: %s – %s\n\n", res.Document.Title, res.Document.Key())
	sb.WriteString(res.Content)
	return sb.String()
}

// FormatSectionNotFound lists the headings a caller can ask for instead.
func FormatSectionNotFound(e *SectionNotFoundError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Section %q not found in %s.\n", e.HeadingID, e.Route)
	if len(e.Available) == 0 {
		sb.WriteString("\nThis page has no sections.")
		return sb.String()
	}
	sb.WriteString("\nAvailable sections:\n")
	for _, h := range e.Available {
		fmt.Fprintf(&sb, "%s- %s: %s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.ID, h.Text)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
