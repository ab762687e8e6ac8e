package fs

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsnap"
)

// MirrorDir is the snapshot subdirectory holding the markdown mirror.
const MirrorDir = "pages"

// RouteToPath converts a route to a relative markdown file path.
// Example: /docs/api/users → docs/api/users.md, / → index.md
func RouteToPath(route string) (string, error) {
	route = docsnap.NormalizeRoute(route)
	if route == "/" {
		return "index.md", nil
	}

	cleaned := path.Clean(route)
	if cleaned != route || strings.Contains(route, "/../") {
		return "", docsnap.Errorf(docsnap.EINVALID, "route %q is not a clean path", route)
	}
	return strings.TrimPrefix(cleaned, "/") + ".md", nil
}

// FormatDocument formats a document with YAML frontmatter.
func FormatDocument(doc *docsnap.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("route: ")
	b.WriteString(doc.Route)
	if doc.URL != "" {
		b.WriteString("\nsource: ")
		b.WriteString(doc.URL)
	}
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	if doc.Description != "" {
		b.WriteString("\ndescription: ")
		b.WriteString(doc.Description)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(doc.Body)
	return b.String()
}

// writeMirror writes every document as a markdown file under dir.
func writeMirror(dir string, docs map[string]*docsnap.Document) error {
	if err := os.MkdirAll(filepath.Join(dir, MirrorDir), 0755); err != nil {
		return err
	}
	for _, doc := range docs {
		rel, err := RouteToPath(doc.Route)
		if err != nil {
			return err
		}
		fullPath := filepath.Join(dir, MirrorDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, []byte(FormatDocument(doc)), 0644); err != nil {
			return err
		}
	}
	return nil
}
