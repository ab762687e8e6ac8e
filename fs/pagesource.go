// Package fs provides file-based page sources and snapshot storage.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/docsnap"
)

// Ensure PageSource implements docsnap.PageSource at compile time.
var _ docsnap.PageSource = (*PageSource)(nil)

// skippedPages are generator artifacts that are not documentation.
var skippedPages = map[string]bool{
	"404.html": true,
}

// PageSource reads rendered pages from a static site build directory.
type PageSource struct {
	root    string
	baseURL string
	filter  *docsnap.RouteFilter
}

// NewPageSource creates a PageSource rooted at dir. baseURL, when set, is
// joined with each route to form page URLs. A nil filter keeps every page.
func NewPageSource(dir, baseURL string, filter *docsnap.RouteFilter) *PageSource {
	return &PageSource{root: dir, baseURL: baseURL, filter: filter}
}

// ListPages walks the build directory for HTML files and returns them
// ordered by route, then by file path.
func (s *PageSource) ListPages(ctx context.Context) ([]docsnap.PageRef, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docsnap.Errorf(docsnap.ENOTFOUND, "build directory %s does not exist", s.root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, docsnap.Errorf(docsnap.EINVALID, "%s is not a directory", s.root)
	}

	var refs []docsnap.PageRef
	err = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if skippedPages[rel] {
			return nil
		}
		route := PathToRoute(rel)
		if !s.filter.Match(route) {
			return nil
		}
		refs = append(refs, docsnap.PageRef{Route: route, Location: p})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Route != refs[j].Route {
			return refs[i].Route < refs[j].Route
		}
		return refs[i].Location < refs[j].Location
	})
	return refs, nil
}

// ReadPage reads the HTML of one page.
func (s *PageSource) ReadPage(ctx context.Context, ref docsnap.PageRef) (*docsnap.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(ref.Location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docsnap.Errorf(docsnap.ENOTFOUND, "page %s not found", ref.Location)
		}
		return nil, err
	}
	return &docsnap.Page{
		Route: ref.Route,
		URL:   docsnap.JoinURL(s.baseURL, ref.Route),
		HTML:  string(b),
	}, nil
}

// PathToRoute maps a slash-separated path relative to the build directory
// to a route.
// Example: docs/api/index.html → /docs/api, docs/api.html → /docs/api
func PathToRoute(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return docsnap.NormalizeRoute(rel)
}
