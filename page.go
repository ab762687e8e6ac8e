package docsnap

import (
	"context"
	"strings"
)

// Page is a rendered HTML page waiting to be assembled into a Document.
type Page struct {
	Route string
	URL   string
	HTML  string
}

// PageRef identifies a page a PageSource can read.
type PageRef struct {
	Route string

	// Location is source specific: a file path or an absolute URL.
	Location string
}

// PageSource lists and reads rendered pages of a documentation site.
type PageSource interface {
	ListPages(ctx context.Context) ([]PageRef, error)
	ReadPage(ctx context.Context, ref PageRef) (*Page, error)
}

// NormalizeRoute returns route with exactly one leading slash, no trailing
// slash (except for the root route) and no query or fragment.
func NormalizeRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.TrimSpace(route)
	route = "/" + strings.TrimLeft(route, "/")
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	if route == "" {
		return "/"
	}
	return route
}

// JoinURL joins a base URL and a route. It returns "" when baseURL is empty.
func JoinURL(baseURL, route string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + NormalizeRoute(route)
}
