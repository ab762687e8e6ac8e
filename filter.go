package docsnap

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs from a site's sitemaps.
type SitemapService interface {
	// DiscoverURLs checks robots.txt for sitemap directives, then falls
	// back to /sitemap.xml. Sitemap indexes are resolved recursively.
	// A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *RouteFilter) ([]string, error)
}

// Fetcher retrieves the HTML of a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)
}

// RouteFilter specifies patterns for including and excluding pages.
// Patterns are matched against routes for local sources and full URLs
// for remote ones.
type RouteFilter struct {
	// Include patterns. When set, a page must match at least one.
	Include []*regexp.Regexp

	// Exclude patterns. Applied after Include.
	Exclude []*regexp.Regexp
}

// CompileRouteFilter compiles include and exclude expressions.
// Returns nil when both lists are empty.
func CompileRouteFilter(include, exclude []string) (*RouteFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	f := &RouteFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match reports whether s passes the filter. A nil filter matches everything.
func (f *RouteFilter) Match(s string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(s) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(s) {
			return false
		}
	}

	return true
}
