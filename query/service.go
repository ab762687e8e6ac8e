// Package query implements docsnap.QueryService over a loaded snapshot.
package query

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/search"
)

// Ensure Service implements interface.
var _ docsnap.QueryService = (*Service)(nil)

// Options configures a Service. Exactly one of Loader or Snapshot is
// required; Searcher defaults to the native search engine.
type Options struct {
	Loader   docsnap.SnapshotLoader
	Snapshot *docsnap.Snapshot
	Searcher docsnap.Searcher
}

// Service answers queries against a snapshot loaded once per process.
type Service struct {
	loader   docsnap.SnapshotLoader
	preset   *docsnap.Snapshot
	searcher docsnap.Searcher

	once sync.Once
	err  error

	// Set once by Initialize and read-only afterwards.
	snap  *docsnap.Snapshot
	byURL map[string]*docsnap.Document
}

// NewService returns a Service that loads its snapshot on first use.
func NewService(opts Options) (*Service, error) {
	if opts.Loader == nil && opts.Snapshot == nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "query service requires a snapshot loader or a snapshot")
	}
	searcher := opts.Searcher
	if searcher == nil {
		searcher = search.NewEngine()
	}
	return &Service{
		loader:   opts.Loader,
		preset:   opts.Snapshot,
		searcher: searcher,
	}, nil
}

// Initialize loads the snapshot and initializes the searcher. It runs at
// most once; concurrent callers wait for the first call and every call
// returns its result.
func (s *Service) Initialize(ctx context.Context) error {
	s.once.Do(func() {
		s.err = s.load(ctx)
	})
	return s.err
}

func (s *Service) load(ctx context.Context) error {
	src := s.preset
	if src == nil {
		var err error
		if src, err = s.loader.Load(ctx); err != nil {
			return err
		}
	}

	// The snapshot may belong to the caller; fill defaults on a copy.
	snap := &docsnap.Snapshot{Docs: src.Docs, Index: src.Index, Manifest: src.Manifest}
	if snap.Docs == nil {
		snap.Docs = make(map[string]*docsnap.Document)
	}
	if err := snap.Verify(); err != nil {
		return err
	}
	if err := s.searcher.Initialize(ctx, snap); err != nil {
		return err
	}

	byURL := make(map[string]*docsnap.Document, len(snap.Docs))
	for _, doc := range snap.Docs {
		if doc.URL != "" {
			byURL[doc.URL] = doc
		}
	}
	s.snap = snap
	s.byURL = byURL
	return nil
}

// Search returns ranked results for query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*docsnap.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, docsnap.Errorf(docsnap.EINVALID, "query must not be empty")
	}
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	results, err := s.searcher.Search(ctx, query, docsnap.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*docsnap.SearchResult{}
	}
	return results, nil
}

// GetDocument looks a document up by route or URL. It tries the key as
// given, then with the leading slash toggled, then without scheme and
// host, each also with the trailing slash toggled.
func (s *Service) GetDocument(ctx context.Context, routeOrURL string) (*docsnap.Document, error) {
	key := strings.TrimSpace(routeOrURL)
	if key == "" {
		return nil, docsnap.Errorf(docsnap.EINVALID, "route required")
	}
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	for _, candidate := range candidateKeys(key) {
		if doc, ok := s.snap.Docs[candidate]; ok {
			return doc, nil
		}
		if doc, ok := s.byURL[candidate]; ok {
			return doc, nil
		}
	}
	return nil, docsnap.Errorf(docsnap.ENOTFOUND, "document not found: %s", key)
}

// candidateKeys lists lookup keys for key in order of preference.
func candidateKeys(key string) []string {
	var keys []string
	seen := make(map[string]bool)
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	withSlashes := func(k string) {
		add(k)
		if strings.HasPrefix(k, "/") {
			add(strings.TrimPrefix(k, "/"))
		} else {
			add("/" + k)
		}
		for _, base := range []string{k, "/" + strings.TrimPrefix(k, "/")} {
			if strings.HasSuffix(base, "/") && base != "/" {
				add(strings.TrimSuffix(base, "/"))
			} else {
				add(base + "/")
			}
		}
	}

	withSlashes(key)
	if u, err := url.Parse(key); err == nil && u.Scheme != "" && u.Host != "" {
		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		withSlashes(path)
	}
	add(docsnap.NormalizeRoute(key))
	return keys
}

// GetSection returns the content owned by headingID in the document at route.
func (s *Service) GetSection(ctx context.Context, route, headingID string) (*docsnap.SectionResult, error) {
	headingID = strings.TrimPrefix(strings.TrimSpace(headingID), "#")
	if strings.TrimSpace(route) == "" {
		return nil, docsnap.Errorf(docsnap.EINVALID, "route required")
	}
	if headingID == "" {
		return nil, docsnap.Errorf(docsnap.EINVALID, "heading id required")
	}

	doc, err := s.GetDocument(ctx, route)
	if err != nil {
		return nil, err
	}

	heading, ok := doc.FindHeading(headingID)
	if !ok {
		return nil, &docsnap.SectionNotFoundError{
			Route:     doc.Route,
			HeadingID: headingID,
			Available: doc.Headings,
		}
	}
	content, _ := docsnap.ExtractSection(doc.Body, headingID, doc.Headings)
	return &docsnap.SectionResult{
		Document: doc,
		Heading:  heading,
		Content:  content,
	}, nil
}

// Stats describes the loaded snapshot.
func (s *Service) Stats(ctx context.Context) (docsnap.Stats, error) {
	if err := s.Initialize(ctx); err != nil {
		return docsnap.Stats{}, err
	}
	return docsnap.Stats{
		DocCount: len(s.snap.Docs),
		Searcher: s.searcher.Name(),
		Manifest: s.snap.Manifest,
	}, nil
}
