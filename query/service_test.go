package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/mock"
	"github.com/fwojciec/docsnap/query"
	"github.com/fwojciec/docsnap/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guideBody = "# Guide\n\nIntro text.\n\n## Setup\n\nInstall it.\n\n### Linux\n\nUse apt.\n\n## Usage\n\nRun it.\n"

func testSnapshot(t *testing.T) *docsnap.Snapshot {
	t.Helper()

	docs := map[string]*docsnap.Document{}
	for _, d := range []*docsnap.Document{
		{Route: "/", Title: "Home", Body: "# Home\n\nWelcome to the docs.\n"},
		{Route: "/docs/guide", URL: "https://example.com/docs/guide", Title: "Guide", Body: guideBody},
		{Route: "/docs/empty", Title: "Empty", Body: "Just text, no headings.\n"},
	} {
		d.Headings = docsnap.ExtractHeadings(d.Body)
		d.ContentHash = docsnap.ComputeHash(d.Body)
		docs[d.Route] = d
	}

	idx, err := search.Build(docs)
	require.NoError(t, err)
	export, err := idx.Export()
	require.NoError(t, err)

	return &docsnap.Snapshot{
		Docs:  docs,
		Index: export,
		Manifest: docsnap.Manifest{
			Name:     "docs",
			DocCount: len(docs),
			Checksum: docsnap.ComputeChecksum(docs),
			Indexers: []string{docsnap.IndexerSearch},
		},
	}
}

func newService(t *testing.T) *query.Service {
	t.Helper()
	s, err := query.NewService(query.Options{Snapshot: testSnapshot(t)})
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("requires loader or snapshot", func(t *testing.T) {
		t.Parallel()

		_, err := query.NewService(query.Options{})

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})
}

func TestService_Initialize(t *testing.T) {
	t.Parallel()

	t.Run("loads exactly once under concurrent callers", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int32
		snap := testSnapshot(t)
		s, err := query.NewService(query.Options{
			Loader: &mock.SnapshotLoader{
				LoadFn: func(context.Context) (*docsnap.Snapshot, error) {
					loads.Add(1)
					return snap, nil
				},
			},
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Initialize(context.Background()))
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), loads.Load())
	})

	t.Run("repeated calls return first error", func(t *testing.T) {
		t.Parallel()

		var loads atomic.Int32
		s, err := query.NewService(query.Options{
			Loader: &mock.SnapshotLoader{
				LoadFn: func(context.Context) (*docsnap.Snapshot, error) {
					loads.Add(1)
					return nil, docsnap.Errorf(docsnap.ENOTFOUND, "docs.json missing")
				},
			},
		})
		require.NoError(t, err)

		err1 := s.Initialize(context.Background())
		err2 := s.Initialize(context.Background())

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err1))
		assert.Equal(t, err1, err2)
		assert.Equal(t, int32(1), loads.Load())
	})

	t.Run("rejects inconsistent manifest", func(t *testing.T) {
		t.Parallel()

		snap := testSnapshot(t)
		snap.Manifest.DocCount = 99
		s, err := query.NewService(query.Options{Snapshot: snap})
		require.NoError(t, err)

		err = s.Initialize(context.Background())

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})

	t.Run("leaves the given snapshot untouched", func(t *testing.T) {
		t.Parallel()

		snap := &docsnap.Snapshot{Manifest: docsnap.Manifest{Name: "docs"}}
		var initialized *docsnap.Snapshot
		s, err := query.NewService(query.Options{
			Snapshot: snap,
			Searcher: &mock.Searcher{
				InitializeFn: func(_ context.Context, got *docsnap.Snapshot) error {
					initialized = got
					return nil
				},
			},
		})
		require.NoError(t, err)

		require.NoError(t, s.Initialize(context.Background()))

		assert.Nil(t, snap.Docs)
		require.NotNil(t, initialized)
		assert.NotNil(t, initialized.Docs)
		_, err = s.GetDocument(context.Background(), "/anything")
		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})

	t.Run("propagates searcher error", func(t *testing.T) {
		t.Parallel()

		s, err := query.NewService(query.Options{
			Snapshot: testSnapshot(t),
			Searcher: &mock.Searcher{
				InitializeFn: func(context.Context, *docsnap.Snapshot) error {
					return errors.New("index corrupt")
				},
			},
		})
		require.NoError(t, err)

		_, err = s.Search(context.Background(), "guide", 5)

		assert.EqualError(t, err, "index corrupt")
	})
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		s := newService(t)

		for _, q := range []string{"", "   ", "\t\n"} {
			_, err := s.Search(context.Background(), q, 5)
			assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err), "query %q", q)
		}
	})

	t.Run("clamps limit", func(t *testing.T) {
		t.Parallel()

		var got []int
		var mu sync.Mutex
		s, err := query.NewService(query.Options{
			Snapshot: testSnapshot(t),
			Searcher: &mock.Searcher{
				InitializeFn: func(context.Context, *docsnap.Snapshot) error { return nil },
				SearchFn: func(_ context.Context, _ string, limit int) ([]*docsnap.SearchResult, error) {
					mu.Lock()
					defer mu.Unlock()
					got = append(got, limit)
					return nil, nil
				},
			},
		})
		require.NoError(t, err)

		for _, limit := range []int{0, -3, 1, 7, 20, 21, 500} {
			results, err := s.Search(context.Background(), "guide", limit)
			require.NoError(t, err)
			assert.NotNil(t, results)
		}

		assert.Equal(t, []int{5, 1, 1, 7, 20, 20, 20}, got)
	})

	t.Run("ranks with native engine", func(t *testing.T) {
		t.Parallel()

		s := newService(t)

		results, err := s.Search(context.Background(), "setup", 5)

		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "/docs/guide", results[0].Route)
		assert.Equal(t, "https://example.com/docs/guide", results[0].URL)
		assert.Equal(t, []string{"Setup"}, results[0].MatchingHeadings)
	})

	t.Run("no match is empty list", func(t *testing.T) {
		t.Parallel()

		s := newService(t)

		results, err := s.Search(context.Background(), "kubernetes", 5)

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("concurrent queries", func(t *testing.T) {
		t.Parallel()

		s := newService(t)
		want, err := s.Search(context.Background(), "install", 5)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := s.Search(context.Background(), "install", 5)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			}()
		}
		wg.Wait()
	})
}

func TestService_GetDocument(t *testing.T) {
	t.Parallel()

	s := newService(t)

	tests := []struct {
		name  string
		key   string
		route string
	}{
		{"exact route", "/docs/guide", "/docs/guide"},
		{"without leading slash", "docs/guide", "/docs/guide"},
		{"with trailing slash", "/docs/guide/", "/docs/guide"},
		{"full URL", "https://example.com/docs/guide", "/docs/guide"},
		{"URL with trailing slash", "https://example.com/docs/guide/", "/docs/guide"},
		{"URL of document without URL", "https://other.example/docs/empty", "/docs/empty"},
		{"root", "/", "/"},
		{"root URL", "https://example.com", "/"},
		{"surrounding whitespace", "  /docs/guide ", "/docs/guide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := s.GetDocument(context.Background(), tt.key)

			require.NoError(t, err)
			assert.Equal(t, tt.route, doc.Route)
		})
	}

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetDocument(context.Background(), "/missing")

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetDocument(context.Background(), " ")

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})
}

func TestService_GetSection(t *testing.T) {
	t.Parallel()

	s := newService(t)

	t.Run("returns section with subsections", func(t *testing.T) {
		t.Parallel()

		section, err := s.GetSection(context.Background(), "/docs/guide", "setup")

		require.NoError(t, err)
		assert.Equal(t, "Setup", section.Heading.Text)
		assert.Equal(t, "## Setup\n\nInstall it.\n\n### Linux\n\nUse apt.", section.Content)
		assert.Equal(t, "/docs/guide", section.Document.Route)
	})

	t.Run("accepts hash prefixed id", func(t *testing.T) {
		t.Parallel()

		section, err := s.GetSection(context.Background(), "docs/guide", "#usage")

		require.NoError(t, err)
		assert.Equal(t, "## Usage\n\nRun it.", section.Content)
	})

	t.Run("missing heading lists available headings", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetSection(context.Background(), "/docs/guide", "install")

		var nf *docsnap.SectionNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
		assert.Equal(t, "/docs/guide", nf.Route)
		ids := make([]string, len(nf.Available))
		for i, h := range nf.Available {
			ids[i] = h.ID
		}
		assert.Equal(t, []string{"guide", "setup", "linux", "usage"}, ids)
	})

	t.Run("document without headings", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetSection(context.Background(), "/docs/empty", "intro")

		var nf *docsnap.SectionNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Empty(t, nf.Available)
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetSection(context.Background(), "/missing", "setup")

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
		var nf *docsnap.SectionNotFoundError
		assert.False(t, errors.As(err, &nf))
	})

	t.Run("invalid arguments", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetSection(context.Background(), "", "setup")
		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))

		_, err = s.GetSection(context.Background(), "/docs/guide", " ")
		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})
}

func TestService_Stats(t *testing.T) {
	t.Parallel()

	s := newService(t)

	stats, err := s.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.DocCount)
	assert.Equal(t, docsnap.SearcherNative, stats.Searcher)
	assert.Equal(t, "docs", stats.Manifest.Name)
}
