package bleve_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/bleve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot() *docsnap.Snapshot {
	docs := map[string]*docsnap.Document{}
	for _, d := range []*docsnap.Document{
		{
			Route:       "/auth",
			Title:       "Authentication",
			Description: "Configure OAuth providers",
			Body:        "# Authentication\n\nThis guide explains OAuth login flows.\n\n## OAuth Setup\n\nRegister your application.\n",
		},
		{
			Route: "/start",
			Title: "Getting Started",
			Body:  "# Getting Started\n\nInstall the CLI and run your first build.\n",
		},
	} {
		d.Headings = docsnap.ExtractHeadings(d.Body)
		docs[d.Route] = d
	}
	return &docsnap.Snapshot{Docs: docs}
}

func newSearcher(t *testing.T) *bleve.Searcher {
	t.Helper()
	s := bleve.NewSearcher()
	require.NoError(t, s.Initialize(context.Background(), newSnapshot()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("ranks title match first", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(t)

		results, err := s.Search(context.Background(), "getting started", 5)

		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "/start", results[0].Route)
		assert.Equal(t, "Getting Started", results[0].Title)
	})

	t.Run("prefix query finds longer word", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(t)

		results, err := s.Search(context.Background(), "auth", 5)

		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "/auth", results[0].Route)
	})

	t.Run("fills snippet and headings", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(t)

		results, err := s.Search(context.Background(), "oauth", 5)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Snippet, "OAuth")
		assert.Equal(t, []string{"OAuth Setup"}, results[0].MatchingHeadings)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(t)

		results, err := s.Search(context.Background(), "kubernetes", 5)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(t)

		results, err := s.Search(context.Background(), "the", 1)

		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 1)
	})

	t.Run("requires initialization", func(t *testing.T) {
		t.Parallel()

		_, err := bleve.NewSearcher().Search(context.Background(), "auth", 5)

		assert.Equal(t, docsnap.EINTERNAL, docsnap.ErrorCode(err))
	})

	t.Run("name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, docsnap.SearcherBleve, bleve.NewSearcher().Name())
	})
}
