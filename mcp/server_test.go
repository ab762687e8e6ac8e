package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docsnap"
	dsmcp "github.com/fwojciec/docsnap/mcp"
	"github.com/fwojciec/docsnap/mock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, query docsnap.QueryService, opts dsmcp.Options) *dsmcp.Server {
	t.Helper()
	s, err := dsmcp.NewServer(query, opts)
	require.NoError(t, err)
	return s
}

func getText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	_, err := dsmcp.NewServer(nil, dsmcp.Options{})
	assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
}

func TestServer_HandleSearch(t *testing.T) {
	t.Parallel()

	t.Run("formats results", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		query := &mock.QueryService{
			SearchFn: func(_ context.Context, q string, limit int) ([]*docsnap.SearchResult, error) {
				gotLimit = limit
				return []*docsnap.SearchResult{{
					Route:            "/auth",
					Title:            "Authentication",
					Snippet:          "Configure OAuth providers.",
					MatchingHeadings: []string{"OAuth"},
				}}, nil
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleSearch(context.Background(), nil, dsmcp.SearchInput{Query: "oauth", Limit: 3})

		require.NoError(t, err)
		assert.False(t, result.IsError)
		text := getText(t, result)
		assert.Contains(t, text, "**Authentication**")
		assert.Contains(t, text, "Route: /auth")
		assert.Contains(t, text, "Matching sections: OAuth")
		assert.Equal(t, 3, gotLimit)
	})

	t.Run("no results", func(t *testing.T) {
		t.Parallel()

		query := &mock.QueryService{
			SearchFn: func(context.Context, string, int) ([]*docsnap.SearchResult, error) {
				return []*docsnap.SearchResult{}, nil
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleSearch(context.Background(), nil, dsmcp.SearchInput{Query: "zzz"})

		require.NoError(t, err)
		assert.Equal(t, docsnap.NoResultsMessage, getText(t, result))
	})

	t.Run("invalid query is a tool error", func(t *testing.T) {
		t.Parallel()

		query := &mock.QueryService{
			SearchFn: func(context.Context, string, int) ([]*docsnap.SearchResult, error) {
				return nil, docsnap.Errorf(docsnap.EINVALID, "query required")
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleSearch(context.Background(), nil, dsmcp.SearchInput{Query: "  "})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "query required", getText(t, result))
	})

	t.Run("internal error is returned", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		query := &mock.QueryService{
			SearchFn: func(context.Context, string, int) ([]*docsnap.SearchResult, error) {
				return nil, boom
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleSearch(context.Background(), nil, dsmcp.SearchInput{Query: "x"})

		assert.ErrorIs(t, err, boom)
		assert.Nil(t, result)
	})
}

func TestServer_HandleFetch(t *testing.T) {
	t.Parallel()

	t.Run("formats document", func(t *testing.T) {
		t.Parallel()

		query := &mock.QueryService{
			GetDocumentFn: func(_ context.Context, route string) (*docsnap.Document, error) {
				return &docsnap.Document{
					Route: route,
					Title: "Intro",
					Body:  "# Intro\n\nWelcome.",
				}, nil
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleFetch(context.Background(), nil, dsmcp.FetchInput{Route: "/intro"})

		require.NoError(t, err)
		text := getText(t, result)
		assert.Contains(t, text, "# Intro")
		assert.Contains(t, text, "URL: /intro")
		assert.Contains(t, text, "Welcome.")
	})

	t.Run("page not found is a normal result", func(t *testing.T) {
		t.Parallel()

		query := &mock.QueryService{
			GetDocumentFn: func(context.Context, string) (*docsnap.Document, error) {
				return nil, docsnap.Errorf(docsnap.ENOTFOUND, "document not found")
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleFetch(context.Background(), nil, dsmcp.FetchInput{Route: "/missing"})

		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, docsnap.FormatPageNotFound("/missing"), getText(t, result))
	})
}

func TestServer_HandleGetSection(t *testing.T) {
	t.Parallel()

	t.Run("formats section", func(t *testing.T) {
		t.Parallel()

		var gotRoute, gotID string
		query := &mock.QueryService{
			GetSectionFn: func(_ context.Context, route, id string) (*docsnap.SectionResult, error) {
				gotRoute, gotID = route, id
				return &docsnap.SectionResult{
					Document: &docsnap.Document{Route: route, Title: "Guide"},
					Heading:  docsnap.Heading{Level: 2, Text: "Install", ID: id},
					Content:  "## Install\n\nRun it.",
				}, nil
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleGetSection(context.Background(), nil, dsmcp.SectionInput{Route: "/guide", HeadingID: "install"})

		require.NoError(t, err)
		text := getText(t, result)
		assert.Contains(t, text, "From: Guide")
		assert.Contains(t, text, "Run it.")
		assert.Equal(t, "/guide", gotRoute)
		assert.Equal(t, "install", gotID)
	})

	t.Run("missing heading lists alternatives", func(t *testing.T) {
		t.Parallel()

		query := &mock.QueryService{
			GetSectionFn: func(_ context.Context, route, id string) (*docsnap.SectionResult, error) {
				return nil, &docsnap.SectionNotFoundError{
					Route:     route,
					HeadingID: id,
					Available: []docsnap.Heading{{Level: 2, Text: "Install", ID: "install"}},
				}
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleGetSection(context.Background(), nil, dsmcp.SectionInput{Route: "/guide", HeadingID: "nope"})

		require.NoError(t, err)
		assert.False(t, result.IsError)
		text := getText(t, result)
		assert.Contains(t, text, `Section "nope" not found in /guide.`)
		assert.Contains(t, text, "- install: Install")
	})

	t.Run("missing page", func(t *testing.T) {
		t.Parallel()

		query := &mock.QueryService{
			GetSectionFn: func(context.Context, string, string) (*docsnap.SectionResult, error) {
				return nil, docsnap.Errorf(docsnap.ENOTFOUND, "document not found")
			},
		}
		s := newServer(t, query, dsmcp.Options{})

		result, _, err := s.HandleGetSection(context.Background(), nil, dsmcp.SectionInput{Route: "/gone", HeadingID: "x"})

		require.NoError(t, err)
		assert.Equal(t, docsnap.FormatPageNotFound("/gone"), getText(t, result))
	})
}

func TestServer_Session(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		limits []int
	)
	query := &mock.QueryService{
		SearchFn: func(_ context.Context, _ string, limit int) ([]*docsnap.SearchResult, error) {
			mu.Lock()
			defer mu.Unlock()
			limits = append(limits, limit)
			return []*docsnap.SearchResult{{Route: "/start", Title: "Getting Started"}}, nil
		},
	}
	s := newServer(t, query, dsmcp.Options{})

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err := s.Connect(ctx, serverTransport)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	t.Run("lists tools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		var names []string
		for _, tool := range tools.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{
			dsmcp.ToolSearch, dsmcp.ToolFetch, dsmcp.ToolGetPage, dsmcp.ToolGetSection,
		}, names)
	})

	t.Run("search schema bounds limit", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		var schema struct {
			Properties map[string]struct {
				Type    string   `json:"type"`
				Minimum *float64 `json:"minimum"`
				Maximum *float64 `json:"maximum"`
			} `json:"properties"`
			Required []string `json:"required"`
		}
		for _, tool := range tools.Tools {
			if tool.Name != dsmcp.ToolSearch {
				continue
			}
			b, err := json.Marshal(tool.InputSchema)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(b, &schema))
		}

		limit, ok := schema.Properties["limit"]
		require.True(t, ok)
		assert.Equal(t, "integer", limit.Type)
		require.NotNil(t, limit.Minimum)
		require.NotNil(t, limit.Maximum)
		assert.Equal(t, 1.0, *limit.Minimum)
		assert.Equal(t, float64(docsnap.MaxSearchLimit), *limit.Maximum)
		assert.Equal(t, []string{"query"}, schema.Required)
	})

	t.Run("out of range limit never reaches the query service", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      dsmcp.ToolSearch,
			Arguments: map[string]any{"query": "start", "limit": 50},
		})
		if err == nil {
			assert.True(t, result.IsError)
		}

		mu.Lock()
		defer mu.Unlock()
		assert.NotContains(t, limits, 50)
	})

	t.Run("calls search", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      dsmcp.ToolSearch,
			Arguments: map[string]any{"query": "start"},
		})
		require.NoError(t, err)
		assert.Contains(t, getText(t, result), "Getting Started")
	})
}

func TestServer_Handler(t *testing.T) {
	t.Parallel()

	t.Run("healthz ok", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, &mock.QueryService{}, dsmcp.Options{
			Ready: func(context.Context) error { return nil },
		})
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok\n", string(body))
	})

	t.Run("healthz not ready", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, &mock.QueryService{}, dsmcp.Options{
			Ready: func(context.Context) error {
				return docsnap.Errorf(docsnap.EINVALID, "snapshot checksum mismatch")
			},
		})
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, string(body), "snapshot checksum mismatch")
	})

	t.Run("metrics only when configured", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, &mock.QueryService{}, dsmcp.Options{})
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		s = newServer(t, &mock.QueryService{}, dsmcp.Options{
			Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "metrics")
			}),
		})
		srv2 := httptest.NewServer(s.Handler())
		defer srv2.Close()

		resp, err = http.Get(srv2.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "metrics", string(body))
	})
}

func TestServer_RunHTTP(t *testing.T) {
	t.Parallel()

	t.Run("returns listen errors", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		s := newServer(t, &mock.QueryService{}, dsmcp.Options{})
		done := make(chan error, 1)
		go func() {
			done <- s.RunHTTP(context.Background(), ln.Addr().String())
		}()

		select {
		case err := <-done:
			assert.Error(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("RunHTTP did not return for an address in use")
		}
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, &mock.QueryService{}, dsmcp.Options{})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- s.RunHTTP(ctx, "127.0.0.1:0")
		}()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("RunHTTP did not stop after cancel")
		}
	})
}
