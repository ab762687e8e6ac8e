package http_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docsnap"
	dshttp "github.com/fwojciec/docsnap/http"
	"github.com/fwojciec/docsnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageSource(t *testing.T) {
	t.Parallel()

	sitemaps := &mock.SitemapService{
		DiscoverURLsFn: func(_ context.Context, baseURL string, _ *docsnap.RouteFilter) ([]string, error) {
			return []string{baseURL + "/intro/", baseURL + "/guide?lang=go"}, nil
		},
	}

	t.Run("lists routes from sitemap urls", func(t *testing.T) {
		t.Parallel()

		src := dshttp.NewPageSource("https://example.com/docs", sitemaps, &mock.Fetcher{}, nil)

		refs, err := src.ListPages(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []docsnap.PageRef{
			{Route: "/docs/intro", Location: "https://example.com/docs/intro/"},
			{Route: "/docs/guide", Location: "https://example.com/docs/guide?lang=go"},
		}, refs)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if calls.Add(1) < 3 {
					return "", errors.New("connection reset")
				}
				return "<h1>" + url + "</h1>", nil
			},
		}
		src := dshttp.NewPageSource("https://example.com", sitemaps, fetcher, nil,
			dshttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}),
			dshttp.WithRateLimit(0),
		)

		page, err := src.ReadPage(context.Background(), docsnap.PageRef{Route: "/a", Location: "https://example.com/a/"})

		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, "/a", page.Route)
		assert.Equal(t, "https://example.com/a", page.URL)
		assert.Equal(t, "<h1>https://example.com/a/</h1>", page.HTML)
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls.Add(1)
				return "", docsnap.Errorf(docsnap.ENOTFOUND, "HTTP 404")
			},
		}
		src := dshttp.NewPageSource("https://example.com", sitemaps, fetcher, nil,
			dshttp.WithRetryDelays([]time.Duration{time.Millisecond}),
		)

		_, err := src.ReadPage(context.Background(), docsnap.PageRef{Route: "/a", Location: "https://example.com/a"})

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("gives up after last delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				calls.Add(1)
				return "", errors.New("timeout")
			},
		}
		src := dshttp.NewPageSource("https://example.com", sitemaps, fetcher, nil,
			dshttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}),
		)

		_, err := src.ReadPage(context.Background(), docsnap.PageRef{Route: "/a", Location: "https://example.com/a"})

		assert.EqualError(t, err, "timeout")
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("spaces requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(20)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("hosts are independent", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "a.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "b.com"))

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("returns context error", func(t *testing.T) {
		t.Parallel()

		limiter := dshttp.NewHostLimiter(0.1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})
}
