// Package mcp exposes a docsnap.QueryService as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/docsnap"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Default server identity.
const (
	DefaultName    = "docsnap"
	DefaultVersion = "0.1.0"
)

// Instructions tells clients how the tools fit together.
const Instructions = "Use docs_search to find relevant pages, docs_fetch to read a page, and docs_get_section to read a single section by heading id."

// Options configures a Server.
type Options struct {
	Name    string
	Version string
	Logger  *slog.Logger

	// Ready reports whether the server can answer queries. It backs the
	// /healthz endpoint in HTTP mode.
	Ready func(ctx context.Context) error

	// Metrics, when set, is served at /metrics in HTTP mode.
	Metrics http.Handler
}

// Server is the MCP server for a documentation snapshot.
type Server struct {
	query   docsnap.QueryService
	logger  *slog.Logger
	ready   func(ctx context.Context) error
	metrics http.Handler
	server  *mcp.Server
}

// NewServer creates a Server with every tool registered.
func NewServer(query docsnap.QueryService, opts Options) (*Server, error) {
	if query == nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "mcp: query service required")
	}
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		query:   query,
		logger:  opts.Logger,
		ready:   opts.Ready,
		metrics: opts.Metrics,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, &mcp.ServerOptions{
			Instructions: Instructions,
		}),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Connect serves a single session over transport.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP routes: the streamable MCP endpoint at /mcp,
// /healthz, and /metrics when metrics are configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil))
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			http.Error(w, docsnap.ErrorMessage(err), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", addr)
	err := httpServer.ListenAndServe()
	cancel()
	<-stopped
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
