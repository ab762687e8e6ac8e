package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/bleve"
	"github.com/fwojciec/docsnap/build"
	"github.com/fwojciec/docsnap/fs"
	"github.com/fwojciec/docsnap/goquery"
	"github.com/fwojciec/docsnap/htmltomarkdown"
	dshttp "github.com/fwojciec/docsnap/http"
	"github.com/fwojciec/docsnap/jsonschema"
	"github.com/fwojciec/docsnap/query"
	"github.com/fwojciec/docsnap/readability"
	"github.com/fwojciec/docsnap/search"
	dsslog "github.com/fwojciec/docsnap/slog"
	"github.com/fwojciec/docsnap/trafilatura"
)

// Version is reported by the MCP server.
var Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Snapshot replaces the snapshot loaded from disk. Used for
	// end-to-end testing of the query commands.
	Snapshot SnapshotService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsnap"),
		kong.Description("Build documentation snapshots and serve them to AI agents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(ConfigLoader),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsnap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	switch command := strings.Fields(kongCtx.Command())[0]; command {
	case "build":
		deps.Builder, err = newBuilder(&cli.Build, deps.Logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", docsnap.ErrorMessage(err))
			return err
		}
	case "verify":
		validator, err := jsonschema.NewValidator()
		if err != nil {
			return fmt.Errorf("failed to load snapshot schemas: %w", err)
		}
		deps.Validator = validator
		if err := m.wireSnapshot(deps, cli.Verify.Snapshot, cli.Verify.Searcher); err != nil {
			return err
		}
	case "serve":
		if err := m.wireSnapshot(deps, cli.Serve.Snapshot, cli.Serve.Searcher); err != nil {
			return err
		}
	case "search":
		if err := m.wireSnapshot(deps, cli.Search.Snapshot, cli.Search.Searcher); err != nil {
			return err
		}
	case "page":
		if err := m.wireSnapshot(deps, cli.Page.Snapshot, docsnap.SearcherNative); err != nil {
			return err
		}
	case "section":
		if err := m.wireSnapshot(deps, cli.Section.Snapshot, docsnap.SearcherNative); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireSnapshot sets the query dependencies for the snapshot in dir.
func (m *Main) wireSnapshot(deps *Dependencies, dir, searcherKind string) error {
	snap := m.Snapshot
	if snap == nil {
		searcher, err := newSearcher(searcherKind)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsnap.ErrorMessage(err))
			return err
		}
		svc, err := query.NewService(query.Options{
			Loader:   fs.NewSnapshotStore(dir),
			Searcher: searcher,
		})
		if err != nil {
			return err
		}
		snap = svc
	}
	deps.Snapshot = snap
	deps.Query = dsslog.NewLoggingQueryService(snap, deps.Logger)
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newSearcher resolves a serve-time search provider by kind.
func newSearcher(kind string) (docsnap.Searcher, error) {
	switch kind {
	case docsnap.SearcherNative:
		return search.NewEngine(), nil
	case docsnap.SearcherBleve:
		return bleve.NewSearcher(), nil
	default:
		return nil, docsnap.Errorf(docsnap.EINVALID, "unknown searcher %q", kind)
	}
}

// newIndexer resolves a build-time indexer by kind.
func newIndexer(kind string) (docsnap.Indexer, error) {
	switch kind {
	case docsnap.IndexerSearch:
		return search.NewIndexer(), nil
	default:
		return nil, docsnap.Errorf(docsnap.EINVALID, "unknown indexer %q", kind)
	}
}

// newExtractor resolves a content extractor for cfg.
func newExtractor(cfg docsnap.Config) (docsnap.Extractor, error) {
	switch cfg.Extractor {
	case docsnap.ExtractorGoquery:
		var opts []goquery.Option
		if len(cfg.ContentSelectors) > 0 {
			opts = append(opts, goquery.WithContentSelectors(cfg.ContentSelectors...))
		}
		if len(cfg.ExcludeSelectors) > 0 {
			opts = append(opts, goquery.WithExcludeSelectors(cfg.ExcludeSelectors...))
		}
		return goquery.NewExtractor(opts...)
	case docsnap.ExtractorReadability:
		return readability.NewExtractor(), nil
	case docsnap.ExtractorTrafilatura:
		return trafilatura.NewExtractor(), nil
	default:
		return nil, docsnap.Errorf(docsnap.EINVALID, "unknown extractor %q", cfg.Extractor)
	}
}

// newBuilder wires a Builder from the build command's flags.
func newBuilder(c *BuildCmd, logger *slog.Logger) (*build.Builder, error) {
	cfg := c.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filter, err := docsnap.CompileRouteFilter(c.Include, c.Exclude)
	if err != nil {
		return nil, err
	}

	extractor, err := newExtractor(cfg)
	if err != nil {
		return nil, err
	}

	indexers := make([]docsnap.Indexer, 0, len(cfg.Indexers))
	for _, kind := range cfg.Indexers {
		indexer, err := newIndexer(kind)
		if err != nil {
			return nil, err
		}
		indexers = append(indexers, indexer)
	}

	var storeOpts []fs.StoreOption
	if c.Mirror {
		storeOpts = append(storeOpts, fs.WithMarkdownMirror())
	}

	var convOpts []htmltomarkdown.Option
	if cfg.BaseURL != "" {
		convOpts = append(convOpts, htmltomarkdown.WithDomain(cfg.BaseURL))
	}

	return &build.Builder{
		Source: dsslog.NewLoggingPageSource(newPageSource(c, cfg, filter, logger), logger),
		Assembler: &build.Assembler{
			Extractor:        dsslog.NewLoggingExtractor(extractor, goquery.NewDetector(), logger),
			Converter:        htmltomarkdown.NewConverter(convOpts...),
			MinContentLength: cfg.MinContentLength,
			BaseURL:          cfg.BaseURL,
		},
		Indexers:    indexers,
		Store:       fs.NewSnapshotStore(c.Out, storeOpts...),
		Concurrency: cfg.Concurrency,
		Name:        cfg.Name,
		Version:     cfg.Version,
		BaseURL:     cfg.BaseURL,
	}, nil
}

var remoteSourceRe = regexp.MustCompile(`^https?://`)

// newPageSource reads a local build directory, or a live site when the
// source is an http(s) URL.
func newPageSource(c *BuildCmd, cfg docsnap.Config, filter *docsnap.RouteFilter, logger *slog.Logger) docsnap.PageSource {
	if !remoteSourceRe.MatchString(c.Source) {
		return fs.NewPageSource(c.Source, cfg.BaseURL, filter)
	}
	sitemaps := dsslog.NewLoggingSitemapService(dshttp.NewSitemapService(nil), logger)
	fetcher := dsslog.NewLoggingFetcher(dshttp.NewFetcher(), logger)
	return dshttp.NewPageSource(c.Source, sitemaps, fetcher, filter,
		dshttp.WithRateLimit(c.Rate),
		dshttp.WithLogger(logger),
	)
}
