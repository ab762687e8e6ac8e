package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/build"
	"github.com/fwojciec/docsnap/jsonschema"
)

// SnapshotService is a loaded snapshot that can be queried.
type SnapshotService interface {
	docsnap.QueryService
	Initialize(ctx context.Context) error
	Stats(ctx context.Context) (docsnap.Stats, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Builder   *build.Builder
	Validator *jsonschema.Validator
	Snapshot  SnapshotService
	Query     docsnap.QueryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from a JSON or TOML file." env:"DOCSNAP_CONFIG"`
	Verbose bool            `short:"v" help:"Enable debug logging." env:"DOCSNAP_VERBOSE"`

	Build   BuildCmd   `cmd:"" help:"Build a snapshot from a site build directory or URL"`
	Serve   ServeCmd   `cmd:"" help:"Serve a snapshot over MCP"`
	Verify  VerifyCmd  `cmd:"" help:"Validate a snapshot and cold-start a query service on it"`
	Search  SearchCmd  `cmd:"" help:"Search a snapshot"`
	Page    PageCmd    `cmd:"" help:"Print a page of a snapshot"`
	Section SectionCmd `cmd:"" help:"Print a section of a page"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Source string `arg:"" help:"Site build directory, or an http(s) URL to crawl via its sitemaps"`
	Out    string `arg:"" help:"Snapshot output directory"`

	Name        string `default:"docs" help:"Snapshot name" env:"DOCSNAP_NAME"`
	SiteVersion string `name:"site-version" default:"0.0.0" help:"Documentation version recorded in the manifest" env:"DOCSNAP_SITE_VERSION"`
	BaseURL     string `name:"base-url" help:"Public URL the site is served from" env:"DOCSNAP_BASE_URL"`

	ContentSelector  []string `name:"content-selector" help:"CSS selector of the main content (repeatable)"`
	ExcludeSelector  []string `name:"exclude-selector" help:"Element to remove before conversion (repeatable)"`
	MinContentLength int      `name:"min-content-length" default:"50" help:"Minimum characters of markdown per page (0 disables)"`
	Concurrency      int      `short:"c" default:"10" help:"Pages processed at once" env:"DOCSNAP_CONCURRENCY"`
	Extractor        string   `enum:"goquery,readability,trafilatura" default:"goquery" help:"Content extractor (goquery, readability, trafilatura)" env:"DOCSNAP_EXTRACTOR"`
	Indexer          []string `default:"search" help:"Build-time indexers (repeatable)"`

	Include []string `short:"i" help:"Only build routes matching this regex (repeatable)"`
	Exclude []string `short:"x" help:"Skip routes matching this regex (repeatable)"`
	Mirror  bool     `help:"Also write each page as markdown under pages/"`
	Rate    float64  `default:"5" help:"Requests per second per host when crawling a URL"`
}

// Config returns the build options as a docsnap.Config.
func (c *BuildCmd) Config() docsnap.Config {
	cfg := docsnap.DefaultConfig()
	cfg.Name = c.Name
	cfg.Version = c.SiteVersion
	cfg.BaseURL = c.BaseURL
	cfg.ContentSelectors = c.ContentSelector
	cfg.ExcludeSelectors = c.ExcludeSelector
	cfg.MinContentLength = c.MinContentLength
	cfg.Concurrency = c.Concurrency
	cfg.Extractor = c.Extractor
	cfg.Indexers = c.Indexer
	return cfg
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Snapshot string `arg:"" help:"Snapshot directory"`
	HTTP     string `name:"http" help:"Listen address for streamable HTTP (default: stdio)" env:"DOCSNAP_HTTP"`
	Searcher string `enum:"search,bleve" default:"search" help:"Search provider (search, bleve)" env:"DOCSNAP_SEARCHER"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	Snapshot string `arg:"" help:"Snapshot directory"`
	Searcher string `enum:"search,bleve" default:"search" help:"Search provider to cold-start" env:"DOCSNAP_SEARCHER"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Snapshot string `arg:"" help:"Snapshot directory"`
	Query    string `arg:"" help:"Search query"`
	Limit    int    `short:"n" default:"5" help:"Maximum results (1-20)"`
	Searcher string `enum:"search,bleve" default:"search" help:"Search provider (search, bleve)" env:"DOCSNAP_SEARCHER"`
}

// PageCmd is the "page" subcommand.
type PageCmd struct {
	Snapshot string `arg:"" help:"Snapshot directory"`
	Route    string `arg:"" help:"Page route or URL"`
}

// SectionCmd is the "section" subcommand.
type SectionCmd struct {
	Snapshot string `arg:"" help:"Snapshot directory"`
	Route    string `arg:"" help:"Page route or URL"`
	Heading  string `arg:"" help:"Heading id"`
}
