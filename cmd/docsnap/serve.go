package main

import (
	"fmt"

	"github.com/fwojciec/docsnap"
	dsmcp "github.com/fwojciec/docsnap/mcp"
	"github.com/fwojciec/docsnap/prometheus"
)

// Run executes the serve command. The snapshot is loaded before the server
// starts so a broken snapshot fails fast.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := deps.Snapshot.Initialize(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to load snapshot %s: %s\n", c.Snapshot, docsnap.ErrorMessage(err))
		return err
	}
	stats, err := deps.Snapshot.Stats(deps.Ctx)
	if err != nil {
		return err
	}
	deps.Logger.Info("snapshot loaded",
		"name", stats.Manifest.Name,
		"version", stats.Manifest.Version,
		"docs", stats.DocCount,
		"searcher", stats.Searcher,
	)

	opts := dsmcp.Options{
		Version: Version,
		Logger:  deps.Logger,
		Ready:   deps.Snapshot.Initialize,
	}
	query := deps.Query
	if c.HTTP != "" {
		metrics := prometheus.NewMetrics()
		metrics.Documents.Set(float64(stats.DocCount))
		query = prometheus.NewQueryService(query, metrics)
		opts.Metrics = metrics.Handler()
	}

	server, err := dsmcp.NewServer(query, opts)
	if err != nil {
		return err
	}

	if c.HTTP != "" {
		return server.RunHTTP(deps.Ctx, c.HTTP)
	}
	return server.Run(deps.Ctx)
}
