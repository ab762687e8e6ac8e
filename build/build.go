// Package build assembles a documentation snapshot.
// It coordinates page listing, extraction, conversion, indexing, and
// storage of the resulting snapshot.
package build

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/docsnap"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Builder orchestrates a snapshot build.
type Builder struct {
	Source    docsnap.PageSource
	Assembler *Assembler
	Indexers  []docsnap.Indexer
	Store     docsnap.SnapshotStore

	// Concurrency bounds the pages in flight. Zero selects
	// docsnap.DefaultConcurrency.
	Concurrency int

	Name    string
	Version string
	BaseURL string

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Result holds the outcome of a build.
type Result struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
	Fallbacks int
	Bytes     int
	Manifest  docsnap.Manifest
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Route     string
	Error     error

	// Fallback is set on ProgressCompleted when the page was converted
	// as plain text.
	Fallback bool
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single page.
type pageResult struct {
	position int
	route    string
	doc      *docsnap.Document
	outcome  Outcome
	err      error
}

// skipped reports whether err means the page had nothing to index.
func skipped(err error) bool {
	code := docsnap.ErrorCode(err)
	return code == docsnap.EINVALID || code == docsnap.ENOTFOUND
}

// Build assembles every page, runs the indexers, and saves the snapshot.
// Per-page problems are reported through progress and counted; they never
// abort the build. The progress callback may be nil.
func (b *Builder) Build(ctx context.Context, progress ProgressFunc) (*Result, error) {
	if b.Source == nil || b.Assembler == nil || b.Store == nil {
		return nil, docsnap.Errorf(docsnap.EINVALID, "builder requires a page source, an assembler and a store")
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	refs, err := b.Source.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = docsnap.DefaultConcurrency
	}

	total := len(refs)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan pageResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, ref := range refs {
			g.Go(func() error {
				resultCh <- b.processPage(gctx, i, ref)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	result := &Result{Total: total}
	results := make([]pageResult, total)
	completed := 0
	for r := range resultCh {
		completed++
		results[r.position] = r

		event := ProgressEvent{Completed: completed, Total: total, Route: r.route, Error: r.err}
		switch {
		case r.err != nil && skipped(r.err):
			result.Skipped++
			event.Type = ProgressSkipped
		case r.err != nil:
			result.Failed++
			event.Type = ProgressFailed
		default:
			event.Type = ProgressCompleted
			event.Fallback = r.outcome.Fallback()
			if event.Fallback {
				result.Fallbacks++
			}
		}
		progress(event)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make(map[string]*docsnap.Document, total)
	for _, r := range results {
		if r.doc == nil {
			continue
		}
		if _, ok := docs[r.doc.Route]; ok {
			result.Skipped++
			progress(ProgressEvent{
				Type:      ProgressSkipped,
				Completed: total,
				Total:     total,
				Route:     r.doc.Route,
				Error:     docsnap.Errorf(docsnap.ECONFLICT, "duplicate route %s", r.doc.Route),
			})
			continue
		}
		docs[r.doc.Route] = r.doc
		result.Processed++
		result.Bytes += len(r.doc.Body)
	}

	index, names, err := b.runIndexers(ctx, docs)
	if err != nil {
		return nil, err
	}

	snap := &docsnap.Snapshot{
		Docs:     docs,
		Index:    index,
		Manifest: b.manifest(docs, names),
	}
	if err := b.Store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	result.Manifest = snap.Manifest

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// processPage reads and assembles a single page.
func (b *Builder) processPage(ctx context.Context, position int, ref docsnap.PageRef) pageResult {
	result := pageResult{position: position, route: ref.Route}

	page, err := b.Source.ReadPage(ctx, ref)
	if err != nil {
		result.err = err
		return result
	}

	doc, outcome, err := b.Assembler.Assemble(page)
	result.outcome = outcome
	if err != nil {
		result.err = err
		return result
	}
	result.doc = doc
	result.route = doc.Route
	return result
}

// runIndexers runs every indexer in turn and merges their exports.
func (b *Builder) runIndexers(ctx context.Context, docs map[string]*docsnap.Document) (map[string]string, []string, error) {
	index := make(map[string]string)
	names := make([]string, 0, len(b.Indexers))
	owner := make(map[string]string)

	for _, ix := range b.Indexers {
		name := ix.Name()
		if err := ix.Initialize(ctx); err != nil {
			return nil, nil, fmt.Errorf("indexer %s: initialize: %w", name, err)
		}
		if err := ix.IndexDocuments(ctx, docs); err != nil {
			return nil, nil, fmt.Errorf("indexer %s: index documents: %w", name, err)
		}
		out, err := ix.Finalize(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("indexer %s: finalize: %w", name, err)
		}
		for key, value := range out {
			if prev, ok := owner[key]; ok {
				return nil, nil, docsnap.Errorf(docsnap.ECONFLICT, "indexers %s and %s both export key %q", prev, name, key)
			}
			owner[key] = name
			index[key] = value
		}
		names = append(names, name)
	}
	return index, names, nil
}

func (b *Builder) manifest(docs map[string]*docsnap.Document, indexers []string) docsnap.Manifest {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	newID := uuid.NewString
	if b.NewID != nil {
		newID = b.NewID
	}
	return docsnap.Manifest{
		Name:     b.Name,
		Version:  b.Version,
		BuildID:  newID(),
		BuiltAt:  now().UTC(),
		DocCount: len(docs),
		BaseURL:  b.BaseURL,
		Indexers: indexers,
		Checksum: docsnap.ComputeChecksum(docs),
	}
}
