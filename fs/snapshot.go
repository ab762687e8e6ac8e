package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/docsnap"
)

// Ensure SnapshotStore implements the snapshot interfaces at compile time.
var (
	_ docsnap.SnapshotStore  = (*SnapshotStore)(nil)
	_ docsnap.SnapshotLoader = (*SnapshotStore)(nil)
)

// SnapshotStore saves snapshots to a directory. Files are written to dir.tmp
// and moved into dir one by one once all of them are complete. Only the
// snapshot files and the mirror are replaced, so dir may be shared with
// other content such as the site build itself.
type SnapshotStore struct {
	dir    string
	mirror bool
}

// StoreOption configures a SnapshotStore.
type StoreOption func(*SnapshotStore)

// WithMarkdownMirror also writes every document as a markdown file with
// frontmatter under the pages/ subdirectory.
func WithMarkdownMirror() StoreOption {
	return func(s *SnapshotStore) {
		s.mirror = true
	}
}

// NewSnapshotStore creates a SnapshotStore for dir.
func NewSnapshotStore(dir string, opts ...StoreOption) *SnapshotStore {
	s := &SnapshotStore{dir: filepath.Clean(dir)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the snapshot directory.
func (s *SnapshotStore) Dir() string {
	return s.dir
}

func (s *SnapshotStore) tempDir() string {
	return s.dir + ".tmp"
}

// Save writes docs.json, search-index.json and manifest.json and then moves
// them into the snapshot directory.
func (s *SnapshotStore) Save(ctx context.Context, snap *docsnap.Snapshot) error {
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return err
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	if err := s.write(ctx, snap); err != nil {
		_ = s.abort()
		return err
	}
	return s.commit()
}

func (s *SnapshotStore) write(ctx context.Context, snap *docsnap.Snapshot) error {
	docs := snap.Docs
	if docs == nil {
		docs = map[string]*docsnap.Document{}
	}
	index := snap.Index
	if index == nil {
		index = map[string]string{}
	}

	files := []struct {
		name   string
		v      any
		indent bool
	}{
		{docsnap.DocsFile, docs, false},
		{docsnap.IndexFile, index, false},
		{docsnap.ManifestFile, snap.Manifest, true},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(s.tempDir(), f.name), f.v, f.indent); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if s.mirror {
		if err := writeMirror(s.tempDir(), docs); err != nil {
			return fmt.Errorf("write markdown mirror: %w", err)
		}
	}
	return nil
}

// commit moves the written files into dir. manifest.json goes last so its
// checksum never describes documents that are not in place yet.
func (s *SnapshotStore) commit() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	names := []string{docsnap.DocsFile, docsnap.IndexFile}
	if s.mirror {
		if err := os.RemoveAll(filepath.Join(s.dir, MirrorDir)); err != nil {
			return err
		}
		names = append(names, MirrorDir)
	}
	names = append(names, docsnap.ManifestFile)

	for _, name := range names {
		if err := os.Rename(filepath.Join(s.tempDir(), name), filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
	}
	return s.abort()
}

func (s *SnapshotStore) abort() error {
	return os.RemoveAll(s.tempDir())
}

// Load reads a snapshot from the directory. A missing file is ENOTFOUND and
// an unparsable one EINVALID.
func (s *SnapshotStore) Load(ctx context.Context) (*docsnap.Snapshot, error) {
	snap := &docsnap.Snapshot{}
	if err := readJSON(filepath.Join(s.dir, docsnap.DocsFile), &snap.Docs); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(s.dir, docsnap.IndexFile), &snap.Index); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(s.dir, docsnap.ManifestFile), &snap.Manifest); err != nil {
		return nil, err
	}

	if snap.Docs == nil {
		snap.Docs = map[string]*docsnap.Document{}
	}
	if snap.Index == nil {
		snap.Index = map[string]string{}
	}
	for key, doc := range snap.Docs {
		if doc == nil {
			return nil, docsnap.Errorf(docsnap.EINVALID, "%s: document %q is null", docsnap.DocsFile, key)
		}
	}
	return snap, nil
}

func writeJSON(path string, v any, indent bool) error {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return docsnap.Errorf(docsnap.ENOTFOUND, "snapshot file %s not found", filepath.Base(path))
	} else if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return docsnap.Errorf(docsnap.EINVALID, "snapshot file %s is not valid: %v", filepath.Base(path), err)
	}
	return nil
}
