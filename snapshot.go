package docsnap

import (
	"context"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot file names inside a snapshot directory.
const (
	DocsFile     = "docs.json"
	IndexFile    = "search-index.json"
	ManifestFile = "manifest.json"
)

// Manifest describes a snapshot.
type Manifest struct {
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	BuildID  string    `json:"buildId"`
	BuiltAt  time.Time `json:"builtAt"`
	DocCount int       `json:"docCount"`
	BaseURL  string    `json:"baseUrl,omitempty"`
	Indexers []string  `json:"indexers"`
	Checksum string    `json:"checksum"`
}

// Snapshot is the build artifact: every document keyed by route, the
// exported search index, and the manifest.
type Snapshot struct {
	Docs     map[string]*Document
	Index    map[string]string
	Manifest Manifest
}

// SnapshotStore persists a snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
}

// SnapshotLoader reads a previously saved snapshot.
// Returns ENOTFOUND when a snapshot file is missing and EINVALID when one
// cannot be parsed.
type SnapshotLoader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// ComputeChecksum hashes every route and document content hash in route
// order. Empty collections hash to the digest of the empty input.
func ComputeChecksum(docs map[string]*Document) string {
	routes := make([]string, 0, len(docs))
	for route := range docs {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	d := xxhash.New()
	for _, route := range routes {
		hash := docs[route].ContentHash
		if hash == "" {
			hash = ComputeHash(docs[route].Body)
		}
		_, _ = d.WriteString(route)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(hash)
		_, _ = d.WriteString("\n")
	}
	return formatHash(d.Sum64())
}

// Verify checks that the manifest agrees with the documents it describes.
func (s *Snapshot) Verify() error {
	if s.Manifest.DocCount != len(s.Docs) {
		return Errorf(EINVALID, "manifest docCount %d does not match %d documents", s.Manifest.DocCount, len(s.Docs))
	}
	if s.Manifest.Checksum != "" && s.Manifest.Checksum != ComputeChecksum(s.Docs) {
		return Errorf(EINVALID, "manifest checksum mismatch")
	}
	for key, doc := range s.Docs {
		if err := doc.Validate(); err != nil {
			return Errorf(EINVALID, "document %q: %s", key, ErrorMessage(err))
		}
	}
	return nil
}
