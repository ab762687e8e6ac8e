package jsonschema_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/docsnap"
	"github.com/fwojciec/docsnap/fs"
	"github.com/fwojciec/docsnap/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *jsonschema.Validator {
	t.Helper()
	v, err := jsonschema.NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidator_ValidateDir(t *testing.T) {
	t.Parallel()

	t.Run("accepts saved snapshot", func(t *testing.T) {
		t.Parallel()

		body := "# Intro\n\nHello.\n"
		docs := map[string]*docsnap.Document{
			"/intro": {Route: "/intro", Title: "Intro", Body: body, Headings: docsnap.ExtractHeadings(body)},
		}
		dir := filepath.Join(t.TempDir(), "snap")
		store := fs.NewSnapshotStore(dir)
		require.NoError(t, store.Save(context.Background(), &docsnap.Snapshot{
			Docs:  docs,
			Index: map[string]string{"reg": `["/intro"]`},
			Manifest: docsnap.Manifest{
				Name:     "docs",
				Version:  "1.0.0",
				BuildID:  "b1",
				BuiltAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				DocCount: 1,
				Indexers: []string{"search"},
				Checksum: docsnap.ComputeChecksum(docs),
			},
		}))

		assert.NoError(t, newValidator(t).ValidateDir(dir))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		err := newValidator(t).ValidateDir(t.TempDir())

		assert.Equal(t, docsnap.ENOTFOUND, docsnap.ErrorCode(err))
	})

	t.Run("reports invalid file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, docsnap.DocsFile), []byte(`{}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, docsnap.IndexFile), []byte(`{"reg": 1}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, docsnap.ManifestFile), []byte(`{}`), 0644))

		err := newValidator(t).ValidateDir(dir)

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
		assert.Contains(t, docsnap.ErrorMessage(err), docsnap.IndexFile)
		assert.Contains(t, docsnap.ErrorMessage(err), "$.reg")
	})
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		data string
		want string
	}{
		{
			name: "route without leading slash",
			file: docsnap.DocsFile,
			data: `{"a": {"route": "a", "title": "A", "markdown": "", "headings": []}}`,
			want: "$.a.route",
		},
		{
			name: "heading level out of range",
			file: docsnap.DocsFile,
			data: `{"/a": {"route": "/a", "title": "A", "markdown": "", "headings": [{"level": 7, "text": "x", "id": "x", "startOffset": 0, "endOffset": 0}]}}`,
			want: "$./a.headings.0.level",
		},
		{
			name: "negative doc count",
			file: docsnap.ManifestFile,
			data: `{"name": "docs", "version": "1", "buildId": "b", "builtAt": "2025-01-01T00:00:00Z", "docCount": -1, "indexers": [], "checksum": ""}`,
			want: "$.docCount",
		},
		{
			name: "malformed timestamp",
			file: docsnap.ManifestFile,
			data: `{"name": "docs", "version": "1", "buildId": "b", "builtAt": "yesterday", "docCount": 0, "indexers": [], "checksum": ""}`,
			want: "$.builtAt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := newValidator(t).Validate(tt.file, []byte(tt.data))

			assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
			assert.Contains(t, docsnap.ErrorMessage(err), tt.want)
		})
	}

	t.Run("not JSON", func(t *testing.T) {
		t.Parallel()

		err := newValidator(t).Validate(docsnap.ManifestFile, []byte("{"))

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})

	t.Run("unknown file", func(t *testing.T) {
		t.Parallel()

		err := newValidator(t).Validate("other.json", []byte("{}"))

		assert.Equal(t, docsnap.EINVALID, docsnap.ErrorCode(err))
	})
}
