package docsnap

import (
	"fmt"
	"slices"
)

// Extractor kinds.
const (
	ExtractorGoquery     = "goquery"
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
)

// Indexer kinds.
const (
	IndexerSearch = "search"
)

// Searcher kinds.
const (
	SearcherNative = "search"
	SearcherBleve  = "bleve"
)

// DefaultConcurrency bounds the pages assembled at once.
const DefaultConcurrency = 10

// DefaultMinContentLength is the minimum trimmed markdown length of a page.
const DefaultMinContentLength = 50

// Config holds build and serve options.
type Config struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	BaseURL string `json:"baseUrl,omitempty"`

	ContentSelectors []string `json:"contentSelectors,omitempty"`
	ExcludeSelectors []string `json:"excludeSelectors,omitempty"`
	MinContentLength int      `json:"minContentLength"`
	Concurrency      int      `json:"concurrency"`

	Extractor string   `json:"extractor"`
	Indexers  []string `json:"indexers"`
	Searcher  string   `json:"searcher"`
}

// DefaultConfig returns a configuration with every default filled in.
func DefaultConfig() Config {
	return Config{
		Name:             "docs",
		Version:          "0.0.0",
		MinContentLength: DefaultMinContentLength,
		Concurrency:      DefaultConcurrency,
		Extractor:        ExtractorGoquery,
		Indexers:         []string{IndexerSearch},
		Searcher:         SearcherNative,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "name required")
	}
	if c.MinContentLength < 0 {
		return Errorf(EINVALID, "min content length must not be negative")
	}
	if c.Concurrency < 1 {
		return Errorf(EINVALID, "concurrency must be at least 1")
	}
	if err := oneOf("extractor", c.Extractor, ExtractorGoquery, ExtractorReadability, ExtractorTrafilatura); err != nil {
		return err
	}
	for _, name := range c.Indexers {
		if err := oneOf("indexer", name, IndexerSearch); err != nil {
			return err
		}
	}
	return oneOf("searcher", c.Searcher, SearcherNative, SearcherBleve)
}

func oneOf(field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return Errorf(EINVALID, "unknown %s %q (want one of %s)", field, value, fmt.Sprint(allowed))
}
