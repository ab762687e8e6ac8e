package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// ConfigLoader reads flag defaults from a JSON or TOML document. Keys are
// flag names with dashes replaced by underscores, for example
// min_content_length. A document starting with "{" is read as JSON.
func ConfigLoader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return kong.JSON(bytes.NewReader(trimmed))
	}

	values := map[string]any{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse TOML config: %w", err)
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return kong.JSON(bytes.NewReader(encoded))
}
