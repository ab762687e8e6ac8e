// Package jsonschema validates snapshot files against embedded JSON schemas.
package jsonschema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsnap"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/*.json
var schemaFS embed.FS

// Files lists the snapshot files in validation order.
var Files = []string{docsnap.DocsFile, docsnap.IndexFile, docsnap.ManifestFile}

// Validator checks the structure of snapshot files.
type Validator struct {
	schemas map[string]*jsonschema.Schema
	printer *message.Printer
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()

	for _, name := range Files {
		data, err := schemaFS.ReadFile(path.Join("schema", name))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	v := &Validator{
		schemas: make(map[string]*jsonschema.Schema, len(Files)),
		printer: message.NewPrinter(language.English),
	}
	for _, name := range Files {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks data as the snapshot file called name.
// Returns EINVALID describing every violation.
func (v *Validator) Validate(name string, data []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return docsnap.Errorf(docsnap.EINVALID, "unknown snapshot file %q", name)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return docsnap.Errorf(docsnap.EINVALID, "%s is not valid JSON: %v", name, err)
	}

	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return docsnap.Errorf(docsnap.EINVALID, "%s: %s", name, strings.Join(v.violations(verr), "; "))
		}
		return docsnap.Errorf(docsnap.EINVALID, "%s: %v", name, err)
	}
	return nil
}

// ValidateDir checks every snapshot file in dir. A missing file is ENOTFOUND.
func (v *Validator) ValidateDir(dir string) error {
	for _, name := range Files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return docsnap.Errorf(docsnap.ENOTFOUND, "snapshot file %s not found", name)
		} else if err != nil {
			return err
		}
		if err := v.Validate(name, data); err != nil {
			return err
		}
	}
	return nil
}

// violations flattens a validation error tree into "path: message" lines
// for its leaves.
func (v *Validator) violations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "$"
		if len(verr.InstanceLocation) > 0 {
			loc = "$." + strings.Join(verr.InstanceLocation, ".")
		}
		return []string{loc + ": " + verr.ErrorKind.LocalizedString(v.printer)}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, v.violations(cause)...)
	}
	return out
}
