// Package docsnap builds a searchable, section-addressable snapshot of a
// documentation site and serves it to AI agents. Rendered pages are reduced
// to their primary content, converted to normalized markdown, indexed by
// heading offsets and full-text fields, and exported as a flat snapshot that
// a read-only query service loads at startup.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, htmltomarkdown/, bleve/).
package docsnap
