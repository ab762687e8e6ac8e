// Package search implements the native docsnap search engine: a multi-field
// inverted index with substring tokenization, suffix stemming, adjacency
// context and a flat exportable form.
package search

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/docsnap"
)

const (
	// resolution is the number of relevance slots per term. Lower slots
	// rank first.
	resolution = 9

	// exactSlots are reserved for whole-token matches; substring matches
	// use the remaining slots.
	exactSlots = 5
)

// Field is an indexed document field and its relevance weight.
type Field struct {
	Name   string
	Weight float64
}

// Fields lists the indexed fields in query order.
var Fields = []Field{
	{Name: "title", Weight: 3.0},
	{Name: "headings", Weight: 2.0},
	{Name: "description", Weight: 1.5},
	{Name: "content", Weight: 1.0},
}

func fieldText(name string, doc *docsnap.Document) string {
	switch name {
	case "title":
		return doc.Title
	case "headings":
		texts := make([]string, len(doc.Headings))
		for i, h := range doc.Headings {
			texts[i] = h.Text
		}
		return strings.Join(texts, " ")
	case "description":
		return doc.Description
	default:
		return doc.Body
	}
}

// Stored holds the fields retrievable from the index without the documents.
type Stored struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// FieldHits is the ranked hit list of a single field.
type FieldHits struct {
	Field  string
	Weight float64
	Routes []string
}

// slots maps relevance slot to ascending document ids.
type slots [resolution][]int

type fieldConfig struct {
	Weight     float64 `json:"weight"`
	Resolution int     `json:"resolution"`
	MinLength  int     `json:"minLength"`
	MaxLength  int     `json:"maxLength"`
	Context    int     `json:"context"`
}

type fieldIndex struct {
	terms map[string]*slots
	ctx   map[string]*slots
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{
		terms: make(map[string]*slots),
		ctx:   make(map[string]*slots),
	}
}

// Index is the in-memory inverted index. It is built once and is safe for
// concurrent searches afterwards.
type Index struct {
	ids     []string
	byRoute map[string]int
	store   map[string]Stored
	fields  map[string]*fieldIndex
}

// New returns an empty index.
func New() *Index {
	idx := &Index{
		byRoute: make(map[string]int),
		store:   make(map[string]Stored),
		fields:  make(map[string]*fieldIndex, len(Fields)),
	}
	for _, f := range Fields {
		idx.fields[f.Name] = newFieldIndex()
	}
	return idx
}

// Build returns an index over docs.
func Build(docs map[string]*docsnap.Document) (*Index, error) {
	idx := New()
	if err := idx.AddAll(docs); err != nil {
		return nil, err
	}
	return idx, nil
}

// AddAll adds docs in route order.
func (idx *Index) AddAll(docs map[string]*docsnap.Document) error {
	routes := make([]string, 0, len(docs))
	for route := range docs {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	for _, route := range routes {
		if err := idx.Add(docs[route]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Stored returns the stored fields of route.
func (idx *Index) Stored(route string) (Stored, bool) {
	s, ok := idx.store[route]
	return s, ok
}

// Add indexes doc under its route.
func (idx *Index) Add(doc *docsnap.Document) error {
	if doc == nil || doc.Route == "" {
		return docsnap.Errorf(docsnap.EINVALID, "document route required")
	}
	if _, ok := idx.byRoute[doc.Route]; ok {
		return docsnap.Errorf(docsnap.ECONFLICT, "document %s already indexed", doc.Route)
	}

	id := len(idx.ids)
	idx.ids = append(idx.ids, doc.Route)
	idx.byRoute[doc.Route] = id
	idx.store[doc.Route] = Stored{Title: doc.Title, Description: doc.Description}

	for _, f := range Fields {
		idx.fields[f.Name].add(id, fieldText(f.Name, doc))
	}
	return nil
}

func (f *fieldIndex) add(id int, text string) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return
	}

	best := make(map[string]int)
	for pos, tok := range tokens {
		slot := pos * exactSlots / len(tokens)
		keepBest(best, tok, slot)

		sub := exactSlots + slot*(resolution-exactSlots)/exactSlots
		for _, s := range Substrings(tok) {
			if s != tok {
				keepBest(best, s, sub)
			}
		}
	}
	insert(f.terms, best, id)

	pairs := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] == tokens[i+1] {
			continue
		}
		keepBest(pairs, contextKey(tokens[i], tokens[i+1]), i*resolution/len(tokens))
	}
	insert(f.ctx, pairs, id)
}

func keepBest(m map[string]int, key string, slot int) {
	if cur, ok := m[key]; !ok || slot < cur {
		m[key] = slot
	}
}

func insert(dst map[string]*slots, keys map[string]int, id int) {
	for key, slot := range keys {
		s := dst[key]
		if s == nil {
			s = &slots{}
			dst[key] = s
		}
		s[slot] = append(s[slot], id)
	}
}

// Search returns, for every field, the routes matching query ordered by
// relevance, at most limit per field. Documents matching all query terms
// are preferred; when none do, documents matching any term are returned.
func (idx *Index) Search(query string, limit int) []FieldHits {
	terms, tokens := queryTerms(query)
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	hits := make([]FieldHits, 0, len(Fields))
	for _, f := range Fields {
		ids := idx.fields[f.Name].search(terms, tokens, limit)
		routes := make([]string, len(ids))
		for i, id := range ids {
			routes[i] = idx.ids[id]
		}
		hits = append(hits, FieldHits{Field: f.Name, Weight: f.Weight, Routes: routes})
	}
	return hits
}

type candidate struct {
	id      int
	matched int
	cost    int
	context int
}

func (f *fieldIndex) search(terms, tokens []string, limit int) []int {
	cands := make(map[int]*candidate)
	for _, term := range terms {
		s := f.terms[term]
		if s == nil {
			continue
		}
		for slot, ids := range s {
			for _, id := range ids {
				c := cands[id]
				if c == nil {
					c = &candidate{id: id}
					cands[id] = c
				}
				c.matched++
				c.cost += slot
			}
		}
	}
	if len(cands) == 0 {
		return nil
	}

	all := false
	for _, c := range cands {
		if c.matched == len(terms) {
			all = true
			break
		}
	}

	for i := 0; i+1 < len(tokens); i++ {
		s := f.ctx[contextKey(tokens[i], tokens[i+1])]
		if s == nil {
			continue
		}
		for _, ids := range s {
			for _, id := range ids {
				if c := cands[id]; c != nil {
					c.context++
				}
			}
		}
	}

	list := make([]*candidate, 0, len(cands))
	for _, c := range cands {
		if all && c.matched < len(terms) {
			continue
		}
		c.cost += (len(terms) - c.matched) * resolution
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.context != b.context {
			return a.context > b.context
		}
		if a.cost != b.cost {
			return a.cost < b.cost
		}
		return a.id < b.id
	})

	if len(list) > limit {
		list = list[:limit]
	}
	ids := make([]int, len(list))
	for i, c := range list {
		ids[i] = c.id
	}
	return ids
}

// Export keys.
const (
	keyRegistry = "reg"
	keyStore    = "store"
)

func mapKey(field string) string { return field + ".map" }
func ctxKey(field string) string { return field + ".ctx" }
func cfgKey(field string) string { return field + ".cfg" }

// Export serializes the index to a flat key to JSON mapping.
func (idx *Index) Export() (map[string]string, error) {
	out := make(map[string]string, 2+3*len(Fields))

	ids := idx.ids
	if ids == nil {
		ids = []string{}
	}
	if err := putJSON(out, keyRegistry, ids); err != nil {
		return nil, err
	}
	if err := putJSON(out, keyStore, idx.store); err != nil {
		return nil, err
	}
	for _, f := range Fields {
		fi := idx.fields[f.Name]
		if err := putJSON(out, mapKey(f.Name), fi.terms); err != nil {
			return nil, err
		}
		if err := putJSON(out, ctxKey(f.Name), fi.ctx); err != nil {
			return nil, err
		}
		if err := putJSON(out, cfgKey(f.Name), configFor(f)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func configFor(f Field) fieldConfig {
	return fieldConfig{
		Weight:     f.Weight,
		Resolution: resolution,
		MinLength:  MinSubstringLength,
		MaxLength:  MaxSubstringLength,
		Context:    1,
	}
}

func putJSON(out map[string]string, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	out[key] = string(data)
	return nil
}

// Import replaces the index contents with a previous Export.
func (idx *Index) Import(data map[string]string) error {
	next := New()
	if err := getJSON(data, keyRegistry, &next.ids); err != nil {
		return err
	}
	for id, route := range next.ids {
		next.byRoute[route] = id
	}
	if err := getJSON(data, keyStore, &next.store); err != nil {
		return err
	}
	if next.store == nil {
		next.store = make(map[string]Stored)
	}

	for _, f := range Fields {
		var cfg fieldConfig
		if err := getJSON(data, cfgKey(f.Name), &cfg); err != nil {
			return err
		}
		if cfg != configFor(f) {
			return docsnap.Errorf(docsnap.EINVALID, "search index field %s has incompatible configuration", f.Name)
		}

		fi := newFieldIndex()
		if err := getJSON(data, mapKey(f.Name), &fi.terms); err != nil {
			return err
		}
		if err := getJSON(data, ctxKey(f.Name), &fi.ctx); err != nil {
			return err
		}
		if err := fi.check(len(next.ids)); err != nil {
			return docsnap.Errorf(docsnap.EINVALID, "search index field %s: %v", f.Name, err)
		}
		next.fields[f.Name] = fi
	}

	*idx = *next
	return nil
}

func (f *fieldIndex) check(n int) error {
	if f.terms == nil {
		f.terms = make(map[string]*slots)
	}
	if f.ctx == nil {
		f.ctx = make(map[string]*slots)
	}
	for _, m := range []map[string]*slots{f.terms, f.ctx} {
		for key, s := range m {
			if s == nil {
				return fmt.Errorf("empty entry %q", key)
			}
			for _, ids := range s {
				for _, id := range ids {
					if id < 0 || id >= n {
						return fmt.Errorf("entry %q references unknown document %d", key, id)
					}
				}
			}
		}
	}
	return nil
}

func getJSON(data map[string]string, key string, v any) error {
	raw, ok := data[key]
	if !ok {
		return docsnap.Errorf(docsnap.EINVALID, "search index missing %q", key)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return docsnap.Errorf(docsnap.EINVALID, "search index %q: %v", key, err)
	}
	return nil
}
