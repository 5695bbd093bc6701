// Package catalog holds the in-memory product index built once at startup.
package catalog

import (
	"iter"
	"strings"

	"github.com/actuallystonmai/product-search-service/internal/domain"
)

// Index maps product identifiers to records and trimmed display names to the
// latest identifier carrying that name. It is immutable once built and safe
// for concurrent readers.
type Index struct {
	order  []string
	byID   map[string]*domain.CatalogRecord
	byName map[string]string
}

func Empty() *Index {
	return &Index{
		byID:   make(map[string]*domain.CatalogRecord),
		byName: make(map[string]string),
	}
}

// Build indexes records in order. A duplicate identifier replaces the earlier
// record but keeps its original position.
func Build(records []*domain.CatalogRecord) *Index {
	ix := Empty()
	for _, r := range records {
		ix.insert(r)
	}
	return ix
}

func (ix *Index) insert(r *domain.CatalogRecord) {
	if _, exists := ix.byID[r.ID]; !exists {
		ix.order = append(ix.order, r.ID)
	}
	ix.byID[r.ID] = r
	ix.byName[strings.TrimSpace(r.NameText())] = r.ID
}

func (ix *Index) Len() int {
	return len(ix.order)
}

func (ix *Index) Get(id string) (*domain.CatalogRecord, bool) {
	r, ok := ix.byID[id]
	return r, ok
}

// Lookup resolves a display name to its record through the name map.
func (ix *Index) Lookup(name string) (*domain.CatalogRecord, bool) {
	id, ok := ix.byName[name]
	if !ok {
		return nil, false
	}
	return ix.Get(id)
}

// All yields records in build order.
func (ix *Index) All() iter.Seq[*domain.CatalogRecord] {
	return func(yield func(*domain.CatalogRecord) bool) {
		for _, id := range ix.order {
			if !yield(ix.byID[id]) {
				return
			}
		}
	}
}

// First returns up to n records in build order.
func (ix *Index) First(n int) []*domain.CatalogRecord {
	n = min(n, len(ix.order))
	out := make([]*domain.CatalogRecord, 0, n)
	for _, id := range ix.order[:n] {
		out = append(out, ix.byID[id])
	}
	return out
}
