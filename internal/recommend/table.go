// Package recommend holds the precomputed hybrid recommendation table.
package recommend

import (
	"os"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/goccy/go-json"
)

// Table maps a product identifier to its ranked recommendation stubs.
// It is read-only after Load.
type Table struct {
	entries map[string][]domain.Stub
}

func Empty() *Table {
	return &Table{entries: make(map[string][]domain.Stub)}
}

func New(entries map[string][]domain.Stub) *Table {
	if entries == nil {
		return Empty()
	}
	return &Table{entries: entries}
}

// Load reads the table from path. A missing or unreadable file yields an
// empty table without logging.
func Load(path string) *Table {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty()
	}

	t, err := Parse(data)
	if err != nil {
		return Empty()
	}
	return t
}

func Parse(data []byte) (*Table, error) {
	var entries map[string][]domain.Stub
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return New(entries), nil
}

// For returns the stubs for id in rank order.
func (t *Table) For(id string) ([]domain.Stub, bool) {
	stubs, ok := t.entries[id]
	return stubs, ok
}

func (t *Table) Len() int {
	return len(t.entries)
}
