package memo

import (
	"fmt"
	"io"
	"strings"
)

// Table is a named memo table: a CellIndex whose growth drives a PairCache.
// The bridge keeps one Table for heuristics and one for costs.
type Table struct {
	name  string
	index *CellIndex
	cache *PairCache
}

// NewTable returns an empty table. name is only used for logging and Dump.
func NewTable(name string) *Table {
	return &Table{
		name:  name,
		index: NewCellIndex(),
		cache: NewPairCache(),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Index exposes the table's cell index.
func (t *Table) Index() *CellIndex { return t.index }

// Cache exposes the table's pair cache.
func (t *Table) Cache() *PairCache { return t.cache }

// Register registers name and grows the cache exactly when a new id is
// assigned.
func (t *Table) Register(name string) CellID {
	id, added := t.index.Register(name)
	if added {
		t.cache.Grow()
	}
	return id
}

// Lookup returns the cached value for the pair (a, b), registering both names
// first.
func (t *Table) Lookup(a, b string) (ida, idb CellID, v float64, ok bool, err error) {
	ida = t.Register(a)
	idb = t.Register(b)
	v, ok, err = t.cache.Get(ida, idb)
	return ida, idb, v, ok, err
}

// Store writes v at (a, b) and (b, a).
func (t *Table) Store(a, b CellID, v float64) error {
	if err := t.cache.Set(a, b, v); err != nil {
		return err
	}
	return t.cache.Set(b, a, v)
}

// Len returns the number of registered cells.
func (t *Table) Len() int { return t.index.Len() }

// Dump writes the table as a grid with cell names on both axes. Absent
// entries print as NULL.
func (t *Table) Dump(w io.Writer) error {
	names := t.index.Names()

	var b strings.Builder
	b.WriteString("\n")
	for _, n := range names {
		b.WriteString("\t")
		b.WriteString(n)
	}
	b.WriteString("\n")

	for i, n := range names {
		b.WriteString(n)
		for j := range names {
			v, ok, err := t.cache.Get(CellID(i), CellID(j))
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(&b, "\t%.2f", v)
			} else {
				b.WriteString("\tNULL")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
