package memo

// CellID identifies a cell name within one CellIndex. Ids are dense and
// assigned in registration order: the n-th distinct name gets id n-1.
type CellID int

// CellIndex maps cell names to CellIDs and back.
type CellIndex struct {
	ids   map[string]CellID
	names []string
}

// NewCellIndex returns an empty index.
func NewCellIndex() *CellIndex {
	return &CellIndex{ids: make(map[string]CellID)}
}

// Register returns the id of name, assigning the next sequential id if the
// name has not been seen. added reports whether a new id was assigned.
func (x *CellIndex) Register(name string) (id CellID, added bool) {
	if id, ok := x.ids[name]; ok {
		return id, false
	}
	id = CellID(len(x.names))
	x.ids[name] = id
	x.names = append(x.names, name)
	return id, true
}

// IDOf returns the id registered for name.
func (x *CellIndex) IDOf(name string) (CellID, bool) {
	id, ok := x.ids[name]
	return id, ok
}

// NameOf returns the name registered under id.
func (x *CellIndex) NameOf(id CellID) (string, bool) {
	if id < 0 || int(id) >= len(x.names) {
		return "", false
	}
	return x.names[id], true
}

// Len returns the number of registered names.
func (x *CellIndex) Len() int {
	return len(x.names)
}

// Names returns the registered names in id order.
func (x *CellIndex) Names() []string {
	out := make([]string, len(x.names))
	copy(out, x.names)
	return out
}
