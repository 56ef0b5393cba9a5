package memo

import (
	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

type slot struct {
	value float64
	set   bool
}

// PairCache is a square table of optional float64 values indexed by two
// CellIDs. A fresh entry is absent, which is distinct from a stored zero.
//
// The cache does not enforce symmetry: callers that want (i,j) and (j,i) to
// agree must set both.
type PairCache struct {
	rows [][]slot
}

// NewPairCache returns an empty cache of dimension zero.
func NewPairCache() *PairCache {
	return &PairCache{}
}

// Dimension returns the current number of rows (and columns).
func (c *PairCache) Dimension() int {
	return len(c.rows)
}

// Grow adds one absent column to every existing row and then one new row of
// absent entries, so that the dimension increases by one. Stored values are
// preserved.
func (c *PairCache) Grow() {
	for i := range c.rows {
		c.rows[i] = append(c.rows[i], slot{})
	}
	c.rows = append(c.rows, make([]slot, len(c.rows)+1))
}

// Get returns the value stored at (i, j) and whether one is present. It fails
// with OUT_OF_RANGE unless 0 <= i, j < Dimension().
func (c *PairCache) Get(i, j CellID) (float64, bool, error) {
	if err := c.check("get", i, j); err != nil {
		return 0, false, err
	}
	s := c.rows[i][j]
	return s.value, s.set, nil
}

// Set stores v at (i, j). It fails with OUT_OF_RANGE under the same condition
// as Get.
func (c *PairCache) Set(i, j CellID, v float64) error {
	if err := c.check("set", i, j); err != nil {
		return err
	}
	c.rows[i][j] = slot{value: v, set: true}
	return nil
}

func (c *PairCache) check(op string, i, j CellID) error {
	dim := CellID(len(c.rows))
	if i < 0 || i >= dim || j < 0 || j >= dim {
		return bridgeerr.Newf("memo", op, bridgeerr.ErrCodeOutOfRange,
			"(%d,%d) outside dimension %d", i, j, dim).
			WithDetails(map[string]any{"i": int(i), "j": int(j), "dimension": int(dim)})
	}
	return nil
}
