package memo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRegisterGrowsOnlyOnNewName(t *testing.T) {
	tbl := NewTable("heuristics")

	assert.Equal(t, CellID(0), tbl.Register("C1"))
	assert.Equal(t, 1, tbl.Cache().Dimension())

	assert.Equal(t, CellID(0), tbl.Register("C1"))
	assert.Equal(t, 1, tbl.Cache().Dimension())

	assert.Equal(t, CellID(1), tbl.Register("C2"))
	assert.Equal(t, 2, tbl.Cache().Dimension())
	assert.Equal(t, 2, tbl.Len())
}

func TestTableDimensionTracksDistinctNames(t *testing.T) {
	tbl := NewTable("costs")
	names := []string{"C0_0", "C0_1", "C0_0", "C1_1", "C0_1", "C2_2"}
	for _, n := range names {
		tbl.Register(n)
	}
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 4, tbl.Cache().Dimension())
}

func TestTableStoreIsSymmetric(t *testing.T) {
	tbl := NewTable("costs")

	a, b, _, ok, err := tbl.Lookup("C1_2", "C3_4")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tbl.Store(a, b, 3.5))

	_, _, v, ok, err := tbl.Lookup("C1_2", "C3_4")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, _, v, ok, err = tbl.Lookup("C3_4", "C1_2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)
}

func TestTableValuesSurviveGrowth(t *testing.T) {
	tbl := NewTable("heuristics")
	a, b, _, _, err := tbl.Lookup("C0_0", "C0_1")
	require.NoError(t, err)
	require.NoError(t, tbl.Store(a, b, 1))

	for _, n := range []string{"C0_2", "C0_3", "C0_4"} {
		tbl.Register(n)
	}

	_, _, v, ok, err := tbl.Lookup("C0_1", "C0_0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestTableDump(t *testing.T) {
	tbl := NewTable("costs")
	a, b, _, _, err := tbl.Lookup("C1", "C2")
	require.NoError(t, err)
	require.NoError(t, tbl.Store(a, b, 1.5))

	var buf bytes.Buffer
	require.NoError(t, tbl.Dump(&buf))

	want := "\n\tC1\tC2\n" +
		"C1\tNULL\t1.50\n" +
		"C2\t1.50\tNULL\n"
	assert.Equal(t, want, buf.String())
}
