package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

func TestPairCacheGrowPreservesValues(t *testing.T) {
	c := NewPairCache()
	assert.Equal(t, 0, c.Dimension())

	c.Grow()
	c.Grow()
	require.NoError(t, c.Set(0, 1, 2.5))
	require.NoError(t, c.Set(1, 1, 0))

	for k := 3; k <= 6; k++ {
		c.Grow()
		assert.Equal(t, k, c.Dimension())

		v, ok, err := c.Get(0, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2.5, v)

		v, ok, err = c.Get(1, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)

		// New row and column start absent.
		_, ok, err = c.Get(CellID(k-1), 0)
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = c.Get(0, CellID(k-1))
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestPairCacheAbsentIsNotZero(t *testing.T) {
	c := NewPairCache()
	c.Grow()

	v, ok, err := c.Get(0, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0.0, v)

	require.NoError(t, c.Set(0, 0, 0))
	_, ok, err = c.Get(0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPairCacheDoesNotMirror(t *testing.T) {
	c := NewPairCache()
	c.Grow()
	c.Grow()
	require.NoError(t, c.Set(0, 1, 7))

	_, ok, err := c.Get(1, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPairCacheOutOfRange(t *testing.T) {
	c := NewPairCache()
	c.Grow()
	c.Grow()
	require.NoError(t, c.Set(1, 1, 4))

	tests := []struct {
		name string
		i, j CellID
	}{
		{"row equals dimension", 2, 0},
		{"column equals dimension", 0, 2},
		{"both beyond", 5, 9},
		{"negative row", -1, 0},
		{"negative column", 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok, err := c.Get(tt.i, tt.j)
			require.Error(t, err)
			assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeOutOfRange))
			assert.False(t, ok)
			assert.Equal(t, 0.0, v)

			err = c.Set(tt.i, tt.j, 1)
			require.Error(t, err)
			assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeOutOfRange))
		})
	}
}

func TestPairCacheEmpty(t *testing.T) {
	c := NewPairCache()
	_, _, err := c.Get(0, 0)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeOutOfRange))
}
