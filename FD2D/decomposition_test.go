package FD2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fdweno/types"
)

func TestGrid(t *testing.T) {
	g, err := NewGrid(50, 25, -5, 5, 0, 5, true, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, g.DX, 1.e-15)
	assert.InDelta(t, 0.2, g.DY, 1.e-15)
	x, y := g.CellCenter(0, 0)
	assert.InDelta(t, -4.9, x, 1.e-14)
	assert.InDelta(t, 0.1, y, 1.e-14)
	x, y = g.CellCenter(49, 24)
	assert.InDelta(t, 4.9, x, 1.e-14)
	assert.InDelta(t, 4.9, y, 1.e-14)

	_, err = NewGrid(0, 10, 0, 1, 0, 1, false, false)
	assert.Error(t, err)
	_, err = NewGrid(10, 10, 1, 1, 0, 1, false, false)
	assert.Error(t, err)
}

func TestDecomposition(t *testing.T) {
	{ // Process grid follows the grid aspect ratio
		g, _ := NewGrid(100, 25, 0, 4, 0, 1, false, false)
		d, err := NewDecomposition(g, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, d.PX)
		assert.Equal(t, 1, d.PY)
		g, _ = NewGrid(40, 40, 0, 1, 0, 1, false, false)
		d, err = NewDecomposition(g, 4)
		require.NoError(t, err)
		assert.Equal(t, 2, d.PX)
		assert.Equal(t, 2, d.PY)
	}
	{ // Tiles cover the grid exactly once
		g, _ := NewGrid(31, 17, 0, 1, 0, 1, true, true)
		d, err := NewDecomposition(g, 6)
		require.NoError(t, err)
		count := make([]int, g.NX*g.NY)
		for rank := 0; rank < d.NProcs; rank++ {
			tl := d.Tile(rank)
			assert.GreaterOrEqual(t, tl.NLocX, HaloWidth)
			assert.GreaterOrEqual(t, tl.NLocY, HaloWidth)
			for j := 0; j < tl.NLocY; j++ {
				for i := 0; i < tl.NLocX; i++ {
					count[(tl.JBeg+j)*g.NX+tl.IBeg+i]++
					assert.Equal(t, rank, d.Owner(tl.IBeg+i, tl.JBeg+j))
				}
			}
		}
		for _, c := range count {
			assert.Equal(t, 1, c)
		}
	}
	{ // Neighbors wrap only on periodic axes
		g, _ := NewGrid(30, 30, 0, 1, 0, 1, true, false)
		d, err := NewDecomposition(g, 9)
		require.NoError(t, err)
		assert.Equal(t, 3, d.PX)
		assert.Equal(t, 2, d.Neighbor(0, types.Left))
		assert.Equal(t, 1, d.Neighbor(0, types.Right))
		assert.Equal(t, -1, d.Neighbor(0, types.Bottom))
		assert.Equal(t, 3, d.Neighbor(0, types.Top))
		assert.Equal(t, -1, d.Neighbor(8, types.Top))
		assert.Equal(t, 6, d.Neighbor(8, types.Right))
		assert.True(t, d.Tile(0).OnBoundary(types.Left))
		assert.False(t, d.Tile(0).OnBoundary(types.Right))
		assert.True(t, d.Tile(8).OnBoundary(types.Top))
	}
	{ // Tiles narrower than the halo are refused
		g, _ := NewGrid(8, 8, 0, 1, 0, 1, true, true)
		_, err := NewDecomposition(g, 9)
		assert.Error(t, err)
		_, err = NewDecomposition(g, 0)
		assert.Error(t, err)
	}
}
