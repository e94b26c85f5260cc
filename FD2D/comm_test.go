package FD2D

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func encode(v, gi, gj int) float64 {
	return float64(v*1000000 + gj*1000 + gi)
}

// runRanks executes fn once per rank, each in its own goroutine
func runRanks(ctx context.Context, d *Decomposition, fn func(c *LocalComm) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	w := NewWorld(egCtx, d)
	for rank := 0; rank < d.NProcs; rank++ {
		c := w.Comm(rank)
		eg.Go(func() error { return fn(c) })
	}
	return eg.Wait()
}

func TestExchange(t *testing.T) {
	cases := []struct {
		NX, NY, NP           int
		PeriodicX, PeriodicY bool
	}{
		{12, 10, 1, true, true},
		{12, 10, 1, false, false},
		{12, 12, 4, true, true},
		{20, 9, 2, true, false},
		{9, 20, 3, false, true},
		{30, 30, 9, true, true},
	}
	for _, tc := range cases {
		g, err := NewGrid(tc.NX, tc.NY, 0, 1, 0, 1, tc.PeriodicX, tc.PeriodicY)
		require.NoError(t, err)
		d, err := NewDecomposition(g, tc.NP)
		require.NoError(t, err)
		err = runRanks(context.Background(), d, func(c *LocalComm) error {
			tl := c.Tile()
			f := NewField(tl)
			for v := 0; v < NVar; v++ {
				for i := range f[v] {
					f[v][i] = -1
				}
				for j := 0; j < tl.NLocY; j++ {
					for i := 0; i < tl.NLocX; i++ {
						f[v][tl.Ind(i, j)] = encode(v, tl.IBeg+i, tl.JBeg+j)
					}
				}
			}
			// Two rounds exercise reuse of the channels
			for round := 0; round < 2; round++ {
				if err := c.Exchange(f); err != nil {
					return err
				}
			}
			for j := -tl.SW; j < tl.NLocY+tl.SW; j++ {
				for i := -tl.SW; i < tl.NLocX+tl.SW; i++ {
					inX := i >= 0 && i < tl.NLocX
					inY := j >= 0 && j < tl.NLocY
					if inX && inY {
						continue
					}
					gi, gj := tl.IBeg+i, tl.JBeg+j
					expectSet := true
					if gi < 0 || gi >= g.NX {
						expectSet = expectSet && g.PeriodicX
						gi = (gi + g.NX) % g.NX
					}
					if gj < 0 || gj >= g.NY {
						expectSet = expectSet && g.PeriodicY
						gj = (gj + g.NY) % g.NY
					}
					for v := 0; v < NVar; v++ {
						got := f[v][tl.Ind(i, j)]
						if expectSet {
							assert.Equal(t, encode(v, gi, gj), got, "rank %d cell (%d,%d)", c.Rank(), i, j)
						} else {
							assert.Equal(t, -1., got, "rank %d cell (%d,%d)", c.Rank(), i, j)
						}
					}
				}
			}
			return nil
		})
		assert.NoError(t, err)
	}
}

func TestReductions(t *testing.T) {
	g, _ := NewGrid(30, 30, 0, 1, 0, 1, true, true)
	d, err := NewDecomposition(g, 6)
	require.NoError(t, err)
	err = runRanks(context.Background(), d, func(c *LocalComm) error {
		r := float64(c.Rank())
		for iter := 0; iter < 20; iter++ {
			mx, err := c.ReduceMax(r + float64(iter))
			if err != nil {
				return err
			}
			mn, err := c.ReduceMin(r - float64(iter))
			if err != nil {
				return err
			}
			sum, err := c.ReduceSum([]float64{1, r})
			if err != nil {
				return err
			}
			assert.Equal(t, 5.+float64(iter), mx)
			assert.Equal(t, -float64(iter), mn)
			assert.Equal(t, []float64{6, 15}, sum)
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestCollectiveAbort(t *testing.T) {
	// One rank fails before a collective, the rest must be released
	g, _ := NewGrid(30, 30, 0, 1, 0, 1, true, true)
	d, err := NewDecomposition(g, 4)
	require.NoError(t, err)
	failure := errors.New("boom")
	var aborted int
	results := make(chan error, d.NProcs)
	err = runRanks(context.Background(), d, func(c *LocalComm) error {
		if c.Rank() == 2 {
			return failure
		}
		f := NewField(c.Tile())
		if err := c.Exchange(f); err != nil {
			results <- err
			return err
		}
		_, err := c.ReduceMax(1)
		results <- err
		return err
	})
	close(results)
	assert.ErrorIs(t, err, failure)
	for e := range results {
		if errors.Is(e, ErrCollectiveAborted) {
			aborted++
		}
	}
	assert.Equal(t, 3, aborted)
}
