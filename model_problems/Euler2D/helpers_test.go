package Euler2D

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/fdweno/FD2D"
	"github.com/notargets/fdweno/InputParameters"
	"github.com/notargets/fdweno/types"
)

func newTestParams(nx, ny int, init string) (ip *InputParameters.InputParameters2D) {
	ip = &InputParameters.InputParameters2D{
		NX:       nx,
		NY:       ny,
		InitType: init,
		CFL:      0.4,
	}
	ip.SetDefaults()
	return
}

func setBCs(ip *InputParameters.InputParameters2D, left, right, bottom, top string) {
	ip.BCs = map[string]string{"left": left, "right": right, "bottom": bottom, "top": top}
}

// newSingleRank returns the communicator of a one rank world over g
func newSingleRank(t *testing.T, g *FD2D.Grid) *FD2D.LocalComm {
	d, err := FD2D.NewDecomposition(g, 1)
	require.NoError(t, err)
	return FD2D.NewWorld(context.Background(), d).Comm(0)
}

// runRanks executes fn once per rank, each in its own goroutine
func runRanks(ctx context.Context, d *FD2D.Decomposition, fn func(c *FD2D.LocalComm) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	w := FD2D.NewWorld(egCtx, d)
	for rank := 0; rank < d.NProcs; rank++ {
		c := w.Comm(rank)
		eg.Go(func() error { return fn(c) })
	}
	return eg.Wait()
}

func allFlags(bc types.BCFLAG) [4]types.BCFLAG {
	return [4]types.BCFLAG{bc, bc, bc, bc}
}

// ownedSum adds up variable n over the owned cells of a tile
func ownedSum(tl *FD2D.Tile, F FD2D.Field, n int) (sum float64) {
	for j := 0; j < tl.NLocY; j++ {
		for i := 0; i < tl.NLocX; i++ {
			sum += F[n][tl.Ind(i, j)]
		}
	}
	return
}

// solveWith runs every rank of ip to completion, calling setup on each rank's solver
// before it steps. Conserved totals before and after the run are returned from rank 0.
func solveWith(t *testing.T, ip *InputParameters.InputParameters2D, setup func(c *Euler)) (res *RunResult, tot0, tot1 [4]float64) {
	g, err := NewGrid(ip)
	require.NoError(t, err)
	d, err := FD2D.NewDecomposition(g, ip.Procs)
	require.NoError(t, err)
	res = &RunResult{Decomp: d, Ranks: make([]*Euler, d.NProcs)}
	err = runRanks(context.Background(), d, func(comm *FD2D.LocalComm) (err error) {
		var (
			c          *Euler
			before, af [4]float64
		)
		if c, err = NewEuler(ip, comm, Options{DisableSnapshots: true, Log: logrus.NewEntry(quietLogger())}); err != nil {
			return
		}
		res.Ranks[comm.Rank()] = c
		if setup != nil {
			setup(c)
		}
		if before, err = c.Totals(); err != nil {
			return
		}
		if err = c.Solve(); err != nil {
			return
		}
		if af, err = c.Totals(); err != nil {
			return
		}
		if comm.Rank() == 0 {
			tot0, tot1 = before, af
		}
		return
	})
	require.NoError(t, err)
	return
}
