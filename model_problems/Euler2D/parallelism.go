package Euler2D

import (
	"context"

	"github.com/google/uuid"
	"github.com/notargets/fdweno/FD2D"
	"github.com/notargets/fdweno/InputParameters"
	"github.com/notargets/fdweno/monitor"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type RunOptions struct {
	RunID            string // Generated when empty
	OutputDir        string
	DisableSnapshots bool
	Log              *logrus.Logger
	Metrics          *monitor.Metrics
	Status           *monitor.Status
}

// RunResult holds the per rank solvers after the run, indexed by rank
type RunResult struct {
	RunID  string
	Decomp *FD2D.Decomposition
	Ranks  []*Euler
}

// NewGrid builds the grid described by the input, periodicity follows the boundary conditions
func NewGrid(ip *InputParameters.InputParameters2D) (g *FD2D.Grid, err error) {
	px, py := ip.Periodic()
	return FD2D.NewGrid(ip.NX, ip.NY, ip.XMin, ip.XMax, ip.YMin, ip.YMax, px, py)
}

/*
Run decomposes the grid over ip.Procs ranks and solves with one goroutine per
rank. The first rank to fail cancels the others, and its error is returned.
*/
func Run(ctx context.Context, ip *InputParameters.InputParameters2D, opt RunOptions) (res *RunResult, err error) {
	var (
		g *FD2D.Grid
		d *FD2D.Decomposition
	)
	if err = ip.Validate(); err != nil {
		return
	}
	if g, err = NewGrid(ip); err != nil {
		return
	}
	if d, err = FD2D.NewDecomposition(g, ip.Procs); err != nil {
		return
	}
	if opt.RunID == "" {
		opt.RunID = uuid.NewString()
	}
	if opt.Log == nil {
		opt.Log = logrus.StandardLogger()
	}
	log := opt.Log.WithField("run", opt.RunID)
	log.WithFields(logrus.Fields{"px": d.PX, "py": d.PY}).Debug("decomposition")
	res = &RunResult{
		RunID:  opt.RunID,
		Decomp: d,
		Ranks:  make([]*Euler, d.NProcs),
	}
	eg, egCtx := errgroup.WithContext(ctx)
	world := FD2D.NewWorld(egCtx, d)
	for rank := 0; rank < d.NProcs; rank++ {
		if res.Ranks[rank], err = NewEuler(ip, world.Comm(rank), Options{
			RunID:            opt.RunID,
			OutputDir:        opt.OutputDir,
			DisableSnapshots: opt.DisableSnapshots,
			Log:              log,
			Metrics:          opt.Metrics,
			Status:           opt.Status,
		}); err != nil {
			return
		}
	}
	for _, c := range res.Ranks {
		eg.Go(c.Solve)
	}
	err = eg.Wait()
	opt.Status.Finish(err)
	return
}

// Gather assembles the owned cells of every rank into one field over the whole grid, without halo
func (res *RunResult) Gather() (Q [FD2D.NVar][]float64) {
	var (
		d = res.Decomp
		g = d.Grid
	)
	for n := range Q {
		Q[n] = make([]float64, g.NX*g.NY)
	}
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			c := res.Ranks[d.Owner(i, j)]
			ind := c.Tile.Ind(i-c.Tile.IBeg, j-c.Tile.JBeg)
			for n := range Q {
				Q[n][i+j*g.NX] = c.Q[n][ind]
			}
		}
	}
	return
}
