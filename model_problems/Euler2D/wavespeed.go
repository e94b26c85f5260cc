package Euler2D

import (
	"fmt"
	"math"

	"github.com/notargets/fdweno/FD2D"
)

// LocalSpeeds returns the largest characteristic speeds |u|+c and |v|+c of a state
func (fs *FreeStream) LocalSpeeds(Q [4]float64) (sx, sy float64) {
	var (
		P = fs.ToPrimitive(Q)
		a = math.Sqrt(fs.Gamma * P[3] / P[0])
	)
	sx, sy = math.Abs(P[1])+a, math.Abs(P[2])+a
	return
}

// LocalTimeStep is the largest stable explicit step for one cell at CFL=1
func (fs *FreeStream) LocalTimeStep(Q [4]float64, dx, dy float64) (dt float64) {
	sx, sy := fs.LocalSpeeds(Q)
	dt = 1. / (sx/dx + sy/dy)
	return
}

func (fs *FreeStream) checkPhysical(Q [4]float64) bool {
	var (
		P = fs.ToPrimitive(Q)
	)
	// Written so that NaN fails the test
	return P[0] > 0 && P[3] > 0 && !math.IsInf(P[0], 0) && !math.IsInf(P[3], 0)
}

// WaveSpeedEstimator produces the global quantities derived from characteristic speeds
type WaveSpeedEstimator struct {
	FS   *FreeStream
	Comm FD2D.Communicator
}

func (we *WaveSpeedEstimator) nonPhysical(t *FD2D.Tile, Q [4]float64, i, j int) error {
	P := we.FS.ToPrimitive(Q)
	return fmt.Errorf("%w: cell (%d,%d) has rho=%g, p=%g", ErrNonPhysicalState,
		t.IBeg+i, t.JBeg+j, P[0], P[3])
}

/*
MaxWaveSpeeds returns the largest |u|+c and |v|+c over the whole grid. Both
values are reduced over every rank so that the flux splitting is identical
everywhere.
*/
func (we *WaveSpeedEstimator) MaxWaveSpeeds(Q FD2D.Field) (lx, ly float64, err error) {
	var (
		t = we.Comm.Tile()
	)
	for j := 0; j < t.NLocY; j++ {
		for i := 0; i < t.NLocX; i++ {
			q := Q.Get(t.Ind(i, j))
			if !we.FS.checkPhysical(q) {
				err = we.nonPhysical(t, q, i, j)
				return
			}
			sx, sy := we.FS.LocalSpeeds(q)
			lx, ly = math.Max(lx, sx), math.Max(ly, sy)
		}
	}
	if lx, err = we.Comm.ReduceMax(lx); err != nil {
		return
	}
	ly, err = we.Comm.ReduceMax(ly)
	return
}

// MinTimeStep returns the smallest LocalTimeStep over the whole grid
func (we *WaveSpeedEstimator) MinTimeStep(Q FD2D.Field) (dt float64, err error) {
	var (
		t      = we.Comm.Tile()
		dx, dy = t.Grid.DX, t.Grid.DY
	)
	dt = math.MaxFloat64
	for j := 0; j < t.NLocY; j++ {
		for i := 0; i < t.NLocX; i++ {
			q := Q.Get(t.Ind(i, j))
			if !we.FS.checkPhysical(q) {
				err = we.nonPhysical(t, q, i, j)
				return
			}
			dt = math.Min(dt, we.FS.LocalTimeStep(q, dx, dy))
		}
	}
	dt, err = we.Comm.ReduceMin(dt)
	return
}
