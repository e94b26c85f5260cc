package Euler2D

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fdweno/FD2D"
)

// ResidualAssembler evaluates dQ/dt = -div(F,G) on the owned cells of one tile
type ResidualAssembler struct {
	FS     *FreeStream
	Comm   FD2D.Communicator
	BCs    *BCApplier
	Speeds *WaveSpeedEstimator
	Lambda [2]float64 // Wave speeds used by the most recent evaluation
}

func NewResidualAssembler(fs *FreeStream, comm FD2D.Communicator, bcs *BCApplier) (ra *ResidualAssembler) {
	ra = &ResidualAssembler{
		FS:     fs,
		Comm:   comm,
		BCs:    bcs,
		Speeds: &WaveSpeedEstimator{FS: fs, Comm: comm},
	}
	return
}

/*
RHS overwrites R with the residual of Q. The halo of Q is refreshed by the
exchange and boundary conditions, the owned cells are read only.

Every face is visited once per tile. A face on the tile edge only updates the
owned cell on its side, the neighbouring tile computes the same face value from
identical halo data so the update stays conservative across ranks.
*/
func (ra *ResidualAssembler) RHS(Q, R FD2D.Field, ws *Workspace) (err error) {
	var (
		t      = ra.Comm.Tile()
		dx, dy = t.Grid.DX, t.Grid.DY
		NXG    = t.NXG
		lx, ly float64
	)
	if err = ra.Comm.Exchange(Q); err != nil {
		return
	}
	if err = ra.BCs.Apply(Q); err != nil {
		return
	}
	if lx, ly, err = ra.Speeds.MaxWaveSpeeds(Q); err != nil {
		return
	}
	ra.Lambda = [2]float64{lx, ly}
	ws.SplitFluxes(ra.FS, t, Q, lx, ly)
	R.Zero()
	for n := 0; n < FD2D.NVar; n++ {
		var (
			fxp, fxm, fyp, fym = ws.FXP[n], ws.FXM[n], ws.FYP[n], ws.FYM[n]
			r                  = R[n]
		)
		// Faces normal to x, face i lies between cells i-1 and i
		for j := 0; j < t.NLocY; j++ {
			for i := 0; i <= t.NLocX; i++ {
				k := t.Ind(i, j)
				UL := Weno5(fxp[k-3], fxp[k-2], fxp[k-1], fxp[k], fxp[k+1])
				UR := Weno5(fxm[k+2], fxm[k+1], fxm[k], fxm[k-1], fxm[k-2])
				flux := (UL + UR) * dy
				if i < t.NLocX {
					r[k] -= flux
				}
				if i > 0 {
					r[k-1] += flux
				}
			}
		}
		// Faces normal to y, face j lies between cells j-1 and j
		for j := 0; j <= t.NLocY; j++ {
			for i := 0; i < t.NLocX; i++ {
				k := t.Ind(i, j)
				UL := Weno5(fyp[k-3*NXG], fyp[k-2*NXG], fyp[k-NXG], fyp[k], fyp[k+NXG])
				UR := Weno5(fym[k+2*NXG], fym[k+NXG], fym[k], fym[k-NXG], fym[k-2*NXG])
				flux := (UL + UR) * dx
				if j < t.NLocY {
					r[k] -= flux
				}
				if j > 0 {
					r[k-NXG] += flux
				}
			}
		}
		// Halo entries of R are zero and stay zero
		floats.Scale(-1./(dx*dy), r)
	}
	return
}
