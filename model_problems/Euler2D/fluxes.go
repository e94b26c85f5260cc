package Euler2D

import (
	"github.com/notargets/fdweno/FD2D"
)

// PhysicalFlux is the Euler flux through a face with unit normal (nx, ny)
func (fs *FreeStream) PhysicalFlux(Q [4]float64, nx, ny float64) (F [4]float64) {
	var (
		P = fs.ToPrimitive(Q)
		p = P[3]
	)
	F[0] = Q[1]*nx + Q[2]*ny
	F[1] = p*nx + P[1]*F[0]
	F[2] = p*ny + P[2]*F[0]
	F[3] = (Q[3] + p) * (P[1]*nx + P[2]*ny)
	return
}

// SplitFlux returns the global Lax-Friedrichs split fluxes F+ and F-
func (fs *FreeStream) SplitFlux(Q [4]float64, nx, ny, lambda float64) (Fp, Fm [4]float64) {
	F := fs.PhysicalFlux(Q, nx, ny)
	for n := 0; n < 4; n++ {
		Fp[n] = 0.5 * (F[n] + lambda*Q[n])
		Fm[n] = 0.5 * (F[n] - lambda*Q[n])
	}
	return
}

// Workspace holds the split fluxes of one tile, reused by every residual evaluation
type Workspace struct {
	FXP, FXM, FYP, FYM FD2D.Field
}

func NewWorkspace(t *FD2D.Tile) (ws *Workspace) {
	ws = &Workspace{
		FXP: FD2D.NewField(t),
		FXM: FD2D.NewField(t),
		FYP: FD2D.NewField(t),
		FYM: FD2D.NewField(t),
	}
	return
}

/*
SplitFluxes fills the x fluxes along every owned row, halo included, and the
y fluxes along every owned column, halo included. Corner blocks are never read.
*/
func (ws *Workspace) SplitFluxes(fs *FreeStream, t *FD2D.Tile, Q FD2D.Field, lx, ly float64) {
	var (
		sw = t.SW
	)
	for j := 0; j < t.NLocY; j++ {
		for i := -sw; i < t.NLocX+sw; i++ {
			ind := t.Ind(i, j)
			fp, fm := fs.SplitFlux(Q.Get(ind), 1, 0, lx)
			ws.FXP.Set(ind, fp)
			ws.FXM.Set(ind, fm)
		}
	}
	for j := -sw; j < t.NLocY+sw; j++ {
		for i := 0; i < t.NLocX; i++ {
			ind := t.Ind(i, j)
			fp, fm := fs.SplitFlux(Q.Get(ind), 0, 1, ly)
			ws.FYP.Set(ind, fp)
			ws.FYM.Set(ind, fm)
		}
	}
}
