package Euler2D

import (
	"fmt"
	"strings"

	"github.com/notargets/fdweno/FD2D"
	"github.com/notargets/fdweno/model_problems/Euler2D/isentropic_vortex"
	"github.com/notargets/fdweno/sod_shock_tube"
)

type ExactState interface {
	GetStateC(t, x, y float64) (rho, rhoU, rhoV, E float64)
}

// InitialCondition returns the primitive state (rho, u, v, p) at a point
type InitialCondition func(x, y float64) (P [4]float64)

type InitType uint

const (
	FREESTREAM InitType = iota
	IVORTEX
	SHOCKTUBE
)

var (
	InitNames = map[string]InitType{
		"freestream": FREESTREAM,
		"ivortex":    IVORTEX,
		"shocktube":  SHOCKTUBE,
	}
	InitPrintNames = []string{"Freestream", "Inviscid Vortex Analytic Solution", "Shock Tube"}
)

func (it InitType) Print() (txt string) {
	txt = InitPrintNames[it]
	return
}

func NewInitType(label string) (it InitType, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		err = fmt.Errorf("%w: empty init type, must be one of %v", ErrConfiguration, InitPrintNames)
		return
	}
	label = strings.ToLower(label)
	if it, ok = InitNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use init type named %s", ErrConfiguration, label)
	}
	return
}

/*
NewInitialCondition builds the initial state for a case along with its exact
solution when one is known. The vortex sits at the domain center and is wrapped
on periodic axes, the shock tube diaphragm is at the middle of the x range.
*/
func NewInitialCondition(it InitType, fs *FreeStream, g *FD2D.Grid) (ic InitialCondition, exact ExactState) {
	var (
		xc, yc = 0.5 * (g.XMin + g.XMax), 0.5 * (g.YMin + g.YMax)
	)
	switch it {
	case FREESTREAM:
		P := fs.ToPrimitive(fs.Qinf)
		ic = func(x, y float64) [4]float64 { return P }
		exact = freeStreamState{fs.Qinf}
	case IVORTEX:
		iv := isentropic_vortex.NewIVortex(5, xc, yc, fs.Gamma)
		var Lx, Ly float64
		if g.PeriodicX {
			Lx = g.XMax - g.XMin
		}
		if g.PeriodicY {
			Ly = g.YMax - g.YMin
		}
		iv.SetPeriod(Lx, Ly)
		ic = func(x, y float64) [4]float64 {
			u, v, rho, p := iv.GetState(0, x, y)
			return [4]float64{rho, u, v, p}
		}
		exact = iv
	case SHOCKTUBE:
		sod := sod_shock_tube.NewRiemann(1, 1, 0.125, 0.1, fs.Gamma, xc)
		ic = func(x, y float64) [4]float64 {
			rho, u, p := sod.Get(0, x)
			return [4]float64{rho, u, 0, p}
		}
		exact = sod
	}
	return
}

type freeStreamState struct {
	Q [4]float64
}

func (fss freeStreamState) GetStateC(t, x, y float64) (rho, rhoU, rhoV, E float64) {
	return fss.Q[0], fss.Q[1], fss.Q[2], fss.Q[3]
}

// InitializeField sets the owned cells of Q from the initial condition at cell centers
func InitializeField(fs *FreeStream, t *FD2D.Tile, Q FD2D.Field, ic InitialCondition) {
	for j := 0; j < t.NLocY; j++ {
		for i := 0; i < t.NLocX; i++ {
			x, y := t.CellCenter(i, j)
			Q.Set(t.Ind(i, j), fs.ToConserved(ic(x, y)))
		}
	}
}
