package isentropic_vortex

import (
	"math"

	"github.com/notargets/fdweno/utils"
)

/*
IVortex is the exact solution of an isentropic vortex of strength Beta centered
at (X0, Y0) at t=0 and convected with velocity (Ufs, 0).

When a period is set the vortex center is wrapped back into the periodic box,
so the solution stays exact on a doubly periodic domain as long as the vortex
is small compared to the box.
*/
type IVortex struct {
	Beta, X0, Y0, Gamma float64
	Ufs                 float64
	Lx, Ly              float64 // Period along each axis, zero when not periodic
}

func NewIVortex(Beta, X0, Y0, Gamma float64, UfsO ...float64) (iv *IVortex) {
	var (
		Ufs = 1.0
	)
	if len(UfsO) > 0 {
		Ufs = UfsO[0]
	}
	iv = &IVortex{
		Beta:  Beta,
		X0:    X0,
		Y0:    Y0,
		Gamma: Gamma,
		Ufs:   Ufs,
	}
	return
}

// SetPeriod makes the solution periodic with periods Lx and Ly, zero disables an axis
func (iv *IVortex) SetPeriod(Lx, Ly float64) *IVortex {
	iv.Lx, iv.Ly = Lx, Ly
	return iv
}

func wrap(d, L float64) float64 {
	if L <= 0 {
		return d
	}
	// Nearest periodic image, d in [-L/2, L/2)
	return d - L*math.Floor(d/L+0.5)
}

func (iv *IVortex) GetState(t, x, y float64) (u, v, rho, p float64) {
	var (
		oo2pi = 0.5 * (1. / math.Pi)
		Gamma = iv.Gamma
		GM1   = Gamma - 1
		OOGM1 = 1. / GM1
		pi2   = math.Pi * math.Pi
		beta  = iv.Beta
		beta2 = beta * beta
		fac   = 16 * Gamma * pi2
	)
	u, v = iv.Ufs, 0. // start with freestream values, perturb them later
	// Offset from the vortex center at time t
	dx := wrap(x-u*t-iv.X0, iv.Lx)
	dy := wrap(y-v*t-iv.Y0, iv.Ly)
	r2 := utils.POW(dx, 2) + utils.POW(dy, 2)
	ex1r := math.Exp(1 - r2)
	tv1 := 1.0 - (GM1 * beta2 * math.Exp(2.0*(1.0-r2)) / fac)
	u -= beta * ex1r * dy * oo2pi
	v += beta * ex1r * dx * oo2pi
	rho = math.Pow(tv1, OOGM1)
	p = math.Pow(rho, Gamma)
	return
}

func (iv *IVortex) GetStateC(t, x, y float64) (Rho, RhoU, RhoV, E float64) {
	var (
		ooGM1 = 1. / (iv.Gamma - 1.)
	)
	u, v, rho, p := iv.GetState(t, x, y)
	q := 0.5 * rho * (u*u + v*v)
	Rho, RhoU, RhoV, E = rho, rho*u, rho*v, p*ooGM1+q
	return
}
