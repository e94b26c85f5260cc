package sod_shock_tube

import (
	"math"
)

/*
SOD is the exact solution of a Riemann problem with both gases initially at
rest, the diaphragm at X0 and the high pressure side on the left. The wave
pattern is a left running rarefaction, a contact and a right running shock.
*/
type SOD struct {
	RhoL, PL, RhoR, PR float64
	Gamma, X0          float64
	// Star region and wave speeds
	PPost, VPost       float64
	RhoPost, RhoMiddle float64
	CL, C2, VShock     float64
	mu2                float64
}

// NewSOD returns the classic shock tube (1, 1) | (0.125, 0.1) with gamma 1.4
func NewSOD(X0 float64) (s *SOD) {
	return NewRiemann(1, 1, 0.125, 0.1, 1.4, X0)
}

func NewRiemann(RhoL, PL, RhoR, PR, Gamma, X0 float64) (s *SOD) {
	s = &SOD{
		RhoL: RhoL, PL: PL, RhoR: RhoR, PR: PR,
		Gamma: Gamma, X0: X0,
		mu2: (Gamma - 1) / (Gamma + 1),
		CL:  math.Sqrt(Gamma * PL / RhoL),
	}
	var (
		gamma = Gamma
		mu2   = s.mu2
	)
	s.PPost = fzero(s.sodFunc, math.Min(PL, PR), math.Max(PL, PR))
	s.VPost = 2 * (s.CL / (gamma - 1)) * (1 - math.Pow(s.PPost/PL, (gamma-1)/(2*gamma)))
	s.RhoPost = RhoR * (((s.PPost / PR) + mu2) / (1 + mu2*(s.PPost/PR)))
	s.VShock = s.VPost * (s.RhoPost / RhoR) / ((s.RhoPost / RhoR) - 1.)
	s.RhoMiddle = RhoL * math.Pow(s.PPost/PL, 1./gamma)
	s.C2 = s.CL - 0.5*(gamma-1.)*s.VPost
	return
}

// Positions returns the head and tail of the rarefaction, the contact and the shock
func (s *SOD) Positions(t float64) (x1, x2, x3, x4 float64) {
	x1 = s.X0 - s.CL*t
	x2 = s.X0 + t*(s.VPost-s.C2)
	x3 = s.X0 + s.VPost*t
	x4 = s.X0 + s.VShock*t
	return
}

// Get returns density, velocity and pressure at x and time t
func (s *SOD) Get(t, x float64) (rho, u, p float64) {
	var (
		gamma          = s.Gamma
		mu2            = s.mu2
		x1, x2, x3, x4 = s.Positions(t)
	)
	if t <= 0 {
		if x < s.X0 {
			return s.RhoL, 0, s.PL
		}
		return s.RhoR, 0, s.PR
	}
	switch {
	case x < x1:
		rho, u, p = s.RhoL, 0, s.PL
	case x <= x2:
		c := mu2*((s.X0-x)/t) + (1.-mu2)*s.CL
		rho = s.RhoL * math.Pow(c/s.CL, 2/(gamma-1))
		p = s.PL * math.Pow(rho/s.RhoL, gamma)
		u = (1. - mu2) * ((-(s.X0 - x) / t) + s.CL)
	case x <= x3:
		rho, u, p = s.RhoMiddle, s.VPost, s.PPost
	case x <= x4:
		rho, u, p = s.RhoPost, s.VPost, s.PPost
	default:
		rho, u, p = s.RhoR, 0, s.PR
	}
	return
}

// GetStateC returns the conserved state, uniform in y
func (s *SOD) GetStateC(t, x, y float64) (Rho, RhoU, RhoV, E float64) {
	rho, u, p := s.Get(t, x)
	Rho, RhoU, RhoV, E = rho, rho*u, 0, p/(s.Gamma-1)+0.5*rho*u*u
	return
}

// fzero brackets the root of the monotone function f between lo and hi and bisects
func fzero(f func(P float64) (y float64), lo, hi float64) float64 {
	var (
		tol = 1.e-14
	)
	for f(lo) > 0 {
		lo *= 0.5
	}
	for f(hi) < 0 {
		hi *= 2
	}
	for i := 0; i < 200 && hi-lo > tol*hi; i++ {
		mid := 0.5 * (lo + hi)
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// sodFunc is zero at the star region pressure
func (s *SOD) sodFunc(P float64) (y float64) {
	var (
		gamma = s.Gamma
		mu2   = s.mu2
	)
	y = (P-s.PR)*math.Sqrt((1-mu2)/(s.RhoR*(P+mu2*s.PR))) -
		2*(s.CL/(gamma-1))*(1-math.Pow(P/s.PL, (gamma-1)/(2*gamma)))
	return
}
