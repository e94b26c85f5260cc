package Euler2D

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/fdweno/FD2D"
)

// RHSFunc overwrites R with the residual of Q
type RHSFunc func(Q, R FD2D.Field) error

type Integrator interface {
	// Step advances Q in place by dt
	Step(Q FD2D.Field, dt float64) error
	// Residual is the last residual evaluated, at the final stage of the last step
	Residual() FD2D.Field
	Stages() int
}

type IntegratorType uint8

const (
	RK3SSP IntegratorType = iota
	RKS2SSP
)

var (
	IntegratorNames = map[string]IntegratorType{
		"rk3":     RK3SSP,
		"ssprk3":  RK3SSP,
		"rks2":    RKS2SSP,
		"ssprks2": RKS2SSP,
	}
	IntegratorPrintNames = []string{"SSP Runge-Kutta 3rd order, 3 stages", "SSP Runge-Kutta 2nd order, s stages"}
)

func (it IntegratorType) Print() (txt string) {
	txt = IntegratorPrintNames[it]
	return
}

func NewIntegratorType(label string) (it IntegratorType, err error) {
	var ok bool
	if it, ok = IntegratorNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("%w: unknown integrator %q", ErrConfiguration, label)
	}
	return
}

func NewIntegrator(it IntegratorType, stages int, t *FD2D.Tile, rhs RHSFunc) (rk Integrator, err error) {
	switch it {
	case RK3SSP:
		rk = NewRungeKutta3SSP(t, rhs)
	case RKS2SSP:
		if stages < 2 {
			err = fmt.Errorf("%w: SSP RK(s,2) needs at least 2 stages, have %d", ErrConfiguration, stages)
			return
		}
		rk = NewRungeKuttaS2SSP(stages, t, rhs)
	default:
		err = fmt.Errorf("%w: unknown integrator type %d", ErrConfiguration, it)
	}
	return
}

// RungeKutta3SSP is the three stage, third order scheme of Shu and Osher
type RungeKutta3SSP struct {
	rhs    RHSFunc
	Q1, Q2 FD2D.Field // Intermediate solution state
	R      FD2D.Field
}

func NewRungeKutta3SSP(t *FD2D.Tile, rhs RHSFunc) (rk *RungeKutta3SSP) {
	rk = &RungeKutta3SSP{
		rhs: rhs,
		Q1:  FD2D.NewField(t),
		Q2:  FD2D.NewField(t),
		R:   FD2D.NewField(t),
	}
	return
}

func (rk *RungeKutta3SSP) Stages() int          { return 3 }
func (rk *RungeKutta3SSP) Residual() FD2D.Field { return rk.R }

func (rk *RungeKutta3SSP) Step(Q FD2D.Field, dt float64) (err error) {
	var (
		Q1, Q2, R = rk.Q1, rk.Q2, rk.R
	)
	// Q1 = Q + dt*L(Q)
	if err = rk.rhs(Q, R); err != nil {
		return
	}
	for n := 0; n < FD2D.NVar; n++ {
		floats.AddScaledTo(Q1[n], Q[n], dt, R[n])
	}
	// Q2 = 3/4*Q + 1/4*(Q1 + dt*L(Q1))
	if err = rk.rhs(Q1, R); err != nil {
		return
	}
	for n := 0; n < FD2D.NVar; n++ {
		floats.AddScaled(Q1[n], dt, R[n])
		floats.ScaleTo(Q2[n], 0.75, Q[n])
		floats.AddScaled(Q2[n], 0.25, Q1[n])
	}
	// Q = 1/3*Q + 2/3*(Q2 + dt*L(Q2))
	if err = rk.rhs(Q2, R); err != nil {
		return
	}
	for n := 0; n < FD2D.NVar; n++ {
		floats.AddScaled(Q2[n], dt, R[n])
		floats.Scale(1./3., Q[n])
		floats.AddScaled(Q[n], 2./3., Q2[n])
	}
	return
}

/*
RungeKuttaS2SSP is the s stage, second order scheme with SSP coefficient s-1.
Each of the first s-1 stages is a forward Euler step of size dt/(s-1), the last
combines the stage value with the starting state.
*/
type RungeKuttaS2SSP struct {
	NStages int
	rhs     RHSFunc
	Y, R    FD2D.Field
}

func NewRungeKuttaS2SSP(stages int, t *FD2D.Tile, rhs RHSFunc) (rk *RungeKuttaS2SSP) {
	rk = &RungeKuttaS2SSP{
		NStages: stages,
		rhs:     rhs,
		Y:       FD2D.NewField(t),
		R:       FD2D.NewField(t),
	}
	return
}

func (rk *RungeKuttaS2SSP) Stages() int          { return rk.NStages }
func (rk *RungeKuttaS2SSP) Residual() FD2D.Field { return rk.R }

func (rk *RungeKuttaS2SSP) Step(Q FD2D.Field, dt float64) (err error) {
	var (
		s    = float64(rk.NStages)
		Y, R = rk.Y, rk.R
	)
	Y.CopyFrom(Q)
	for i := 0; i < rk.NStages-1; i++ {
		if err = rk.rhs(Y, R); err != nil {
			return
		}
		for n := 0; n < FD2D.NVar; n++ {
			floats.AddScaled(Y[n], dt/(s-1.), R[n])
		}
	}
	// Q = (s-1)/s*Y + dt/s*L(Y) + 1/s*Q
	if err = rk.rhs(Y, R); err != nil {
		return
	}
	for n := 0; n < FD2D.NVar; n++ {
		floats.Scale(1./s, Q[n])
		floats.AddScaled(Q[n], (s-1.)/s, Y[n])
		floats.AddScaled(Q[n], dt/s, R[n])
	}
	return
}
