package Euler2D

import (
	"fmt"
	"math"

	"github.com/notargets/fdweno/FD2D"
)

// Final time tolerance, a step landing within it of FinalTime ends the run
const TimeTolerance = 1.e-13

/*
TimeStepController chooses the step size. With a positive CFL the step follows
the stability limit after every accepted step, otherwise DT is used unchanged.
Every rank computes the same reduced value.
*/
type TimeStepController struct {
	DT, CFL   float64
	FinalTime float64
	Speeds    *WaveSpeedEstimator
}

func NewTimeStepController(DT, CFL, FinalTime float64, speeds *WaveSpeedEstimator) (ts *TimeStepController, err error) {
	switch {
	case DT > 0 && CFL > 0:
		err = fmt.Errorf("%w: both dt=%g and cfl=%g are set", ErrConfiguration, DT, CFL)
		return
	case !(DT > 0) && !(CFL > 0):
		err = fmt.Errorf("%w: specify at least dt or cfl", ErrConfiguration)
		return
	}
	ts = &TimeStepController{
		DT:        DT,
		CFL:       CFL,
		FinalTime: FinalTime,
		Speeds:    speeds,
	}
	return
}

func (ts *TimeStepController) CFLMode() bool {
	return ts.CFL > 0
}

// InitialStep sets the first step from the initial state, dtMin is the global
// stability limit at CFL=1
func (ts *TimeStepController) InitialStep(Q FD2D.Field) (dt, dtMin float64, err error) {
	if dtMin, err = ts.Speeds.MinTimeStep(Q); err != nil {
		return
	}
	if ts.CFLMode() {
		ts.DT = ts.CFL * dtMin
	}
	dt = ts.DT
	return
}

// StepAccepted recomputes the step once the solution at time t is final
func (ts *TimeStepController) StepAccepted(step int, t float64, Q FD2D.Field) (dt float64, err error) {
	if !ts.CFLMode() || math.Abs(t-ts.FinalTime) < TimeTolerance {
		return ts.DT, nil
	}
	var dtMin float64
	if dtMin, err = ts.Speeds.MinTimeStep(Q); err != nil {
		err = fmt.Errorf("after step %d: %w", step, err)
		return
	}
	dt = ts.CFL * dtMin
	if t+dt > ts.FinalTime {
		dt = ts.FinalTime - t
	}
	ts.DT = dt
	return
}
