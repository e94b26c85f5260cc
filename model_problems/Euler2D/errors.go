package Euler2D

import (
	"errors"
	"fmt"

	"github.com/notargets/fdweno/InputParameters"
)

var (
	ErrConfiguration    = InputParameters.ErrConfiguration
	ErrNotImplemented   = errors.New("not implemented")
	ErrNonPhysicalState = errors.New("non-physical state")
)

// SolverError attaches the rank and the simulation clock to a failure
type SolverError struct {
	Rank, Step int
	Time       float64
	Err        error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("rank %d, step %d, t=%.6e: %v", e.Rank, e.Step, e.Time, e.Err)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}
