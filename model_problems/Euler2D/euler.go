package Euler2D

import (
	"math"
	"time"

	"github.com/notargets/fdweno/FD2D"
	"github.com/notargets/fdweno/InputParameters"
	"github.com/notargets/fdweno/monitor"
	"github.com/notargets/fdweno/types"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var VariableNames = []string{"rho", "rhoU", "rhoV", "E"}

/*
Euler advances the solution owned by one rank. All ranks of a run hold their
own Euler and step in lockstep, every collective call inside Solve is made by
all ranks in the same order.
*/
type Euler struct {
	// Input parameters
	Title            string
	FinalTime        float64
	MaxSteps         int
	SnapshotInterval int
	FS               *FreeStream
	Case             InitType
	AnalyticSolution ExactState
	RunID            string

	Comm   FD2D.Communicator
	Tile   *FD2D.Tile
	BCs    *BCApplier
	RHSA   *ResidualAssembler
	RK     Integrator
	TS     *TimeStepController
	Snap   *SnapshotWriter // nil disables snapshots
	Q      FD2D.Field      // Conserved variables, rho, rhoU, rhoV, E
	ws     *Workspace
	Steps  int
	Time   float64
	Errors *ErrorNorms // Against the exact solution at the end of the run, when known

	Log     *logrus.Entry
	Metrics *monitor.Metrics
	Status  *monitor.Status
}

type Options struct {
	RunID            string
	OutputDir        string
	DisableSnapshots bool
	Log              *logrus.Entry
	Metrics          *monitor.Metrics
	Status           *monitor.Status
}

func NewEuler(ip *InputParameters.InputParameters2D, comm FD2D.Communicator, opt Options) (c *Euler, err error) {
	var (
		it    InitType
		rkt   IntegratorType
		flags [4]types.BCFLAG
		tile  = comm.Tile()
	)
	if err = ip.Validate(); err != nil {
		return
	}
	if it, err = NewInitType(ip.InitType); err != nil {
		return
	}
	if rkt, err = NewIntegratorType(ip.Integrator); err != nil {
		return
	}
	for _, s := range types.Sides {
		if flags[s], err = ip.BCFlag(s); err != nil {
			return
		}
	}
	c = &Euler{
		Title:            ip.Title,
		FinalTime:        ip.FinalTime,
		MaxSteps:         ip.MaxSteps,
		SnapshotInterval: ip.SnapshotInterval,
		FS:               NewFreeStream(ip.Minf, ip.Gamma, ip.Alpha),
		Case:             it,
		RunID:            opt.RunID,
		Comm:             comm,
		Tile:             tile,
		Q:                FD2D.NewField(tile),
		ws:               NewWorkspace(tile),
		Metrics:          opt.Metrics,
		Status:           opt.Status,
	}
	if c.Log = opt.Log; c.Log == nil {
		c.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	c.Log = c.Log.WithField("rank", comm.Rank())
	if c.BCs, err = NewBCApplier(tile, flags); err != nil {
		return nil, err
	}
	c.RHSA = NewResidualAssembler(c.FS, comm, c.BCs)
	if c.RK, err = NewIntegrator(rkt, ip.Stages, tile, c.RHS); err != nil {
		return nil, err
	}
	if c.TS, err = NewTimeStepController(ip.DT, ip.CFL, ip.FinalTime, c.RHSA.Speeds); err != nil {
		return nil, err
	}
	if !opt.DisableSnapshots {
		c.Snap = NewSnapshotWriter(opt.OutputDir, ip.Title, c.FS)
	}
	var ic InitialCondition
	ic, c.AnalyticSolution = NewInitialCondition(it, c.FS, tile.Grid)
	InitializeField(c.FS, tile, c.Q, ic)
	return
}

// RHS evaluates dQ/dt on the owned cells of this rank
func (c *Euler) RHS(Q, R FD2D.Field) error {
	return c.RHSA.RHS(Q, R, c.ws)
}

func (c *Euler) leader() bool {
	return c.Comm.Rank() == 0
}

func (c *Euler) fail(err error) error {
	return &SolverError{Rank: c.Comm.Rank(), Step: c.Steps, Time: c.Time, Err: err}
}

/*
Solve integrates from t=0 until FinalTime or MaxSteps. A snapshot is written at
the start, every SnapshotInterval steps and at the end of the run. Steps are
shortened so the run lands on FinalTime.
*/
func (c *Euler) Solve() (err error) {
	var (
		dt, dtMin float64
		elapsed   time.Duration
		wrote     bool
		totals0   [4]float64
	)
	if dt, dtMin, err = c.TS.InitialStep(c.Q); err != nil {
		return c.fail(err)
	}
	if totals0, err = c.Totals(); err != nil {
		return c.fail(err)
	}
	c.PrintInitialization(dt, dtMin)
	if err = c.snapshot(); err != nil {
		return c.fail(err)
	}
	for !c.CheckIfFinished() {
		if c.Time+dt > c.FinalTime {
			dt = c.FinalTime - c.Time
		}
		start := time.Now()
		if err = c.RK.Step(c.Q, dt); err != nil {
			return c.fail(err)
		}
		stepTime := time.Since(start)
		elapsed += stepTime
		c.Steps++
		c.Time += dt
		c.Metrics.ObserveStep(c.Comm.Rank(), c.Time, dt, stepTime)
		if c.leader() {
			c.Status.Update(c.Steps, c.Time, dt)
		}
		finished := c.CheckIfFinished()
		wrote = false
		if c.Steps%c.SnapshotInterval == 0 || math.Abs(c.Time-c.FinalTime) < TimeTolerance {
			if err = c.snapshot(); err != nil {
				return c.fail(err)
			}
			wrote = true
		}
		if finished || c.Steps == 1 || c.Steps%c.SnapshotInterval == 0 {
			if err = c.PrintUpdate(dt); err != nil {
				return c.fail(err)
			}
		}
		if dt, err = c.TS.StepAccepted(c.Steps, c.Time, c.Q); err != nil {
			return c.fail(err)
		}
	}
	// Stopped by MaxSteps short of FinalTime
	if !wrote && c.Steps > 0 {
		if err = c.snapshot(); err != nil {
			return c.fail(err)
		}
	}
	if err = c.PrintFinal(elapsed, totals0); err != nil {
		return c.fail(err)
	}
	return
}

func (c *Euler) CheckIfFinished() bool {
	return math.Abs(c.Time-c.FinalTime) < TimeTolerance || c.Time >= c.FinalTime ||
		c.Steps >= c.MaxSteps
}

func (c *Euler) snapshot() (err error) {
	if c.Snap == nil {
		return
	}
	var fileName string
	if fileName, err = c.Snap.Write(c.Comm, c.Q, c.Time); err != nil {
		return
	}
	c.Metrics.ObserveSnapshot(c.Comm.Rank())
	c.Log.WithFields(logrus.Fields{"file": fileName, "t": c.Time}).Debug("snapshot written")
	return
}

// ownedRows calls fn with the owned part of each row of every variable of F
func (c *Euler) ownedRows(F FD2D.Field, fn func(n int, row []float64)) {
	var (
		t = c.Tile
	)
	for n := 0; n < FD2D.NVar; n++ {
		for j := 0; j < t.NLocY; j++ {
			k := t.Ind(0, j)
			fn(n, F[n][k:k+t.NLocX])
		}
	}
}

// Totals is collective, it returns the integral of each conserved variable over the domain
func (c *Euler) Totals() (tot [4]float64, err error) {
	var (
		local = make([]float64, FD2D.NVar)
		g     = c.Tile.Grid
		sums  []float64
	)
	c.ownedRows(c.Q, func(n int, row []float64) {
		local[n] += floats.Sum(row)
	})
	if sums, err = c.Comm.ReduceSum(local); err != nil {
		return
	}
	for n := range tot {
		tot[n] = sums[n] * g.DX * g.DY
	}
	return
}

/*
Norms is collective, it returns the mean absolute value and the RMS of each
variable of F over the owned cells of all ranks.
*/
func (c *Euler) Norms(F FD2D.Field) (l1, l2 [4]float64, err error) {
	var (
		local = make([]float64, 2*FD2D.NVar)
		g     = c.Tile.Grid
		N     = float64(g.NX * g.NY)
		sums  []float64
	)
	c.ownedRows(F, func(n int, row []float64) {
		local[n] += floats.Norm(row, 1)
		local[n+FD2D.NVar] += floats.Dot(row, row)
	})
	if sums, err = c.Comm.ReduceSum(local); err != nil {
		return
	}
	for n := 0; n < FD2D.NVar; n++ {
		l1[n] = sums[n] / N
		l2[n] = math.Sqrt(sums[n+FD2D.NVar] / N)
	}
	return
}

// ErrorNorms measure the difference between the solution and the exact state per variable
type ErrorNorms struct {
	L1, L2, LInf [4]float64 // Mean absolute, RMS and maximum
}

// SolutionError is collective. It compares Q against the exact solution at the
// current time, the result is nil when the case has no exact solution.
func (c *Euler) SolutionError() (en *ErrorNorms, err error) {
	if c.AnalyticSolution == nil {
		return
	}
	var (
		t   = c.Tile
		E   = FD2D.NewField(t)
		mxs = make([]float64, FD2D.NVar)
	)
	for j := 0; j < t.NLocY; j++ {
		for i := 0; i < t.NLocX; i++ {
			x, y := t.CellCenter(i, j)
			var qe [4]float64
			qe[0], qe[1], qe[2], qe[3] = c.AnalyticSolution.GetStateC(c.Time, x, y)
			ind := t.Ind(i, j)
			for n := 0; n < FD2D.NVar; n++ {
				E[n][ind] = c.Q[n][ind] - qe[n]
			}
		}
	}
	en = &ErrorNorms{}
	if en.L1, en.L2, err = c.Norms(E); err != nil {
		return nil, err
	}
	c.ownedRows(E, func(n int, row []float64) {
		for _, v := range row {
			mxs[n] = math.Max(mxs[n], math.Abs(v))
		}
	})
	for n := 0; n < FD2D.NVar; n++ {
		if en.LInf[n], err = c.Comm.ReduceMax(mxs[n]); err != nil {
			return nil, err
		}
	}
	return
}

func (c *Euler) PrintInitialization(dt, dtMin float64) {
	if !c.leader() {
		return
	}
	var (
		g = c.Tile.Grid
	)
	log := c.Log.WithField("run", c.RunID)
	log.Infof("Euler Equations in 2 Dimensions, %s", c.Title)
	log.Infof("Solving %s", c.Case.Print())
	if c.Case == FREESTREAM {
		log.Infof("Mach Infinity = %8.5f, Angle of Attack = %8.5f", c.FS.Minf, c.FS.Alpha)
	}
	log.Infof("Grid %d x %d on [%g,%g] x [%g,%g], %d ranks", g.NX, g.NY, g.XMin, g.XMax, g.YMin, g.YMax, c.Comm.Size())
	log.Infof("Integrator: %d stage SSP Runge-Kutta", c.RK.Stages())
	if c.TS.CFLMode() {
		log.Infof("CFL = %8.4f, initial dt = %12.5e, stability limit dt = %12.5e", c.TS.CFL, dt, dtMin)
	} else {
		log.Infof("Fixed dt = %12.5e, stability limit dt = %12.5e", dt, dtMin)
	}
	log.Infof("Solving until finaltime = %8.5f or %d steps", c.FinalTime, c.MaxSteps)
}

// PrintUpdate is collective, the residual norms of the last stage are reduced over all ranks
func (c *Euler) PrintUpdate(dt float64) (err error) {
	var (
		l2 [4]float64
	)
	if _, l2, err = c.Norms(c.RK.Residual()); err != nil {
		return
	}
	c.Metrics.ObserveResidual(VariableNames, l2[:])
	if !c.leader() {
		return
	}
	c.Log.WithFields(logrus.Fields{
		"step": c.Steps,
		"t":    c.Time,
		"dt":   dt,
		"res0": l2[0],
		"res1": l2[1],
		"res2": l2[2],
		"res3": l2[3],
	}).Info("progress")
	return
}

// PrintFinal is collective, it reports conservation drift and the error against the exact solution
func (c *Euler) PrintFinal(elapsed time.Duration, totals0 [4]float64) (err error) {
	var (
		tot  [4]float64
		mach float64
		g    = c.Tile.Grid
		t    = c.Tile
	)
	if tot, err = c.Totals(); err != nil {
		return
	}
	if c.Errors, err = c.SolutionError(); err != nil {
		return
	}
	for j := 0; j < t.NLocY; j++ {
		for i := 0; i < t.NLocX; i++ {
			mach = math.Max(mach, c.FS.GetFlowFunction(c.Q, t.Ind(i, j), Mach))
		}
	}
	if mach, err = c.Comm.ReduceMax(mach); err != nil {
		return
	}
	if !c.leader() {
		return
	}
	var rate float64
	if c.Steps > 0 {
		rate = float64(elapsed.Microseconds()) / float64(g.NX*g.NY*c.Steps/c.Comm.Size())
	}
	log := c.Log.WithField("run", c.RunID)
	log.Infof("Finished at t = %12.5e after %d steps", c.Time, c.Steps)
	log.Infof("Rate of execution = %8.5f us/(cell*iteration) per rank", rate)
	log.Infof("Max Mach = %8.5f", mach)
	for n := range tot {
		log.Infof("Total %-4s = %16.9e, change = %12.5e", VariableNames[n], tot[n], tot[n]-totals0[n])
	}
	if c.Errors != nil {
		log.Infof("Density error vs exact: L1 = %12.5e, RMS = %12.5e, Linf = %12.5e",
			c.Errors.L1[0], c.Errors.L2[0], c.Errors.LInf[0])
	}
	return
}
