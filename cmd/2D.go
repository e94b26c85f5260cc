/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fdweno/InputParameters"
	"github.com/notargets/fdweno/model_problems/Euler2D"
	"github.com/notargets/fdweno/monitor"
)

type Model2D struct {
	ICFile      string
	OutputDir   string
	MetricsAddr string
}

const exampleFile = `
########################################
Title: "Isentropic Vortex"
InitType: IVortex # Can be Freestream or ShockTube
CFL: 0.4          # Or a fixed step, DT: 0.01
FinalTime: 10
SnapshotInterval: 100
NX: 50
NY: 50
XMin: -5
XMax: 5
YMin: -5
YMax: 5
Integrator: rk3   # Or rks2, with Stages: 5
Procs: 4
BCs:
  left: periodic
  right: periodic
  bottom: wall
  top: wall
########################################
`

// TwoDCmd represents the 2D command
var TwoDCmd = newTwoDCmd()

func newTwoDCmd() (c *cobra.Command) {
	c = &cobra.Command{
		Use:   "2D",
		Short: "Two dimensional Euler solver on a uniform grid, writing Tecplot snapshots",
		Long: `
Two dimensional Euler solver on a uniform grid, writing Tecplot snapshots.
Parameters are read from the input file, then overridden by any flags given.
With no input file the default case is a vortex on a periodic 50x50 grid.
` + exampleFile,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var (
				ip  *InputParameters.InputParameters2D
				m2d = &Model2D{
					OutputDir:   viper.GetString("outputDir"),
					MetricsAddr: viper.GetString("metricsAddr"),
				}
			)
			if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
				return
			}
			if ip, err = processInput(cmd, m2d); err != nil {
				return
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return Run2D(ctx, m2d, ip, logrus.StandardLogger(), cmd.OutOrStdout())
		},
	}
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL or DT\n\t- grid size and domain\n\t- boundary conditions")
	c.Flags().Float64("Tf", 0, "final time, overrides the input file")
	c.Flags().Float64("dt", 0, "fixed time step, overrides the input file and disables CFL")
	c.Flags().Float64("cfl", 0, "CFL number, overrides the input file and disables a fixed dt")
	c.Flags().Int("si", 0, "steps between snapshots")
	c.Flags().Int("maxSteps", 0, "stop after this many steps")
	c.Flags().Int("nx", 0, "cells along x")
	c.Flags().Int("ny", 0, "cells along y")
	c.Flags().IntP("procs", "p", 0, "number of ranks, each runs in its own goroutine")
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
}

func processInput(cmd *cobra.Command, m2d *Model2D) (ip *InputParameters.InputParameters2D, err error) {
	if len(m2d.ICFile) != 0 {
		if ip, err = InputParameters.ReadFile(m2d.ICFile); err != nil {
			return
		}
	} else {
		ip = InputParameters.NewInputParameters2D()
	}
	if err = applyOverrides(cmd, ip); err != nil {
		return
	}
	if err = ip.Validate(); err != nil {
		if len(m2d.ICFile) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Example File:%s\n", exampleFile)
		}
	}
	return
}

func applyOverrides(cmd *cobra.Command, ip *InputParameters.InputParameters2D) (err error) {
	var (
		f = cmd.Flags()
	)
	floats := []struct {
		name string
		dst  *float64
	}{{"Tf", &ip.FinalTime}, {"dt", &ip.DT}, {"cfl", &ip.CFL}}
	for _, o := range floats {
		if f.Changed(o.name) {
			if *o.dst, err = f.GetFloat64(o.name); err != nil {
				return
			}
		}
	}
	switch {
	case f.Changed("dt") && f.Changed("cfl"):
		return fmt.Errorf("%w: --dt and --cfl are exclusive", InputParameters.ErrConfiguration)
	case f.Changed("dt"):
		ip.CFL = 0
	case f.Changed("cfl"):
		ip.DT = 0
	}
	ints := []struct {
		name string
		dst  *int
	}{{"si", &ip.SnapshotInterval}, {"maxSteps", &ip.MaxSteps}, {"nx", &ip.NX}, {"ny", &ip.NY}, {"procs", &ip.Procs}}
	for _, o := range ints {
		if f.Changed(o.name) {
			if *o.dst, err = f.GetInt(o.name); err != nil {
				return
			}
		}
	}
	return
}

// Run2D solves the case in ip, optionally serving metrics while it runs
func Run2D(ctx context.Context, m2d *Model2D, ip *InputParameters.InputParameters2D, log *logrus.Logger, out io.Writer) (err error) {
	var (
		runID   = uuid.NewString()
		metrics = monitor.NewMetrics(runID)
		status  = monitor.NewStatus(runID, ip.Title, ip.Procs, ip.FinalTime)
		entry   = log.WithField("run", runID)
	)
	ip.Print(out)
	if err = os.MkdirAll(m2d.OutputDir, 0o755); err != nil {
		return
	}
	if len(m2d.MetricsAddr) != 0 {
		sctx, cancel := context.WithCancel(ctx)
		var done <-chan error
		if _, done, err = monitor.Serve(sctx, m2d.MetricsAddr, monitor.NewRouter(metrics, status), entry); err != nil {
			cancel()
			return
		}
		defer func() {
			cancel()
			if serr := <-done; serr != nil {
				err = errors.Join(err, serr)
			}
		}()
	}
	_, err = Euler2D.Run(ctx, ip, Euler2D.RunOptions{
		RunID:     runID,
		OutputDir: m2d.OutputDir,
		Log:       log,
		Metrics:   metrics,
		Status:    status,
	})
	return
}
