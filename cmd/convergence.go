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
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/fdweno/InputParameters"
	"github.com/notargets/fdweno/model_problems/Euler2D"
)

// convergenceCmd represents the convergence command
var convergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Grid refinement study against the exact solution",
	Long: `
Runs the 2D case once per grid size and reports the error against the exact
solution along with the observed order of accuracy. Results are written as CSV
to convergence.csv in the output directory.

fdweno convergence -I vortex.yaml --sizes 20,40,80`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip    *InputParameters.InputParameters2D
			sizes []int
			m2d   = &Model2D{OutputDir: viper.GetString("outputDir")}
		)
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if sizes, err = cmd.Flags().GetIntSlice("sizes"); err != nil {
			return
		}
		if ip, err = processInput(cmd, m2d); err != nil {
			return
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return RunConvergence(ctx, m2d, ip, sizes, logrus.StandardLogger(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(convergenceCmd)
	convergenceCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters, as for the 2D command")
	convergenceCmd.Flags().IntSlice("sizes", []int{25, 50, 100}, "cells along x for each level, y follows the aspect ratio of the input")
	convergenceCmd.Flags().Float64("Tf", 0, "final time, overrides the input file")
	convergenceCmd.Flags().Float64("dt", 0, "fixed time step, overrides the input file and disables CFL")
	convergenceCmd.Flags().Float64("cfl", 0, "CFL number, overrides the input file and disables a fixed dt")
	convergenceCmd.Flags().IntP("procs", "p", 0, "number of ranks, each runs in its own goroutine")
}

// RunConvergence runs a refinement study and writes convergence.csv to the output directory
func RunConvergence(ctx context.Context, m2d *Model2D, ip *InputParameters.InputParameters2D, sizes []int,
	log *logrus.Logger, out io.Writer) (err error) {
	if len(sizes) == 0 {
		return fmt.Errorf("%w: no grid sizes", InputParameters.ErrConfiguration)
	}
	var (
		levels []Euler2D.ConvergenceLevel
		f      *os.File
	)
	if levels, err = Euler2D.ConvergenceStudy(ctx, ip, sizes, Euler2D.RunOptions{Log: log}); err != nil {
		return
	}
	fmt.Fprintf(out, "%8s %12s %12s %12s %8s\n", "NX", "DX", "rhoRMS", "rhoMAX", "order")
	for _, l := range levels {
		fmt.Fprintf(out, "%8d %12.5e %12.5e %12.5e %8.3f\n", l.NX, l.DX, l.L2[0], l.LInf[0], l.Order[0])
	}
	if err = os.MkdirAll(m2d.OutputDir, 0o755); err != nil {
		return
	}
	if f, err = os.Create(filepath.Join(m2d.OutputDir, "convergence.csv")); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Euler2D.WriteConvergenceCSV(f, ip.Title, ip.CFL, levels)
}
