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
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fdweno",
	Short: "Finite difference WENO solver for the compressible Euler equations",
	Long: `
Solves the two dimensional compressible Euler equations on a uniform Cartesian
grid with fifth order WENO reconstruction and SSP Runge-Kutta time stepping.
The grid is split into tiles, one per rank, each advanced by its own goroutine.

fdweno 2D -I input.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if err = setupLogging(viper.GetString("logLevel")); err != nil {
			return
		}
		profiler, err = startProfile(viper.GetString("profile"), viper.GetString("outputDir"))
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fdweno.yaml)")
	rootCmd.PersistentFlags().String("logLevel", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("outputDir", ".", "directory for snapshot files and profiles")
	rootCmd.PersistentFlags().String("metricsAddr", "", "serve /metrics and /status on this address while solving, e.g. :9090")
	rootCmd.PersistentFlags().String("profile", "", "write a profile of the run: cpu or mem")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".fdweno" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".fdweno")
	}

	viper.SetEnvPrefix("FDWENO")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func setupLogging(level string) (err error) {
	var lvl logrus.Level
	if lvl, err = logrus.ParseLevel(level); err != nil {
		return
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return
}

func startProfile(kind, dir string) (p interface{ Stop() }, err error) {
	switch strings.ToLower(kind) {
	case "":
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	default:
		err = fmt.Errorf("unknown profile kind %q, use cpu or mem", kind)
	}
	return
}
