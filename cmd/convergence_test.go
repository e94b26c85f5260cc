package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fdweno/InputParameters"
)

func TestConvergenceCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, `
Title: vortex study
InitType: IVortex
CFL: 0.4
FinalTime: 1
NX: 10
NY: 10
BCs:
  bottom: periodic
  top: periodic
`)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"convergence", "-I", input, "--outputDir", dir, "--logLevel", "warn",
		"--sizes", "10,20", "--Tf", "0.2"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "rhoRMS")

	f, err := os.Open(filepath.Join(dir, "convergence.csv"))
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"vortex study", "100"}, recs[1][:2])
	assert.Equal(t, "400", recs[2][1])
}

func TestRunConvergenceNoSizes(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	ip := InputParameters.NewInputParameters2D()
	ip.CFL = 0.4
	err := RunConvergence(context.Background(), &Model2D{OutputDir: t.TempDir()}, ip, nil, log, &bytes.Buffer{})
	assert.ErrorIs(t, err, InputParameters.ErrConfiguration)
}
