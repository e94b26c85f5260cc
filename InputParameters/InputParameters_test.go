package InputParameters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fdweno/types"
)

func TestInputParameters(t *testing.T) {
	{ // Parse a complete file
		fileInput := []byte(`
Title: Shock tube
CFL: 0.5
FinalTime: 0.2
SnapshotInterval: 10
NX: 200
NY: 4
XMin: 0
XMax: 1
YMin: 0
YMax: 0.02
InitType: ShockTube
Integrator: rks2
Stages: 4
Procs: 2
BCs:
  Left: wall
  Right: wall
  bottom: periodic
  top: periodic
`)
		var ip InputParameters2D
		require.NoError(t, ip.Parse(fileInput))
		expected := InputParameters2D{
			Title:            "Shock tube",
			FinalTime:        0.2,
			CFL:              0.5,
			SnapshotInterval: 10,
			MaxSteps:         1000000,
			NX:               200,
			NY:               4,
			XMin:             0,
			XMax:             1,
			YMin:             0,
			YMax:             0.02,
			Gamma:            1.4,
			InitType:         "ShockTube",
			Integrator:       "rks2",
			Stages:           4,
			Procs:            2,
			BCs: map[string]string{
				"left": "wall", "right": "wall", "bottom": "periodic", "top": "periodic",
			},
		}
		if diff := cmp.Diff(expected, ip); diff != "" {
			t.Errorf("parsed parameters mismatch (-want +got):\n%s", diff)
		}
		assert.NoError(t, ip.Validate())
		px, py := ip.Periodic()
		assert.False(t, px)
		assert.True(t, py)
		bc, err := ip.BCFlag(types.Left)
		assert.NoError(t, err)
		assert.Equal(t, types.BC_Wall, bc)
	}
	{ // Defaults
		ip := NewInputParameters2D()
		ip.CFL = 0.4
		assert.NoError(t, ip.Validate())
		assert.Equal(t, 10., ip.FinalTime)
		assert.Equal(t, 100, ip.SnapshotInterval)
		assert.Equal(t, 1000000, ip.MaxSteps)
		assert.Equal(t, 50, ip.NX)
		assert.Equal(t, 50, ip.NY)
		assert.Equal(t, [4]float64{-5, 5, -5, 5}, [4]float64{ip.XMin, ip.XMax, ip.YMin, ip.YMax})
		for _, s := range types.Sides {
			bc, err := ip.BCFlag(s)
			assert.NoError(t, err)
			assert.Equal(t, types.BC_Periodic, bc)
		}
		var buf bytes.Buffer
		ip.Print(&buf)
		assert.Contains(t, buf.String(), "BCs[left] = periodic")
	}
	{ // Time step selection must be unambiguous
		ip := NewInputParameters2D()
		assert.ErrorIs(t, ip.Validate(), ErrConfiguration)
		ip.DT, ip.CFL = 0.01, 0.4
		assert.ErrorIs(t, ip.Validate(), ErrConfiguration)
		ip.CFL = 0
		assert.NoError(t, ip.Validate())
	}
	{ // Mismatched periodic pair, unknown names
		ip := NewInputParameters2D()
		ip.CFL = 0.4
		ip.BCs["left"] = "wall"
		assert.ErrorIs(t, ip.Validate(), ErrConfiguration)
		ip.BCs["right"] = "wall"
		assert.NoError(t, ip.Validate())
		ip.BCs["top"] = "slip"
		assert.ErrorIs(t, ip.Validate(), ErrConfiguration)
		delete(ip.BCs, "top")
		ip.BCs["front"] = "wall"
		assert.ErrorIs(t, ip.Validate(), ErrConfiguration)
	}
	{ // Bad grid
		ip := NewInputParameters2D()
		ip.CFL = 0.4
		ip.NX = -1
		assert.ErrorIs(t, ip.Validate(), ErrConfiguration)
	}
	{ // Read from disk
		dir := t.TempDir()
		fileName := filepath.Join(dir, "input.yaml")
		require.NoError(t, os.WriteFile(fileName, []byte("DT: 0.001\nNX: 20\n"), 0644))
		ip, err := ReadFile(fileName)
		require.NoError(t, err)
		assert.Equal(t, 0.001, ip.DT)
		assert.Equal(t, 20, ip.NX)
		assert.Equal(t, 50, ip.NY)
		_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
		require.NoError(t, os.WriteFile(fileName, []byte("NX: [1, 2\n"), 0644))
		_, err = ReadFile(fileName)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}
