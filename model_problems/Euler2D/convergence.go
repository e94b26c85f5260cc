package Euler2D

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/notargets/fdweno/InputParameters"
)

// ConvergenceLevel is one grid of a refinement study
type ConvergenceLevel struct {
	NX, NY int
	DX     float64
	Steps  int
	ErrorNorms
	Order [4]float64 // Observed order of the RMS error against the previous level, zero on the first
}

/*
ConvergenceStudy runs the case in ip once per grid size in sizes, keeping the
aspect ratio of ip.NX x ip.NY, and measures the error against the exact
solution at the final time. Levels finished before an error are returned with it.
*/
func ConvergenceStudy(ctx context.Context, ip *InputParameters.InputParameters2D, sizes []int, opt RunOptions) (levels []ConvergenceLevel, err error) {
	opt.DisableSnapshots = true
	for _, n := range sizes {
		lip := *ip
		lip.NX, lip.NY = n, max(1, n*ip.NY/ip.NX)
		var res *RunResult
		if res, err = Run(ctx, &lip, opt); err != nil {
			return
		}
		c := res.Ranks[0]
		lvl := ConvergenceLevel{
			NX:         lip.NX,
			NY:         lip.NY,
			DX:         c.Tile.Grid.DX,
			Steps:      c.Steps,
			ErrorNorms: *c.Errors,
		}
		if len(levels) != 0 {
			prev := levels[len(levels)-1]
			for k := range lvl.Order {
				lvl.Order[k] = math.Log(prev.L2[k]/lvl.L2[k]) / math.Log(prev.DX/lvl.DX)
			}
		}
		levels = append(levels, lvl)
	}
	return
}

// WriteConvergenceCSV writes one record per level: title, number of cells, scheme order, CFL,
// the RMS errors of rho, rhoU and E, then the maximum errors of the same
func WriteConvergenceCSV(w io.Writer, title string, cfl float64, levels []ConvergenceLevel) (err error) {
	var (
		cw = csv.NewWriter(w)
		ff = func(f float64) string { return strconv.FormatFloat(f, 'e', 6, 64) }
	)
	if err = cw.Write([]string{"title", "npts", "order", "cfl",
		"rhoRMS", "rhouRMS", "eRMS", "rhoMAX", "rhouMAX", "eMAX"}); err != nil {
		return
	}
	for _, l := range levels {
		rec := []string{title, strconv.Itoa(l.NX * l.NY), "5", ff(cfl),
			ff(l.L2[0]), ff(l.L2[1]), ff(l.L2[3]), ff(l.LInf[0]), ff(l.LInf[1]), ff(l.LInf[3])}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}
