package FD2D

import (
	"fmt"
)

// Number of conserved variables carried per cell
const NVar = 4

// HaloWidth is the ghost layer depth, matching the reach of the WENO5 stencil
const HaloWidth = 3

// Grid is the global uniform Cartesian grid of NX x NY cells
type Grid struct {
	NX, NY                 int
	XMin, XMax, YMin, YMax float64
	DX, DY                 float64
	PeriodicX, PeriodicY   bool
}

func NewGrid(NX, NY int, XMin, XMax, YMin, YMax float64, PeriodicX, PeriodicY bool) (g *Grid, err error) {
	if NX <= 0 || NY <= 0 {
		err = fmt.Errorf("grid dimensions must be positive, have NX=%d, NY=%d", NX, NY)
		return
	}
	if !(XMax > XMin) || !(YMax > YMin) {
		err = fmt.Errorf("grid extents are empty: x[%g,%g] y[%g,%g]", XMin, XMax, YMin, YMax)
		return
	}
	g = &Grid{
		NX: NX, NY: NY,
		XMin: XMin, XMax: XMax, YMin: YMin, YMax: YMax,
		DX:        (XMax - XMin) / float64(NX),
		DY:        (YMax - YMin) / float64(NY),
		PeriodicX: PeriodicX,
		PeriodicY: PeriodicY,
	}
	return
}

// CellCenter returns the physical coordinates of global cell (i,j)
func (g *Grid) CellCenter(i, j int) (x, y float64) {
	x = g.XMin + float64(i)*g.DX + 0.5*g.DX
	y = g.YMin + float64(j)*g.DY + 0.5*g.DY
	return
}
