package FD2D

import (
	"github.com/notargets/fdweno/types"
)

/*
Tile is the rectangle of cells owned by one rank, surrounded by a halo of
width SW. Local indices run from -SW to NLocX+SW-1 (and likewise in j); owned
cells are [0,NLocX) x [0,NLocY). Storage is row-major with i fastest.
*/
type Tile struct {
	Rank         int
	PI, PJ       int // Position of this tile in the process grid
	IBeg, JBeg   int // Global index of the first owned cell
	NLocX, NLocY int
	SW           int
	NXG, NYG     int // Extent including the halo
	Grid         *Grid
}

func newTile(g *Grid, rank, pi, pj, iBeg, jBeg, nLocX, nLocY int) (t *Tile) {
	t = &Tile{
		Rank: rank, PI: pi, PJ: pj,
		IBeg: iBeg, JBeg: jBeg,
		NLocX: nLocX, NLocY: nLocY,
		SW:   HaloWidth,
		NXG:  nLocX + 2*HaloWidth,
		NYG:  nLocY + 2*HaloWidth,
		Grid: g,
	}
	return
}

// Ind maps local cell (i,j), halo included, to a storage offset
func (t *Tile) Ind(i, j int) int {
	return (j+t.SW)*t.NXG + (i + t.SW)
}

func (t *Tile) Size() int {
	return t.NXG * t.NYG
}

// OnBoundary reports whether the tile touches the global domain edge on side s
func (t *Tile) OnBoundary(s types.Side) bool {
	switch s {
	case types.Left:
		return t.IBeg == 0
	case types.Right:
		return t.IBeg+t.NLocX == t.Grid.NX
	case types.Bottom:
		return t.JBeg == 0
	default:
		return t.JBeg+t.NLocY == t.Grid.NY
	}
}

// CellCenter returns the coordinates of local cell (i,j)
func (t *Tile) CellCenter(i, j int) (x, y float64) {
	return t.Grid.CellCenter(t.IBeg+i, t.JBeg+j)
}

// Field holds the NVar per-cell values of a tile, one slice per variable
type Field [NVar][]float64

func NewField(t *Tile) (f Field) {
	for n := 0; n < NVar; n++ {
		f[n] = make([]float64, t.Size())
	}
	return
}

func (f Field) Get(ind int) (q [NVar]float64) {
	q = [NVar]float64{f[0][ind], f[1][ind], f[2][ind], f[3][ind]}
	return
}

func (f Field) Set(ind int, q [NVar]float64) {
	f[0][ind], f[1][ind], f[2][ind], f[3][ind] = q[0], q[1], q[2], q[3]
}

func (f Field) Zero() {
	for n := 0; n < NVar; n++ {
		clear(f[n])
	}
}

func (f Field) CopyFrom(src Field) {
	for n := 0; n < NVar; n++ {
		copy(f[n], src[n])
	}
}
