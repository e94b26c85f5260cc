package FD2D

import (
	"fmt"
	"math"

	"github.com/notargets/fdweno/types"
	"github.com/notargets/fdweno/utils"
)

// Decomposition lays NProcs ranks out as a PX x PY process grid over the
// global grid. Rank numbering is x fastest.
type Decomposition struct {
	Grid       *Grid
	NProcs     int
	PX, PY     int
	XMap, YMap *utils.PartitionMap
	tiles      []*Tile
}

func NewDecomposition(g *Grid, NProcs int) (d *Decomposition, err error) {
	if NProcs < 1 {
		err = fmt.Errorf("number of ranks must be at least 1, have %d", NProcs)
		return
	}
	var px, py int
	if px, py, err = chooseTopology(g.NX, g.NY, NProcs); err != nil {
		return
	}
	d = &Decomposition{
		Grid:   g,
		NProcs: NProcs,
		PX:     px,
		PY:     py,
		XMap:   utils.NewPartitionMap(px, g.NX),
		YMap:   utils.NewPartitionMap(py, g.NY),
		tiles:  make([]*Tile, NProcs),
	}
	for rank := 0; rank < NProcs; rank++ {
		pi, pj := d.Coords(rank)
		iBeg, _ := d.XMap.GetBucketRange(pi)
		jBeg, _ := d.YMap.GetBucketRange(pj)
		d.tiles[rank] = newTile(g, rank, pi, pj, iBeg, jBeg,
			d.XMap.GetBucketDimension(pi), d.YMap.GetBucketDimension(pj))
	}
	return
}

/*
chooseTopology picks the factorization PX*PY = NProcs whose tiles are closest
to square. Every tile must be at least HaloWidth cells wide so that a halo is
always filled from the adjacent rank alone.
*/
func chooseTopology(NX, NY, NProcs int) (px, py int, err error) {
	var (
		best = math.MaxFloat64
	)
	for p := 1; p <= NProcs; p++ {
		if NProcs%p != 0 {
			continue
		}
		q := NProcs / p
		if NX/p < HaloWidth || NY/q < HaloWidth {
			continue
		}
		cost := math.Abs(float64(NX)/float64(p) - float64(NY)/float64(q))
		if cost < best {
			best, px, py = cost, p, q
		}
	}
	if px == 0 {
		err = fmt.Errorf("cannot split a %dx%d grid over %d ranks with tiles at least %d cells wide",
			NX, NY, NProcs, HaloWidth)
	}
	return
}

func (d *Decomposition) Coords(rank int) (pi, pj int) {
	pi, pj = rank%d.PX, rank/d.PX
	return
}

func (d *Decomposition) Rank(pi, pj int) int {
	return pi + pj*d.PX
}

func (d *Decomposition) Tile(rank int) *Tile {
	return d.tiles[rank]
}

// Neighbor returns the rank across side s of rank, wrapping on periodic axes,
// or -1 at a non-periodic domain edge
func (d *Decomposition) Neighbor(rank int, s types.Side) (nbr int) {
	var (
		pi, pj = d.Coords(rank)
		g      = d.Grid
	)
	switch s {
	case types.Left:
		pi--
	case types.Right:
		pi++
	case types.Bottom:
		pj--
	case types.Top:
		pj++
	}
	if pi < 0 || pi >= d.PX {
		if !g.PeriodicX {
			return -1
		}
		pi = (pi + d.PX) % d.PX
	}
	if pj < 0 || pj >= d.PY {
		if !g.PeriodicY {
			return -1
		}
		pj = (pj + d.PY) % d.PY
	}
	return d.Rank(pi, pj)
}

// Owner returns the rank owning global cell (i,j)
func (d *Decomposition) Owner(i, j int) (rank int) {
	pi, _, _ := d.XMap.GetBucket(i)
	pj, _, _ := d.YMap.GetBucket(j)
	if pi < 0 || pj < 0 {
		return -1
	}
	return d.Rank(pi, pj)
}
