package FD2D

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/notargets/fdweno/types"
)

// ErrCollectiveAborted is returned by a collective interrupted because the
// run was cancelled, usually by the failure of another rank
var ErrCollectiveAborted = errors.New("collective operation aborted")

/*
Communicator is the collective interface seen by the solver on one rank.
Every rank must call the collectives in the same order.
*/
type Communicator interface {
	Rank() int
	Size() int
	Tile() *Tile
	// Exchange fills the halo of f, corners included, from neighbouring tiles
	// with periodic wrap. Halo cells beyond a non-periodic domain edge are
	// left to the boundary conditions.
	Exchange(f Field) error
	ReduceMax(v float64) (float64, error)
	ReduceMin(v float64) (float64, error)
	// ReduceSum sums each element of vals across all ranks
	ReduceSum(vals []float64) ([]float64, error)
}

type haloMsg struct {
	data []float64
}

type reduceMsg struct {
	vals []float64
}

/*
World is an in-process stand-in for a message passing runtime: each rank
runs in its own goroutine and communicates through channels. Every channel
carries at most one message per collective, so buffered sends never deadlock.
*/
type World struct {
	ctx     context.Context
	Decomp  *Decomposition
	inbox   [][4]chan haloMsg // Indexed by receiving rank, then the side the halo arrives on
	gather  chan reduceMsg
	results []chan []float64
}

func NewWorld(ctx context.Context, d *Decomposition) (w *World) {
	var (
		NP = d.NProcs
	)
	w = &World{
		ctx:     ctx,
		Decomp:  d,
		inbox:   make([][4]chan haloMsg, NP),
		gather:  make(chan reduceMsg, NP),
		results: make([]chan []float64, NP),
	}
	for np := 0; np < NP; np++ {
		for _, s := range types.Sides {
			w.inbox[np][s] = make(chan haloMsg, 1)
		}
		w.results[np] = make(chan []float64, 1)
	}
	return
}

func (w *World) Comm(rank int) *LocalComm {
	return &LocalComm{
		w:    w,
		rank: rank,
		tile: w.Decomp.Tile(rank),
	}
}

type LocalComm struct {
	w    *World
	rank int
	tile *Tile
}

func (c *LocalComm) Rank() int   { return c.rank }
func (c *LocalComm) Size() int   { return c.w.Decomp.NProcs }
func (c *LocalComm) Tile() *Tile { return c.tile }

func (c *LocalComm) aborted(op string) error {
	return fmt.Errorf("%w: rank %d in %s: %v", ErrCollectiveAborted, c.rank, op, context.Cause(c.w.ctx))
}

/*
Exchange runs in two phases. The x strips are swapped first, then the y strips
are sent across the full halo-extended width, which carries the corner blocks
from the diagonal neighbours along with them.
*/
func (c *LocalComm) Exchange(f Field) (err error) {
	for _, phase := range [2][2]types.Side{{types.Left, types.Right}, {types.Bottom, types.Top}} {
		if err = c.exchangeSides(f, phase); err != nil {
			return
		}
	}
	return
}

func (c *LocalComm) exchangeSides(f Field, sides [2]types.Side) (err error) {
	var (
		d = c.w.Decomp
	)
	// Post every outgoing strip first, then drain the inbox
	for _, s := range sides {
		nbr := d.Neighbor(c.rank, s)
		if nbr < 0 {
			continue
		}
		msg := haloMsg{data: c.packStrip(f, s)}
		select {
		case c.w.inbox[nbr][s.Opposite()] <- msg:
		case <-c.w.ctx.Done():
			return c.aborted("halo exchange")
		}
	}
	for _, s := range sides {
		if d.Neighbor(c.rank, s) < 0 {
			continue
		}
		select {
		case msg := <-c.w.inbox[c.rank][s]:
			c.unpackStrip(f, s, msg.data)
		case <-c.w.ctx.Done():
			return c.aborted("halo exchange")
		}
	}
	return
}

// stripRange returns the local index box [i0,i1) x [j0,j1) of the owned cells
// adjacent to side s, or of the halo cells beyond it when halo is true. Strips
// of the y sides span the x halo as well.
func (c *LocalComm) stripRange(s types.Side, halo bool) (i0, i1, j0, j1 int) {
	var (
		t  = c.tile
		sw = t.SW
	)
	i0, i1, j0, j1 = 0, t.NLocX, 0, t.NLocY
	switch s {
	case types.Left:
		i0, i1 = 0, sw
		if halo {
			i0, i1 = -sw, 0
		}
	case types.Right:
		i0, i1 = t.NLocX-sw, t.NLocX
		if halo {
			i0, i1 = t.NLocX, t.NLocX+sw
		}
	case types.Bottom:
		i0, i1 = -sw, t.NLocX+sw
		j0, j1 = 0, sw
		if halo {
			j0, j1 = -sw, 0
		}
	case types.Top:
		i0, i1 = -sw, t.NLocX+sw
		j0, j1 = t.NLocY-sw, t.NLocY
		if halo {
			j0, j1 = t.NLocY, t.NLocY+sw
		}
	}
	return
}

func (c *LocalComm) packStrip(f Field, s types.Side) (data []float64) {
	var (
		t              = c.tile
		i0, i1, j0, j1 = c.stripRange(s, false)
		n              = (i1 - i0) * (j1 - j0)
	)
	data = make([]float64, 0, NVar*n)
	for v := 0; v < NVar; v++ {
		for j := j0; j < j1; j++ {
			for i := i0; i < i1; i++ {
				data = append(data, f[v][t.Ind(i, j)])
			}
		}
	}
	return
}

func (c *LocalComm) unpackStrip(f Field, s types.Side, data []float64) {
	var (
		t              = c.tile
		i0, i1, j0, j1 = c.stripRange(s, true)
		ii             int
	)
	for v := 0; v < NVar; v++ {
		for j := j0; j < j1; j++ {
			for i := i0; i < i1; i++ {
				f[v][t.Ind(i, j)] = data[ii]
				ii++
			}
		}
	}
}

func (c *LocalComm) ReduceMax(v float64) (float64, error) {
	r, err := c.allReduce("ReduceMax", []float64{v}, math.Max)
	if err != nil {
		return 0, err
	}
	return r[0], nil
}

func (c *LocalComm) ReduceMin(v float64) (float64, error) {
	r, err := c.allReduce("ReduceMin", []float64{v}, math.Min)
	if err != nil {
		return 0, err
	}
	return r[0], nil
}

func (c *LocalComm) ReduceSum(vals []float64) ([]float64, error) {
	return c.allReduce("ReduceSum", vals, func(a, b float64) float64 { return a + b })
}

/*
allReduce gathers to rank 0, combines, and scatters the result back. A rank
cannot enter the next reduction before it has its result from the current one,
so contributions of consecutive reductions never mix in the gather channel.
*/
func (c *LocalComm) allReduce(op string, vals []float64, combine func(a, b float64) float64) (r []float64, err error) {
	var (
		w  = c.w
		NP = w.Decomp.NProcs
	)
	if c.rank != 0 {
		select {
		case w.gather <- reduceMsg{vals: append([]float64(nil), vals...)}:
		case <-w.ctx.Done():
			return nil, c.aborted(op)
		}
		select {
		case r = <-w.results[c.rank]:
			return
		case <-w.ctx.Done():
			return nil, c.aborted(op)
		}
	}
	r = append([]float64(nil), vals...)
	for np := 1; np < NP; np++ {
		select {
		case msg := <-w.gather:
			if len(msg.vals) != len(r) {
				return nil, fmt.Errorf("%s: mismatched contribution length %d, expected %d", op, len(msg.vals), len(r))
			}
			for i := range r {
				r[i] = combine(r[i], msg.vals[i])
			}
		case <-w.ctx.Done():
			return nil, c.aborted(op)
		}
	}
	for np := 1; np < NP; np++ {
		select {
		case w.results[np] <- append([]float64(nil), r...):
		case <-w.ctx.Done():
			return nil, c.aborted(op)
		}
	}
	return
}
