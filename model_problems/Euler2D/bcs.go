package Euler2D

import (
	"fmt"

	"github.com/notargets/fdweno/FD2D"
	"github.com/notargets/fdweno/types"
)

// BoundaryCondition fills the ghost cells beyond one side of a tile that lies on
// the domain boundary
type BoundaryCondition interface {
	Flag() types.BCFLAG
	Apply(t *FD2D.Tile, Q FD2D.Field, s types.Side) error
}

func NewBoundaryCondition(flag types.BCFLAG) (bc BoundaryCondition, err error) {
	switch flag {
	case types.BC_Wall:
		bc = WallBC{}
	case types.BC_Periodic:
		bc = PeriodicBC{}
	case types.BC_Far:
		bc = FarfieldBC{}
	case types.BC_Supersonic:
		bc = SupersonicBC{}
	default:
		err = fmt.Errorf("%w: no boundary condition for %s", ErrConfiguration, flag)
	}
	return
}

// WallBC is a slip wall: ghosts mirror the interior with the normal momentum reversed
type WallBC struct{}

func (WallBC) Flag() types.BCFLAG { return types.BC_Wall }

func (WallBC) Apply(t *FD2D.Tile, Q FD2D.Field, s types.Side) error {
	var (
		sw     = t.SW
		normal = 1 + s.Axis() // Index of the momentum component normal to the side
	)
	for g := 1; g <= sw; g++ {
		switch s {
		case types.Left:
			for j := 0; j < t.NLocY; j++ {
				reflect(Q, t.Ind(-g, j), t.Ind(g-1, j), normal)
			}
		case types.Right:
			for j := 0; j < t.NLocY; j++ {
				reflect(Q, t.Ind(t.NLocX-1+g, j), t.Ind(t.NLocX-g, j), normal)
			}
		case types.Bottom:
			for i := 0; i < t.NLocX; i++ {
				reflect(Q, t.Ind(i, -g), t.Ind(i, g-1), normal)
			}
		case types.Top:
			for i := 0; i < t.NLocX; i++ {
				reflect(Q, t.Ind(i, t.NLocY-1+g), t.Ind(i, t.NLocY-g), normal)
			}
		}
	}
	return nil
}

func reflect(Q FD2D.Field, ghost, mirror, normal int) {
	for n := 0; n < FD2D.NVar; n++ {
		Q[n][ghost] = Q[n][mirror]
	}
	Q[normal][ghost] = -Q[normal][mirror]
}

// PeriodicBC does nothing, the halo exchange wraps periodic axes
type PeriodicBC struct{}

func (PeriodicBC) Flag() types.BCFLAG { return types.BC_Periodic }

func (PeriodicBC) Apply(*FD2D.Tile, FD2D.Field, types.Side) error { return nil }

type FarfieldBC struct{}

func (FarfieldBC) Flag() types.BCFLAG { return types.BC_Far }

func (FarfieldBC) Apply(_ *FD2D.Tile, _ FD2D.Field, s types.Side) error {
	return fmt.Errorf("%w: farfield boundary condition on %s side", ErrNotImplemented, s)
}

type SupersonicBC struct{}

func (SupersonicBC) Flag() types.BCFLAG { return types.BC_Supersonic }

func (SupersonicBC) Apply(_ *FD2D.Tile, _ FD2D.Field, s types.Side) error {
	return fmt.Errorf("%w: supersonic boundary condition on %s side", ErrNotImplemented, s)
}

// BCApplier dispatches each side of a tile touching the domain boundary to its condition
type BCApplier struct {
	Tile *FD2D.Tile
	BCs  [4]BoundaryCondition
}

func NewBCApplier(t *FD2D.Tile, flags [4]types.BCFLAG) (ba *BCApplier, err error) {
	var (
		periodic = [2]bool{t.Grid.PeriodicX, t.Grid.PeriodicY}
	)
	ba = &BCApplier{Tile: t}
	for _, s := range types.Sides {
		if (flags[s] == types.BC_Periodic) != periodic[s.Axis()] {
			err = fmt.Errorf("%w: %s boundary is %s but the grid periodicity along axis %d is %v",
				ErrConfiguration, s, flags[s], s.Axis(), periodic[s.Axis()])
			return
		}
		if ba.BCs[s], err = NewBoundaryCondition(flags[s]); err != nil {
			return
		}
	}
	return
}

func (ba *BCApplier) Apply(Q FD2D.Field) (err error) {
	for _, s := range types.Sides {
		if !ba.Tile.OnBoundary(s) {
			continue
		}
		if err = ba.BCs[s].Apply(ba.Tile, Q, s); err != nil {
			return
		}
	}
	return
}
