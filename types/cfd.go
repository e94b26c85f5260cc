package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Wall
	BC_Periodic
	BC_Far
	BC_Supersonic
)

var BCNameMap = map[string]BCFLAG{
	"wall":       BC_Wall,
	"reflective": BC_Wall,
	"periodic":   BC_Periodic,
	"far":        BC_Far,
	"farfield":   BC_Far,
	"supersonic": BC_Supersonic,
}

var bcPrintNames = []string{"None", "Wall", "Periodic", "Farfield", "Supersonic"}

func (bc BCFLAG) String() string {
	if int(bc) < len(bcPrintNames) {
		return bcPrintNames[bc]
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bc))
}

func NewBCFLAG(label string) (bc BCFLAG, err error) {
	var ok bool
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown boundary condition %q", label)
	}
	return
}

// Side names one of the four edges of the rectangular domain, or of a tile
type Side uint8

const (
	Left Side = iota
	Right
	Bottom
	Top
)

var Sides = [4]Side{Left, Right, Bottom, Top}

var SideNameMap = map[string]Side{
	"left":   Left,
	"right":  Right,
	"bottom": Bottom,
	"top":    Top,
}

func (s Side) String() string {
	return [...]string{"Left", "Right", "Bottom", "Top"}[s]
}

// Opposite returns the side facing s across a tile
func (s Side) Opposite() Side {
	return [...]Side{Right, Left, Top, Bottom}[s]
}

// Axis is 0 for the x-normal sides and 1 for the y-normal sides
func (s Side) Axis() int {
	if s == Left || s == Right {
		return 0
	}
	return 1
}
