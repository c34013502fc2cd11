package gcode

import (
	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// Direction is the rotational sense of an arc move.
type Direction int

const (
	// CW emits G02.
	CW Direction = iota
	// CCW emits G03.
	CCW
)

func (d Direction) String() string {
	if d == CCW {
		return "G03"
	}
	return "G02"
}

// ResolveDirection determines the arc direction for a move from
// current to destination around center. An explicit hint wins; else
// the sign of the cross product of the two center-relative radius
// vectors decides. Zero cross (the 180-degree semicircle degeneracy)
// defaults to CW; callers needing CCW must hint.
func ResolveDirection(current, destination, center geom.Point, hint ops.ArcHint) Direction {
	switch hint {
	case ops.ArcCW:
		return CW
	case ops.ArcCCW:
		return CCW
	}

	toCurrent := current.Sub(center)
	toDest := destination.Sub(center)
	if toCurrent.Cross(toDest) > 0 {
		return CCW
	}
	return CW
}

// IJOffsets returns the I/J words for an arc: the offset from the
// current position to the arc center.
func IJOffsets(current, center geom.Point) (i, j float64) {
	return center.X - current.X, center.Y - current.Y
}
