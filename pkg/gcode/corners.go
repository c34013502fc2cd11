package gcode

import (
	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// cornerAngleThreshold is the interior angle below which a direction
// change counts as a corner. 180 is straight, 0 a full reversal.
const cornerAngleThreshold = 120.0

// CornerFeedFactor maps a corner's interior angle to a feed reduction
// factor. Sharper corners get slower feed to limit tool deflection.
func CornerFeedFactor(angle float64) float64 {
	switch {
	case angle >= 120:
		return 1.0
	case angle >= 90:
		return 0.75
	case angle >= 60:
		return 0.50
	case angle >= 30:
		return 0.40
	default:
		return 0.30
	}
}

// pointTangents returns the travel directions into and out of path[i].
// Arc segments use the tangent at the shared point instead of the
// chord direction, so a line meeting an arc tangentially is not a
// corner.
func pointTangents(path []ops.PathPoint, i int) (incoming, outgoing geom.Point) {
	prev := path[i-1].Point()
	curr := path[i].Point()
	next := path[i+1].Point()

	if path[i].Kind == ops.KindArc {
		cw := ResolveDirection(prev, curr, path[i].Center, path[i].Hint) == CW
		incoming = geom.ArcTangent(path[i].Center, curr, cw)
	} else {
		incoming = geom.DirectionVector(prev, curr)
	}

	if path[i+1].Kind == ops.KindArc {
		cw := ResolveDirection(curr, next, path[i+1].Center, path[i+1].Hint) == CW
		outgoing = geom.ArcTangent(path[i+1].Center, curr, cw)
	} else {
		outgoing = geom.DirectionVector(curr, next)
	}
	return incoming, outgoing
}

// CornerFactors computes the per-point corner severity for a path.
// Entries are 1.0 for non-corner points; interior points where the
// direction change is sharper than the threshold get the angle-based
// reduction factor. Endpoints never carry a factor.
func CornerFactors(path []ops.PathPoint) []float64 {
	factors := make([]float64, len(path))
	for i := range factors {
		factors[i] = 1.0
	}
	if len(path) < 3 {
		return factors
	}
	for i := 1; i < len(path)-1; i++ {
		incoming, outgoing := pointTangents(path, i)
		angle := 180 - geom.AngleBetween(incoming, outgoing)
		if angle < cornerAngleThreshold {
			factors[i] = CornerFeedFactor(angle)
		}
	}
	return factors
}
