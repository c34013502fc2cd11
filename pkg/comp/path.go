package comp

import (
	"fmt"
	"math"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// offsetSegment is one path segment after radial offsetting, before
// corner re-intersection.
type offsetSegment struct {
	arc    bool
	start  geom.Point
	end    geom.Point
	center geom.Point
	// source is the path point the segment terminates at; it supplies
	// kind, center and hint for the compensated output point.
	source ops.PathPoint
}

// PathOffset returns the signed left/right offset to apply to a path's
// segments. The sign depends on the path's winding so that exterior
// always expands away from the enclosed area and interior always
// shrinks into it.
func PathOffset(path []ops.PathPoint, toolDiameter float64, mode ops.CompensationMode) float64 {
	toolRadius := toolDiameter / 2
	winding := geom.Winding(ops.PathPoints(path))
	if mode == ops.CompExterior {
		// CCW: outside is right of travel. CW: outside is left.
		if winding >= 0 {
			return -toolRadius
		}
		return toolRadius
	}
	// Interior. CCW: inside is left of travel. CW: inside is right.
	if winding >= 0 {
		return toolRadius
	}
	return -toolRadius
}

// CompensatePath offsets a line path by the tool radius. Straight
// segments shift along their normals; arc segments keep their centers
// and change radius by the bulge side; corners are re-intersected.
// Closed paths are auto-detected and stay closed. Compensation that
// would collapse an arc returns a GeometryError.
func CompensatePath(path []ops.PathPoint, toolDiameter float64, mode ops.CompensationMode) ([]ops.PathPoint, error) {
	if mode == ops.CompNone || len(path) < 2 {
		return path, nil
	}

	toolRadius := toolDiameter / 2
	closed := ops.PathClosed(path)
	offset := PathOffset(path, toolDiameter, mode)

	// For a closed path the duplicate closing point is dropped and its
	// segment data reused for the wrap-around segment.
	var closingSource ops.PathPoint
	if closed {
		closingSource = path[len(path)-1]
	}

	n := len(path)
	if closed {
		n--
	}

	segCount := n - 1
	if closed {
		segCount = n
	}

	segments := make([]offsetSegment, 0, segCount)
	for i := 0; i < segCount; i++ {
		j := (i + 1) % n
		p1 := path[i].Point()
		p2 := path[j].Point()

		source := path[j]
		if closed && j == 0 {
			source = closingSource
		}

		if source.Kind == ops.KindArc {
			seg, err := offsetArcSegment(p1, p2, source, toolRadius, offset, mode)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			continue
		}

		if geom.Coincident(p1, p2) {
			return nil, GeometryError{Message: fmt.Sprintf(
				"degenerate zero-length segment at point %d", j)}
		}
		o1, o2 := geom.OffsetSegment(p1, p2, offset)
		segments = append(segments, offsetSegment{start: o1, end: o2, source: source})
	}

	if len(segments) == 0 {
		return path, nil
	}

	out := make([]ops.PathPoint, 0, len(path)+2)
	for i, seg := range segments {
		if i == 0 {
			first := seg.start
			if closed {
				first = cornerPoint(segments[len(segments)-1], seg, seg.start)
			}
			start := path[0]
			start.X, start.Y = first.X, first.Y
			out = append(out, start)
		}

		if i == len(segments)-1 && !closed {
			last := seg.source
			last.X, last.Y = seg.end.X, seg.end.Y
			out = append(out, last)
			break
		}

		next := segments[(i+1)%len(segments)]
		if seg.arc && next.arc {
			// Each arc must start and end on its own compensated
			// circle; join them with a short straight move.
			arcEnd := seg.source
			arcEnd.X, arcEnd.Y = seg.end.X, seg.end.Y
			out = append(out, arcEnd)
			out = append(out, ops.PathPoint{Kind: ops.KindStraight, X: next.start.X, Y: next.start.Y})
			continue
		}

		corner := cornerPoint(seg, next, seg.end)
		point := seg.source
		point.X, point.Y = corner.X, corner.Y
		out = append(out, point)
	}

	return out, nil
}

// cornerPoint re-intersects two adjacent offset segments. fallback is
// returned when the segments are parallel or fail to meet.
func cornerPoint(prev, next offsetSegment, fallback geom.Point) geom.Point {
	switch {
	case !prev.arc && !next.arc:
		if p, ok := geom.LineIntersection(prev.start, prev.end, next.start, next.end); ok {
			return p
		}
	case prev.arc && !next.arc:
		r := prev.end.Sub(prev.center).Length()
		if p, ok := geom.LineCircleIntersection(next.start, next.end, prev.center, r, prev.end); ok {
			return p
		}
	case !prev.arc && next.arc:
		r := next.start.Sub(next.center).Length()
		if p, ok := geom.LineCircleIntersection(prev.start, prev.end, next.center, r, next.start); ok {
			return p
		}
	}
	return fallback
}

// offsetArcSegment compensates an arc by growing or shrinking its
// radius around the unchanged center. The radius grows when the arc
// bulges toward the offset side and shrinks otherwise.
func offsetArcSegment(p1, p2 geom.Point, source ops.PathPoint, toolRadius, offset float64, mode ops.CompensationMode) (offsetSegment, error) {
	center := source.Center

	// Sample the angular midpoint to find the bulge side of the chord.
	startAngle := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	endAngle := math.Atan2(p2.Y-center.Y, p2.X-center.X)
	if source.Hint == ops.ArcCW {
		if startAngle < endAngle {
			startAngle += 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}
	midAngle := (startAngle + endAngle) / 2

	radius := p1.Sub(center).Length()
	mid := geom.Pt(center.X+radius*math.Cos(midAngle), center.Y+radius*math.Sin(midAngle))

	chord := p2.Sub(p1)
	toMid := mid.Sub(p1)
	bulgesLeft := chord.Cross(toMid) > 0

	radiusChange := toolRadius
	if bulgesLeft != (offset > 0) {
		radiusChange = -toolRadius
	}

	r1 := p1.Sub(center).Length()
	r2 := p2.Sub(center).Length()
	nr1 := r1 + radiusChange
	nr2 := r2 + radiusChange
	if nr1 <= 0 || nr2 <= 0 {
		return offsetSegment{}, GeometryError{Message: fmt.Sprintf(
			"arc radius %.4f is too small for %s compensation with tool radius %.4f",
			math.Min(r1, r2), mode, toolRadius)}
	}

	scale1, scale2 := 1.0, 1.0
	if r1 > 0 {
		scale1 = nr1 / r1
	}
	if r2 > 0 {
		scale2 = nr2 / r2
	}

	return offsetSegment{
		arc:    true,
		start:  center.Add(p1.Sub(center).MulScalar(scale1)),
		end:    center.Add(p2.Sub(center).MulScalar(scale2)),
		center: center,
		source: source,
	}, nil
}
