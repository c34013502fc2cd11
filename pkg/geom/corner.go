package geom

import "math"

// AngleBetween returns the angle between two direction vectors in
// degrees, clamped to [0, 180].
func AngleBetween(v1, v2 Point) float64 {
	dot := v1.Dot(v2)
	dot = math.Max(-1, math.Min(1, dot))
	return math.Acos(dot) * 180 / math.Pi
}

// SegmentAngle measures the deviation between segments p1->p2 and
// p2->p3 at p2, in degrees. 180 is a straight continuation, 90 a right
// angle. Degenerate segments are treated as straight.
func SegmentAngle(p1, p2, p3 Point) float64 {
	a := p2.Sub(p1)
	b := p3.Sub(p2)
	if a.Length() < CoincidentTol || b.Length() < CoincidentTol {
		return 180
	}
	dot := a.Dot(b) / (a.Length() * b.Length())
	dot = math.Max(-1, math.Min(1, dot))
	deviation := math.Acos(dot) * 180 / math.Pi
	return 180 - deviation
}

// ArcTangent returns the unit tangent of travel at a point on an arc
// around center. cw selects the clockwise travel direction.
func ArcTangent(center, point Point, cw bool) Point {
	r := point.Sub(center)
	var t Point
	if cw {
		t = Point{X: r.Y, Y: -r.X}
	} else {
		t = Point{X: -r.Y, Y: r.X}
	}
	length := t.Length()
	if length < CoincidentTol {
		return Point{X: 1}
	}
	return t.MulScalar(1 / length)
}
