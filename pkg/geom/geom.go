// Package geom provides the 2D geometry primitives used by the toolpath
// pipeline: points, unit normals, intersections, winding and hexagon
// vertex math. All coordinates are inches with the origin at machine home.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Point is a 2D position or direction vector.
type Point = v2.Vec

// CoincidentTol is the distance below which two points are treated as
// the same location. Path closure detection uses this tolerance.
const CoincidentTol = 1e-4

// Pt builds a Point from x/y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Coincident reports whether a and b are within CoincidentTol on both axes.
func Coincident(a, b Point) bool {
	return math.Abs(a.X-b.X) < CoincidentTol && math.Abs(a.Y-b.Y) < CoincidentTol
}

// SegmentNormal returns the left-hand unit normal of the segment p1->p2.
// Returns false for a zero-length segment.
func SegmentNormal(p1, p2 Point) (Point, bool) {
	d := p2.Sub(p1)
	length := d.Length()
	if length == 0 {
		return Point{}, false
	}
	// (-dy, dx) points left of the travel direction.
	return Point{X: -d.Y / length, Y: d.X / length}, true
}

// OffsetSegment shifts both endpoints of p1->p2 along the left-hand
// normal. Positive offset moves left of the travel direction, negative
// moves right. A zero-length segment is returned unchanged.
func OffsetSegment(p1, p2 Point, offset float64) (Point, Point) {
	n, ok := SegmentNormal(p1, p2)
	if !ok {
		return p1, p2
	}
	shift := n.MulScalar(offset)
	return p1.Add(shift), p2.Add(shift)
}

// LineIntersection intersects the infinite lines through (a1,a2) and
// (b1,b2). Returns false when the lines are parallel.
func LineIntersection(a1, a2, b1, b2 Point) (Point, bool) {
	denom := (a1.X-a2.X)*(b1.Y-b2.Y) - (a1.Y-a2.Y)*(b1.X-b2.X)
	if math.Abs(denom) < 1e-10 {
		return Point{}, false
	}
	t := ((a1.X-b1.X)*(b1.Y-b2.Y) - (a1.Y-b1.Y)*(b1.X-b2.X)) / denom
	return a1.Add(a2.Sub(a1).MulScalar(t)), true
}

// LineCircleIntersection intersects the infinite line through (p1,p2)
// with the circle at center/radius. When two intersections exist the one
// nearer to near is returned. Returns false for no intersection or a
// degenerate line.
func LineCircleIntersection(p1, p2, center Point, radius float64, near Point) (Point, bool) {
	d := p2.Sub(p1)
	f := p1.Sub(center)

	a := d.Dot(d)
	if math.Abs(a) < 1e-10 {
		return Point{}, false
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return Point{}, false
	}

	sqrtDisc := math.Sqrt(disc)
	i1 := p1.Add(d.MulScalar((-b - sqrtDisc) / (2 * a)))
	i2 := p1.Add(d.MulScalar((-b + sqrtDisc) / (2 * a)))

	if i1.Sub(near).Length2() <= i2.Sub(near).Length2() {
		return i1, true
	}
	return i2, true
}

// Winding returns the signed area of the polygon through pts (shoelace
// sum). Positive means counter-clockwise, negative clockwise. Fewer than
// three points yields zero.
func Winding(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	area := 0.0
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X * pts[j].Y
		area -= pts[j].X * pts[i].Y
	}
	return area / 2
}

// Closed reports whether the first and last points coincide within
// CoincidentTol. Closure is always auto-detected, never flagged.
func Closed(pts []Point) bool {
	if len(pts) < 2 {
		return false
	}
	return Coincident(pts[0], pts[len(pts)-1])
}

// DirectionVector returns the unit vector from p1 toward p2, or a +X
// unit vector when the points coincide.
func DirectionVector(p1, p2 Point) Point {
	d := p2.Sub(p1)
	length := d.Length()
	if length < CoincidentTol {
		return Point{X: 1}
	}
	return d.MulScalar(1 / length)
}
