package geom

import "math"

// Hexagons are point-up: a vertex at 12 o'clock, flats facing left and
// right. Flat-to-flat is the wrench size of the feature.

// HexApothem returns the center-to-flat distance.
func HexApothem(flatToFlat float64) float64 {
	return flatToFlat / 2
}

// HexCircumradius returns the center-to-vertex distance.
func HexCircumradius(flatToFlat float64) float64 {
	return flatToFlat / math.Sqrt(3)
}

// HexagonVertices computes the six vertices of a point-up hexagon.
// Vertex 0 is at the top, proceeding clockwise.
func HexagonVertices(center Point, flatToFlat float64) [6]Point {
	r := HexCircumradius(flatToFlat)
	var verts [6]Point
	for i := 0; i < 6; i++ {
		// 90°, 30°, -30°, -90°, -150°, -210°: clockwise from the top.
		angle := math.Pi/2 - float64(i)*math.Pi/3
		verts[i] = Point{
			X: center.X + r*math.Cos(angle),
			Y: center.Y + r*math.Sin(angle),
		}
	}
	return verts
}

// HexagonBounds returns the axis-aligned bounding box of a point-up
// hexagon. X extent is the apothem, Y extent the circumradius.
func HexagonBounds(center Point, flatToFlat float64) (minX, minY, maxX, maxY float64) {
	a := HexApothem(flatToFlat)
	r := HexCircumradius(flatToFlat)
	return center.X - a, center.Y - r, center.X + a, center.Y + r
}

// OffsetToward moves p toward target by distance. A negative distance
// moves away. Coincident points are returned unchanged.
func OffsetToward(p, target Point, distance float64) Point {
	d := target.Sub(p)
	length := d.Length()
	if length == 0 {
		return p
	}
	return p.Add(d.MulScalar(distance / length))
}
