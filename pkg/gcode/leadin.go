package gcode

import (
	"math"
	"strings"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// Approach angles are user-convention degrees: 0 is 12 o'clock, 90 is
// 3 o'clock, increasing clockwise. The math convention is radians from
// +X, counter-clockwise.

// MinHelixRadius is the smallest helix that still produces smooth
// circular motion on the controller.
const MinHelixRadius = 0.05

// HelixClearance is the gap kept between the helix and the cut profile.
const HelixClearance = 0.025

func mathAngle(userAngle float64) float64 {
	return (90 - userAngle) * math.Pi / 180
}

// LeadInDistance converts a ramp angle and pass depth into the lateral
// run of the ramp. Shallower angles give longer, gentler entries.
// Degenerate inputs fall back to a quarter inch.
func LeadInDistance(rampAngle, passDepth float64) float64 {
	if rampAngle <= 0 || passDepth <= 0 {
		return 0.25
	}
	return passDepth / math.Tan(rampAngle*math.Pi/180)
}

// CircleLeadInPoint returns the ramp start for a circle cut: radially
// outward from the profile start at the approach angle.
func CircleLeadInPoint(center geom.Point, cutRadius, leadInDistance, approachAngle float64) geom.Point {
	a := mathAngle(approachAngle)
	r := cutRadius + leadInDistance
	return geom.Pt(center.X+r*math.Cos(a), center.Y+r*math.Sin(a))
}

// HexagonLeadInPoint returns the ramp start for a hexagon cut. With a
// manual approach angle the point sits radially out from the center at
// that angle; otherwise the first edge is extended backward past the
// first vertex.
func HexagonLeadInPoint(vertices [6]geom.Point, center geom.Point, leadInDistance float64, approachAngle *float64) geom.Point {
	v0 := vertices[0]
	if approachAngle != nil {
		a := mathAngle(*approachAngle)
		r := v0.Sub(center).Length() + leadInDistance
		return geom.Pt(center.X+r*math.Cos(a), center.Y+r*math.Sin(a))
	}
	dir := geom.DirectionVector(v0, vertices[1])
	return v0.Sub(dir.MulScalar(leadInDistance))
}

// LineLeadInPoint returns the ramp start for a line cut. A manual
// approach angle overrides geometry. Closed compensated paths lead in
// perpendicular to the first segment on the waste side, so the entry
// scar lands on scrap. Open or uncompensated paths extend backward
// along the first segment.
func LineLeadInPoint(path []ops.PathPoint, leadInDistance float64, compensation ops.CompensationMode, approachAngle *float64) geom.Point {
	if len(path) == 0 {
		return geom.Point{}
	}
	p0 := path[0].Point()
	if len(path) < 2 {
		return p0
	}

	if approachAngle != nil {
		a := mathAngle(*approachAngle)
		return geom.Pt(p0.X+leadInDistance*math.Cos(a), p0.Y+leadInDistance*math.Sin(a))
	}

	p1 := path[1].Point()
	d := p1.Sub(p0)
	if d.Length() < geom.CoincidentTol {
		return p0
	}
	d = d.MulScalar(1 / d.Length())

	if ops.PathClosed(path) && compensation != ops.CompNone {
		// Left normal of the first segment; winding decides whether left
		// is inside or outside.
		n := geom.Pt(-d.Y, d.X)
		winding := geom.Winding(ops.PathPoints(path))
		inside := winding >= 0 // CCW: inside is left
		wantInside := compensation == ops.CompInterior
		if inside == wantInside {
			return p0.Add(n.MulScalar(leadInDistance))
		}
		return p0.Sub(n.MulScalar(leadInDistance))
	}

	return p0.Sub(d.MulScalar(leadInDistance))
}

// HelixRadiusForCircle sizes the helix for a circular cut. The helix
// must sit inside the toolpath circle with clearance. Returns false
// when the circle is too small for helical entry.
func HelixRadiusForCircle(cutRadius, toolDiameter float64) (float64, bool) {
	toolRadius := toolDiameter / 2
	maxRadius := cutRadius - HelixClearance
	if maxRadius < MinHelixRadius {
		return 0, false
	}
	r := math.Min(maxRadius, toolRadius+HelixClearance)
	if r < MinHelixRadius {
		return 0, false
	}
	return r, true
}

// HelixRadiusForHexagon sizes the helix for a hexagonal cut using the
// inscribed circle. Returns false when the hexagon is too small.
func HelixRadiusForHexagon(flatToFlat, toolDiameter float64, compensation ops.CompensationMode) (float64, bool) {
	toolRadius := toolDiameter / 2
	apothem := flatToFlat / 2

	var available float64
	if compensation == ops.CompInterior {
		available = apothem - toolRadius - HelixClearance
	} else {
		available = apothem - HelixClearance
	}
	if available < MinHelixRadius {
		return 0, false
	}
	r := math.Min(available, toolRadius+HelixClearance)
	if r < MinHelixRadius {
		return 0, false
	}
	return r, true
}

// HelixStartPoint returns where the helix begins: on the helix circle
// at the approach angle.
func HelixStartPoint(center geom.Point, helixRadius, approachAngle float64) geom.Point {
	a := mathAngle(approachAngle)
	return geom.Pt(center.X+helixRadius*math.Cos(a), center.Y+helixRadius*math.Sin(a))
}

// HelixRevolutions returns how many full turns reach targetDepth at
// the given pitch. Always at least 1.
func HelixRevolutions(targetDepth, helixPitch float64) int {
	if helixPitch <= 0 {
		return 1
	}
	n := int(math.Ceil(targetDepth / helixPitch))
	if n < 1 {
		return 1
	}
	return n
}

// HelicalLeadIn emits the spiral descent: clockwise full-circle arcs
// with simultaneous Z motion, one per revolution, in absolute Z.
//
// When endFeed is positive the feed ramps toward it in quarter steps:
// revolutions take 25/50/75 percent of the range and the transition
// arc afterwards runs at full feed. A single revolution starts at 75
// percent; extra revolutions past the third hold at 75 percent.
func HelicalLeadIn(center geom.Point, helixRadius, targetDepth, helixPitch, plungeRate, approachAngle, endFeed float64) []string {
	revolutions := HelixRevolutions(targetDepth, helixPitch)
	a := mathAngle(approachAngle)

	start := geom.Pt(center.X+helixRadius*math.Cos(a), center.Y+helixRadius*math.Sin(a))
	i := -helixRadius * math.Cos(a)
	j := -helixRadius * math.Sin(a)

	depthPerRev := targetDepth / float64(revolutions)

	lines := make([]string, 0, revolutions)
	depth := 0.0
	for rev := 0; rev < revolutions; rev++ {
		depth += depthPerRev
		feed := helixRampFeed(rev, revolutions, plungeRate, endFeed)
		lines = append(lines, HelicalArc(CW, start.X, start.Y, -depth, i, j, feed))
	}
	return lines
}

// helixRampFeed picks the feed for one helix revolution. The three
// ramp steps sit at 25, 50 and 75 percent of the plunge-to-end range;
// fewer revolutions skip the early steps, extra revolutions hold the
// last one.
func helixRampFeed(rev, revolutions int, plungeRate, endFeed float64) float64 {
	if endFeed <= 0 {
		return plungeRate
	}
	stepPcts := [3]float64{0.25, 0.50, 0.75}
	var pct float64
	switch {
	case revolutions == 1:
		pct = 0.75
	case revolutions == 2:
		pct = stepPcts[rev+1]
	default:
		pct = stepPcts[min(rev, 2)]
	}
	return plungeRate + (endFeed-plungeRate)*pct
}

// HelicalPreamble emits the subroutine form of the spiral descent.
// Everything is relative: each full circle has zero XY displacement
// and drops one revolution of depth, so repeated M98 calls step down
// one pass per call.
func HelicalPreamble(helixRadius, passDepth, helixPitch, plungeRate, endFeed, approachAngle float64) []string {
	revolutions := HelixRevolutions(passDepth, helixPitch)
	depthPerRev := passDepth / float64(revolutions)
	a := mathAngle(approachAngle)
	i := -helixRadius * math.Cos(a)
	j := -helixRadius * math.Sin(a)

	lines := []string{"G91"}
	for rev := 0; rev < revolutions; rev++ {
		feed := helixRampFeed(rev, revolutions, plungeRate, endFeed)
		lines = append(lines, HelicalArc(CW, 0, 0, -depthPerRev, i, j, feed))
	}
	lines = append(lines, "G90")
	return lines
}

// HelicalTransitionRelative emits the relative arc that swings the
// tool from the helix circle out to the cut circle inside a
// subroutine. Returns nil when the radii already match.
func HelicalTransitionRelative(helixRadius, cutRadius, feedRate, approachAngle float64) []string {
	if math.Abs(helixRadius-cutRadius) < 0.001 {
		return nil
	}
	a := mathAngle(approachAngle)
	dx := (cutRadius - helixRadius) * math.Cos(a)
	dy := (cutRadius - helixRadius) * math.Sin(a)
	i := -helixRadius * math.Cos(a)
	j := -helixRadius * math.Sin(a)
	return []string{
		"G91",
		ArcXY(CW, dx, dy, i, j, feedRate),
		"G90",
	}
}

// HelicalToProfileCircle emits the transition arc from the helix circle
// out to the cut circle at the same approach angle. Returns nil when
// the radii already match.
func HelicalToProfileCircle(center geom.Point, helixRadius, cutRadius, feedRate, approachAngle float64) []string {
	if math.Abs(helixRadius-cutRadius) < 0.001 {
		return nil
	}
	a := mathAngle(approachAngle)
	target := geom.Pt(center.X+cutRadius*math.Cos(a), center.Y+cutRadius*math.Sin(a))
	i := -helixRadius * math.Cos(a)
	j := -helixRadius * math.Sin(a)
	return []string{ArcXY(CW, target.X, target.Y, i, j, feedRate)}
}

// RampEntry emits the combined XY+Z descent from the lead-in point to
// the profile start at cutting depth.
func RampEntry(profileStart geom.Point, depth, plungeRate float64) []string {
	return []string{LinearXYZ(profileStart.X, profileStart.Y, -depth, plungeRate)}
}

// RampPreamble emits the subroutine form of the ramp: a relative move
// covering the lead-in run and one pass of depth.
func RampPreamble(leadIn, profileStart geom.Point, passDepth, plungeRate float64) []string {
	dx := profileStart.X - leadIn.X
	dy := profileStart.Y - leadIn.Y
	return []string{
		"G91",
		LinearXYZ(dx, dy, -passDepth, plungeRate),
		"G90",
	}
}

// LeadOut returns the move from the profile end back to the lead-in
// point at cutting depth, clearing the tool off a closed profile.
func LeadOut(leadIn geom.Point, feedRate float64) []string {
	return []string{LinearXY(leadIn.X, leadIn.Y, feedRate)}
}

// AdjustHelixDepth rewrites the Z words of absolute helix lines from a
// single-pass depth to the cumulative depth of a later pass.
func AdjustHelixDepth(helixLines []string, passDepth, cumulativeDepth float64) []string {
	oldZ := "Z" + Coord(-passDepth)
	newZ := "Z" + Coord(-cumulativeDepth)
	adjusted := make([]string, len(helixLines))
	for idx, line := range helixLines {
		adjusted[idx] = strings.ReplaceAll(line, oldZ, newZ)
	}
	return adjusted
}
