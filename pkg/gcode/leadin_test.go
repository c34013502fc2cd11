package gcode

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

func TestLeadInDistance(t *testing.T) {
	// 3 degree ramp over a 0.1" pass runs just under two inches.
	d := LeadInDistance(3, 0.1)
	assert.InDelta(t, 0.1/math.Tan(3*math.Pi/180), d, 1e-9)
	assert.InDelta(t, 1.908, d, 0.001)

	assert.InDelta(t, 0.25, LeadInDistance(0, 0.1), 1e-9)
	assert.InDelta(t, 0.25, LeadInDistance(3, 0), 1e-9)
}

func TestCircleLeadInPoint(t *testing.T) {
	// Approach from 3 o'clock: radially out along +X.
	p := CircleLeadInPoint(geom.Pt(2, 2), 0.375, 0.5, 90)
	assert.InDelta(t, 2.875, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)

	// Approach from the top.
	p = CircleLeadInPoint(geom.Pt(2, 2), 0.375, 0.5, 0)
	assert.InDelta(t, 2, p.X, 1e-9)
	assert.InDelta(t, 2.875, p.Y, 1e-9)
}

func TestHexagonLeadInPointEdgeDirection(t *testing.T) {
	verts := geom.HexagonVertices(geom.Pt(0, 0), 1)
	p := HexagonLeadInPoint(verts, geom.Pt(0, 0), 0.5, nil)

	// Extended backward along the first edge, away from vertex 1.
	dir := geom.DirectionVector(verts[0], verts[1])
	want := verts[0].Sub(dir.MulScalar(0.5))
	assert.InDelta(t, want.X, p.X, 1e-9)
	assert.InDelta(t, want.Y, p.Y, 1e-9)
}

func TestHexagonLeadInPointManualAngle(t *testing.T) {
	verts := geom.HexagonVertices(geom.Pt(0, 0), 1)
	angle := 90.0
	p := HexagonLeadInPoint(verts, geom.Pt(0, 0), 0.5, &angle)

	// Radially out at 3 o'clock, circumradius plus lead-in distance.
	r := 1/math.Sqrt(3) + 0.5
	assert.InDelta(t, r, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
}

func TestLineLeadInPointOpenPath(t *testing.T) {
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 1, Y: 1},
		{Kind: ops.KindStraight, X: 2, Y: 1},
	}
	p := LineLeadInPoint(path, 0.5, ops.CompNone, nil)
	assert.InDelta(t, 0.5, p.X, 1e-9)
	assert.InDelta(t, 1, p.Y, 1e-9)
}

func TestLineLeadInPointClosedInterior(t *testing.T) {
	// CCW square, first segment heads +X; interior is left, so the
	// lead-in lands inside the profile.
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 0, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 1},
		{Kind: ops.KindStraight, X: 0, Y: 1},
		{Kind: ops.KindStraight, X: 0, Y: 0},
	}
	p := LineLeadInPoint(path, 0.25, ops.CompInterior, nil)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0.25, p.Y, 1e-9)

	// Exterior waste side is the other way.
	p = LineLeadInPoint(path, 0.25, ops.CompExterior, nil)
	assert.InDelta(t, -0.25, p.Y, 1e-9)
}

func TestLineLeadInPointManualAngleOverrides(t *testing.T) {
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 1, Y: 1},
		{Kind: ops.KindStraight, X: 2, Y: 1},
	}
	angle := 0.0 // from the top
	p := LineLeadInPoint(path, 0.5, ops.CompNone, &angle)
	assert.InDelta(t, 1, p.X, 1e-9)
	assert.InDelta(t, 1.5, p.Y, 1e-9)
}

func TestHelixRadiusForCircle(t *testing.T) {
	// Roomy circle: helix hugs the tool radius plus clearance.
	r, ok := HelixRadiusForCircle(0.375, 0.25)
	require.True(t, ok)
	assert.InDelta(t, 0.15, r, 1e-9)

	// Tight circle: capped by the available space.
	r, ok = HelixRadiusForCircle(0.1, 0.25)
	require.True(t, ok)
	assert.InDelta(t, 0.075, r, 1e-9)

	// Too small for any helix.
	_, ok = HelixRadiusForCircle(0.05, 0.1)
	assert.False(t, ok)
}

func TestHelixRadiusForHexagon(t *testing.T) {
	r, ok := HelixRadiusForHexagon(1.0, 0.125, ops.CompInterior)
	require.True(t, ok)
	assert.InDelta(t, 0.0875, r, 1e-9)

	// Exterior cuts keep the tool radius available.
	rExt, ok := HelixRadiusForHexagon(0.25, 0.125, ops.CompExterior)
	require.True(t, ok)
	assert.InDelta(t, 0.0875, rExt, 1e-9)

	// Interior on the same hexagon has no room.
	_, ok = HelixRadiusForHexagon(0.25, 0.125, ops.CompInterior)
	assert.False(t, ok)
}

func TestHelixRevolutions(t *testing.T) {
	assert.Equal(t, 3, HelixRevolutions(0.1, 0.04))
	assert.Equal(t, 1, HelixRevolutions(0.03, 0.04))
	assert.Equal(t, 1, HelixRevolutions(0.1, 0))
}

func TestHelixStartPoint(t *testing.T) {
	p := HelixStartPoint(geom.Pt(2, 2), 0.15, 90)
	assert.InDelta(t, 2.15, p.X, 1e-9)
	assert.InDelta(t, 2, p.Y, 1e-9)
}

func TestHelicalLeadInDescendsPerRevolution(t *testing.T) {
	lines := HelicalLeadIn(geom.Pt(1, 1), 0.1, 0.08, 0.04, 8, 90, 0)
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "G02 X1.1000 Y1.0000 Z-0.0400")
	assert.Contains(t, lines[1], "Z-0.0800")
	// No end feed: all revolutions at plunge rate.
	assert.Contains(t, lines[0], "F8.0")
	assert.Contains(t, lines[1], "F8.0")
}

func TestHelicalLeadInFeedRamp(t *testing.T) {
	lines := HelicalLeadIn(geom.Pt(1, 1), 0.1, 0.12, 0.04, 8, 90, 48)
	require.Len(t, lines, 3)
	// 25/50/75 percent of the 8..48 range.
	assert.Contains(t, lines[0], "F18.0")
	assert.Contains(t, lines[1], "F28.0")
	assert.Contains(t, lines[2], "F38.0")
}

func TestHelicalLeadInSingleRevolutionStartsHigh(t *testing.T) {
	lines := HelicalLeadIn(geom.Pt(1, 1), 0.1, 0.04, 0.04, 8, 90, 48)
	require.Len(t, lines, 1)
	// One revolution jumps straight to the 75 percent step.
	assert.Contains(t, lines[0], "F38.0")
}

func TestHelicalPreambleIsRelative(t *testing.T) {
	lines := HelicalPreamble(0.15, 0.0416667, 0.04, 8, 0, 90)
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "G91", lines[0])
	assert.Equal(t, "G90", lines[len(lines)-1])
	for _, l := range lines[1 : len(lines)-1] {
		assert.True(t, strings.HasPrefix(l, "G02 X0.0000 Y0.0000 Z-"), l)
	}
}

func TestHelicalTransitionRelative(t *testing.T) {
	lines := HelicalTransitionRelative(0.15, 0.375, 8, 90)
	require.Len(t, lines, 3)
	assert.Equal(t, "G91", lines[0])
	assert.Contains(t, lines[1], "G02 X0.2250")
	assert.Equal(t, "G90", lines[2])

	assert.Nil(t, HelicalTransitionRelative(0.375, 0.375, 8, 90))
}

func TestHelicalToProfileCircle(t *testing.T) {
	lines := HelicalToProfileCircle(geom.Pt(2, 2), 0.15, 0.375, 10, 90)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "G02 X2.3750 Y2.0000")
	assert.Contains(t, lines[0], "I-0.1500")

	assert.Nil(t, HelicalToProfileCircle(geom.Pt(2, 2), 0.375, 0.375, 10, 90))
}

func TestAdjustHelixDepth(t *testing.T) {
	lines := []string{
		"G02 X1.1000 Y1.0000 Z-0.0200 I-0.1000 J-0.0000 F8.0",
		"G02 X1.1000 Y1.0000 Z-0.0400 I-0.1000 J-0.0000 F8.0",
	}
	out := AdjustHelixDepth(lines, 0.04, 0.12)
	assert.Contains(t, out[0], "Z-0.0200")
	assert.Contains(t, out[1], "Z-0.1200")
	assert.NotContains(t, out[1], "Z-0.0400")
}

func TestRampPreambleCoversLeadInRun(t *testing.T) {
	lines := RampPreamble(geom.Pt(0.5, 1), geom.Pt(1, 1), 0.05, 5)
	require.Len(t, lines, 3)
	assert.Equal(t, "G91", lines[0])
	assert.Equal(t, "G01 X0.5000 Y0.0000 Z-0.0500 F5.0", lines[1])
	assert.Equal(t, "G90", lines[2])
}

func TestLeadOut(t *testing.T) {
	lines := LeadOut(geom.Pt(0.5, 1), 10)
	require.Len(t, lines, 1)
	assert.Equal(t, "G01 X0.5000 Y1.0000 F10.0", lines[0])
}
