package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleworks/millpath/pkg/geom"
)

var testBounds = Bounds{MaxX: 24, MaxY: 24}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateAcceptsInBoundsOperations(t *testing.T) {
	errs := Validate([]Operation{
		DrillSingle{X: 1, Y: 1},
		CircleSingle{Center: geom.Pt(5, 5), Diameter: 2},
		HexSingle{Center: geom.Pt(10, 10), FlatToFlat: 0.75},
		DrillGrid{Start: geom.Pt(1, 1), XSpacing: 1, YSpacing: 1, XCount: 5, YCount: 5},
	}, testBounds)
	assert.Empty(t, errs)
}

func TestValidateCircleTouchingEnvelopeEdge(t *testing.T) {
	// Radius reaches exactly to the boundary: allowed.
	errs := Validate([]Operation{
		CircleSingle{Center: geom.Pt(23, 12), Diameter: 2},
	}, testBounds)
	assert.Empty(t, errs)

	// One thousandth past it: rejected.
	errs = Validate([]Operation{
		CircleSingle{Center: geom.Pt(23.001, 12), Diameter: 2},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeOutOfBounds, errs[0].Code)
}

func TestValidatePatternExtent(t *testing.T) {
	// 10 holes at 3 in spacing from x=1 ends at x=28, past the envelope.
	errs := Validate([]Operation{
		DrillLinear{ID: "row", Start: geom.Pt(1, 1), Axis: AxisX, Spacing: 3, Count: 10},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeOutOfBounds, errs[0].Code)
	assert.Equal(t, "row", errs[0].OpID)
	assert.Equal(t, 0, errs[0].OpIndex)
}

func TestValidatePatternCounts(t *testing.T) {
	errs := Validate([]Operation{
		DrillLinear{Start: geom.Pt(1, 1), Axis: AxisX, Spacing: 1, Count: 0},
		CircleLinear{Start: geom.Pt(1, 1), Axis: AxisX, Spacing: 0, Count: 3, Diameter: 0.5},
		DrillGrid{Start: geom.Pt(1, 1), XCount: 0, YCount: 2},
	}, testBounds)
	assert.Contains(t, codes(errs), CodeBadPattern)
	assert.Len(t, errs, 3)
	for _, e := range errs {
		assert.Equal(t, CodeBadPattern, e.Code)
	}
}

func TestValidateSingleItemPatternIgnoresSpacing(t *testing.T) {
	errs := Validate([]Operation{
		DrillLinear{Start: geom.Pt(1, 1), Axis: AxisX, Spacing: 0, Count: 1},
	}, testBounds)
	assert.Empty(t, errs)
}

func TestValidateDimensions(t *testing.T) {
	errs := Validate([]Operation{
		CircleSingle{Center: geom.Pt(5, 5), Diameter: 0},
		HexSingle{Center: geom.Pt(5, 5), FlatToFlat: -1},
	}, testBounds)
	require.Len(t, errs, 2)
	assert.Equal(t, CodeBadDimension, errs[0].Code)
	assert.Equal(t, CodeBadDimension, errs[1].Code)
}

func TestValidateLinePathStructure(t *testing.T) {
	errs := Validate([]Operation{
		LinePath{Points: []PathPoint{{Kind: KindStart, X: 1, Y: 1}}},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeBadPath, errs[0].Code)

	errs = Validate([]Operation{
		LinePath{Points: []PathPoint{
			{Kind: KindStraight, X: 1, Y: 1},
			{Kind: KindStraight, X: 2, Y: 1},
		}},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeBadPath, errs[0].Code)

	errs = Validate([]Operation{
		LinePath{Points: []PathPoint{
			{Kind: KindStart, X: 1, Y: 1},
			{Kind: KindStart, X: 2, Y: 1},
		}},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeBadPath, errs[0].Code)
}

func TestValidateLinePathArcExtent(t *testing.T) {
	// Arc circle pokes below y=0 even though both endpoints are inside.
	errs := Validate([]Operation{
		LinePath{Points: []PathPoint{
			{Kind: KindStart, X: 1, Y: 1},
			{Kind: KindArc, X: 5, Y: 1, Center: geom.Pt(3, 1)},
		}},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeOutOfBounds, errs[0].Code)
}

func TestValidateHexagonUsesCircumradiusExtent(t *testing.T) {
	// Flat-to-flat fits, but the top vertex reaches past the envelope.
	f := 1.0
	r := geom.HexCircumradius(f)
	errs := Validate([]Operation{
		HexSingle{Center: geom.Pt(12, 24 - r + 0.01), FlatToFlat: f},
	}, testBounds)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeOutOfBounds, errs[0].Code)
}

func TestValidateCollectsAllFindings(t *testing.T) {
	errs := Validate([]Operation{
		DrillSingle{X: -1, Y: 1},
		CircleSingle{Center: geom.Pt(5, 5), Diameter: -2},
	}, testBounds)
	assert.Len(t, errs, 2)
	assert.Equal(t, 0, errs[0].OpIndex)
	assert.Equal(t, 1, errs[1].OpIndex)
}

func TestArcGeometryWarnings(t *testing.T) {
	// Endpoints equidistant from center: clean.
	clean := LineCut{Points: []PathPoint{
		{Kind: KindStart, X: 0, Y: 0},
		{Kind: KindArc, X: 2, Y: 0, Center: geom.Pt(1, 0)},
	}}
	assert.Empty(t, ArcGeometryWarnings(0, clean))

	// End radius disagrees with start radius.
	skewed := LineCut{OpID: "arc1", Points: []PathPoint{
		{Kind: KindStart, X: 0, Y: 0},
		{Kind: KindArc, X: 2.1, Y: 0, Center: geom.Pt(1, 0)},
	}}
	warnings := ArcGeometryWarnings(3, skewed)
	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].OpIndex)
	assert.Equal(t, "arc1", warnings[0].OpID)
	assert.Contains(t, warnings[0].Message, "radius")
}

func TestParseHelpers(t *testing.T) {
	m, err := ParseCompensation("Interior")
	require.NoError(t, err)
	assert.Equal(t, CompInterior, m)

	_, err = ParseCompensation("sideways")
	assert.Error(t, err)

	h, err := ParseArcHint("CW")
	require.NoError(t, err)
	assert.Equal(t, ArcCW, h)

	lt, err := ParseLeadInType("helical")
	require.NoError(t, err)
	assert.Equal(t, LeadHelical, lt)

	a, err := ParseAxis("y")
	require.NoError(t, err)
	assert.Equal(t, AxisY, a)
}
