package gcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindleworks/millpath/pkg/comp"
	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

func cutParamsForTest() *ToolParams {
	return &ToolParams{
		SpindleSpeed: 5000,
		FeedRate:     10,
		PlungeRate:   5,
		PassDepth:    0.05,
		ToolDiameter: 0.25,
	}
}

func interiorCircle(d float64, center geom.Point) ops.CircleCut {
	return ops.CircleCut{
		Center:       center,
		Diameter:     d,
		Compensation: ops.CompInterior,
		LeadIn:       ops.AutoLeadIn(),
	}
}

func TestGenerateCircleWithSubroutines(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "Test Part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	assert.Equal(t, "Test_Part", res.ProjectName)
	assert.Empty(t, res.Warnings)

	lines := strings.Split(res.Main, "\n")
	assert.Equal(t, "G20 G90", lines[0])
	assert.Equal(t, "M03 S5000", lines[3])
	assert.Equal(t, "G04 P2", lines[4])
	assert.Equal(t, "M30", lines[len(lines)-1])

	// Cut radius 0.375, helix radius 0.15: rapid to the helix start.
	assert.Contains(t, res.Main, "G00 X2.1500 Y2.0000 Z0.2000")
	assert.Contains(t, res.Main, `M98 (-C:\Mach3\GCode\Test_Part\1100.nc) L3`)

	require.Contains(t, res.Subroutines, 1100)
	sub := res.Subroutines[1100]
	assert.Contains(t, sub, "G91")
	assert.Contains(t, sub, "G02 I-0.3750")
	assert.True(t, strings.HasSuffix(sub, "M99\n%"))
}

func TestGenerateCirclesShareSubroutinePerGroup(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{
			interiorCircle(1.0, geom.Pt(2, 2)),
			interiorCircle(1.0, geom.Pt(4, 2)),
			interiorCircle(0.75, geom.Pt(6, 2)),
		},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	// Identical circles share 1100; the odd diameter gets 1101.
	assert.Len(t, res.Subroutines, 2)
	assert.Equal(t, 2, strings.Count(res.Main, `1100.nc`))
	assert.Equal(t, 1, strings.Count(res.Main, `1101.nc`))
}

func TestGenerateCircleHelicalFallbackWarns(t *testing.T) {
	params := cutParamsForTest()
	params.ToolDiameter = 0.1

	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(0.2, geom.Pt(1, 1))},
	}, nil, params)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, `Circle d=0.2" too small for helical lead-in, using ramp`, res.Warnings[0])
}

func TestGenerateAbortsOnImpossibleCompensation(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{{
			OpIndex:      0,
			OpID:         "c1",
			Center:       geom.Pt(1, 1),
			Diameter:     0.2,
			Compensation: ops.CompInterior,
			LeadIn:       ops.AutoLeadIn(),
		}},
	}, nil, cutParamsForTest())

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "operation 0 (c1)")
	var gerr comp.GeometryError
	assert.ErrorAs(t, err, &gerr)
}

func TestGenerateCircleInlineWithoutSubroutines(t *testing.T) {
	settings := DefaultSettings()
	settings.SupportsSubroutines = false

	g := NewGenerator(settings, "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	assert.Empty(t, res.Subroutines)
	assert.NotContains(t, res.Main, "M98")

	// Absolute helix at the start point, then the transition out to the
	// cut circle and the full circle at arc-reduced feed.
	assert.Contains(t, res.Main, "G02 X2.1500 Y2.0000 Z-")
	assert.Contains(t, res.Main, "G02 X2.3750 Y2.0000")
	assert.Contains(t, res.Main, "F5.6") // 10 * 0.7 first pass * 0.8 arc
	// Final pass lead-out at full feed.
	assert.Contains(t, res.Main, "G01 X2.1500 Y2.0000 F10.0")
}

func TestGenerateManualLeadInCircleIsAlwaysInline(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{{
			Center:       geom.Pt(2, 2),
			Diameter:     1.0,
			Compensation: ops.CompInterior,
			LeadIn:       ops.LeadInSpec{Manual: true, Type: ops.LeadHelical, ApproachAngle: 0},
		}},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	assert.Empty(t, res.Subroutines)
	// Approach from the top: helix start sits above the center.
	assert.Contains(t, res.Main, "G00 X2.0000 Y2.1500 Z0.2000")
}

func TestGenerateDrillLinear(t *testing.T) {
	drill := &ToolParams{
		SpindleSpeed: 3000,
		FeedRate:     10,
		PlungeRate:   5,
		PeckingDepth: 0.05,
		ToolDiameter: 0.125,
	}

	g := NewGenerator(DefaultSettings(), "Test Part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Drills: []ops.DrillGroup{{
			Points: []geom.Point{
				geom.Pt(1, 1), geom.Pt(1.5, 1), geom.Pt(2, 1), geom.Pt(2.5, 1),
			},
			XSpacing: 0.5,
			XCount:   4,
			YCount:   1,
		}},
	}, drill, nil)
	require.NoError(t, err)

	assert.Contains(t, res.Main, "M03 S3000")
	assert.Contains(t, res.Main, "G00 X1.0000 Y1.0000 Z0.2000")
	assert.Contains(t, res.Main, `M98 (-C:\Mach3\GCode\Test_Part\1000.nc) L4`)

	require.Contains(t, res.Subroutines, 1000)
	sub := res.Subroutines[1000]
	assert.True(t, strings.HasPrefix(sub, "G00 Z0\nG91"))
	assert.Contains(t, sub, "G00 X0.5000")
}

func TestGenerateSingleDrillInline(t *testing.T) {
	drill := &ToolParams{SpindleSpeed: 3000, PlungeRate: 5, PeckingDepth: 0.05}

	g := NewGenerator(DefaultSettings(), "part", 0.1)
	res, err := g.Generate(ops.Expanded{
		Drills: []ops.DrillGroup{{
			Points: []geom.Point{geom.Pt(1, 1)},
			XCount: 1, YCount: 1,
		}},
	}, drill, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Subroutines)
	assert.NotContains(t, res.Main, "M98")
	assert.Contains(t, res.Main, "G00 X1.0000 Y1.0000 Z0.2000")
	assert.Contains(t, res.Main, "G01 Z-0.0500 F5.0")
	assert.Contains(t, res.Main, "G01 Z-0.1000 F5.0")
}

func TestGenerateDrillGridCallsRowPerY(t *testing.T) {
	drill := &ToolParams{SpindleSpeed: 3000, PlungeRate: 5, PeckingDepth: 0.05}

	g := NewGenerator(DefaultSettings(), "part", 0.1)
	res, err := g.Generate(ops.Expanded{
		Drills: []ops.DrillGroup{{
			Points: []geom.Point{
				geom.Pt(1, 1), geom.Pt(1.5, 1),
				geom.Pt(1, 1.5), geom.Pt(1.5, 1.5),
			},
			XSpacing: 0.5,
			YSpacing: 0.5,
			XCount:   2,
			YCount:   2,
		}},
	}, drill, nil)
	require.NoError(t, err)

	assert.Len(t, res.Subroutines, 1)
	assert.Equal(t, 2, strings.Count(res.Main, "M98"))
	assert.Contains(t, res.Main, "G00 X1.0000 Y1.0000 Z0.2000")
	assert.Contains(t, res.Main, "G00 X1.0000 Y1.5000 Z0.2000")
}

func TestGenerateHexagon(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Hexagons: []ops.HexCut{{
			Center:       geom.Pt(3, 3),
			FlatToFlat:   1.0,
			Compensation: ops.CompInterior,
			LeadIn:       ops.AutoLeadIn(),
		}},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	require.Contains(t, res.Subroutines, 1200)
	// Helix radius 0.15 fits inside the 0.5 apothem.
	assert.Contains(t, res.Main, "G00 X3.1500 Y3.0000 Z0.2000")
	assert.Contains(t, res.Main, `1200.nc) L3`)
	assert.Empty(t, res.Warnings)
}

func TestGenerateHexagonHelicalFallbackWarns(t *testing.T) {
	params := cutParamsForTest()
	params.ToolDiameter = 0.125

	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Hexagons: []ops.HexCut{{
			Center:       geom.Pt(3, 3),
			FlatToFlat:   0.25,
			Compensation: ops.CompInterior,
			LeadIn:       ops.AutoLeadIn(),
		}},
	}, nil, params)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t,
		`Hexagon ftf=0.25" at (3, 3) too small for helical lead-in, using ramp`,
		res.Warnings[0])
}

func TestGenerateLinePath(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Lines: []ops.LineCut{{
			Points: []ops.PathPoint{
				{Kind: ops.KindStart, X: 1, Y: 1},
				{Kind: ops.KindStraight, X: 3, Y: 1},
				{Kind: ops.KindStraight, X: 3, Y: 2},
			},
			Compensation: ops.CompNone,
			LeadIn:       ops.AutoLeadIn(),
		}},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	require.Contains(t, res.Subroutines, 1300)
	assert.Contains(t, res.Main, `1300.nc) L3`)

	// Default line lead-in is a ramp extending backward along the first
	// segment; pass depth 0.05 at 3 degrees runs about 0.954 inches.
	d := LeadInDistance(3, 0.05)
	assert.Contains(t, res.Main, RapidXYZ(1-d, 1, 0.2))
}

func TestGenerateParamWarningsSurface(t *testing.T) {
	params := cutParamsForTest()
	params.PlungeRate = 12
	params.PassDepth = 0.2 // over half the 0.25 tool

	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
	}, nil, params)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "plunge rate 12.0 exceeds feed rate 10.0")
	assert.Contains(t, res.Warnings[1], "pass depth 0.2000 exceeds 50% of tool diameter")
}

func TestGenerateEmptyProgramIsHeaderAndFooter(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{}, nil, cutParamsForTest())
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"G20 G90",
		"G00 X0 Y0 Z0",
		"G00 Z0.5000",
		"M03 S5000",
		"G04 P2",
		"M05",
		"G00 Z0.5000",
		"G00 X0 Y0",
		"M30",
	}, "\n"), res.Main)
}

func TestGenerateOutputHasNoCommentsOutsideCalls(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	for _, line := range strings.Split(res.Main, "\n") {
		if strings.HasPrefix(line, "M98") {
			continue
		}
		assert.NotContains(t, line, "(")
	}
	for _, sub := range res.Subroutines {
		assert.NotContains(t, sub, "(")
	}
}

func TestGenerateWarnsWhenLeadInDisabled(t *testing.T) {
	settings := DefaultSettings()
	settings.CircleLeadIn = ops.LeadNone

	g := NewGenerator(settings, "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
		Lines: []ops.LineCut{{
			Points: []ops.PathPoint{
				{Kind: ops.KindStart, X: 1, Y: 1},
				{Kind: ops.KindStraight, X: 2, Y: 1},
			},
			LeadIn: ops.LeadInSpec{Manual: true, Type: ops.LeadNone},
		}},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "lead-in disabled for circle, line cuts, entries will plunge vertically", res.Warnings[0])
}

func TestGenerateNoLeadInWarningWhenEnabled(t *testing.T) {
	g := NewGenerator(DefaultSettings(), "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
	}, nil, cutParamsForTest())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestGenerateLeadInDistanceOverride(t *testing.T) {
	settings := DefaultSettings()
	settings.CircleLeadIn = ops.LeadRamp
	settings.LeadInDistance = 0.1

	g := NewGenerator(settings, "part", 0.125)
	res, err := g.Generate(ops.Expanded{
		Circles: []ops.CircleCut{interiorCircle(1.0, geom.Pt(2, 2))},
	}, nil, cutParamsForTest())
	require.NoError(t, err)

	// Cut radius 0.375 plus the fixed 0.1 lead-in, not the distance
	// derived from the ramp angle.
	assert.Contains(t, res.Main, "G00 X2.4750 Y2.0000 Z0.2000")
	require.Contains(t, res.Subroutines, 1100)
	assert.Contains(t, res.Subroutines[1100], "G01 X-0.1000")
}
