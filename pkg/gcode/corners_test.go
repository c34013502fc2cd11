package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

func TestCornerFeedFactorBins(t *testing.T) {
	assert.InDelta(t, 1.0, CornerFeedFactor(180), 1e-9)
	assert.InDelta(t, 1.0, CornerFeedFactor(120), 1e-9)
	assert.InDelta(t, 0.75, CornerFeedFactor(119), 1e-9)
	assert.InDelta(t, 0.75, CornerFeedFactor(90), 1e-9)
	assert.InDelta(t, 0.50, CornerFeedFactor(89), 1e-9)
	assert.InDelta(t, 0.50, CornerFeedFactor(60), 1e-9)
	assert.InDelta(t, 0.40, CornerFeedFactor(45), 1e-9)
	assert.InDelta(t, 0.30, CornerFeedFactor(10), 1e-9)
}

func TestCornerFactorsSquare(t *testing.T) {
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 0, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 1},
		{Kind: ops.KindStraight, X: 0, Y: 1},
		{Kind: ops.KindStraight, X: 0, Y: 0},
	}
	factors := CornerFactors(path)
	assert.Len(t, factors, 5)
	// Endpoints never carry a factor; right angles bin at 0.75.
	assert.InDelta(t, 1.0, factors[0], 1e-9)
	assert.InDelta(t, 0.75, factors[1], 1e-9)
	assert.InDelta(t, 0.75, factors[2], 1e-9)
	assert.InDelta(t, 0.75, factors[3], 1e-9)
	assert.InDelta(t, 1.0, factors[4], 1e-9)
}

func TestCornerFactorsStraightLine(t *testing.T) {
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 0, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 0},
		{Kind: ops.KindStraight, X: 2, Y: 0},
	}
	for _, f := range CornerFactors(path) {
		assert.InDelta(t, 1.0, f, 1e-9)
	}
}

func TestCornerFactorsReversal(t *testing.T) {
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 0, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 0},
		{Kind: ops.KindStraight, X: 0, Y: 0},
	}
	factors := CornerFactors(path)
	assert.InDelta(t, 0.30, factors[1], 1e-9)
}

func TestCornerFactorsTangentArcIsNotACorner(t *testing.T) {
	// Straight +X into a CCW arc whose tangent at the joint is also +X.
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: -1, Y: 0},
		{Kind: ops.KindStraight, X: 0, Y: 0},
		{Kind: ops.KindArc, X: 1, Y: 1, Center: geom.Pt(0, 1), Hint: ops.ArcCCW},
	}
	factors := CornerFactors(path)
	assert.InDelta(t, 1.0, factors[1], 1e-9)
}

func TestCornerFactorsArcEndIntoPerpendicularLine(t *testing.T) {
	// CW half circle ends at (2,0) heading -Y; the following +X line
	// makes a right angle.
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 0, Y: 0},
		{Kind: ops.KindArc, X: 2, Y: 0, Center: geom.Pt(1, 0), Hint: ops.ArcCW},
		{Kind: ops.KindStraight, X: 3, Y: 0},
	}
	factors := CornerFactors(path)
	assert.InDelta(t, 0.75, factors[1], 1e-9)
}

func TestCornerFactorsShortPath(t *testing.T) {
	path := []ops.PathPoint{
		{Kind: ops.KindStart, X: 0, Y: 0},
		{Kind: ops.KindStraight, X: 1, Y: 0},
	}
	factors := CornerFactors(path)
	assert.Equal(t, []float64{1, 1}, factors)
}
