package ops

import "github.com/spindleworks/millpath/pkg/geom"

// CircleCut is one concrete circle after pattern expansion.
type CircleCut struct {
	OpIndex      int
	OpID         string
	Center       geom.Point
	Diameter     float64
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// HexCut is one concrete hexagon after pattern expansion.
type HexCut struct {
	OpIndex      int
	OpID         string
	Center       geom.Point
	FlatToFlat   float64
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// LineCut is one line-path operation. Line paths have no patterns, so
// expansion is a pass-through that records the source index.
type LineCut struct {
	OpIndex      int
	OpID         string
	Points       []PathPoint
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// DrillPoint is one concrete hole after pattern expansion. Grid holes
// keep their row/column so the assembler can reuse row subroutines.
type DrillPoint struct {
	OpIndex int
	OpID    string
	Point   geom.Point
}

// DrillGroup is the expansion of one drill operation with its pattern
// structure preserved. Linear patterns are grids with one row or column.
type DrillGroup struct {
	OpIndex  int
	OpID     string
	Points   []geom.Point
	XSpacing float64
	YSpacing float64
	XCount   int
	YCount   int
}

// Expanded is the concrete cut list produced from the operation list.
// Order within each slice follows the input operation order, and within
// a pattern the machining order (linear: index order; grid: row-major).
type Expanded struct {
	Drills   []DrillGroup
	Circles  []CircleCut
	Hexagons []HexCut
	Lines    []LineCut
}

// AllDrillPoints flattens the drill groups into individual holes.
func (e Expanded) AllDrillPoints() []DrillPoint {
	var pts []DrillPoint
	for _, g := range e.Drills {
		for _, p := range g.Points {
			pts = append(pts, DrillPoint{OpIndex: g.OpIndex, OpID: g.OpID, Point: p})
		}
	}
	return pts
}

// linearPoints lays out count points from start, stepping spacing along
// the axis.
func linearPoints(start geom.Point, axis Axis, spacing float64, count int) []geom.Point {
	pts := make([]geom.Point, 0, count)
	for i := 0; i < count; i++ {
		p := start
		if axis == AxisY {
			p.Y += float64(i) * spacing
		} else {
			p.X += float64(i) * spacing
		}
		pts = append(pts, p)
	}
	return pts
}

// gridPoints lays out a row-major grid: all X positions of row 0, then
// row 1, and so on.
func gridPoints(start geom.Point, xSpacing, ySpacing float64, xCount, yCount int) []geom.Point {
	pts := make([]geom.Point, 0, xCount*yCount)
	for row := 0; row < yCount; row++ {
		for col := 0; col < xCount; col++ {
			pts = append(pts, geom.Pt(
				start.X+float64(col)*xSpacing,
				start.Y+float64(row)*ySpacing,
			))
		}
	}
	return pts
}

// Expand converts the operation list into concrete cut lists. Patterns
// with zero counts expand to nothing; count and spacing sanity is the
// validator's concern, not the expander's.
func Expand(operations []Operation) Expanded {
	var out Expanded
	for i, op := range operations {
		switch o := op.(type) {
		case DrillSingle:
			out.Drills = append(out.Drills, DrillGroup{
				OpIndex: i, OpID: o.ID,
				Points: []geom.Point{geom.Pt(o.X, o.Y)},
				XCount: 1, YCount: 1,
			})
		case DrillLinear:
			g := DrillGroup{
				OpIndex: i, OpID: o.ID,
				Points: linearPoints(o.Start, o.Axis, o.Spacing, o.Count),
			}
			if o.Axis == AxisY {
				g.YSpacing, g.XCount, g.YCount = o.Spacing, 1, o.Count
			} else {
				g.XSpacing, g.XCount, g.YCount = o.Spacing, o.Count, 1
			}
			out.Drills = append(out.Drills, g)
		case DrillGrid:
			out.Drills = append(out.Drills, DrillGroup{
				OpIndex: i, OpID: o.ID,
				Points:   gridPoints(o.Start, o.XSpacing, o.YSpacing, o.XCount, o.YCount),
				XSpacing: o.XSpacing, YSpacing: o.YSpacing,
				XCount: o.XCount, YCount: o.YCount,
			})
		case CircleSingle:
			out.Circles = append(out.Circles, CircleCut{
				OpIndex: i, OpID: o.ID,
				Center: o.Center, Diameter: o.Diameter,
				Compensation: o.Compensation, LeadIn: o.LeadIn, HoldTime: o.HoldTime,
			})
		case CircleLinear:
			for _, p := range linearPoints(o.Start, o.Axis, o.Spacing, o.Count) {
				out.Circles = append(out.Circles, CircleCut{
					OpIndex: i, OpID: o.ID,
					Center: p, Diameter: o.Diameter,
					Compensation: o.Compensation, LeadIn: o.LeadIn, HoldTime: o.HoldTime,
				})
			}
		case HexSingle:
			out.Hexagons = append(out.Hexagons, HexCut{
				OpIndex: i, OpID: o.ID,
				Center: o.Center, FlatToFlat: o.FlatToFlat,
				Compensation: o.Compensation, LeadIn: o.LeadIn, HoldTime: o.HoldTime,
			})
		case HexLinear:
			for _, p := range linearPoints(o.Start, o.Axis, o.Spacing, o.Count) {
				out.Hexagons = append(out.Hexagons, HexCut{
					OpIndex: i, OpID: o.ID,
					Center: p, FlatToFlat: o.FlatToFlat,
					Compensation: o.Compensation, LeadIn: o.LeadIn, HoldTime: o.HoldTime,
				})
			}
		case LinePath:
			out.Lines = append(out.Lines, LineCut{
				OpIndex: i, OpID: o.ID,
				Points:       o.Points,
				Compensation: o.Compensation, LeadIn: o.LeadIn, HoldTime: o.HoldTime,
			})
		}
	}
	return out
}
