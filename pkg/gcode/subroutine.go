package gcode

import (
	"math"
	"strings"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// Subroutine numbers are allocated per operation family so a reader
// can tell a drill cycle from a profile cut by file name alone.
type SubroutineKind int

const (
	SubDrill SubroutineKind = iota
	SubCircular
	SubHexagonal
	SubLine
)

func subroutineRange(kind SubroutineKind) (int, int) {
	switch kind {
	case SubCircular:
		return 1100, 1199
	case SubHexagonal:
		return 1200, 1299
	case SubLine:
		return 1300, 1399
	default:
		return 1000, 1099
	}
}

// Allocator hands out subroutine numbers within each family's range.
type Allocator struct {
	used map[int]bool
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{used: make(map[int]bool)}
}

// Next reserves and returns the lowest free number in the family's
// range. A full range overflows past its end rather than failing.
func (a *Allocator) Next(kind SubroutineKind) int {
	start, end := subroutineRange(kind)
	for n := start; n <= end; n++ {
		if !a.used[n] {
			a.used[n] = true
			return n
		}
	}
	n := end + 1
	for a.used[n] {
		n++
	}
	a.used[n] = true
	return n
}

// SubroutineFile wraps commands into a complete subroutine: body, M99,
// and the trailing % the controller needs for L-repeat calls.
func SubroutineFile(commands []string) string {
	return strings.Join(append(commands, SubroutineEnd()...), "\n")
}

// CutPreamble is the vertical-plunge entry for cut subroutines: one
// pass of relative Z descent so L-repeat calls stack passes.
func CutPreamble(passDepth, plungeRate float64) []string {
	return []string{
		"G91",
		LinearZ(-passDepth, plungeRate),
		"G90",
	}
}

// RampPreambleCircle is the ramp entry for circle subroutines: a
// relative move from the lead-in point toward the profile start,
// descending one pass. The Y word is omitted when the approach is
// horizontal.
func RampPreambleCircle(leadInDistance, passDepth, plungeRate, approachAngle float64) []string {
	a := mathAngle(approachAngle)
	dx := -leadInDistance * math.Cos(a)
	dy := -leadInDistance * math.Sin(a)

	move := "G01 X" + Coord(dx)
	if math.Abs(dy) >= 1e-4 {
		move += " Y" + Coord(dy)
	}
	move += " Z" + Coord(-passDepth) + " F" + FeedRate(plungeRate)
	return []string{"G91", move, "G90"}
}

// insertDwell places a per-pass dwell right after the G91, before the
// plunge, so the spindle settles at the top of each pass.
func insertDwell(lines []string, holdTime float64) []string {
	if holdTime <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[0], DwellMS(holdTime))
	out = append(out, lines[1:]...)
	return out
}

// PeckDrillSubroutine drills one hole with chip-clearing peck cycles
// and then steps to the next hole along the pattern axis. Everything
// after the initial Z0 is relative so the L parameter walks the whole
// row.
func PeckDrillSubroutine(pecks []float64, plungeRate, travelHeight float64, axis ops.Axis, spacing float64) string {
	lines := []string{"G00 Z0", "G91"}

	for _, peck := range pecks {
		lines = append(lines, LinearZ(-peck, plungeRate))
		lines = append(lines, "G00 Z"+Coord(peck))
	}

	lines = append(lines, "G00 Z"+Coord(travelHeight))
	if axis == ops.AxisX {
		lines = append(lines, "G00 X"+Coord(spacing))
	} else {
		lines = append(lines, "G00 Y"+Coord(spacing))
	}
	lines = append(lines, "G90")

	return SubroutineFile(lines)
}

// CircleSpec configures one shared circle subroutine.
type CircleSpec struct {
	CutRadius      float64
	PassDepth      float64
	PlungeRate     float64
	FeedRate       float64
	LeadInDistance float64
	LeadInType     ops.LeadInType
	HelixRadius    float64 // 0 when helical entry is unavailable
	HelixPitch     float64
	ApproachAngle  float64
	HoldTime       float64
	ArcFeedFactor  float64
}

// CirclePassSubroutine cuts one full circle at one pass of relative
// depth. Entry is helical, ramped or a vertical plunge; a closed
// lead-out returns the tool to its entry position for the next call.
func CirclePassSubroutine(spec CircleSpec) string {
	arcFeed := spec.FeedRate * spec.ArcFeedFactor
	a := mathAngle(spec.ApproachAngle)

	var lines []string
	helical := spec.LeadInType == ops.LeadHelical && spec.HelixRadius > 0
	ramped := spec.LeadInType == ops.LeadRamp && spec.LeadInDistance > 0

	switch {
	case helical:
		lines = HelicalPreamble(spec.HelixRadius, spec.PassDepth, spec.HelixPitch, spec.PlungeRate, arcFeed, spec.ApproachAngle)
		lines = append(lines, HelicalTransitionRelative(spec.HelixRadius, spec.CutRadius, arcFeed, spec.ApproachAngle)...)
	case ramped:
		lines = RampPreambleCircle(spec.LeadInDistance, spec.PassDepth, spec.PlungeRate, spec.ApproachAngle)
	default:
		lines = CutPreamble(spec.PassDepth, spec.PlungeRate)
	}

	lines = insertDwell(lines, spec.HoldTime)

	iOff := -spec.CutRadius * math.Cos(a)
	jOff := -spec.CutRadius * math.Sin(a)
	lines = append(lines, FullCircle(iOff, jOff, arcFeed))

	switch {
	case helical:
		if math.Abs(spec.HelixRadius-spec.CutRadius) > 0.001 {
			dx := (spec.HelixRadius - spec.CutRadius) * math.Cos(a)
			dy := (spec.HelixRadius - spec.CutRadius) * math.Sin(a)
			lines = append(lines,
				"G91",
				ArcXY(CW, dx, dy, iOff, jOff, arcFeed),
				"G90",
			)
		}
	case ramped:
		dx := spec.LeadInDistance * math.Cos(a)
		dy := spec.LeadInDistance * math.Sin(a)
		move := "G01 X" + Coord(dx)
		if math.Abs(dy) >= 1e-4 {
			move += " Y" + Coord(dy)
		}
		move += " F" + FeedRate(spec.FeedRate)
		lines = append(lines, "G91", move, "G90")
	}

	return SubroutineFile(lines)
}

// HexagonSpec configures one hexagon subroutine.
type HexagonSpec struct {
	Vertices      [6]geom.Point
	Center        geom.Point
	PassDepth     float64
	PlungeRate    float64
	FeedRate      float64
	LeadInPoint   *geom.Point
	LeadInType    ops.LeadInType
	HelixRadius   float64
	HelixPitch    float64
	ApproachAngle float64
	HoldTime      float64
	ArcFeedFactor float64
}

// HexagonPassSubroutine cuts around all six vertices at one pass of
// relative depth. Profile moves are linear; only a helical entry
// carries the arc feed reduction.
func HexagonPassSubroutine(spec HexagonSpec) string {
	arcFeed := spec.FeedRate * spec.ArcFeedFactor
	v0 := spec.Vertices[0]

	var lines []string
	var leadOut *geom.Point

	helical := spec.LeadInType == ops.LeadHelical && spec.HelixRadius > 0
	switch {
	case helical:
		lines = HelicalPreamble(spec.HelixRadius, spec.PassDepth, spec.HelixPitch, spec.PlungeRate, arcFeed, spec.ApproachAngle)
		lines = append(lines, LinearXY(v0.X, v0.Y, spec.FeedRate))
		end := HelixStartPoint(spec.Center, spec.HelixRadius, spec.ApproachAngle)
		leadOut = &end
	case spec.LeadInType == ops.LeadRamp && spec.LeadInPoint != nil:
		lines = RampPreamble(*spec.LeadInPoint, v0, spec.PassDepth, spec.PlungeRate)
		leadOut = spec.LeadInPoint
	default:
		lines = CutPreamble(spec.PassDepth, spec.PlungeRate)
	}

	lines = insertDwell(lines, spec.HoldTime)

	for i := 1; i < 6; i++ {
		lines = append(lines, LinearXY(spec.Vertices[i].X, spec.Vertices[i].Y, spec.FeedRate))
	}
	lines = append(lines, LinearXYNoFeed(v0.X, v0.Y))

	if leadOut != nil {
		lines = append(lines, LinearXYNoFeed(leadOut.X, leadOut.Y))
	}

	return SubroutineFile(lines)
}

// LinePathSubroutine cuts one pass of a line path at relative depth.
// The path must already be tool-compensated; feeds are flat because
// per-point slowdowns only apply to inline programs.
func LinePathSubroutine(path []ops.PathPoint, passDepth, plungeRate, feedRate float64, leadInPoint *geom.Point, holdTime float64) string {
	if len(path) == 0 {
		return SubroutineFile(nil)
	}

	start := path[0].Point()

	var lines []string
	if leadInPoint != nil {
		lines = RampPreamble(*leadInPoint, start, passDepth, plungeRate)
	} else {
		lines = CutPreamble(passDepth, plungeRate)
	}
	lines = insertDwell(lines, holdTime)

	current := start
	for _, p := range path[1:] {
		target := p.Point()
		if p.Kind == ops.KindArc {
			dir := ResolveDirection(current, target, p.Center, p.Hint)
			i, j := IJOffsets(current, p.Center)
			lines = append(lines, ArcXY(dir, target.X, target.Y, i, j, feedRate))
		} else {
			lines = append(lines, LinearXY(target.X, target.Y, feedRate))
		}
		current = target
	}

	if leadInPoint != nil && ops.PathClosed(path) {
		lines = append(lines, LinearXYNoFeed(leadInPoint.X, leadInPoint.Y))
	}

	return SubroutineFile(lines)
}
