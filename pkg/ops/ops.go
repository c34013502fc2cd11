// Package ops defines the machining operation model: the tagged union of
// user-specified operations, path points for line cuts, compensation and
// lead-in specifications, pattern expansion and pre-generation validation.
package ops

import (
	"fmt"
	"strings"

	"github.com/spindleworks/millpath/pkg/geom"
)

// CompensationMode selects which side of a feature boundary the tool
// center travels on.
type CompensationMode int

const (
	// CompNone follows the nominal boundary with the tool center.
	CompNone CompensationMode = iota
	// CompInterior moves the toolpath toward the enclosed area.
	CompInterior
	// CompExterior moves the toolpath away from the enclosed area.
	CompExterior
)

func (m CompensationMode) String() string {
	switch m {
	case CompInterior:
		return "interior"
	case CompExterior:
		return "exterior"
	default:
		return "none"
	}
}

// ParseCompensation converts the wire spelling of a compensation mode.
// The empty string means none.
func ParseCompensation(s string) (CompensationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompNone, nil
	case "interior":
		return CompInterior, nil
	case "exterior":
		return CompExterior, nil
	}
	return CompNone, fmt.Errorf("unknown compensation mode %q", s)
}

// LeadInType selects the entry motion before lateral cutting begins.
type LeadInType int

const (
	// LeadNone plunges vertically at the profile start.
	LeadNone LeadInType = iota
	// LeadRamp descends along a combined lateral+Z move from a lead-in point.
	LeadRamp
	// LeadHelical spirals down via arc passes before joining the profile.
	LeadHelical
)

func (t LeadInType) String() string {
	switch t {
	case LeadRamp:
		return "ramp"
	case LeadHelical:
		return "helical"
	default:
		return "none"
	}
}

// ParseLeadInType converts the wire spelling of a lead-in type.
func ParseLeadInType(s string) (LeadInType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LeadNone, nil
	case "ramp":
		return LeadRamp, nil
	case "helical":
		return LeadHelical, nil
	}
	return LeadNone, fmt.Errorf("unknown lead-in type %q", s)
}

// LeadInSpec is either automatic (global defaults, geometry-derived
// direction) or manual with an explicit type and approach angle.
// Approach angles are degrees in [0,360): 0 is 12 o'clock, 90 is
// 3 o'clock, measured clockwise.
type LeadInSpec struct {
	Manual        bool
	Type          LeadInType
	ApproachAngle float64
}

// AutoLeadIn is the default specification: strategy and direction come
// from global settings and shape geometry.
func AutoLeadIn() LeadInSpec {
	return LeadInSpec{ApproachAngle: 90}
}

// PointKind tags a path point variant.
type PointKind int

const (
	// KindStart opens a path; it is always the first point.
	KindStart PointKind = iota
	// KindStraight is a linear move to the point.
	KindStraight
	// KindArc is an arc move to the point around Center.
	KindArc
)

// ArcHint is the optional explicit arc direction carried by a path
// point. ArcAuto defers to the cross-product resolver.
type ArcHint int

const (
	ArcAuto ArcHint = iota
	ArcCW
	ArcCCW
)

// ParseArcHint converts the wire spelling of an arc direction hint.
// The empty string means automatic.
func ParseArcHint(s string) (ArcHint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ArcAuto, nil
	case "cw":
		return ArcCW, nil
	case "ccw":
		return ArcCCW, nil
	}
	return ArcAuto, fmt.Errorf("unknown arc direction %q", s)
}

// PathPoint is one vertex of a line path. Arc points carry their center
// and an optional direction hint; the hint is required only for the
// 180-degree case where the cross product degenerates.
type PathPoint struct {
	Kind   PointKind
	X, Y   float64
	Center geom.Point
	Hint   ArcHint
}

// Point returns the XY location of the path point.
func (p PathPoint) Point() geom.Point {
	return geom.Pt(p.X, p.Y)
}

// Axis selects the direction of a linear pattern.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// ParseAxis converts the wire spelling of a pattern axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return AxisX, fmt.Errorf("unknown pattern axis %q", s)
}

// Operation is the tagged union of user-specified machining operations.
// The ID is an opaque caller-supplied identifier used only for error
// and UI correlation; it never affects generation.
type Operation interface {
	OperationID() string
	isOperation()
}

// DrillSingle drills one hole.
type DrillSingle struct {
	ID   string
	X, Y float64
}

// DrillLinear drills Count holes spaced along an axis.
type DrillLinear struct {
	ID      string
	Start   geom.Point
	Axis    Axis
	Spacing float64
	Count   int
}

// DrillGrid drills a row-major grid of holes.
type DrillGrid struct {
	ID       string
	Start    geom.Point
	XSpacing float64
	YSpacing float64
	XCount   int
	YCount   int
}

// CircleSingle cuts one circular pocket or disk.
type CircleSingle struct {
	ID           string
	Center       geom.Point
	Diameter     float64
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// CircleLinear cuts Count circles spaced along an axis.
type CircleLinear struct {
	ID           string
	Start        geom.Point
	Axis         Axis
	Spacing      float64
	Count        int
	Diameter     float64
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// HexSingle cuts one point-up hexagonal pocket.
type HexSingle struct {
	ID           string
	Center       geom.Point
	FlatToFlat   float64
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// HexLinear cuts Count hexagons spaced along an axis.
type HexLinear struct {
	ID           string
	Start        geom.Point
	Axis         Axis
	Spacing      float64
	Count        int
	FlatToFlat   float64
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

// LinePath cuts an arbitrary polyline with optional arc segments.
// The first point must be a Start point; the path is closed when the
// first and last points coincide within geom.CoincidentTol.
type LinePath struct {
	ID           string
	Points       []PathPoint
	Compensation CompensationMode
	LeadIn       LeadInSpec
	HoldTime     float64
}

func (o DrillSingle) OperationID() string  { return o.ID }
func (o DrillLinear) OperationID() string  { return o.ID }
func (o DrillGrid) OperationID() string    { return o.ID }
func (o CircleSingle) OperationID() string { return o.ID }
func (o CircleLinear) OperationID() string { return o.ID }
func (o HexSingle) OperationID() string    { return o.ID }
func (o HexLinear) OperationID() string    { return o.ID }
func (o LinePath) OperationID() string     { return o.ID }

func (DrillSingle) isOperation()  {}
func (DrillLinear) isOperation()  {}
func (DrillGrid) isOperation()    {}
func (CircleSingle) isOperation() {}
func (CircleLinear) isOperation() {}
func (HexSingle) isOperation()    {}
func (HexLinear) isOperation()    {}
func (LinePath) isOperation()     {}

// PathPoints returns the XY locations of a path as plain points.
func PathPoints(path []PathPoint) []geom.Point {
	pts := make([]geom.Point, len(path))
	for i, p := range path {
		pts[i] = p.Point()
	}
	return pts
}

// PathClosed reports whether a line path is closed: first and last
// points coincident within geom.CoincidentTol.
func PathClosed(path []PathPoint) bool {
	if len(path) < 2 {
		return false
	}
	return geom.Coincident(path[0].Point(), path[len(path)-1].Point())
}
