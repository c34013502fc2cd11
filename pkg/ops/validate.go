package ops

import (
	"fmt"
	"math"

	"github.com/spindleworks/millpath/pkg/geom"
)

// Validation error codes.
const (
	CodeOutOfBounds   = "OUT_OF_BOUNDS"
	CodeBadPattern    = "BAD_PATTERN"
	CodeBadDimension  = "BAD_DIMENSION"
	CodeBadPath       = "BAD_PATH"
	CodeUnknownKind   = "UNKNOWN_KIND"
	CodeMissingParams = "MISSING_PARAMS"
)

// ValidationError describes a blocking, caller-correctable problem with
// one operation. OpIndex is the position in the submitted operation list.
type ValidationError struct {
	Code    string
	Message string
	OpIndex int
	OpID    string
}

func (e ValidationError) Error() string {
	context := ""
	if e.OpID != "" {
		context = fmt.Sprintf(" (operation %s)", e.OpID)
	}
	return fmt.Sprintf("%s: operation %d: %s%s", e.Code, e.OpIndex, e.Message, context)
}

// Warning is a non-blocking advisory finding. OpIndex is -1 for
// project-level warnings.
type Warning struct {
	OpIndex int
	OpID    string
	Message string
}

func (w Warning) String() string {
	if w.OpIndex < 0 {
		return w.Message
	}
	return fmt.Sprintf("operation %d: %s", w.OpIndex, w.Message)
}

// Bounds is the machine's reachable XY envelope. The origin corner is
// always (0,0).
type Bounds struct {
	MaxX float64
	MaxY float64
}

// Contains reports whether the rectangle [minX,maxX]×[minY,maxY] lies
// inside the envelope.
func (b Bounds) Contains(minX, minY, maxX, maxY float64) bool {
	return minX >= 0 && minY >= 0 && maxX <= b.MaxX && maxY <= b.MaxY
}

// arcRadiusTol is the allowed disagreement between an arc's start and
// end radius before the endpoints no longer lie on one circle.
const arcRadiusTol = 0.001

// Validate checks every operation against the machine envelope and the
// structural rules of its kind. All findings are returned; nothing
// short-circuits on the first error.
func Validate(operations []Operation, bounds Bounds) []ValidationError {
	var errs []ValidationError

	fail := func(i int, id, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Code:    code,
			Message: fmt.Sprintf(format, args...),
			OpIndex: i,
			OpID:    id,
		})
	}

	checkBounds := func(i int, id string, minX, minY, maxX, maxY float64) {
		if !bounds.Contains(minX, minY, maxX, maxY) {
			fail(i, id, CodeOutOfBounds,
				"extent X %.4f..%.4f Y %.4f..%.4f exceeds machine envelope %.4f x %.4f",
				minX, maxX, minY, maxY, bounds.MaxX, bounds.MaxY)
		}
	}

	checkPattern := func(i int, id string, spacing float64, count int) {
		if count < 1 {
			fail(i, id, CodeBadPattern, "pattern count is %d, must be at least 1", count)
		}
		if count > 1 && spacing <= 0 {
			fail(i, id, CodeBadPattern, "pattern spacing is %.4f, must be positive", spacing)
		}
	}

	for i, op := range operations {
		switch o := op.(type) {
		case DrillSingle:
			checkBounds(i, o.ID, o.X, o.Y, o.X, o.Y)

		case DrillLinear:
			checkPattern(i, o.ID, o.Spacing, o.Count)
			if o.Count >= 1 {
				end := patternEnd(o.Start, o.Axis, o.Spacing, o.Count)
				checkBounds(i, o.ID,
					math.Min(o.Start.X, end.X), math.Min(o.Start.Y, end.Y),
					math.Max(o.Start.X, end.X), math.Max(o.Start.Y, end.Y))
			}

		case DrillGrid:
			if o.XCount < 1 || o.YCount < 1 {
				fail(i, o.ID, CodeBadPattern, "grid counts are %dx%d, must be at least 1x1", o.XCount, o.YCount)
				continue
			}
			if o.XCount > 1 && o.XSpacing <= 0 {
				fail(i, o.ID, CodeBadPattern, "grid X spacing is %.4f, must be positive", o.XSpacing)
			}
			if o.YCount > 1 && o.YSpacing <= 0 {
				fail(i, o.ID, CodeBadPattern, "grid Y spacing is %.4f, must be positive", o.YSpacing)
			}
			endX := o.Start.X + float64(o.XCount-1)*o.XSpacing
			endY := o.Start.Y + float64(o.YCount-1)*o.YSpacing
			checkBounds(i, o.ID,
				math.Min(o.Start.X, endX), math.Min(o.Start.Y, endY),
				math.Max(o.Start.X, endX), math.Max(o.Start.Y, endY))

		case CircleSingle:
			if o.Diameter <= 0 {
				fail(i, o.ID, CodeBadDimension, "circle diameter is %.4f, must be positive", o.Diameter)
				continue
			}
			r := o.Diameter / 2
			checkBounds(i, o.ID, o.Center.X-r, o.Center.Y-r, o.Center.X+r, o.Center.Y+r)

		case CircleLinear:
			checkPattern(i, o.ID, o.Spacing, o.Count)
			if o.Diameter <= 0 {
				fail(i, o.ID, CodeBadDimension, "circle diameter is %.4f, must be positive", o.Diameter)
				continue
			}
			if o.Count >= 1 {
				r := o.Diameter / 2
				end := patternEnd(o.Start, o.Axis, o.Spacing, o.Count)
				checkBounds(i, o.ID,
					math.Min(o.Start.X, end.X)-r, math.Min(o.Start.Y, end.Y)-r,
					math.Max(o.Start.X, end.X)+r, math.Max(o.Start.Y, end.Y)+r)
			}

		case HexSingle:
			if o.FlatToFlat <= 0 {
				fail(i, o.ID, CodeBadDimension, "hexagon flat-to-flat is %.4f, must be positive", o.FlatToFlat)
				continue
			}
			minX, minY, maxX, maxY := geom.HexagonBounds(o.Center, o.FlatToFlat)
			checkBounds(i, o.ID, minX, minY, maxX, maxY)

		case HexLinear:
			checkPattern(i, o.ID, o.Spacing, o.Count)
			if o.FlatToFlat <= 0 {
				fail(i, o.ID, CodeBadDimension, "hexagon flat-to-flat is %.4f, must be positive", o.FlatToFlat)
				continue
			}
			if o.Count >= 1 {
				end := patternEnd(o.Start, o.Axis, o.Spacing, o.Count)
				sMinX, sMinY, sMaxX, sMaxY := geom.HexagonBounds(o.Start, o.FlatToFlat)
				eMinX, eMinY, eMaxX, eMaxY := geom.HexagonBounds(end, o.FlatToFlat)
				checkBounds(i, o.ID,
					math.Min(sMinX, eMinX), math.Min(sMinY, eMinY),
					math.Max(sMaxX, eMaxX), math.Max(sMaxY, eMaxY))
			}

		case LinePath:
			errs = append(errs, validateLinePath(i, o, bounds)...)

		default:
			fail(i, op.OperationID(), CodeUnknownKind, "unsupported operation type %T", op)
		}
	}

	return errs
}

func patternEnd(start geom.Point, axis Axis, spacing float64, count int) geom.Point {
	end := start
	if axis == AxisY {
		end.Y += float64(count-1) * spacing
	} else {
		end.X += float64(count-1) * spacing
	}
	return end
}

func validateLinePath(i int, o LinePath, bounds Bounds) []ValidationError {
	var errs []ValidationError
	fail := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Code:    code,
			Message: fmt.Sprintf(format, args...),
			OpIndex: i,
			OpID:    o.ID,
		})
	}

	if len(o.Points) < 2 {
		fail(CodeBadPath, "line path has %d points, needs at least 2", len(o.Points))
		return errs
	}
	if o.Points[0].Kind != KindStart {
		fail(CodeBadPath, "line path must begin with a start point")
	}
	for j, p := range o.Points[1:] {
		if p.Kind == KindStart {
			fail(CodeBadPath, "point %d: start point only allowed at position 0", j+1)
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		if p.Kind == KindArc {
			// Arc sweep stays within the circle through its endpoints.
			r := p.Point().Sub(p.Center).Length()
			minX, maxX = math.Min(minX, p.Center.X-r), math.Max(maxX, p.Center.X+r)
			minY, maxY = math.Min(minY, p.Center.Y-r), math.Max(maxY, p.Center.Y+r)
		}
	}
	if !bounds.Contains(minX, minY, maxX, maxY) {
		fail(CodeOutOfBounds,
			"extent X %.4f..%.4f Y %.4f..%.4f exceeds machine envelope %.4f x %.4f",
			minX, maxX, minY, maxY, bounds.MaxX, bounds.MaxY)
	}
	return errs
}

// ArcGeometryWarnings flags arc points whose start and end radii
// disagree: the controller will trace a spiral or reject the block.
func ArcGeometryWarnings(opIndex int, cut LineCut) []Warning {
	var warnings []Warning
	for j := 1; j < len(cut.Points); j++ {
		p := cut.Points[j]
		if p.Kind != KindArc {
			continue
		}
		prev := cut.Points[j-1].Point()
		rStart := prev.Sub(p.Center).Length()
		rEnd := p.Point().Sub(p.Center).Length()
		if math.Abs(rStart-rEnd) > arcRadiusTol {
			warnings = append(warnings, Warning{
				OpIndex: opIndex,
				OpID:    cut.OpID,
				Message: fmt.Sprintf(
					"arc at point %d: start radius %.4f and end radius %.4f differ by more than %.3f",
					j, rStart, rEnd, arcRadiusTol),
			})
		}
	}
	return warnings
}
