// Package comp implements tool radius compensation: signed offsets,
// circle cut radii, hexagon vertex compensation along angle bisectors,
// and full line-path offsetting with corner re-intersection.
package comp

import (
	"fmt"
	"math"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// GeometryError is a fatal geometry failure: compensation that would
// invert or collapse the feature. It always aborts generation.
type GeometryError struct {
	Message string
}

func (e GeometryError) Error() string {
	return "INVALID_GEOMETRY: " + e.Message
}

// Offset returns the signed radial offset for a compensation mode:
// 0 for none, -tool_radius for interior, +tool_radius for exterior.
// The offset is added to a feature radius to get the toolpath radius.
func Offset(toolDiameter float64, mode ops.CompensationMode) float64 {
	switch mode {
	case ops.CompInterior:
		return -toolDiameter / 2
	case ops.CompExterior:
		return toolDiameter / 2
	}
	return 0
}

// CutRadius returns the toolpath radius for a circular cut. Interior
// compensation leaves a hole of featureDiameter; exterior cuts out a
// disk of featureDiameter. The radius must stay positive.
func CutRadius(featureDiameter, toolDiameter float64, mode ops.CompensationMode) (float64, error) {
	r := featureDiameter/2 + Offset(toolDiameter, mode)
	if r <= 0 {
		return 0, GeometryError{Message: fmt.Sprintf(
			"circle diameter %.4f is too small for %s compensation with tool diameter %.4f",
			featureDiameter, mode, toolDiameter)}
	}
	return r, nil
}

// HexagonVertices returns the six toolpath vertices for a hexagonal
// cut. Each nominal vertex is moved along its angle bisector by
// tool_radius/sin(60°): toward center for interior, away for exterior.
func HexagonVertices(center geom.Point, flatToFlat, toolDiameter float64, mode ops.CompensationMode) ([6]geom.Point, error) {
	verts := geom.HexagonVertices(center, flatToFlat)
	if mode == ops.CompNone {
		return verts, nil
	}

	toolRadius := toolDiameter / 2
	if mode == ops.CompInterior && geom.HexApothem(flatToFlat)-toolRadius <= 0 {
		return verts, GeometryError{Message: fmt.Sprintf(
			"hexagon flat-to-flat %.4f is too small for interior compensation with tool diameter %.4f",
			flatToFlat, toolDiameter)}
	}

	offset := toolRadius * 2 / math.Sqrt(3)
	if mode == ops.CompExterior {
		offset = -offset
	}
	for i, v := range verts {
		verts[i] = geom.OffsetToward(v, center, offset)
	}
	return verts, nil
}
