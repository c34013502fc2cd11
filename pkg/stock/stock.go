// Package stock models the workpiece: sheet and rectangular tube forms,
// cutting depth, and the tube's hollow interior where cuts only meet air.
package stock

import (
	"fmt"

	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// Form is the stock cross-section.
type Form int

const (
	// Sheet is flat plate; cuts go through the full thickness.
	Sheet Form = iota
	// Tube is hollow rectangular section; cuts go through one wall.
	Tube
)

func (f Form) String() string {
	if f == Tube {
		return "tube"
	}
	return "sheet"
}

// ParseForm converts the wire spelling of a stock form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "", "sheet":
		return Sheet, nil
	case "tube":
		return Tube, nil
	}
	return Sheet, fmt.Errorf("unknown material form %q", s)
}

// Material describes the workpiece. OuterWidth/OuterHeight and
// WallThickness apply to tube stock only.
type Material struct {
	Form          Form
	Thickness     float64
	WallThickness float64
	OuterWidth    float64
	OuterHeight   float64
}

// Depth returns how deep the tool must cut to break through: full
// thickness for sheet, one wall for tube.
func (m Material) Depth() float64 {
	if m.Form == Tube {
		return m.WallThickness
	}
	return m.Thickness
}

// VoidBounds returns the rectangle of the tube's hollow interior when
// the top face is machined. Zero rectangle for sheet stock.
func (m Material) VoidBounds() (minX, minY, maxX, maxY float64) {
	if m.Form != Tube {
		return 0, 0, 0, 0
	}
	w := m.WallThickness
	return w, w, m.OuterWidth - w, m.OuterHeight - w
}

// insideVoid reports whether the disk at center with the given radius
// lies strictly inside the void rectangle.
func (m Material) insideVoid(center geom.Point, radius float64) bool {
	minX, minY, maxX, maxY := m.VoidBounds()
	return center.X-radius > minX && center.X+radius < maxX &&
		center.Y-radius > minY && center.Y+radius < maxY
}

// FilterReport lists the operations removed by the void filter, one
// warning per removed cut.
type FilterReport struct {
	Removed  int
	Warnings []ops.Warning
}

// FilterVoid removes drill points, circles and hexagons that fall
// entirely inside the tube's hollow interior, where the tool would cut
// nothing. Drill points include the drill radius in their extent;
// circles their cut radius, hexagons their circumradius. Line paths are
// never filtered. Sheet stock and a false skip flag pass everything
// through unchanged.
func (m Material) FilterVoid(ex ops.Expanded, skip bool, drillRadius float64) (ops.Expanded, FilterReport) {
	if m.Form != Tube || !skip {
		return ex, FilterReport{}
	}

	var report FilterReport
	out := ops.Expanded{Lines: ex.Lines}

	drop := func(opIndex int, opID, what string, p geom.Point) {
		report.Removed++
		report.Warnings = append(report.Warnings, ops.Warning{
			OpIndex: opIndex,
			OpID:    opID,
			Message: fmt.Sprintf("%s at (%.4f, %.4f) skipped: inside tube void", what, p.X, p.Y),
		})
	}

	for _, g := range ex.Drills {
		kept := g
		kept.Points = nil
		for _, p := range g.Points {
			if m.insideVoid(p, drillRadius) {
				drop(g.OpIndex, g.OpID, "drill hole", p)
				continue
			}
			kept.Points = append(kept.Points, p)
		}
		if len(kept.Points) == 0 {
			continue
		}
		// Partial removal breaks the pattern's loop structure.
		if len(kept.Points) != len(g.Points) {
			kept.XSpacing, kept.YSpacing = 0, 0
			kept.XCount, kept.YCount = len(kept.Points), 1
		}
		out.Drills = append(out.Drills, kept)
	}

	for _, c := range ex.Circles {
		if m.insideVoid(c.Center, c.Diameter/2) {
			drop(c.OpIndex, c.OpID, "circle", c.Center)
			continue
		}
		out.Circles = append(out.Circles, c)
	}

	for _, h := range ex.Hexagons {
		if m.insideVoid(h.Center, geom.HexCircumradius(h.FlatToFlat)) {
			drop(h.OpIndex, h.OpID, "hexagon", h.Center)
			continue
		}
		out.Hexagons = append(out.Hexagons, h)
	}

	return out, report
}
