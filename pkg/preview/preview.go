// Package preview projects expanded machining operations into a flat
// scene of drawable elements and serializes the scene as SVG. The scene
// is resolution-independent; pixels only appear at serialization.
package preview

import (
	"math"

	"github.com/spindleworks/millpath/pkg/comp"
	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
	"github.com/spindleworks/millpath/pkg/stock"
)

// Mode selects which geometry the scene shows.
type Mode int

const (
	// ModeFeature draws the nominal feature outlines the user specified.
	ModeFeature Mode = iota
	// ModeToolpath draws the compensated tool center paths that will
	// actually be cut.
	ModeToolpath
)

// Circle is one circular element at feature or toolpath radius.
type Circle struct {
	Center geom.Point
	Radius float64
}

// Rect is an axis-aligned overlay rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Scene is the complete drawable projection of one project. All
// coordinates are machine inches with Y up.
type Scene struct {
	Machine Rect
	// Material is the stock outline; nil when the stock fills the
	// machine envelope.
	Material *Rect
	// Void is the tube's hollow interior; nil for sheet stock.
	Void *Rect

	Points   []geom.Point
	Circles  []Circle
	Polygons [][]geom.Point
	Paths    [][]geom.Point
}

// Options configures scene building.
type Options struct {
	Mode         Mode
	MachineW     float64
	MachineH     float64
	ToolDiameter float64
	Material     *stock.Material
}

// arcChordStep is the sampling resolution for arc flattening, radians.
const arcChordStep = math.Pi / 36

// Build projects the expanded cut list into a scene. Toolpath mode
// applies the same compensation the generator will, so geometry errors
// surface here exactly as they would at generation time.
func Build(ex ops.Expanded, opts Options) (Scene, error) {
	scene := Scene{
		Machine: Rect{MaxX: opts.MachineW, MaxY: opts.MachineH},
	}

	if opts.Material != nil && opts.Material.Form == stock.Tube {
		m := opts.Material
		scene.Material = &Rect{MaxX: m.OuterWidth, MaxY: m.OuterHeight}
		minX, minY, maxX, maxY := m.VoidBounds()
		scene.Void = &Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}

	for _, p := range ex.AllDrillPoints() {
		scene.Points = append(scene.Points, p.Point)
	}

	for _, c := range ex.Circles {
		radius := c.Diameter / 2
		if opts.Mode == ModeToolpath {
			r, err := comp.CutRadius(c.Diameter, opts.ToolDiameter, c.Compensation)
			if err != nil {
				return Scene{}, err
			}
			radius = r
		}
		scene.Circles = append(scene.Circles, Circle{Center: c.Center, Radius: radius})
	}

	for _, h := range ex.Hexagons {
		var verts [6]geom.Point
		if opts.Mode == ModeToolpath {
			v, err := comp.HexagonVertices(h.Center, h.FlatToFlat, opts.ToolDiameter, h.Compensation)
			if err != nil {
				return Scene{}, err
			}
			verts = v
		} else {
			verts = geom.HexagonVertices(h.Center, h.FlatToFlat)
		}
		scene.Polygons = append(scene.Polygons, verts[:])
	}

	for _, lc := range ex.Lines {
		path := lc.Points
		if opts.Mode == ModeToolpath && lc.Compensation != ops.CompNone {
			compensated, err := comp.CompensatePath(path, opts.ToolDiameter, lc.Compensation)
			if err != nil {
				return Scene{}, err
			}
			path = compensated
		}
		scene.Paths = append(scene.Paths, FlattenPath(path))
	}

	return scene, nil
}

// FlattenPath converts a path with arc segments into a polyline by
// sampling each arc at a fixed angular step.
func FlattenPath(path []ops.PathPoint) []geom.Point {
	if len(path) == 0 {
		return nil
	}
	out := []geom.Point{path[0].Point()}
	current := path[0].Point()
	for _, p := range path[1:] {
		target := p.Point()
		if p.Kind == ops.KindArc {
			out = append(out, sampleArc(current, target, p.Center, p.Hint)...)
		}
		out = append(out, target)
		current = target
	}
	return out
}

// sampleArc returns the intermediate points of the arc from start to
// end around center, exclusive of both endpoints.
func sampleArc(start, end geom.Point, center geom.Point, hint ops.ArcHint) []geom.Point {
	sv := start.Sub(center)
	ev := end.Sub(center)
	radius := sv.Length()
	if radius < geom.CoincidentTol {
		return nil
	}

	a0 := math.Atan2(sv.Y, sv.X)
	a1 := math.Atan2(ev.Y, ev.X)

	cw := hint == ops.ArcCW
	if hint == ops.ArcAuto {
		cw = sv.X*ev.Y-sv.Y*ev.X <= 0
	}

	sweep := a1 - a0
	if cw && sweep > 0 {
		sweep -= 2 * math.Pi
	}
	if !cw && sweep < 0 {
		sweep += 2 * math.Pi
	}

	steps := int(math.Ceil(math.Abs(sweep) / arcChordStep))
	var pts []geom.Point
	for i := 1; i < steps; i++ {
		a := a0 + sweep*float64(i)/float64(steps)
		pts = append(pts, geom.Pt(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a)))
	}
	return pts
}
