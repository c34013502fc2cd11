package preview

import (
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/spindleworks/millpath/pkg/geom"
)

const (
	machineStyle  = "fill:none;stroke:#999;stroke-width:1"
	materialStyle = "fill:#f4ead2;stroke:#b09a62;stroke-width:1"
	voidStyle     = "fill:#ffffff;stroke:#b09a62;stroke-width:1;stroke-dasharray:4 3"
	cutStyle      = "fill:none;stroke:#1464c8;stroke-width:2"
	drillStyle    = "fill:#c83c28;stroke:none"

	drillMarkRadius = 3 // pixels
)

// WriteSVG serializes a scene at the given resolution. Machine Y points
// up; SVG Y points down, so everything is flipped about the machine
// envelope's top edge.
func WriteSVG(w io.Writer, scene Scene, pixelsPerInch float64) {
	width := px(scene.Machine.MaxX-scene.Machine.MinX, pixelsPerInch)
	height := px(scene.Machine.MaxY-scene.Machine.MinY, pixelsPerInch)

	tx := func(x float64) int { return px(x-scene.Machine.MinX, pixelsPerInch) }
	ty := func(y float64) int { return px(scene.Machine.MaxY-y, pixelsPerInch) }

	canvas := svg.New(w)
	canvas.Start(width, height)

	drawRect(canvas, tx, ty, scene.Machine, machineStyle)
	if scene.Material != nil {
		drawRect(canvas, tx, ty, *scene.Material, materialStyle)
	}
	if scene.Void != nil {
		drawRect(canvas, tx, ty, *scene.Void, voidStyle)
	}

	for _, c := range scene.Circles {
		canvas.Circle(tx(c.Center.X), ty(c.Center.Y), px(c.Radius, pixelsPerInch), cutStyle)
	}
	for _, poly := range scene.Polygons {
		xs, ys := pointCoords(poly, tx, ty)
		canvas.Polygon(xs, ys, cutStyle)
	}
	for _, path := range scene.Paths {
		xs, ys := pointCoords(path, tx, ty)
		canvas.Polyline(xs, ys, cutStyle)
	}
	for _, p := range scene.Points {
		canvas.Circle(tx(p.X), ty(p.Y), drillMarkRadius, drillStyle)
	}

	canvas.End()
}

func px(inches, pixelsPerInch float64) int {
	return int(math.Round(inches * pixelsPerInch))
}

func drawRect(canvas *svg.SVG, tx, ty func(float64) int, r Rect, style string) {
	// The rect's top-left in screen space is its top-left in machine
	// space after the flip.
	canvas.Rect(tx(r.MinX), ty(r.MaxY), tx(r.MaxX)-tx(r.MinX), ty(r.MinY)-ty(r.MaxY), style)
}

func pointCoords(pts []geom.Point, tx, ty func(float64) int) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i] = tx(p.X)
		ys[i] = ty(p.Y)
	}
	return xs, ys
}
