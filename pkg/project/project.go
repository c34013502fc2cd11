// Package project decodes YAML project documents into engine values:
// the operation list, material, tool selection, machining standards and
// generation settings. All wire-format parsing lives here; the engine
// packages only see typed values.
package project

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/spindleworks/millpath/pkg/gcode"
	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
	"github.com/spindleworks/millpath/pkg/stock"
)

// Tool identifies a physical cutter. Type is a standards table key
// ("drill", "end_mill_1flute", "end_mill_2flute"); Size is the diameter
// in inches. TipCompensation adds depth for drill point geometry.
type Tool struct {
	Type            string  `yaml:"type"`
	Size            float64 `yaml:"size"`
	TipCompensation float64 `yaml:"tip_compensation"`
}

// Document is a fully decoded project.
type Document struct {
	Name         string
	Material     stock.Material
	TubeVoidSkip bool
	Drill        *Tool
	EndMill      *Tool
	Standards    Standards
	Operations   []ops.Operation
	Settings     gcode.Settings
}

// Load reads and decodes a project document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return Decode(data)
}

// Decode parses a YAML project document. Unknown document fields and
// unknown operation kinds are rejected; operations without an id get a
// generated one.
func Decode(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw rawDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("project: decode document: %w", err)
	}

	form, err := stock.ParseForm(raw.Material.Form)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	settings, err := applySettings(gcode.DefaultSettings(), raw.Settings)
	if err != nil {
		return nil, fmt.Errorf("project: settings: %w", err)
	}

	doc := &Document{
		Name: raw.Name,
		Material: stock.Material{
			Form:          form,
			Thickness:     raw.Material.Thickness,
			WallThickness: raw.Material.WallThickness,
			OuterWidth:    raw.Material.OuterWidth,
			OuterHeight:   raw.Material.OuterHeight,
		},
		TubeVoidSkip: raw.TubeVoidSkip,
		Drill:        raw.Tools.Drill,
		EndMill:      raw.Tools.EndMill,
		Standards:    raw.Standards,
		Settings:     settings,
	}

	for i, op := range raw.Operations {
		converted, err := convertOperation(op)
		if err != nil {
			return nil, fmt.Errorf("project: operation %d: %w", i, err)
		}
		doc.Operations = append(doc.Operations, converted)
	}

	return doc, nil
}

// DrillParams resolves the drill tool against the standards table.
// Returns nil without error when the project has no drill tool.
func (d *Document) DrillParams() (*gcode.ToolParams, error) {
	if d.Drill == nil {
		return nil, nil
	}
	params, err := d.Standards.Resolve(d.Drill.Type, d.Drill.Size)
	if err != nil {
		return nil, err
	}
	return &params, nil
}

// CutParams resolves the end mill against the standards table. Returns
// nil without error when the project has no end mill.
func (d *Document) CutParams() (*gcode.ToolParams, error) {
	if d.EndMill == nil {
		return nil, nil
	}
	params, err := d.Standards.Resolve(d.EndMill.Type, d.EndMill.Size)
	if err != nil {
		return nil, err
	}
	return &params, nil
}

// ---- wire format ----

type rawDocument struct {
	Name         string         `yaml:"name"`
	Material     rawMaterial    `yaml:"material"`
	TubeVoidSkip bool           `yaml:"tube_void_skip"`
	Tools        rawTools       `yaml:"tools"`
	Standards    Standards      `yaml:"standards"`
	Operations   []rawOperation `yaml:"operations"`
	Settings     *rawSettings   `yaml:"settings"`
}

type rawMaterial struct {
	Form          string  `yaml:"form"`
	Thickness     float64 `yaml:"thickness"`
	OuterWidth    float64 `yaml:"outer_width"`
	OuterHeight   float64 `yaml:"outer_height"`
	WallThickness float64 `yaml:"wall_thickness"`
}

type rawTools struct {
	Drill   *Tool `yaml:"drill"`
	EndMill *Tool `yaml:"end_mill"`
}

type rawLeadIn struct {
	Type          string  `yaml:"type"`
	ApproachAngle float64 `yaml:"approach_angle"`
}

type rawPathPoint struct {
	Type      string  `yaml:"type"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	CenterX   float64 `yaml:"center_x"`
	CenterY   float64 `yaml:"center_y"`
	Direction string  `yaml:"direction"`
}

type rawOperation struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`

	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	Axis     string  `yaml:"axis"`
	Spacing  float64 `yaml:"spacing"`
	Count    int     `yaml:"count"`
	XSpacing float64 `yaml:"x_spacing"`
	YSpacing float64 `yaml:"y_spacing"`
	XCount   int     `yaml:"x_count"`
	YCount   int     `yaml:"y_count"`

	Diameter     float64 `yaml:"diameter"`
	FlatToFlat   float64 `yaml:"flat_to_flat"`
	Compensation string  `yaml:"compensation"`

	LeadIn   *rawLeadIn `yaml:"lead_in"`
	HoldTime float64    `yaml:"hold_time"`

	Points []rawPathPoint `yaml:"points"`
}

func (op rawOperation) id() string {
	if op.ID != "" {
		return op.ID
	}
	return uuid.NewString()
}

func convertOperation(op rawOperation) (ops.Operation, error) {
	switch op.Kind {
	case "drill":
		return ops.DrillSingle{ID: op.id(), X: op.X, Y: op.Y}, nil

	case "drill_linear":
		axis, err := ops.ParseAxis(op.Axis)
		if err != nil {
			return nil, err
		}
		return ops.DrillLinear{
			ID:      op.id(),
			Start:   geom.Pt(op.X, op.Y),
			Axis:    axis,
			Spacing: op.Spacing,
			Count:   op.Count,
		}, nil

	case "drill_grid":
		return ops.DrillGrid{
			ID:       op.id(),
			Start:    geom.Pt(op.X, op.Y),
			XSpacing: op.XSpacing,
			YSpacing: op.YSpacing,
			XCount:   op.XCount,
			YCount:   op.YCount,
		}, nil

	case "circle":
		comp, lead, err := op.cutCommon()
		if err != nil {
			return nil, err
		}
		return ops.CircleSingle{
			ID:           op.id(),
			Center:       geom.Pt(op.X, op.Y),
			Diameter:     op.Diameter,
			Compensation: comp,
			LeadIn:       lead,
			HoldTime:     op.HoldTime,
		}, nil

	case "circle_linear":
		comp, lead, err := op.cutCommon()
		if err != nil {
			return nil, err
		}
		axis, err := ops.ParseAxis(op.Axis)
		if err != nil {
			return nil, err
		}
		return ops.CircleLinear{
			ID:           op.id(),
			Start:        geom.Pt(op.X, op.Y),
			Axis:         axis,
			Spacing:      op.Spacing,
			Count:        op.Count,
			Diameter:     op.Diameter,
			Compensation: comp,
			LeadIn:       lead,
			HoldTime:     op.HoldTime,
		}, nil

	case "hexagon":
		comp, lead, err := op.cutCommon()
		if err != nil {
			return nil, err
		}
		return ops.HexSingle{
			ID:           op.id(),
			Center:       geom.Pt(op.X, op.Y),
			FlatToFlat:   op.FlatToFlat,
			Compensation: comp,
			LeadIn:       lead,
			HoldTime:     op.HoldTime,
		}, nil

	case "hexagon_linear":
		comp, lead, err := op.cutCommon()
		if err != nil {
			return nil, err
		}
		axis, err := ops.ParseAxis(op.Axis)
		if err != nil {
			return nil, err
		}
		return ops.HexLinear{
			ID:           op.id(),
			Start:        geom.Pt(op.X, op.Y),
			Axis:         axis,
			Spacing:      op.Spacing,
			Count:        op.Count,
			FlatToFlat:   op.FlatToFlat,
			Compensation: comp,
			LeadIn:       lead,
			HoldTime:     op.HoldTime,
		}, nil

	case "line":
		comp, lead, err := op.cutCommon()
		if err != nil {
			return nil, err
		}
		points, err := convertPath(op.Points)
		if err != nil {
			return nil, err
		}
		return ops.LinePath{
			ID:           op.id(),
			Points:       points,
			Compensation: comp,
			LeadIn:       lead,
			HoldTime:     op.HoldTime,
		}, nil
	}
	return nil, fmt.Errorf("unknown operation kind %q", op.Kind)
}

func (op rawOperation) cutCommon() (ops.CompensationMode, ops.LeadInSpec, error) {
	comp, err := ops.ParseCompensation(op.Compensation)
	if err != nil {
		return 0, ops.LeadInSpec{}, err
	}
	lead := ops.AutoLeadIn()
	if op.LeadIn != nil {
		typ, err := ops.ParseLeadInType(op.LeadIn.Type)
		if err != nil {
			return 0, ops.LeadInSpec{}, err
		}
		lead = ops.LeadInSpec{Manual: true, Type: typ, ApproachAngle: op.LeadIn.ApproachAngle}
	}
	return comp, lead, nil
}

func convertPath(points []rawPathPoint) ([]ops.PathPoint, error) {
	out := make([]ops.PathPoint, 0, len(points))
	for i, p := range points {
		var kind ops.PointKind
		switch p.Type {
		case "start":
			kind = ops.KindStart
		case "", "straight":
			kind = ops.KindStraight
		case "arc":
			kind = ops.KindArc
		default:
			return nil, fmt.Errorf("point %d: unknown point type %q", i, p.Type)
		}

		pt := ops.PathPoint{Kind: kind, X: p.X, Y: p.Y}
		if kind == ops.KindArc {
			pt.Center = geom.Pt(p.CenterX, p.CenterY)
			hint, err := ops.ParseArcHint(p.Direction)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			pt.Hint = hint
		}
		out = append(out, pt)
	}
	return out, nil
}
