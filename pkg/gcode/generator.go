package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/spindleworks/millpath/pkg/comp"
	"github.com/spindleworks/millpath/pkg/gcode/safety"
	"github.com/spindleworks/millpath/pkg/geom"
	"github.com/spindleworks/millpath/pkg/ops"
)

// Result is a complete generated program: the main file plus the
// numbered subroutine files it calls.
type Result struct {
	Main        string
	Subroutines map[int]string
	ProjectName string
	Warnings    []string
}

// Generator assembles the machining program for one project. A
// Generator is single-use: construct, call Generate once, read the
// result.
type Generator struct {
	settings      Settings
	projectName   string
	materialDepth float64

	alloc       *Allocator
	subroutines map[int]string
	warnings    []string
	coordinator *safety.Coordinator

	// Recomputed from the cutting pass depth at the top of Generate.
	leadInDistance float64
}

// NewGenerator prepares a generator for the named project cutting to
// materialDepth.
func NewGenerator(settings Settings, projectName string, materialDepth float64) *Generator {
	return &Generator{
		settings:      settings,
		projectName:   SanitizeProjectName(projectName),
		materialDepth: materialDepth,
		alloc:         NewAllocator(),
		subroutines:   make(map[int]string),
		coordinator: safety.NewCoordinator(safety.Config{
			FirstPassFeedFactor: settings.FirstPassFeedFactor,
			CornerEnabled:       settings.CornerSlowdownEnabled,
			CornerFeedFactor:    settings.CornerFeedFactor,
			ArcEnabled:          settings.ArcSlowdownEnabled,
			ArcFeedFactor:       settings.ArcFeedFactor,
		}),
		leadInDistance: 0.25,
	}
}

func (g *Generator) adjustedFeed(baseFeed float64, passNum int, isArc bool, cornerFactor float64) float64 {
	return g.coordinator.AdjustedFeed(baseFeed, safety.Context{
		BaseFeed:     baseFeed,
		PassNum:      passNum,
		IsArc:        isArc,
		CornerFactor: cornerFactor,
	})
}

func (g *Generator) arcFeedFactor() float64 {
	if g.settings.ArcSlowdownEnabled {
		return g.settings.ArcFeedFactor
	}
	return 1
}

func (g *Generator) warnf(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}

// warnLeadInDisabled reports profile cuts whose effective lead-in is
// none. Generation proceeds; the entry plunge is simply hard on end
// mills, so the operator gets one warning naming the cut types.
func (g *Generator) warnLeadInDisabled(ex ops.Expanded) {
	noneFor := func(spec ops.LeadInSpec, def ops.LeadInType) bool {
		if spec.Manual {
			return spec.Type == ops.LeadNone
		}
		return def == ops.LeadNone
	}

	var kinds []string
	for _, c := range ex.Circles {
		if noneFor(c.LeadIn, g.settings.CircleLeadIn) {
			kinds = append(kinds, "circle")
			break
		}
	}
	for _, h := range ex.Hexagons {
		if noneFor(h.LeadIn, g.settings.HexagonLeadIn) {
			kinds = append(kinds, "hexagon")
			break
		}
	}
	for _, lc := range ex.Lines {
		if noneFor(lc.LeadIn, g.settings.LineLeadIn) {
			kinds = append(kinds, "line")
			break
		}
	}
	if len(kinds) == 0 {
		return
	}
	g.warnf("lead-in disabled for %s cuts, entries will plunge vertically", strings.Join(kinds, ", "))
}

// opError ties a geometry failure back to the operation that caused
// it. Any such error aborts the whole request; no partial program is
// returned.
func opError(opIndex int, opID string, err error) error {
	return fmt.Errorf("operation %d (%s): %w", opIndex, opID, err)
}

// Generate produces the complete program for the expanded operations.
// Drill operations use drillParams, everything else cutParams; either
// may be nil when the project has no operations of that class.
func (g *Generator) Generate(ex ops.Expanded, drillParams, cutParams *ToolParams) (*Result, error) {
	switch {
	case g.settings.LeadInDistance > 0:
		g.leadInDistance = g.settings.LeadInDistance
	case cutParams != nil && cutParams.PassDepth > 0:
		g.leadInDistance = LeadInDistance(g.settings.RampAngle, cutParams.PassDepth)
	default:
		g.leadInDistance = 0.25
	}

	if drillParams != nil {
		g.warnings = append(g.warnings, g.settings.ParamWarnings(*drillParams)...)
	}
	if cutParams != nil {
		g.warnings = append(g.warnings, g.settings.ParamWarnings(*cutParams)...)
	}
	g.warnLeadInDisabled(ex)

	spindleSpeed := 1000
	if drillParams != nil {
		spindleSpeed = drillParams.SpindleSpeed
	} else if cutParams != nil {
		spindleSpeed = cutParams.SpindleSpeed
	}

	var main []string
	main = append(main, Header(spindleSpeed, g.settings.SpindleWarmupSeconds, g.settings.SafetyHeight)...)

	if drillParams != nil && len(ex.Drills) > 0 {
		main = append(main, g.generateDrills(ex.Drills, *drillParams)...)
	}
	if cutParams != nil && len(ex.Circles) > 0 {
		lines, err := g.generateCircles(ex.Circles, *cutParams)
		if err != nil {
			return nil, err
		}
		main = append(main, lines...)
	}
	if cutParams != nil && len(ex.Hexagons) > 0 {
		lines, err := g.generateHexagons(ex.Hexagons, *cutParams)
		if err != nil {
			return nil, err
		}
		main = append(main, lines...)
	}
	if cutParams != nil && len(ex.Lines) > 0 {
		lines, err := g.generateLines(ex.Lines, *cutParams)
		if err != nil {
			return nil, err
		}
		main = append(main, lines...)
	}

	main = append(main, Footer(g.settings.SafetyHeight)...)

	return &Result{
		Main:        joinLines(main),
		Subroutines: g.subroutines,
		ProjectName: g.projectName,
		Warnings:    g.warnings,
	}, nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// ---- drilling ----

func (g *Generator) generateDrills(groups []ops.DrillGroup, params ToolParams) []string {
	peckingDepth := params.PeckingDepth
	if peckingDepth <= 0 {
		peckingDepth = 0.05
	}
	pecks := PassDepths(g.materialDepth, peckingDepth)

	total := 0
	for _, grp := range groups {
		total += len(grp.Points)
	}
	if total == 0 {
		return nil
	}

	var lines []string
	if g.settings.SupportsSubroutines && total > 1 {
		for _, grp := range groups {
			lines = append(lines, g.drillGroup(grp, params, pecks)...)
		}
	} else {
		for _, grp := range groups {
			for _, p := range grp.Points {
				lines = append(lines, g.drillInline(p, params, pecks)...)
			}
		}
	}
	return lines
}

// drillInline pecks one hole: plunge, full retract to clear chips,
// back to the surface for the next peck.
func (g *Generator) drillInline(p geom.Point, params ToolParams, pecks []float64) []string {
	lines := []string{
		RapidXYZ(p.X, p.Y, g.settings.TravelHeight),
		RapidZ(0),
	}
	last := pecks[len(pecks)-1]
	for _, peck := range pecks {
		lines = append(lines, LinearZ(-peck, params.PlungeRate))
		lines = append(lines, RapidZ(g.settings.SafetyHeight))
		if peck < last {
			lines = append(lines, RapidZ(0))
		}
	}
	return lines
}

// drillGroup emits one drill operation. Regular patterns share a peck
// subroutine walked along the pattern axis with the L parameter; grids
// call the row subroutine once per row. Irregular groups (collapsed
// patterns, singles) drill inline.
func (g *Generator) drillGroup(grp ops.DrillGroup, params ToolParams, pecks []float64) []string {
	n := len(grp.Points)
	if n == 0 {
		return nil
	}

	linearX := grp.YCount == 1 && grp.XCount == n && grp.XSpacing != 0
	linearY := grp.XCount == 1 && grp.YCount == n && grp.YSpacing != 0
	grid := grp.XCount > 1 && grp.YCount > 1 && grp.XSpacing != 0 && n == grp.XCount*grp.YCount

	var lines []string
	switch {
	case n == 1 || (!linearX && !linearY && !grid):
		for _, p := range grp.Points {
			lines = append(lines, g.drillInline(p, params, pecks)...)
		}

	case linearX || linearY:
		axis, spacing, count := ops.AxisX, grp.XSpacing, grp.XCount
		if linearY {
			axis, spacing, count = ops.AxisY, grp.YSpacing, grp.YCount
		}
		subNum := g.alloc.Next(SubDrill)
		g.subroutines[subNum] = PeckDrillSubroutine(pecks, params.PlungeRate, g.settings.TravelHeight, axis, spacing)
		subPath := SubroutinePath(g.settings.GCodeBasePath, g.projectName, subNum)

		start := grp.Points[0]
		lines = append(lines, RapidXYZ(start.X, start.Y, g.settings.TravelHeight))
		lines = append(lines, SubroutineCall(subPath, count))

	default: // grid
		subNum := g.alloc.Next(SubDrill)
		g.subroutines[subNum] = PeckDrillSubroutine(pecks, params.PlungeRate, g.settings.TravelHeight, ops.AxisX, grp.XSpacing)
		subPath := SubroutinePath(g.settings.GCodeBasePath, g.projectName, subNum)

		start := grp.Points[0]
		for row := 0; row < grp.YCount; row++ {
			y := start.Y + float64(row)*grp.YSpacing
			lines = append(lines, RapidXYZ(start.X, y, g.settings.TravelHeight))
			lines = append(lines, SubroutineCall(subPath, grp.XCount))
		}
	}
	return lines
}

// ---- circles ----

type circleGroupKey struct {
	diameter     float64
	compensation ops.CompensationMode
	holdTime     float64
}

func (g *Generator) generateCircles(circles []ops.CircleCut, params ToolParams) ([]string, error) {
	passDepth := params.PassDepth
	if passDepth <= 0 {
		passDepth = 0.025
	}
	numPasses := NumPasses(g.materialDepth, passDepth)
	actualPassDepth := g.materialDepth / float64(numPasses)

	var auto, manual []ops.CircleCut
	for _, c := range circles {
		if c.LeadIn.Manual {
			manual = append(manual, c)
		} else {
			auto = append(auto, c)
		}
	}

	var lines []string

	// Manual lead-in circles go inline: custom approach angles do not
	// fit the shared subroutine form.
	for _, c := range manual {
		out, err := g.circleInline(c, params)
		if err != nil {
			return nil, err
		}
		lines = append(lines, out...)
	}

	if g.settings.SupportsSubroutines && len(auto) > 0 {
		// Circles with the same diameter, compensation and hold time
		// share one subroutine; only the call position differs.
		groups := make(map[circleGroupKey][]ops.CircleCut)
		var order []circleGroupKey
		for _, c := range auto {
			key := circleGroupKey{c.Diameter, c.Compensation, c.HoldTime}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], c)
		}

		for _, key := range order {
			group := groups[key]
			cutRadius, err := comp.CutRadius(key.diameter, params.ToolDiameter, key.compensation)
			if err != nil {
				return nil, opError(group[0].OpIndex, group[0].OpID, err)
			}

			leadInType := g.settings.CircleLeadIn
			helixRadius := 0.0
			if leadInType == ops.LeadHelical {
				var ok bool
				helixRadius, ok = HelixRadiusForCircle(cutRadius, params.ToolDiameter)
				if !ok {
					g.warnf("Circle d=%g\" too small for helical lead-in, using ramp", key.diameter)
					leadInType = ops.LeadRamp
					helixRadius = 0
				}
			}

			subNum := g.alloc.Next(SubCircular)
			leadInDistance := 0.0
			if leadInType == ops.LeadRamp {
				leadInDistance = g.leadInDistance
			}
			g.subroutines[subNum] = CirclePassSubroutine(CircleSpec{
				CutRadius:      cutRadius,
				PassDepth:      actualPassDepth,
				PlungeRate:     params.PlungeRate,
				FeedRate:       params.FeedRate,
				LeadInDistance: leadInDistance,
				LeadInType:     leadInType,
				HelixRadius:    helixRadius,
				HelixPitch:     g.settings.HelixPitch,
				ApproachAngle:  90,
				HoldTime:       key.holdTime,
				ArcFeedFactor:  g.arcFeedFactor(),
			})
			subPath := SubroutinePath(g.settings.GCodeBasePath, g.projectName, subNum)

			for _, c := range group {
				var start geom.Point
				switch {
				case leadInType == ops.LeadHelical && helixRadius > 0:
					start = HelixStartPoint(c.Center, helixRadius, 90)
				case leadInType == ops.LeadRamp && g.leadInDistance > 0:
					start = CircleLeadInPoint(c.Center, cutRadius, g.leadInDistance, 90)
				default:
					start = geom.Pt(c.Center.X+cutRadius, c.Center.Y)
				}
				lines = append(lines, RapidXYZ(start.X, start.Y, g.settings.TravelHeight))
				lines = append(lines, RapidZ(0))
				lines = append(lines, SubroutineCall(subPath, numPasses))
				lines = append(lines, RapidZ(g.settings.SafetyHeight))
			}
		}
	} else {
		for _, c := range auto {
			out, err := g.circleInline(c, params)
			if err != nil {
				return nil, err
			}
			lines = append(lines, out...)
		}
	}

	return lines, nil
}

func (g *Generator) circleInline(c ops.CircleCut, params ToolParams) ([]string, error) {
	cfg, err := g.circleConfig(c, params)
	if err != nil {
		return nil, err
	}
	return g.pathCut(cfg, params), nil
}

// ---- hexagons ----

func (g *Generator) generateHexagons(hexagons []ops.HexCut, params ToolParams) ([]string, error) {
	passDepth := params.PassDepth
	if passDepth <= 0 {
		passDepth = 0.025
	}
	numPasses := NumPasses(g.materialDepth, passDepth)
	actualPassDepth := g.materialDepth / float64(numPasses)

	var lines []string
	for _, h := range hexagons {
		// Vertices are absolute, so each hexagon needs its own subroutine.
		vertices, err := comp.HexagonVertices(h.Center, h.FlatToFlat, params.ToolDiameter, h.Compensation)
		if err != nil {
			return nil, opError(h.OpIndex, h.OpID, err)
		}

		leadInType := g.settings.HexagonLeadIn
		approachAngle := 90.0
		manual := h.LeadIn.Manual
		if manual {
			leadInType = h.LeadIn.Type
			approachAngle = h.LeadIn.ApproachAngle
		}

		helixRadius := 0.0
		if leadInType == ops.LeadHelical {
			var ok bool
			helixRadius, ok = HelixRadiusForHexagon(h.FlatToFlat, params.ToolDiameter, h.Compensation)
			if !ok {
				g.warnf("Hexagon ftf=%g\" at (%g, %g) too small for helical lead-in, using ramp",
					h.FlatToFlat, h.Center.X, h.Center.Y)
				leadInType = ops.LeadRamp
			}
		}

		var leadInPoint *geom.Point
		if leadInType == ops.LeadRamp && g.leadInDistance > 0 {
			var anglePtr *float64
			if manual {
				anglePtr = &approachAngle
			}
			p := HexagonLeadInPoint(vertices, h.Center, g.leadInDistance, anglePtr)
			leadInPoint = &p
		}

		if g.settings.SupportsSubroutines {
			subNum := g.alloc.Next(SubHexagonal)
			g.subroutines[subNum] = HexagonPassSubroutine(HexagonSpec{
				Vertices:      vertices,
				Center:        h.Center,
				PassDepth:     actualPassDepth,
				PlungeRate:    params.PlungeRate,
				FeedRate:      params.FeedRate,
				LeadInPoint:   leadInPoint,
				LeadInType:    leadInType,
				HelixRadius:   helixRadius,
				HelixPitch:    g.settings.HelixPitch,
				ApproachAngle: approachAngle,
				HoldTime:      h.HoldTime,
				ArcFeedFactor: g.arcFeedFactor(),
			})
			subPath := SubroutinePath(g.settings.GCodeBasePath, g.projectName, subNum)

			var start geom.Point
			switch {
			case leadInType == ops.LeadHelical && helixRadius > 0:
				start = HelixStartPoint(h.Center, helixRadius, approachAngle)
			case leadInType == ops.LeadRamp && leadInPoint != nil:
				start = *leadInPoint
			default:
				start = vertices[0]
			}
			lines = append(lines, RapidXYZ(start.X, start.Y, g.settings.TravelHeight))
			lines = append(lines, RapidZ(0))
			lines = append(lines, SubroutineCall(subPath, numPasses))
			lines = append(lines, RapidZ(g.settings.SafetyHeight))
		} else {
			cfg := g.hexagonConfig(h, vertices, leadInType, approachAngle, manual, helixRadius, leadInPoint)
			lines = append(lines, g.pathCut(cfg, params)...)
		}
	}
	return lines, nil
}

// ---- lines ----

func (g *Generator) generateLines(lineCuts []ops.LineCut, params ToolParams) ([]string, error) {
	passDepth := params.PassDepth
	if passDepth <= 0 {
		passDepth = 0.025
	}
	numPasses := NumPasses(g.materialDepth, passDepth)
	actualPassDepth := g.materialDepth / float64(numPasses)

	var lines []string
	for _, lc := range lineCuts {
		if len(lc.Points) == 0 {
			continue
		}

		for _, w := range ops.ArcGeometryWarnings(lc.OpIndex, lc) {
			g.warnings = append(g.warnings, w.String())
		}

		path := lc.Points
		if lc.Compensation != ops.CompNone {
			compensated, err := comp.CompensatePath(path, params.ToolDiameter, lc.Compensation)
			if err != nil {
				return nil, opError(lc.OpIndex, lc.OpID, err)
			}
			path = compensated
		}

		var anglePtr *float64
		useLeadIn := g.settings.LineLeadIn == ops.LeadRamp && g.leadInDistance > 0
		if lc.LeadIn.Manual {
			useLeadIn = lc.LeadIn.Type == ops.LeadRamp && g.leadInDistance > 0
			angle := lc.LeadIn.ApproachAngle
			anglePtr = &angle
		}

		var leadInPoint *geom.Point
		if useLeadIn {
			p := LineLeadInPoint(path, g.leadInDistance, lc.Compensation, anglePtr)
			leadInPoint = &p
		}

		if g.settings.SupportsSubroutines {
			subNum := g.alloc.Next(SubLine)
			g.subroutines[subNum] = LinePathSubroutine(path, actualPassDepth, params.PlungeRate, params.FeedRate, leadInPoint, lc.HoldTime)
			subPath := SubroutinePath(g.settings.GCodeBasePath, g.projectName, subNum)

			start := path[0].Point()
			if leadInPoint != nil {
				start = *leadInPoint
			}
			lines = append(lines, RapidXYZ(start.X, start.Y, g.settings.TravelHeight))
			lines = append(lines, RapidZ(0))
			lines = append(lines, SubroutineCall(subPath, numPasses))
			lines = append(lines, RapidZ(g.settings.SafetyHeight))
		} else {
			cfg := g.lineConfig(path, lc, leadInPoint)
			lines = append(lines, g.pathCut(cfg, params)...)
		}
	}
	return lines, nil
}

// ---- unified inline path cutting ----

type moveKind int

const (
	moveLinear moveKind = iota
	moveArc
	moveFullCircle
)

type pathMove struct {
	target       geom.Point
	kind         moveKind
	center       geom.Point
	hint         ops.ArcHint
	iOff, jOff   float64
	cornerFactor float64
}

type leadInConfig struct {
	typ              ops.LeadInType
	leadInPoint      *geom.Point
	helixCenter      *geom.Point
	helixRadius      float64
	arcTransition    bool
	transitionTarget *geom.Point
	approachAngle    float64
	holdTime         float64
}

type cutPathConfig struct {
	moves        []pathMove
	profileStart geom.Point
	leadIn       leadInConfig
	closed       bool
	applyCorners bool
}

func (g *Generator) circleConfig(c ops.CircleCut, params ToolParams) (cutPathConfig, error) {
	cutRadius, err := comp.CutRadius(c.Diameter, params.ToolDiameter, c.Compensation)
	if err != nil {
		return cutPathConfig{}, opError(c.OpIndex, c.OpID, err)
	}

	leadInType := g.settings.CircleLeadIn
	approachAngle := 90.0
	if c.LeadIn.Manual {
		leadInType = c.LeadIn.Type
		approachAngle = c.LeadIn.ApproachAngle
	}

	a := mathAngle(approachAngle)
	profileStart := geom.Pt(c.Center.X+cutRadius*math.Cos(a), c.Center.Y+cutRadius*math.Sin(a))

	helixRadius := 0.0
	if leadInType == ops.LeadHelical {
		var ok bool
		helixRadius, ok = HelixRadiusForCircle(cutRadius, params.ToolDiameter)
		if !ok {
			g.warnf("Circle d=%g\" too small for helical lead-in, using ramp", c.Diameter)
			leadInType = ops.LeadRamp
		}
	}

	lead := leadInConfig{typ: ops.LeadNone, approachAngle: approachAngle, holdTime: c.HoldTime}
	switch {
	case leadInType == ops.LeadHelical && helixRadius > 0:
		center := c.Center
		target := profileStart
		lead = leadInConfig{
			typ:              ops.LeadHelical,
			helixCenter:      &center,
			helixRadius:      helixRadius,
			arcTransition:    true,
			transitionTarget: &target,
			approachAngle:    approachAngle,
			holdTime:         c.HoldTime,
		}
	case leadInType == ops.LeadRamp && g.leadInDistance > 0:
		p := CircleLeadInPoint(c.Center, cutRadius, g.leadInDistance, approachAngle)
		lead = leadInConfig{
			typ:           ops.LeadRamp,
			leadInPoint:   &p,
			approachAngle: approachAngle,
			holdTime:      c.HoldTime,
		}
	}

	moves := []pathMove{{
		target: profileStart,
		kind:   moveFullCircle,
		iOff:   -cutRadius * math.Cos(a),
		jOff:   -cutRadius * math.Sin(a),
	}}

	return cutPathConfig{
		moves:        moves,
		profileStart: profileStart,
		leadIn:       lead,
		closed:       true,
	}, nil
}

func (g *Generator) hexagonConfig(h ops.HexCut, vertices [6]geom.Point, leadInType ops.LeadInType, approachAngle float64, manual bool, helixRadius float64, leadInPoint *geom.Point) cutPathConfig {
	profileStart := vertices[0]

	lead := leadInConfig{typ: ops.LeadNone, approachAngle: approachAngle, holdTime: h.HoldTime}
	switch {
	case leadInType == ops.LeadHelical && helixRadius > 0:
		center := h.Center
		target := profileStart
		lead = leadInConfig{
			typ:              ops.LeadHelical,
			helixCenter:      &center,
			helixRadius:      helixRadius,
			arcTransition:    false,
			transitionTarget: &target,
			approachAngle:    approachAngle,
			holdTime:         h.HoldTime,
		}
	case leadInType == ops.LeadRamp && leadInPoint != nil:
		lead = leadInConfig{
			typ:           ops.LeadRamp,
			leadInPoint:   leadInPoint,
			approachAngle: approachAngle,
			holdTime:      h.HoldTime,
		}
	}

	var moves []pathMove
	for i := 1; i < 6; i++ {
		moves = append(moves, pathMove{target: vertices[i], kind: moveLinear, cornerFactor: 1})
	}
	moves = append(moves, pathMove{target: profileStart, kind: moveLinear, cornerFactor: 1})

	return cutPathConfig{
		moves:        moves,
		profileStart: profileStart,
		leadIn:       lead,
		closed:       true,
	}
}

func (g *Generator) lineConfig(path []ops.PathPoint, lc ops.LineCut, leadInPoint *geom.Point) cutPathConfig {
	factors := make([]float64, len(path))
	for i := range factors {
		factors[i] = 1
	}
	if g.settings.CornerSlowdownEnabled {
		factors = CornerFactors(path)
	}

	lead := leadInConfig{typ: ops.LeadNone, approachAngle: 90, holdTime: lc.HoldTime}
	if leadInPoint != nil {
		angle := 90.0
		if lc.LeadIn.Manual {
			angle = lc.LeadIn.ApproachAngle
		}
		lead = leadInConfig{
			typ:           ops.LeadRamp,
			leadInPoint:   leadInPoint,
			approachAngle: angle,
			holdTime:      lc.HoldTime,
		}
	}

	var moves []pathMove
	for i, p := range path {
		if i == 0 {
			continue
		}
		m := pathMove{target: p.Point(), kind: moveLinear, cornerFactor: factors[i]}
		if p.Kind == ops.KindArc {
			m.kind = moveArc
			m.center = p.Center
			m.hint = p.Hint
		}
		moves = append(moves, m)
	}

	return cutPathConfig{
		moves:        moves,
		profileStart: path[0].Point(),
		leadIn:       lead,
		closed:       ops.PathClosed(path),
		applyCorners: g.settings.CornerSlowdownEnabled,
	}
}

// pathCut is the inline cutting engine shared by every shape when
// subroutines are off, and by manual-lead-in circles always. It walks
// the full pass schedule with absolute depths.
func (g *Generator) pathCut(cfg cutPathConfig, params ToolParams) []string {
	passDepth := params.PassDepth
	if passDepth <= 0 {
		passDepth = 0.025
	}
	lead := cfg.leadIn

	var start geom.Point
	switch {
	case lead.typ == ops.LeadHelical && lead.helixCenter != nil && lead.helixRadius > 0:
		start = HelixStartPoint(*lead.helixCenter, lead.helixRadius, lead.approachAngle)
	case lead.typ == ops.LeadRamp && lead.leadInPoint != nil:
		start = *lead.leadInPoint
	default:
		start = cfg.profileStart
	}

	lines := []string{
		RapidXYZ(start.X, start.Y, g.settings.TravelHeight),
		RapidZ(0),
	}

	for _, pass := range Passes(g.materialDepth, passDepth) {
		currentFeed := g.adjustedFeed(params.FeedRate, pass.Num, false, 1)

		if lead.holdTime > 0 {
			lines = append(lines, DwellMS(lead.holdTime))
		}

		switch {
		case lead.typ == ops.LeadHelical && lead.helixCenter != nil && lead.helixRadius > 0:
			helix := HelicalLeadIn(*lead.helixCenter, lead.helixRadius, pass.Step,
				g.settings.HelixPitch, params.PlungeRate, lead.approachAngle, currentFeed)
			lines = append(lines, AdjustHelixDepth(helix, pass.Step, pass.Cumulative)...)

			if lead.transitionTarget != nil {
				if lead.arcTransition {
					profileRadius := lead.transitionTarget.Sub(*lead.helixCenter).Length()
					lines = append(lines, HelicalToProfileCircle(*lead.helixCenter,
						lead.helixRadius, profileRadius, currentFeed, lead.approachAngle)...)
				} else {
					lines = append(lines, LinearXY(lead.transitionTarget.X, lead.transitionTarget.Y, currentFeed))
				}
			}

		case lead.typ == ops.LeadRamp && lead.leadInPoint != nil:
			lines = append(lines, LinearXYZ(cfg.profileStart.X, cfg.profileStart.Y,
				-pass.Cumulative, params.PlungeRate))

		default:
			lines = append(lines, LinearZ(-pass.Cumulative, params.PlungeRate))
		}

		current := cfg.profileStart
		for _, m := range cfg.moves {
			moveFeed := currentFeed
			isArc := m.kind == moveArc || m.kind == moveFullCircle
			if cfg.applyCorners && m.cornerFactor < 1 {
				moveFeed = g.adjustedFeed(params.FeedRate, pass.Num, isArc, m.cornerFactor)
			} else if isArc {
				moveFeed = g.adjustedFeed(params.FeedRate, pass.Num, true, 1)
			}

			lines = append(lines, g.moveLine(m, current, moveFeed))
			current = m.target
		}

		if cfg.closed {
			switch {
			case lead.typ == ops.LeadHelical && lead.helixCenter != nil && lead.helixRadius > 0:
				hs := HelixStartPoint(*lead.helixCenter, lead.helixRadius, lead.approachAngle)
				lines = append(lines, LinearXY(hs.X, hs.Y, currentFeed))
			case lead.typ == ops.LeadRamp && lead.leadInPoint != nil:
				lines = append(lines, LinearXY(lead.leadInPoint.X, lead.leadInPoint.Y, currentFeed))
			}
		}
	}

	lines = append(lines, RapidZ(g.settings.SafetyHeight))
	return lines
}

func (g *Generator) moveLine(m pathMove, current geom.Point, feed float64) string {
	switch m.kind {
	case moveFullCircle:
		return FullCircle(m.iOff, m.jOff, feed)
	case moveArc:
		dir := ResolveDirection(current, m.target, m.center, m.hint)
		i, j := IJOffsets(current, m.center)
		return ArcXY(dir, m.target.X, m.target.Y, i, j, feed)
	default:
		return LinearXY(m.target.X, m.target.Y, feed)
	}
}
