package project

import (
	"fmt"
	"strconv"

	"github.com/spindleworks/millpath/pkg/gcode"
)

// StandardParams is one machining-standards table entry: the proven
// parameters for one tool type at one size in one material. Drills
// carry a pecking depth, end mills a pass depth.
type StandardParams struct {
	SpindleSpeed int     `yaml:"spindle_speed"`
	FeedRate     float64 `yaml:"feed_rate"`
	PlungeRate   float64 `yaml:"plunge_rate"`
	PeckingDepth float64 `yaml:"pecking_depth"`
	PassDepth    float64 `yaml:"pass_depth"`
}

// Standards maps tool type, then tool size, to machining parameters.
// Sizes are string keys so document values like "0.125" survive the
// YAML round trip unchanged.
type Standards map[string]map[string]StandardParams

// sizeKey renders a tool size the way documents key it.
func sizeKey(size float64) string {
	return strconv.FormatFloat(size, 'g', -1, 64)
}

// Resolve looks up the parameters for a tool type and size. The tool
// diameter is filled from the size itself.
func (s Standards) Resolve(toolType string, size float64) (gcode.ToolParams, error) {
	bySize, ok := s[toolType]
	if !ok {
		return gcode.ToolParams{}, fmt.Errorf("project: no standards for tool type %q", toolType)
	}
	entry, ok := bySize[sizeKey(size)]
	if !ok {
		return gcode.ToolParams{}, fmt.Errorf("project: no standards for tool type %q size %s", toolType, sizeKey(size))
	}
	return gcode.ToolParams{
		SpindleSpeed: entry.SpindleSpeed,
		FeedRate:     entry.FeedRate,
		PlungeRate:   entry.PlungeRate,
		PeckingDepth: entry.PeckingDepth,
		PassDepth:    entry.PassDepth,
		ToolDiameter: size,
	}, nil
}
