package gcode

import (
	"fmt"

	"github.com/spindleworks/millpath/pkg/ops"
)

// Settings is the machine and strategy configuration shared by every
// generated program. Heights are inches above the stock top.
type Settings struct {
	MaxX float64
	MaxY float64

	SafetyHeight         float64
	TravelHeight         float64
	SpindleWarmupSeconds int

	SupportsSubroutines bool
	GCodeBasePath       string

	// Default lead-in strategies per shape, overridden per operation by
	// a manual lead-in spec.
	CircleLeadIn  ops.LeadInType
	HexagonLeadIn ops.LeadInType
	LineLeadIn    ops.LeadInType

	RampAngle  float64 // degrees from horizontal for ramp descents
	HelixPitch float64 // depth per helix revolution, inches

	// LeadInDistance fixes the ramp lead-in length when positive; zero
	// derives it from RampAngle and the pass depth.
	LeadInDistance float64

	FirstPassFeedFactor float64
	MaxStepdownFactor   float64 // pass depth warning threshold, fraction of tool diameter

	CornerSlowdownEnabled bool
	CornerFeedFactor      float64
	ArcSlowdownEnabled    bool
	ArcFeedFactor         float64
}

// DefaultSettings returns the stock configuration for a Mach3 router
// with a 15x15 inch envelope.
func DefaultSettings() Settings {
	return Settings{
		MaxX:                  15.0,
		MaxY:                  15.0,
		SafetyHeight:          0.5,
		TravelHeight:          0.2,
		SpindleWarmupSeconds:  2,
		SupportsSubroutines:   true,
		GCodeBasePath:         `C:\Mach3\GCode`,
		CircleLeadIn:          ops.LeadHelical,
		HexagonLeadIn:         ops.LeadHelical,
		LineLeadIn:            ops.LeadRamp,
		RampAngle:             3.0,
		HelixPitch:            0.04,
		FirstPassFeedFactor:   0.7,
		MaxStepdownFactor:     0.5,
		CornerSlowdownEnabled: true,
		CornerFeedFactor:      0.5,
		ArcSlowdownEnabled:    true,
		ArcFeedFactor:         0.8,
	}
}

// ToolParams are the cutting parameters for one tool/material pairing.
type ToolParams struct {
	SpindleSpeed int
	FeedRate     float64
	PlungeRate   float64
	PeckingDepth float64
	PassDepth    float64
	ToolDiameter float64
}

// ParamWarnings checks tool parameters against the settings and returns
// advisory messages. Generation proceeds regardless.
func (s Settings) ParamWarnings(tp ToolParams) []string {
	var warnings []string
	if tp.PlungeRate > tp.FeedRate && tp.FeedRate > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"plunge rate %.1f exceeds feed rate %.1f", tp.PlungeRate, tp.FeedRate))
	}
	if tp.ToolDiameter > 0 && s.MaxStepdownFactor > 0 {
		maxStep := s.MaxStepdownFactor * tp.ToolDiameter
		if tp.PassDepth > maxStep {
			warnings = append(warnings, fmt.Sprintf(
				"pass depth %.4f exceeds %.0f%% of tool diameter (%.4f)",
				tp.PassDepth, s.MaxStepdownFactor*100, maxStep))
		}
	}
	return warnings
}
