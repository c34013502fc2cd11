package project

import (
	"github.com/spindleworks/millpath/pkg/gcode"
	"github.com/spindleworks/millpath/pkg/ops"
)

// rawSettings overrides generation defaults field by field; absent
// fields keep the default.
type rawSettings struct {
	MaxX *float64 `yaml:"max_x"`
	MaxY *float64 `yaml:"max_y"`

	SafetyHeight         *float64 `yaml:"safety_height"`
	TravelHeight         *float64 `yaml:"travel_height"`
	SpindleWarmupSeconds *int     `yaml:"spindle_warmup_seconds"`

	SupportsSubroutines *bool   `yaml:"supports_subroutines"`
	GCodeBasePath       *string `yaml:"gcode_base_path"`

	CircleLeadIn  *string `yaml:"circle_lead_in"`
	HexagonLeadIn *string `yaml:"hexagon_lead_in"`
	LineLeadIn    *string `yaml:"line_lead_in"`

	RampAngle      *float64 `yaml:"ramp_angle"`
	HelixPitch     *float64 `yaml:"helix_pitch"`
	LeadInDistance *float64 `yaml:"lead_in_distance"`

	FirstPassFeedFactor *float64 `yaml:"first_pass_feed_factor"`
	MaxStepdownFactor   *float64 `yaml:"max_stepdown_factor"`

	CornerSlowdownEnabled *bool    `yaml:"corner_slowdown_enabled"`
	CornerFeedFactor      *float64 `yaml:"corner_feed_factor"`
	ArcSlowdownEnabled    *bool    `yaml:"arc_slowdown_enabled"`
	ArcFeedFactor         *float64 `yaml:"arc_feed_factor"`
}

func applySettings(base gcode.Settings, raw *rawSettings) (gcode.Settings, error) {
	if raw == nil {
		return base, nil
	}

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setB := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	var leadErr error
	setLead := func(dst *ops.LeadInType, src *string) {
		if src == nil {
			return
		}
		t, err := ops.ParseLeadInType(*src)
		if err != nil {
			leadErr = err
			return
		}
		*dst = t
	}

	setF(&base.MaxX, raw.MaxX)
	setF(&base.MaxY, raw.MaxY)
	setF(&base.SafetyHeight, raw.SafetyHeight)
	setF(&base.TravelHeight, raw.TravelHeight)
	if raw.SpindleWarmupSeconds != nil {
		base.SpindleWarmupSeconds = *raw.SpindleWarmupSeconds
	}
	setB(&base.SupportsSubroutines, raw.SupportsSubroutines)
	if raw.GCodeBasePath != nil {
		base.GCodeBasePath = *raw.GCodeBasePath
	}
	setLead(&base.CircleLeadIn, raw.CircleLeadIn)
	setLead(&base.HexagonLeadIn, raw.HexagonLeadIn)
	setLead(&base.LineLeadIn, raw.LineLeadIn)
	setF(&base.RampAngle, raw.RampAngle)
	setF(&base.HelixPitch, raw.HelixPitch)
	setF(&base.LeadInDistance, raw.LeadInDistance)
	setF(&base.FirstPassFeedFactor, raw.FirstPassFeedFactor)
	setF(&base.MaxStepdownFactor, raw.MaxStepdownFactor)
	setB(&base.CornerSlowdownEnabled, raw.CornerSlowdownEnabled)
	setF(&base.CornerFeedFactor, raw.CornerFeedFactor)
	setB(&base.ArcSlowdownEnabled, raw.ArcSlowdownEnabled)
	setF(&base.ArcFeedFactor, raw.ArcFeedFactor)

	return base, leadErr
}
