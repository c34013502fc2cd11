package gcode

import "math"

// Pass is one depth step of a multi-pass cut.
type Pass struct {
	Num        int     // zero-indexed
	Cumulative float64 // total depth at the end of this pass
	Step       float64 // depth increment, equal for all passes
}

// NumPasses returns how many passes are needed to reach totalDepth
// without any pass exceeding passDepth. Always at least 1.
func NumPasses(totalDepth, passDepth float64) int {
	if passDepth <= 0 {
		return 1
	}
	n := int(math.Ceil(totalDepth / passDepth))
	if n < 1 {
		return 1
	}
	return n
}

// PassDepths returns the cumulative depth at each pass. The steps are
// uniform, totalDepth/n each, so the final entry sums exactly to
// totalDepth instead of leaving a thin last pass.
func PassDepths(totalDepth, passDepth float64) []float64 {
	n := NumPasses(totalDepth, passDepth)
	step := totalDepth / float64(n)
	depths := make([]float64, n)
	for i := range depths {
		depths[i] = float64(i+1) * step
	}
	return depths
}

// Passes returns the full pass schedule.
func Passes(totalDepth, passDepth float64) []Pass {
	n := NumPasses(totalDepth, passDepth)
	step := totalDepth / float64(n)
	passes := make([]Pass, n)
	for i := range passes {
		passes[i] = Pass{Num: i, Cumulative: float64(i+1) * step, Step: step}
	}
	return passes
}
