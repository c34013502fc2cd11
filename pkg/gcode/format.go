// Package gcode assembles machining programs for the Mach3 dialect:
// a main program plus numbered subroutine files called with M98.
//
// No function in this package emits comments. Every line is a bare
// instruction; the subroutine call's parenthesized file path is the
// only token that ever contains a parenthesis.
package gcode

import (
	"fmt"
	"regexp"
	"strings"
)

// Coord formats a coordinate with four decimal places.
func Coord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// FeedRate formats a feed rate with one decimal place.
func FeedRate(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Header returns the standard program opening: inch absolute mode,
// home, retract, spindle start and warmup dwell.
func Header(spindleSpeed, warmupSeconds int, safetyHeight float64) []string {
	return []string{
		"G20 G90",
		"G00 X0 Y0 Z0",
		"G00 Z" + Coord(safetyHeight),
		fmt.Sprintf("M03 S%d", spindleSpeed),
		fmt.Sprintf("G04 P%d", warmupSeconds),
	}
}

// Footer returns the standard program close: spindle stop, retract,
// home, program end.
func Footer(safetyHeight float64) []string {
	return []string{
		"M05",
		"G00 Z" + Coord(safetyHeight),
		"G00 X0 Y0",
		"M30",
	}
}

// RapidXYZ is a G00 move on all three axes.
func RapidXYZ(x, y, z float64) string {
	return "G00 X" + Coord(x) + " Y" + Coord(y) + " Z" + Coord(z)
}

// RapidXY is a G00 move in the XY plane.
func RapidXY(x, y float64) string {
	return "G00 X" + Coord(x) + " Y" + Coord(y)
}

// RapidZ is a G00 move on Z only.
func RapidZ(z float64) string {
	return "G00 Z" + Coord(z)
}

// LinearXY is a G01 move in the XY plane.
func LinearXY(x, y, feed float64) string {
	return "G01 X" + Coord(x) + " Y" + Coord(y) + " F" + FeedRate(feed)
}

// LinearXYNoFeed is a G01 move that inherits the modal feed rate.
func LinearXYNoFeed(x, y float64) string {
	return "G01 X" + Coord(x) + " Y" + Coord(y)
}

// LinearZ is a G01 plunge or retract on Z only.
func LinearZ(z, feed float64) string {
	return "G01 Z" + Coord(z) + " F" + FeedRate(feed)
}

// LinearXYZ is a combined lateral and Z move, used for ramp entries.
func LinearXYZ(x, y, z, feed float64) string {
	return "G01 X" + Coord(x) + " Y" + Coord(y) + " Z" + Coord(z) + " F" + FeedRate(feed)
}

// ArcXY is a G02/G03 arc to (x,y) around the center at I/J offsets
// from the current position.
func ArcXY(dir Direction, x, y, i, j, feed float64) string {
	return dir.String() + " X" + Coord(x) + " Y" + Coord(y) +
		" I" + Coord(i) + " J" + Coord(j) + " F" + FeedRate(feed)
}

// HelicalArc is an arc with simultaneous Z motion, the building block
// of helical descent.
func HelicalArc(dir Direction, x, y, z, i, j, feed float64) string {
	return dir.String() + " X" + Coord(x) + " Y" + Coord(y) + " Z" + Coord(z) +
		" I" + Coord(i) + " J" + Coord(j) + " F" + FeedRate(feed)
}

// FullCircle is a G02 arc back to the current position, tracing the
// complete circle whose center sits at the I/J offsets.
func FullCircle(i, j, feed float64) string {
	return "G02 I" + Coord(i) + " J" + Coord(j) + " F" + FeedRate(feed)
}

// DwellMS is a G04 pause in milliseconds, used inside subroutines.
func DwellMS(seconds float64) string {
	return fmt.Sprintf("G04 P%d", int(seconds*1000))
}

// SubroutineCall is the Mach3 M98 call form. The hyphen after the
// opening parenthesis is required by the controller.
func SubroutineCall(filePath string, loopCount int) string {
	return fmt.Sprintf("M98 (-%s) L%d", filePath, loopCount)
}

// SubroutineEnd terminates a subroutine file. The trailing % is
// required for the L repeat parameter to work.
func SubroutineEnd() []string {
	return []string{"M99", "%"}
}

// SubroutinePath builds the absolute Windows path used in M98 calls.
// The controller always runs on Windows, so separators are backslashes
// regardless of the generating host.
func SubroutinePath(basePath, projectName string, number int) string {
	p := fmt.Sprintf("%s\\%s\\%d.nc", basePath, projectName, number)
	return strings.ReplaceAll(p, "/", "\\")
}

var projectNameStrip = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeProjectName cleans a project name for filesystem use: spaces
// become underscores, everything outside [A-Za-z0-9_-] is dropped, and
// the result is capped at 50 characters.
func SanitizeProjectName(name string) string {
	s := strings.ReplaceAll(name, " ", "_")
	s = projectNameStrip.ReplaceAllString(s, "")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
