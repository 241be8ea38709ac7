// Package timecode provides subtitle timestamp formatting and rounding helpers.
package timecode

import (
	"fmt"
	"math"
	"strings"
)

// Round2 rounds seconds to two decimal places.
func Round2(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}

// FormatSRT converts seconds to the SubRip timestamp form HH:MM:SS,mmm.
func FormatSRT(seconds float64) string {
	return format(seconds, ',')
}

// FormatVTT converts seconds to the WebVTT timestamp form HH:MM:SS.mmm.
func FormatVTT(seconds float64) string {
	return format(seconds, '.')
}

func format(seconds float64, sep byte) string {
	// Deriving every field from one integer millisecond count keeps the
	// rounding carry consistent across second, minute, and hour boundaries.
	totalMillis := int64(math.Round(math.Abs(seconds) * 1000))
	millis := totalMillis % 1000
	totalSecs := totalMillis / 1000
	secs := totalSecs % 60
	minutes := (totalSecs / 60) % 60
	hours := totalSecs / 3600
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}

// StripLinebreaks replaces any newline characters with single spaces so that
// cue text stays on one payload line.
func StripLinebreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
