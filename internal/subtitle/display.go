package subtitle

import "fmt"

// FormatDisplayTime renders seconds as MM:SS.mmm for caption lists and the
// playback timer. Hours are folded away; minutes wrap at 60.
func FormatDisplayTime(seconds float64) string {
	_, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}

// FormatTimer renders "current / duration".
func FormatTimer(current, duration float64) string {
	return FormatDisplayTime(current) + " / " + FormatDisplayTime(duration)
}

// FormatLabel is the list entry shown for a caption: "MM:SS.mmm - text".
func FormatLabel(start float64, text string) string {
	return FormatDisplayTime(start) + " - " + text
}
