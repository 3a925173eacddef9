package timecode

import "fmt"

// FormatSRT renders seconds as "HH:MM:SS,mmm".
func FormatSRT(seconds float64) string {
	return formatClock(seconds, ',')
}

// FormatVTT renders seconds as "HH:MM:SS.mmm".
func FormatVTT(seconds float64) string {
	return formatClock(seconds, '.')
}

func formatClock(seconds float64, sep byte) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	millis := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	hh := totalSeconds / 3600
	mm := (totalSeconds % 3600) / 60
	ss := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hh, mm, ss, sep, millis)
}

// FormatASS renders seconds as "H:MM:SS.cc" (centisecond precision), the
// timestamp form used by ASS dialogue lines.
func FormatASS(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalCentis := int64(seconds*100 + 0.5)
	centis := totalCentis % 100
	totalSeconds := totalCentis / 100
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, centis)
}
