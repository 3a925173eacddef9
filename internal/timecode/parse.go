package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts an engine-reported timestamp into seconds. It
// accepts the clock forms "HH:MM:SS,mmm" and "HH:MM:SS.mmm" as well as plain
// fractional seconds ("12.345"). Engines disagree on which form they emit, so
// every textual timestamp entering the system goes through this one function.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if !strings.Contains(value, ":") {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		if seconds < 0 {
			return 0, fmt.Errorf("negative timestamp %q", value)
		}
		return seconds, nil
	}

	// Clock form. SRT uses a comma before milliseconds, VTT a period.
	normalized := strings.ReplaceAll(value, ".", ",")
	clock := normalized
	millis := 0
	if idx := strings.Index(normalized, ","); idx >= 0 {
		clock = normalized[:idx]
		msText := normalized[idx+1:]
		parsed, err := strconv.Atoi(msText)
		if err != nil || parsed < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		// Pad or truncate to millisecond precision ("5" means 500ms in VTT).
		switch len(msText) {
		case 1:
			parsed *= 100
		case 2:
			parsed *= 10
		case 3:
		default:
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		millis = parsed
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(parts[0])
	minutes, errM := strconv.Atoi(parts[1])
	seconds, errS := strconv.Atoi(parts[2])
	if errH != nil || errM != nil || errS != nil || hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// ParseInterval parses the "start --> end" timing line shared by SRT and VTT.
func ParseInterval(line string) (Interval, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Interval{}, err
	}
	// VTT timing lines may carry cue settings after the end timestamp.
	endText := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endText) == 0 {
		return Interval{}, fmt.Errorf("invalid timing line %q", line)
	}
	end, err := ParseTimestamp(endText[0])
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}
