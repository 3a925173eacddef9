package whispercpp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// ParseResult carries the normalized base transcript plus everything the
// adapter had to tolerate on the way in.
type ParseResult struct {
	Transcript transcript.Transcript
	// Warnings describe dropped or repaired cues; none of them is fatal.
	Warnings []string
	// Dropped counts duplicate and zero-duration cues removed.
	Dropped int
	// ClippedOverlaps counts cue pairs clipped at the midpoint of their
	// overlap region.
	ClippedOverlaps int
}

// ParseSRT normalizes the fast engine's SRT output into a base transcript.
// The engine usually emits ordered, non-overlapping cues already; when it
// does not, cues are sorted and overlapping neighbours are clipped to the
// midpoint of the overlap region. Duplicate and zero-duration cues are
// dropped with a warning. Timestamps may use either the comma or period
// millisecond separator, and a missing trailing newline is tolerated.
func ParseSRT(data []byte, lang string) ParseResult {
	result := ParseResult{
		Transcript: transcript.Transcript{
			Language:   lang,
			Source:     transcript.SourceBase,
			WordTiming: transcript.TimingNone,
		},
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return result
	}

	var segments []transcript.Segment
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		seg, ok, warning := parseCueBlock(block)
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if !ok {
			continue
		}
		segments = append(segments, seg)
	}

	segments, dropped, droppedWarnings := dropDegenerateCues(segments)
	result.Dropped = dropped
	result.Warnings = append(result.Warnings, droppedWarnings...)

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Interval.Start < segments[j].Interval.Start
	})

	segments, clipped := clipOverlaps(segments)
	result.ClippedOverlaps = clipped
	if clipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("clipped %d overlapping cue pairs at overlap midpoint", clipped))
	}

	result.Transcript.Segments = segments
	return result
}

func parseCueBlock(block string) (transcript.Segment, bool, string) {
	lines := strings.Split(block, "\n")
	idx := 0
	// The cue counter line is optional; some engine builds omit it.
	if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
		idx = 1
	}
	if idx >= len(lines) || !strings.Contains(lines[idx], "-->") {
		return transcript.Segment{}, false, fmt.Sprintf("cue without timing line dropped: %q", firstLine(block))
	}
	interval, err := timecode.ParseInterval(lines[idx])
	if err != nil {
		return transcript.Segment{}, false, fmt.Sprintf("unparseable timing dropped: %v", err)
	}
	text := strings.TrimSpace(strings.Join(lines[idx+1:], "\n"))
	if text == "" {
		return transcript.Segment{}, false, ""
	}
	return transcript.Segment{Interval: interval, Text: text}, true, ""
}

func dropDegenerateCues(segments []transcript.Segment) ([]transcript.Segment, int, []string) {
	var warnings []string
	dropped := 0
	kept := segments[:0]
	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		if seg.Interval.Duration() <= 0 {
			dropped++
			warnings = append(warnings,
				fmt.Sprintf("zero-duration cue dropped at %s", timecode.FormatSRT(seg.Interval.Start)))
			continue
		}
		key := fmt.Sprintf("%.3f|%.3f|%s", seg.Interval.Start, seg.Interval.End, seg.Text)
		if _, dup := seen[key]; dup {
			dropped++
			warnings = append(warnings,
				fmt.Sprintf("duplicate cue dropped at %s", timecode.FormatSRT(seg.Interval.Start)))
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, seg)
	}
	return kept, dropped, warnings
}

// clipOverlaps resolves overlapping neighbours by moving both boundaries to
// the midpoint of the overlap region.
func clipOverlaps(segments []transcript.Segment) ([]transcript.Segment, int) {
	clipped := 0
	for i := 1; i < len(segments); i++ {
		prev := &segments[i-1]
		cur := &segments[i]
		if cur.Interval.Start >= prev.Interval.End {
			continue
		}
		mid := cur.Interval.Start + (prev.Interval.End-cur.Interval.Start)/2
		prev.Interval.End = mid
		cur.Interval.Start = mid
		clipped++
	}
	return segments, clipped
}

func firstLine(block string) string {
	if idx := strings.IndexByte(block, '\n'); idx >= 0 {
		return block[:idx]
	}
	return block
}
