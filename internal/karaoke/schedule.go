package karaoke

import (
	"subweave/internal/transcript"
)

// Cue is one word's highlight entry in a segment's reveal schedule.
type Cue struct {
	// WordIndex is the word's position within its segment.
	WordIndex int
	Text      string
	// Reveal is the absolute time the word lights up.
	Reveal float64
	// FullReveal is the absolute time the word is fully highlighted.
	FullReveal float64
}

// SegmentSchedule is the reveal schedule for one dialogue line.
type SegmentSchedule struct {
	Interval struct{ Start, End float64 }
	Speaker  transcript.Speaker
	Cues     []Cue
}

// BuildSchedule derives the per-word reveal schedule from a merged
// transcript. The schedule is a pure function of the input: a word reveals at
// its interval start and is fully revealed at its interval end, so identical
// transcripts always produce identical schedules.
func BuildSchedule(t *transcript.Transcript) []SegmentSchedule {
	schedules := make([]SegmentSchedule, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if len(seg.Words) == 0 {
			continue
		}
		ss := SegmentSchedule{Speaker: seg.Speaker}
		ss.Interval.Start = seg.Interval.Start
		ss.Interval.End = seg.Interval.End
		for wi, w := range seg.Words {
			if w.Interval == nil {
				continue
			}
			ss.Cues = append(ss.Cues, Cue{
				WordIndex:  wi,
				Text:       w.Text,
				Reveal:     w.Interval.Start,
				FullReveal: w.Interval.End,
			})
		}
		if len(ss.Cues) > 0 {
			schedules = append(schedules, ss)
		}
	}
	return schedules
}
