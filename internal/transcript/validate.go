package transcript

import (
	"fmt"
	"strings"
)

// Issue describes a single validation finding. Findings are advisory; the
// synchronizer repairs what it can and only systemic desync is fatal.
type Issue struct {
	Segment int
	Word    int // -1 for segment-level findings
	Reason  string
}

func (i Issue) String() string {
	if i.Word < 0 {
		return fmt.Sprintf("segment %d: %s", i.Segment, i.Reason)
	}
	return fmt.Sprintf("segment %d word %d: %s", i.Segment, i.Word, i.Reason)
}

// Validate checks the transcript against the model invariants: ordered,
// non-overlapping segments, word intervals inside their segment, non-empty
// word text, confidences within [0,1], and complete speaker labels when the
// transcript is diarized.
func Validate(t *Transcript) []Issue {
	var issues []Issue
	prevEnd := 0.0
	for si, seg := range t.Segments {
		if seg.Interval.Inverted() {
			issues = append(issues, Issue{Segment: si, Word: -1, Reason: "inverted interval"})
		}
		if seg.Interval.IsZero() {
			issues = append(issues, Issue{Segment: si, Word: -1, Reason: "zero-length interval"})
		}
		if si > 0 && seg.Interval.Start < prevEnd {
			issues = append(issues, Issue{Segment: si, Word: -1, Reason: "overlaps previous segment"})
		}
		prevEnd = seg.Interval.End

		prevWordEnd := seg.Interval.Start
		for wi, word := range seg.Words {
			if strings.TrimSpace(word.Text) == "" {
				issues = append(issues, Issue{Segment: si, Word: wi, Reason: "empty text"})
			}
			if word.Confidence != nil && (*word.Confidence < 0 || *word.Confidence > 1) {
				issues = append(issues, Issue{Segment: si, Word: wi, Reason: "confidence out of range"})
			}
			if t.Diarized && word.Speaker == "" {
				issues = append(issues, Issue{Segment: si, Word: wi, Reason: "missing speaker"})
			}
			if word.Interval == nil {
				issues = append(issues, Issue{Segment: si, Word: wi, Reason: "untimed word"})
				continue
			}
			if word.Interval.Start < seg.Interval.Start || word.Interval.End > seg.Interval.End {
				issues = append(issues, Issue{Segment: si, Word: wi, Reason: "outside segment bounds"})
			}
			if word.Interval.Start < prevWordEnd {
				issues = append(issues, Issue{Segment: si, Word: wi, Reason: "overlaps previous word"})
			}
			prevWordEnd = word.Interval.End
		}
	}
	return issues
}
