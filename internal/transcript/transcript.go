package transcript

import (
	"strings"

	"subweave/internal/timecode"
)

// Source identifies which engine produced a transcript.
type Source string

const (
	// SourceBase marks output from the fast segment-level engine.
	SourceBase Source = "base"
	// SourceAligned marks output from the word-aligned engine.
	SourceAligned Source = "aligned"
)

// WordTiming records how word-level intervals were obtained.
type WordTiming string

const (
	// TimingNone means no word-level data exists yet.
	TimingNone WordTiming = "none"
	// TimingMeasured means word intervals came from forced alignment.
	TimingMeasured WordTiming = "measured"
	// TimingApproximated means word intervals were interpolated from segment
	// boundaries, proportional to character length. Renderers may want to
	// surface this; the boundaries are synthetic, not recognized.
	TimingApproximated WordTiming = "approximated"
)

// Speaker is an opaque diarization label such as "SPEAKER_00".
type Speaker string

// Word is the smallest timed unit of a transcript. A nil Interval marks an
// alignment gap that the synchronizer must interpolate.
type Word struct {
	Interval   *timecode.Interval
	Text       string
	Confidence *float64
	Speaker    Speaker
}

// Timed reports whether the word carries a measured or interpolated interval.
func (w Word) Timed() bool {
	return w.Interval != nil
}

// Segment is a contiguous span of recognized speech. Words may be empty for
// base-engine output that has not been through the synchronizer.
type Segment struct {
	Interval timecode.Interval
	Text     string
	Words    []Word
	Speaker  Speaker
}

// WordText reconstructs the segment text from its words, joined by single
// spaces. Used when aligned wording overrides the base transcription.
func (s Segment) WordText() string {
	parts := make([]string, 0, len(s.Words))
	for _, w := range s.Words {
		if text := strings.TrimSpace(w.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Turn is a diarization span handed over by the aligned engine. Turns are
// consumed while attaching speakers and never retained afterwards.
type Turn struct {
	Interval timecode.Interval
	Speaker  Speaker
}

// Transcript is the canonical in-memory representation every stage works on.
// After synchronization its segments are ordered by start time and
// non-overlapping; that is the single global invariant downstream renderers
// rely on.
type Transcript struct {
	Language   string
	Segments   []Segment
	Source     Source
	Diarized   bool
	WordTiming WordTiming
}

// Duration returns the end of the last segment, or 0 for an empty transcript.
func (t *Transcript) Duration() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].Interval.End
}

// WordCount returns the total number of words across all segments.
func (t *Transcript) WordCount() int {
	count := 0
	for i := range t.Segments {
		count += len(t.Segments[i].Words)
	}
	return count
}

// Coverage returns the union of all segment intervals as (start, end). The
// merged transcript's coverage must contain the base transcript's coverage;
// merging never drops speech time.
func (t *Transcript) Coverage() (float64, float64) {
	if len(t.Segments) == 0 {
		return 0, 0
	}
	start := t.Segments[0].Interval.Start
	end := t.Segments[0].Interval.End
	for _, seg := range t.Segments[1:] {
		if seg.Interval.Start < start {
			start = seg.Interval.Start
		}
		if seg.Interval.End > end {
			end = seg.Interval.End
		}
	}
	return start, end
}
