package merge

import (
	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// repairUntimedWords gives every untimed word an interval interpolated
// between its nearest timed neighbours, falling back to the segment
// boundaries at the edges. Runs of untimed words split the gap evenly.
func repairUntimedWords(t *transcript.Transcript, report *Report) {
	for si := range t.Segments {
		seg := &t.Segments[si]
		for wi := 0; wi < len(seg.Words); wi++ {
			if seg.Words[wi].Interval != nil {
				continue
			}
			runEnd := wi
			for runEnd < len(seg.Words) && seg.Words[runEnd].Interval == nil {
				runEnd++
			}
			lo := seg.Interval.Start
			if wi > 0 && seg.Words[wi-1].Interval != nil {
				lo = seg.Words[wi-1].Interval.End
			}
			hi := seg.Interval.End
			if runEnd < len(seg.Words) && seg.Words[runEnd].Interval != nil {
				hi = seg.Words[runEnd].Interval.Start
			}
			if hi < lo {
				hi = lo
			}
			step := (hi - lo) / float64(runEnd-wi)
			for i := wi; i < runEnd; i++ {
				start := lo + float64(i-wi)*step
				seg.Words[i].Interval = &timecode.Interval{Start: start, End: start + step}
				report.InterpolatedWords++
			}
			// Avoid float drift at the run's tail.
			seg.Words[runEnd-1].Interval.End = hi
			wi = runEnd - 1
		}
	}
}

// repairInvertedIntervals clips any interval whose end precedes its start to
// zero length at the start. Inverted timing is engine noise, never fatal.
func repairInvertedIntervals(t *transcript.Transcript, report *Report) {
	for si := range t.Segments {
		seg := &t.Segments[si]
		if fixed, ok := seg.Interval.Normalize(); ok {
			seg.Interval = fixed
			report.InvertedIntervals++
		}
		for wi := range seg.Words {
			iv := seg.Words[wi].Interval
			if iv == nil {
				continue
			}
			if fixed, ok := iv.Normalize(); ok {
				*iv = fixed
				report.InvertedIntervals++
			}
		}
	}
}

// enforceMonotonicity walks the whole timeline and clips any start that
// precedes the previous element's end forward. Word intervals are also kept
// inside their segment. Every touched element is counted so the caller can
// judge whether the sources have drifted beyond repair.
func enforceMonotonicity(t *transcript.Transcript, report *Report) {
	prevSegEnd := 0.0
	for si := range t.Segments {
		seg := &t.Segments[si]
		report.TotalElements++
		if seg.Interval.Start < prevSegEnd {
			seg.Interval.Start = prevSegEnd
			if seg.Interval.End < seg.Interval.Start {
				seg.Interval.End = seg.Interval.Start
			}
			report.ClippedElements++
		}
		prevSegEnd = seg.Interval.End

		prevWordEnd := seg.Interval.Start
		for wi := range seg.Words {
			w := &seg.Words[wi]
			report.TotalElements++
			if w.Interval == nil {
				continue
			}
			clipped := false
			if w.Interval.Start < prevWordEnd {
				w.Interval.Start = prevWordEnd
				clipped = true
			}
			if w.Interval.End > seg.Interval.End {
				w.Interval.End = seg.Interval.End
				clipped = true
			}
			if w.Interval.End < w.Interval.Start {
				w.Interval.End = w.Interval.Start
				clipped = true
			}
			if clipped {
				report.ClippedElements++
			}
			prevWordEnd = w.Interval.End
		}
	}
}
