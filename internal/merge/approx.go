package merge

import (
	"strings"
	"unicode/utf8"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// approximateWords synthesizes per-word timing for a segment from its text
// and boundaries. Durations are proportional to character length with a
// configurable floor, the first word starts exactly at the segment start and
// the last ends exactly at the segment end.
func approximateWords(seg *transcript.Segment, opts Options) {
	tokens := strings.Fields(seg.Text)
	if len(tokens) == 0 {
		seg.Words = nil
		return
	}

	total := 0
	weights := make([]int, len(tokens))
	for i, tok := range tokens {
		weights[i] = utf8.RuneCountInString(tok)
		total += weights[i]
	}
	duration := seg.Interval.Duration()

	words := make([]transcript.Word, len(tokens))
	cursor := seg.Interval.Start
	for i, tok := range tokens {
		share := duration / float64(len(tokens))
		if total > 0 {
			share = duration * float64(weights[i]) / float64(total)
		}
		if share < opts.MinWordDuration {
			share = opts.MinWordDuration
		}
		start := cursor
		end := start + share
		if end > seg.Interval.End {
			end = seg.Interval.End
		}
		if start > seg.Interval.End {
			start = seg.Interval.End
			end = seg.Interval.End
		}
		words[i] = transcript.Word{
			Interval: &timecode.Interval{Start: start, End: end},
			Text:     tok,
			Speaker:  seg.Speaker,
		}
		cursor = end
	}
	// The floor can leave a shortfall; the final word always closes the
	// segment.
	words[len(words)-1].Interval.End = seg.Interval.End
	if words[len(words)-1].Interval.Start > seg.Interval.End {
		words[len(words)-1].Interval.Start = seg.Interval.End
	}
	seg.Words = words
}
