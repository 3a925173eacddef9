package polish

import (
	"math"
	"strings"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// Options tunes cue presentation. Durations are in seconds.
type Options struct {
	MaxLineChars int
	MaxLines     int
	// MaxCPS is the reading-speed ceiling in characters per second; cues
	// above it get their end time extended.
	MaxCPS      float64
	MinDuration float64
	MaxDuration float64
	// MergeGap merges a cue into its predecessor when the silence between
	// them is at most this long.
	MergeGap float64
}

// Apply reshapes the transcript's cues for subtitle display: whitespace
// normalization, short-gap merging, duration floors and ceilings, reading
// speed extension and line wrapping. The result is cue-level only; word
// timing does not survive re-chunking, so callers render karaoke from the
// unpolished transcript.
func Apply(t *transcript.Transcript, opts Options) transcript.Transcript {
	out := transcript.Transcript{
		Language:   t.Language,
		Source:     t.Source,
		Diarized:   t.Diarized,
		WordTiming: t.WordTiming,
	}

	cues := collectCues(t)
	cues = mergeShortGaps(cues, opts)
	cues = adjustDurations(cues, opts)
	for _, c := range cues {
		out.Segments = append(out.Segments, transcript.Segment{
			Interval: c.interval,
			Text:     WrapText(c.text, opts.MaxLineChars, opts.MaxLines),
			Speaker:  c.speaker,
		})
	}
	return out
}

type cue struct {
	interval timecode.Interval
	text     string
	speaker  transcript.Speaker
}

func collectCues(t *transcript.Transcript) []cue {
	var cues []cue
	for _, seg := range t.Segments {
		text := strings.Join(strings.Fields(seg.Text), " ")
		if text == "" {
			continue
		}
		iv := seg.Interval
		if iv.End < iv.Start {
			iv.End = iv.Start
		}
		cues = append(cues, cue{interval: iv, text: text, speaker: seg.Speaker})
	}
	return cues
}

func mergeShortGaps(cues []cue, opts Options) []cue {
	if opts.MergeGap <= 0 {
		return cues
	}
	var merged []cue
	for _, c := range cues {
		if len(merged) > 0 {
			prev := &merged[len(merged)-1]
			gap := c.interval.Start - prev.interval.End
			// Never merge across a speaker change.
			if gap >= 0 && gap <= opts.MergeGap && c.speaker == prev.speaker {
				prev.interval.End = c.interval.End
				prev.text += " " + c.text
				continue
			}
		}
		merged = append(merged, c)
	}
	return merged
}

func adjustDurations(cues []cue, opts Options) []cue {
	var out []cue
	for i, c := range cues {
		if opts.MinDuration > 0 && c.interval.Duration() < opts.MinDuration {
			c.interval.End = c.interval.Start + opts.MinDuration
		}

		words := strings.Fields(c.text)
		if opts.MaxDuration > 0 && c.interval.Duration() > opts.MaxDuration && len(words) >= 4 {
			out = append(out, splitLongCue(c, words, opts)...)
			continue
		}

		if opts.MaxCPS > 0 && c.interval.Duration() > 0 {
			cps := float64(len(c.text)) / c.interval.Duration()
			if cps > opts.MaxCPS {
				target := float64(len(c.text)) / opts.MaxCPS
				if opts.MinDuration > 0 && target < opts.MinDuration {
					target = opts.MinDuration
				}
				if opts.MaxDuration > 0 && target > opts.MaxDuration {
					target = opts.MaxDuration
				}
				end := c.interval.Start + target
				// Extending never steals time from the next cue.
				if i+1 < len(cues) && end > cues[i+1].interval.Start {
					end = math.Max(c.interval.End, cues[i+1].interval.Start)
				}
				if end > c.interval.End {
					c.interval.End = end
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// splitLongCue chops an overlong cue into word chunks with durations
// proportional to chunk size; the final chunk always closes at the original
// end time.
func splitLongCue(c cue, words []string, opts Options) []cue {
	parts := int(math.Ceil(c.interval.Duration() / opts.MaxDuration))
	if parts < 2 {
		parts = 2
	}
	chunkSize := len(words) / parts
	if chunkSize < 1 {
		chunkSize = 1
	}

	var out []cue
	cursor := c.interval.Start
	for idx := 0; idx < len(words); idx += chunkSize {
		chunk := words[idx:min(idx+chunkSize, len(words))]
		remaining := len(words) - idx
		remainingTime := c.interval.End - cursor
		estimate := remainingTime * float64(len(chunk)) / float64(remaining)
		if opts.MinDuration > 0 && estimate < opts.MinDuration {
			estimate = opts.MinDuration
		}
		if estimate > opts.MaxDuration {
			estimate = opts.MaxDuration
		}
		end := cursor + estimate
		if idx+chunkSize >= len(words) {
			end = c.interval.End
		}
		out = append(out, cue{
			interval: timecode.Interval{Start: cursor, End: end},
			text:     strings.Join(chunk, " "),
			speaker:  c.speaker,
		})
		cursor = end
	}
	return out
}

// WrapText breaks text into at most maxLines lines of at most maxChars
// characters. When a greedy wrap needs too many lines, words are
// redistributed evenly instead so no line is dropped.
func WrapText(text string, maxChars, maxLines int) string {
	if maxChars <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	lines := greedyWrap(words, maxChars)
	if maxLines > 0 && len(lines) > maxLines {
		chunk := len(words) / maxLines
		if chunk < 1 {
			chunk = 1
		}
		lines = lines[:0]
		i := 0
		for n := 0; n < maxLines-1; n++ {
			if i >= len(words) {
				break
			}
			lines = append(lines, strings.Join(words[i:min(i+chunk, len(words))], " "))
			i += chunk
		}
		lines = append(lines, strings.Join(words[i:], " "))
		if maxLines > 0 && len(lines) > maxLines {
			lines = lines[:maxLines]
		}
	}
	return strings.Join(lines, "\n")
}

func greedyWrap(words []string, maxChars int) []string {
	var lines []string
	current := ""
	for _, w := range words {
		switch {
		case current == "":
			current = w
		case len(current)+1+len(w) <= maxChars:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
