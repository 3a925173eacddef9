package merge

import (
	"fmt"
	"sort"

	"subweave/internal/services"
	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

// Options tunes the synchronizer. Zero values fall back to defaults.
type Options struct {
	// Slack is the cross-engine drift tolerance in seconds when matching
	// aligned words to base segments.
	Slack float64
	// MinWordDuration is the floor for synthesized word timing in seconds.
	MinWordDuration float64
	// ClipFatalFraction aborts the merge when monotonicity clipping touches
	// more than this share of elements. Clipping a handful of boundaries is
	// noise; clipping a fifth of the timeline means the two sources are
	// irreconcilably desynchronized.
	ClipFatalFraction float64
}

const (
	defaultSlack             = 0.25
	defaultMinWordDuration   = 0.06
	defaultClipFatalFraction = 0.2
)

func (o Options) withDefaults() Options {
	if o.Slack <= 0 {
		o.Slack = defaultSlack
	}
	if o.MinWordDuration <= 0 {
		o.MinWordDuration = defaultMinWordDuration
	}
	if o.ClipFatalFraction <= 0 {
		o.ClipFatalFraction = defaultClipFatalFraction
	}
	return o
}

// Report records every repair the synchronizer performed, for diagnostics.
// Degradations are reported, never silently absorbed.
type Report struct {
	// ApproximatedSegments synthesized word timing from segment boundaries.
	ApproximatedSegments int
	// AssignedWords came from the aligned engine.
	AssignedWords int
	// OrphanSegments were synthesized for aligned speech the base engine
	// missed.
	OrphanSegments int
	// InterpolatedWords had no measured interval and were interpolated
	// between neighbours.
	InterpolatedWords int
	// InvertedIntervals arrived with end before start and were clipped to
	// zero length at their start.
	InvertedIntervals int
	// BoundaryClamps moved word intervals inside their segment bounds.
	BoundaryClamps int
	// ClippedElements had their start moved forward to restore
	// monotonicity.
	ClippedElements int
	// TotalElements counts all segments and words the final pass walked.
	TotalElements int
}

// ClippedFraction returns the share of elements touched by monotonicity
// clipping.
func (r Report) ClippedFraction() float64 {
	if r.TotalElements == 0 {
		return 0
	}
	return float64(r.ClippedElements) / float64(r.TotalElements)
}

// Merge reconciles the base transcript with optional aligned data into one
// invariant-satisfying transcript. The base engine's segmentation is trusted
// for coarse boundaries, the aligned engine's transcription for wording and
// word timing; absent aligned data, word timing is approximated from segment
// boundaries. The returned transcript always has ordered, non-overlapping
// segments and fully timed words.
func Merge(base *transcript.Transcript, aligned *transcript.Transcript, opts Options) (transcript.Transcript, Report, error) {
	opts = opts.withDefaults()
	var report Report

	result := transcript.Transcript{
		Language:   base.Language,
		Source:     transcript.SourceBase,
		WordTiming: transcript.TimingApproximated,
		Segments:   cloneSegments(base.Segments),
	}

	if aligned != nil && len(aligned.Segments) > 0 {
		result.Source = transcript.SourceAligned
		result.Diarized = aligned.Diarized
		if result.Language == "" {
			result.Language = aligned.Language
		}
		mergeAligned(&result, aligned, opts, &report)
		if report.AssignedWords > 0 || report.OrphanSegments > 0 {
			result.WordTiming = transcript.TimingMeasured
		}
	} else {
		for i := range result.Segments {
			approximateWords(&result.Segments[i], opts)
			report.ApproximatedSegments++
		}
	}

	repairUntimedWords(&result, &report)
	repairInvertedIntervals(&result, &report)
	enforceMonotonicity(&result, &report)

	if result.Diarized {
		completeSpeakers(&result)
	}

	if fraction := report.ClippedFraction(); fraction > opts.ClipFatalFraction {
		return transcript.Transcript{}, report, services.Wrap(services.ErrDesync, "merge", "monotonicity",
			fmt.Sprintf("clipped %.0f%% of elements (threshold %.0f%%)", fraction*100, opts.ClipFatalFraction*100), nil)
	}
	return result, report, nil
}

func cloneSegments(segments []transcript.Segment) []transcript.Segment {
	out := make([]transcript.Segment, len(segments))
	copy(out, segments)
	for i := range out {
		if len(out[i].Words) > 0 {
			words := make([]transcript.Word, len(out[i].Words))
			copy(words, out[i].Words)
			out[i].Words = words
		}
	}
	return out
}

// mergeAligned walks base segments and aligned words in parallel by time,
// assigning each timed aligned word to the base segment whose slack-extended
// interval contains the word's midpoint. Untimed words follow the destination
// of their nearest timed neighbour so segment-internal order survives, and
// are never dropped. Aligned words matching no base segment become synthetic
// orphan segments; base segments matching no aligned words keep approximated
// timing.
func mergeAligned(result *transcript.Transcript, aligned *transcript.Transcript, opts Options, report *Report) {
	type alignedWord struct {
		word    transcript.Word
		segment int // index into aligned.Segments, groups orphans
	}
	var words []alignedWord
	for si := range aligned.Segments {
		for _, w := range aligned.Segments[si].Words {
			words = append(words, alignedWord{word: w, segment: si})
		}
	}

	assignments := make([][]transcript.Word, len(result.Segments))
	var orphans []alignedWord
	lastTarget := -1
	lastOrphaned := false
	var pendingUntimed []int // indices into words awaiting a first destination

	target := func(iv timecode.Interval) int {
		mid := iv.Midpoint()
		for si := range result.Segments {
			seg := result.Segments[si].Interval
			if mid >= seg.Start-opts.Slack && mid <= seg.End+opts.Slack {
				return si
			}
		}
		return -1
	}

	for i, aw := range words {
		if aw.word.Interval == nil {
			switch {
			case lastOrphaned:
				orphans = append(orphans, aw)
			case lastTarget >= 0:
				assignments[lastTarget] = append(assignments[lastTarget], aw.word)
			default:
				pendingUntimed = append(pendingUntimed, i)
			}
			continue
		}
		si := target(*aw.word.Interval)
		if si < 0 {
			// Untimed words preceding the first timed word share its fate.
			for _, pi := range pendingUntimed {
				orphans = append(orphans, words[pi])
			}
			pendingUntimed = nil
			orphans = append(orphans, aw)
			lastTarget = -1
			lastOrphaned = true
			continue
		}
		for _, pi := range pendingUntimed {
			assignments[si] = append(assignments[si], words[pi].word)
		}
		pendingUntimed = nil
		assignments[si] = append(assignments[si], aw.word)
		lastTarget = si
		lastOrphaned = false
	}

	// Untimed words never anchored by any timed word fall back to their
	// originating aligned segment's boundary. Speech is retained either way.
	for _, pi := range pendingUntimed {
		aw := words[pi]
		if si := target(aligned.Segments[aw.segment].Interval); si >= 0 {
			assignments[si] = append(assignments[si], aw.word)
		} else {
			orphans = append(orphans, aw)
		}
	}

	for si := range result.Segments {
		seg := &result.Segments[si]
		if len(assignments[si]) == 0 {
			// Speech the aligned engine missed keeps its approximation.
			approximateWords(seg, opts)
			report.ApproximatedSegments++
			continue
		}
		seg.Words = assignments[si]
		report.AssignedWords += len(seg.Words)
		clampWordsToSegment(seg, report)
		// Aligned wording overrides the base transcription; the base
		// segment boundary stays authoritative.
		seg.Text = seg.WordText()
		seg.Speaker = dominantSpeaker(seg.Words)
	}

	// Synthesize segments for aligned speech the base engine missed,
	// grouped by their originating aligned segment.
	for start := 0; start < len(orphans); {
		end := start + 1
		for end < len(orphans) && orphans[end].segment == orphans[start].segment {
			end++
		}
		seg := transcript.Segment{}
		var iv timecode.Interval
		timed := false
		for _, aw := range orphans[start:end] {
			seg.Words = append(seg.Words, aw.word)
			if aw.word.Interval == nil {
				continue
			}
			if !timed {
				iv = *aw.word.Interval
				timed = true
			} else {
				iv = iv.Union(*aw.word.Interval)
			}
		}
		if !timed {
			// An all-untimed group keeps its aligned segment's boundary.
			iv = aligned.Segments[orphans[start].segment].Interval
		}
		seg.Interval = iv
		seg.Text = seg.WordText()
		seg.Speaker = dominantSpeaker(seg.Words)
		result.Segments = append(result.Segments, seg)
		report.OrphanSegments++
		start = end
	}

	sort.SliceStable(result.Segments, func(i, j int) bool {
		return result.Segments[i].Interval.Start < result.Segments[j].Interval.Start
	})
}

func clampWordsToSegment(seg *transcript.Segment, report *Report) {
	for wi := range seg.Words {
		w := &seg.Words[wi]
		if w.Interval == nil {
			continue
		}
		clamped := false
		if w.Interval.Start < seg.Interval.Start {
			w.Interval.Start = seg.Interval.Start
			clamped = true
		}
		if w.Interval.End > seg.Interval.End {
			w.Interval.End = seg.Interval.End
			clamped = true
		}
		if w.Interval.End < w.Interval.Start {
			w.Interval.End = w.Interval.Start
			clamped = true
		}
		if clamped {
			report.BoundaryClamps++
		}
	}
}

func dominantSpeaker(words []transcript.Word) transcript.Speaker {
	counts := make(map[transcript.Speaker]int)
	var best transcript.Speaker
	bestCount := 0
	for _, w := range words {
		if w.Speaker == "" {
			continue
		}
		counts[w.Speaker]++
		if counts[w.Speaker] > bestCount {
			bestCount = counts[w.Speaker]
			best = w.Speaker
		}
	}
	return best
}

// completeSpeakers guarantees every word of a diarized transcript carries a
// speaker: unlabeled words inherit their segment, then the nearest labeled
// neighbour.
func completeSpeakers(t *transcript.Transcript) {
	var last transcript.Speaker
	for si := range t.Segments {
		seg := &t.Segments[si]
		if seg.Speaker == "" {
			seg.Speaker = last
		}
		last = seg.Speaker
		for wi := range seg.Words {
			if seg.Words[wi].Speaker == "" {
				seg.Words[wi].Speaker = seg.Speaker
			}
		}
	}
	// A leading unlabeled run inherits from the first labeled segment.
	var next transcript.Speaker
	for si := len(t.Segments) - 1; si >= 0; si-- {
		seg := &t.Segments[si]
		if seg.Speaker == "" {
			seg.Speaker = next
			for wi := range seg.Words {
				if seg.Words[wi].Speaker == "" {
					seg.Words[wi].Speaker = next
				}
			}
		}
		next = seg.Speaker
	}
}
