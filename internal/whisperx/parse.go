package whisperx

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

type payloadWord struct {
	Word    string   `json:"word"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Score   *float64 `json:"score"`
	Speaker string   `json:"speaker"`
}

type payloadSegment struct {
	Text    string        `json:"text"`
	Start   float64       `json:"start"`
	End     float64       `json:"end"`
	Speaker string        `json:"speaker"`
	Words   []payloadWord `json:"words"`
}

type payloadTurn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

type payload struct {
	Language string           `json:"language"`
	Segments []payloadSegment `json:"segments"`
	Turns    []payloadTurn    `json:"turns"`
}

// ParseJSON normalizes the aligned engine's JSON output into a transcript.
// Words that failed alignment arrive without timestamps and are retained
// untimed; the synchronizer interpolates them later. When diarization turns
// are present every word and segment receives the speaker of the turn with
// maximal interval overlap (ties to the earliest turn); words outside every
// turn inherit the nearest turn, ties toward the preceding one.
func ParseJSON(data []byte, lang string) (transcript.Transcript, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return transcript.Transcript{}, fmt.Errorf("parse whisperx json: %w", err)
	}

	if lang == "" {
		lang = p.Language
	}
	out := transcript.Transcript{
		Language:   lang,
		Source:     transcript.SourceAligned,
		WordTiming: transcript.TimingMeasured,
	}

	turns := make([]transcript.Turn, 0, len(p.Turns))
	for _, t := range p.Turns {
		iv, _ := timecode.Interval{Start: t.Start, End: t.End}.Normalize()
		turns = append(turns, transcript.Turn{Interval: iv, Speaker: transcript.Speaker(t.Speaker)})
	}

	embeddedSpeakers := false
	for _, ps := range p.Segments {
		seg := transcript.Segment{
			Interval: timecode.Interval{Start: ps.Start, End: ps.End},
			Speaker:  transcript.Speaker(ps.Speaker),
		}
		if ps.Speaker != "" {
			embeddedSpeakers = true
		}
		for _, pw := range ps.Words {
			text := strings.TrimSpace(pw.Word)
			if text == "" {
				continue
			}
			word := transcript.Word{
				Text:       text,
				Confidence: pw.Score,
				Speaker:    transcript.Speaker(pw.Speaker),
			}
			if pw.Speaker != "" {
				embeddedSpeakers = true
			}
			if pw.Start != nil && pw.End != nil {
				iv, _ := timecode.Interval{Start: *pw.Start, End: *pw.End}.Normalize()
				word.Interval = &iv
			}
			seg.Words = append(seg.Words, word)
		}
		if len(seg.Words) == 0 {
			continue
		}
		seg.Text = seg.WordText()
		growToWords(&seg)
		out.Segments = append(out.Segments, seg)
	}

	if len(turns) > 0 {
		attachTurns(&out, turns)
		out.Diarized = true
	} else if embeddedSpeakers {
		fillEmbeddedSpeakers(&out)
		out.Diarized = true
	}
	return out, nil
}

// growToWords widens the segment interval to cover its timed words; the
// aligned engine occasionally reports word timings just outside the segment.
func growToWords(seg *transcript.Segment) {
	for _, w := range seg.Words {
		if w.Interval == nil {
			continue
		}
		if w.Interval.Start < seg.Interval.Start {
			seg.Interval.Start = w.Interval.Start
		}
		if w.Interval.End > seg.Interval.End {
			seg.Interval.End = w.Interval.End
		}
	}
}

// attachTurns assigns each word and segment the speaker of the diarization
// turn with maximal overlap. Turns are consumed here and never retained.
func attachTurns(t *transcript.Transcript, turns []transcript.Turn) {
	for si := range t.Segments {
		seg := &t.Segments[si]
		seg.Speaker = speakerFor(seg.Interval, turns)
		for wi := range seg.Words {
			word := &seg.Words[wi]
			if word.Interval != nil {
				word.Speaker = speakerFor(*word.Interval, turns)
			}
			if word.Speaker == "" {
				word.Speaker = seg.Speaker
			}
		}
	}
}

func speakerFor(iv timecode.Interval, turns []transcript.Turn) transcript.Speaker {
	best := -1
	bestOverlap := 0.0
	for i, turn := range turns {
		overlap := iv.Overlap(turn.Interval)
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = i
		} else if overlap == bestOverlap && overlap > 0 && best >= 0 {
			// Tie on overlap: keep the turn with the earlier start.
			if turns[i].Interval.Start < turns[best].Interval.Start {
				best = i
			}
		}
	}
	if best >= 0 {
		return turns[best].Speaker
	}
	// No overlapping turn: inherit the nearest one, preferring the
	// preceding turn when equidistant.
	nearest := -1
	nearestDist := math.Inf(1)
	for i, turn := range turns {
		dist := iv.Distance(turn.Interval)
		if dist < nearestDist || (dist == nearestDist && turn.Interval.Start < iv.Start) {
			nearestDist = dist
			nearest = i
		}
	}
	if nearest >= 0 {
		return turns[nearest].Speaker
	}
	return ""
}

// fillEmbeddedSpeakers completes speaker labels when the engine emitted them
// inline instead of as a turn list: unlabeled words inherit their segment,
// unlabeled segments inherit their first labeled word or neighbour.
func fillEmbeddedSpeakers(t *transcript.Transcript) {
	var last transcript.Speaker
	for si := range t.Segments {
		seg := &t.Segments[si]
		if seg.Speaker == "" {
			for _, w := range seg.Words {
				if w.Speaker != "" {
					seg.Speaker = w.Speaker
					break
				}
			}
		}
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
}
