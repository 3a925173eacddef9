package whisperx

import (
	"testing"

	"subweave/internal/transcript"
)

func TestParseJSONWordsAndGaps(t *testing.T) {
	raw := `{
		"language": "en",
		"segments": [
			{
				"text": "hello brave world",
				"start": 0.0,
				"end": 3.0,
				"words": [
					{"word": "hello", "start": 0.1, "end": 0.8, "score": 0.98},
					{"word": "brave"},
					{"word": "world", "start": 2.0, "end": 2.9, "score": 0.91}
				]
			}
		]
	}`
	tr, err := ParseJSON([]byte(raw), "")
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if tr.Source != transcript.SourceAligned {
		t.Fatalf("source = %q", tr.Source)
	}
	if tr.Language != "en" {
		t.Fatalf("language = %q", tr.Language)
	}
	if tr.Diarized {
		t.Fatal("unexpected diarized flag")
	}
	if len(tr.Segments) != 1 {
		t.Fatalf("segments = %d", len(tr.Segments))
	}
	words := tr.Segments[0].Words
	if len(words) != 3 {
		t.Fatalf("words = %d", len(words))
	}
	if !words[0].Timed() || words[1].Timed() || !words[2].Timed() {
		t.Fatalf("timing flags wrong: %v %v %v", words[0].Timed(), words[1].Timed(), words[2].Timed())
	}
	if words[0].Confidence == nil || *words[0].Confidence != 0.98 {
		t.Fatalf("confidence = %v", words[0].Confidence)
	}
	if tr.Segments[0].Text != "hello brave world" {
		t.Fatalf("text = %q", tr.Segments[0].Text)
	}
}

func TestParseJSONInvertedWordInterval(t *testing.T) {
	raw := `{"segments":[{"text":"x","start":0,"end":4,"words":[{"word":"x","start":3.0,"end":2.5}]}]}`
	tr, err := ParseJSON([]byte(raw), "en")
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	word := tr.Segments[0].Words[0]
	if word.Interval.Start != 3.0 || word.Interval.End != 3.0 {
		t.Fatalf("inverted interval not clipped: %+v", word.Interval)
	}
}

func TestParseJSONTurnOverlapAssignment(t *testing.T) {
	raw := `{
		"segments": [
			{
				"text": "crossing",
				"start": 1.5,
				"end": 2.5,
				"words": [{"word": "crossing", "start": 1.9, "end": 2.1}]
			}
		],
		"turns": [
			{"start": 0, "end": 2, "speaker": "SPEAKER_A"},
			{"start": 2, "end": 5, "speaker": "SPEAKER_B"}
		]
	}`
	tr, err := ParseJSON([]byte(raw), "en")
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !tr.Diarized {
		t.Fatal("expected diarized transcript")
	}
	// Equal 0.1s overlap with both turns; the tie goes to the earlier turn.
	if got := tr.Segments[0].Words[0].Speaker; got != "SPEAKER_A" {
		t.Fatalf("speaker = %q, want SPEAKER_A", got)
	}
}

func TestParseJSONNearestTurnForGapWords(t *testing.T) {
	raw := `{
		"segments": [
			{
				"text": "late words",
				"start": 9.0,
				"end": 10.0,
				"words": [
					{"word": "late", "start": 9.0, "end": 9.5},
					{"word": "words", "start": 9.5, "end": 10.0}
				]
			}
		],
		"turns": [
			{"start": 0, "end": 4, "speaker": "SPEAKER_A"},
			{"start": 4, "end": 8, "speaker": "SPEAKER_B"}
		]
	}`
	tr, err := ParseJSON([]byte(raw), "en")
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	for _, w := range tr.Segments[0].Words {
		if w.Speaker != "SPEAKER_B" {
			t.Fatalf("word %q speaker = %q, want nearest turn SPEAKER_B", w.Text, w.Speaker)
		}
	}
}

func TestParseJSONEmbeddedSpeakers(t *testing.T) {
	raw := `{
		"segments": [
			{"text": "one", "start": 0, "end": 1, "speaker": "SPEAKER_00",
			 "words": [{"word": "one", "start": 0, "end": 1}]},
			{"text": "two", "start": 1, "end": 2,
			 "words": [{"word": "two", "start": 1, "end": 2}]}
		]
	}`
	tr, err := ParseJSON([]byte(raw), "en")
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !tr.Diarized {
		t.Fatal("expected diarized transcript")
	}
	// The unlabeled segment inherits its predecessor.
	if tr.Segments[1].Speaker != "SPEAKER_00" {
		t.Fatalf("segment speaker = %q", tr.Segments[1].Speaker)
	}
	if tr.Segments[1].Words[0].Speaker != "SPEAKER_00" {
		t.Fatalf("word speaker = %q", tr.Segments[1].Words[0].Speaker)
	}
}

func TestParseJSONGrowsSegmentToWords(t *testing.T) {
	raw := `{"segments":[{"text":"w","start":1.0,"end":2.0,"words":[{"word":"w","start":0.8,"end":2.3}]}]}`
	tr, err := ParseJSON([]byte(raw), "en")
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	iv := tr.Segments[0].Interval
	if iv.Start != 0.8 || iv.End != 2.3 {
		t.Fatalf("segment not widened: %+v", iv)
	}
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json"), ""); err == nil {
		t.Fatal("expected parse error")
	}
}
