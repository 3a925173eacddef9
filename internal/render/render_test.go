package render

import (
	"encoding/json"
	"strings"
	"testing"

	"subweave/internal/timecode"
	"subweave/internal/transcript"
)

func ivp(start, end float64) *timecode.Interval {
	return &timecode.Interval{Start: start, End: end}
}

func sampleTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Language:   "en",
		Source:     transcript.SourceAligned,
		WordTiming: transcript.TimingMeasured,
		Diarized:   true,
		Segments: []transcript.Segment{
			{
				Interval: timecode.Interval{Start: 0.5, End: 2.0},
				Text:     "hello world",
				Speaker:  "SPEAKER_00",
				Words: []transcript.Word{
					{Interval: ivp(0.5, 1.2), Text: "hello", Speaker: "SPEAKER_00"},
					{Interval: ivp(1.3, 2.0), Text: "world", Speaker: "SPEAKER_00"},
				},
			},
			{
				Interval: timecode.Interval{Start: 2.5, End: 4.0},
				Text:     "goodbye",
				Speaker:  "SPEAKER_01",
				Words: []transcript.Word{
					{Interval: ivp(2.5, 4.0), Text: "goodbye", Speaker: "SPEAKER_01"},
				},
			},
		},
	}
}

func TestWriteSRT(t *testing.T) {
	var sb strings.Builder
	if err := WriteSRT(&sb, sampleTranscript(), Options{}); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	want := "1\n00:00:00,500 --> 00:00:02,000\nhello world\n\n" +
		"2\n00:00:02,500 --> 00:00:04,000\ngoodbye\n\n"
	if sb.String() != want {
		t.Fatalf("srt output:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestWriteSRTSpeakerPrefix(t *testing.T) {
	var sb strings.Builder
	if err := WriteSRT(&sb, sampleTranscript(), Options{SpeakerPrefix: true}); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	if !strings.Contains(sb.String(), "[SPEAKER_00] hello world") {
		t.Fatalf("speaker prefix missing:\n%s", sb.String())
	}
}

func TestWriteVTT(t *testing.T) {
	var sb strings.Builder
	if err := WriteVTT(&sb, sampleTranscript(), Options{}); err != nil {
		t.Fatalf("WriteVTT: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("missing WEBVTT header:\n%s", out)
	}
	if !strings.Contains(out, "00:00:00.500 --> 00:00:02.000\nhello world\n") {
		t.Fatalf("vtt cue wrong:\n%s", out)
	}
}

func TestWritePlainText(t *testing.T) {
	var sb strings.Builder
	if err := WritePlainText(&sb, sampleTranscript(), Options{}); err != nil {
		t.Fatalf("WritePlainText: %v", err)
	}
	if sb.String() != "hello world\ngoodbye\n" {
		t.Fatalf("plain text = %q", sb.String())
	}
}

func TestWriteTimestamped(t *testing.T) {
	var sb strings.Builder
	if err := WriteTimestamped(&sb, sampleTranscript(), Options{}); err != nil {
		t.Fatalf("WriteTimestamped: %v", err)
	}
	if !strings.Contains(sb.String(), "[00:00:00.500 --> 00:00:02.000] hello world") {
		t.Fatalf("timestamped output:\n%s", sb.String())
	}
}

func TestWriteJSONIncludesMeasuredWords(t *testing.T) {
	var sb strings.Builder
	if err := WriteJSON(&sb, sampleTranscript()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var doc struct {
		Language   string `json:"language"`
		WordTiming string `json:"word_timing"`
		Diarized   bool   `json:"diarized"`
		Segments   []struct {
			Text  string `json:"text"`
			Words []struct {
				Text  string  `json:"text"`
				Start float64 `json:"start"`
			} `json:"words"`
		} `json:"segments"`
	}
	if err := json.Unmarshal([]byte(sb.String()), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.WordTiming != "measured" || !doc.Diarized || doc.Language != "en" {
		t.Fatalf("document header wrong: %+v", doc)
	}
	if len(doc.Segments) != 2 || len(doc.Segments[0].Words) != 2 {
		t.Fatalf("segments/words wrong: %+v", doc.Segments)
	}
}

func TestWriteJSONOmitsApproximatedWords(t *testing.T) {
	tr := sampleTranscript()
	tr.WordTiming = transcript.TimingApproximated
	var sb strings.Builder
	if err := WriteJSON(&sb, tr); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if strings.Contains(sb.String(), `"words"`) {
		t.Fatalf("approximated words exported:\n%s", sb.String())
	}
}

func TestWriteSRTEmptyTranscript(t *testing.T) {
	var sb strings.Builder
	if err := WriteSRT(&sb, &transcript.Transcript{}, Options{}); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	if sb.String() != "" {
		t.Fatalf("expected empty output, got %q", sb.String())
	}
}
