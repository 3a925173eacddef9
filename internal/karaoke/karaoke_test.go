package karaoke

import (
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
		WordTiming: transcript.TimingMeasured,
		Segments: []transcript.Segment{{
			Interval: timecode.Interval{Start: 1.0, End: 3.0},
			Text:     "hello world",
			Words: []transcript.Word{
				{Interval: ivp(1.0, 1.8), Text: "hello"},
				{Interval: ivp(2.0, 3.0), Text: "world"},
			},
		}},
	}
}

func TestBuildScheduleRevealTimes(t *testing.T) {
	schedules := BuildSchedule(sampleTranscript())
	if len(schedules) != 1 {
		t.Fatalf("schedules = %d", len(schedules))
	}
	cues := schedules[0].Cues
	if len(cues) != 2 {
		t.Fatalf("cues = %d", len(cues))
	}
	if cues[0].WordIndex != 0 || cues[0].Reveal != 1.0 || cues[0].FullReveal != 1.8 {
		t.Fatalf("first cue = %+v", cues[0])
	}
	if cues[1].WordIndex != 1 || cues[1].Reveal != 2.0 || cues[1].FullReveal != 3.0 {
		t.Fatalf("second cue = %+v", cues[1])
	}
}

func TestBuildScheduleSkipsWordlessSegments(t *testing.T) {
	tr := &transcript.Transcript{Segments: []transcript.Segment{
		{Interval: timecode.Interval{Start: 0, End: 1}, Text: "no words"},
	}}
	if got := BuildSchedule(tr); len(got) != 0 {
		t.Fatalf("schedules = %d, want 0", len(got))
	}
}

func TestWriteASSCumulativeKTags(t *testing.T) {
	var sb strings.Builder
	style, err := Preset("flat")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	if err := WriteASS(&sb, sampleTranscript(), Options{Style: style}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "Dialogue: 0,0:00:01.00,0:00:03.00,Default") {
		t.Fatalf("dialogue line missing:\n%s", out)
	}
	// First word starts at the line start (k0); the second lights up one
	// second after the first (k100).
	if !strings.Contains(out, "{\\k0}HELLO") {
		t.Fatalf("first \\k tag wrong:\n%s", out)
	}
	if !strings.Contains(out, "{\\k100}WORLD") {
		t.Fatalf("second \\k tag wrong:\n%s", out)
	}
}

func TestWriteASSIdempotent(t *testing.T) {
	tr := sampleTranscript()
	style, _ := Preset("viral")
	var first, second strings.Builder
	if err := WriteASS(&first, tr, Options{Style: style}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	if err := WriteASS(&second, tr, Options{Style: style}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	if first.String() != second.String() {
		t.Fatal("repeated rendering differs")
	}
}

func TestWriteASSSpeakerPrefix(t *testing.T) {
	tr := sampleTranscript()
	tr.Diarized = true
	tr.Segments[0].Speaker = "SPEAKER_00"
	style, _ := Preset("clean")
	var sb strings.Builder
	if err := WriteASS(&sb, tr, Options{Style: style, SpeakerPrefix: true}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	if !strings.Contains(sb.String(), "[SPEAKER_00] ") {
		t.Fatalf("speaker prefix missing:\n%s", sb.String())
	}
}

func TestWriteASSHeaderColors(t *testing.T) {
	style, _ := Preset("viral")
	var sb strings.Builder
	if err := WriteASS(&sb, &transcript.Transcript{}, Options{Style: style}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	out := sb.String()
	// FFE600 RGB becomes 00E6FF in ASS BGR order.
	if !strings.Contains(out, "&H0000E6FF") {
		t.Fatalf("primary color not converted to BGR:\n%s", out)
	}
	if !strings.Contains(out, "PlayResX: 1920") || !strings.Contains(out, "PlayResY: 1080") {
		t.Fatalf("play resolution missing:\n%s", out)
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("disco"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestPresetNamesStable(t *testing.T) {
	names := PresetNames()
	want := []string{"clean", "flat", "tech", "viral"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestWrapDialogueCountsVisibleOnly(t *testing.T) {
	text := "{\\k0}AAAA {\\k10}BBBB {\\k10}CCCC"
	got := wrapDialogue(text, 9, 2)
	// Two tokens fit per line; the third starts line two.
	if got != "{\\k0}AAAA {\\k10}BBBB\\N{\\k10}CCCC" {
		t.Fatalf("wrap = %q", got)
	}
}
