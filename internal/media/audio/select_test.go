package audio

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"subweave/internal/media/ffprobe"
)

func audioStream(index int, duration string, channels int) ffprobe.Stream {
	return ffprobe.Stream{Index: index, CodecType: "audio", Duration: duration, Channels: channels}
}

func TestSelectLongestStream(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		audioStream(1, "30.0", 2),
		audioStream(2, "120.0", 2),
		audioStream(3, "120.0", 6),
	}
	sel, ok := Select(streams, -1)
	if !ok {
		t.Fatal("no selection")
	}
	// The two long streams tie; the earlier one wins.
	if sel.Stream.Index != 2 || sel.Ordinal != 1 {
		t.Fatalf("selection = %+v", sel)
	}
}

func TestSelectExplicitTrack(t *testing.T) {
	streams := []ffprobe.Stream{
		audioStream(1, "300.0", 2),
		audioStream(2, "10.0", 2),
	}
	sel, ok := Select(streams, 1)
	if !ok || sel.Stream.Index != 2 || sel.Ordinal != 1 {
		t.Fatalf("selection = %+v ok=%v", sel, ok)
	}
}

func TestSelectExplicitTrackOutOfRangeFallsBack(t *testing.T) {
	streams := []ffprobe.Stream{audioStream(1, "300.0", 2)}
	sel, ok := Select(streams, 7)
	if !ok || sel.Ordinal != 0 {
		t.Fatalf("selection = %+v ok=%v", sel, ok)
	}
}

func TestSelectNoAudio(t *testing.T) {
	if _, ok := Select([]ffprobe.Stream{{CodecType: "video"}}, -1); ok {
		t.Fatal("expected no selection")
	}
}

func TestSelectionLabel(t *testing.T) {
	sel := Selection{Stream: ffprobe.Stream{
		CodecName: "aac",
		Channels:  2,
		Tags:      map[string]string{"language": "eng"},
	}}
	if got := sel.Label(); got != "eng | aac | stereo" {
		t.Fatalf("label = %q", got)
	}
}

func TestExtractWAVArgs(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "out.wav")

	ex := NewExtractor("ffmpeg")
	var gotArgs []string
	ex.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = append([]string{name}, args...)
		return os.WriteFile(wav, []byte("riff"), 0o644)
	})

	if err := ex.ExtractWAV(context.Background(), "/media/in.mkv", 1, wav); err != nil {
		t.Fatalf("ExtractWAV: %v", err)
	}
	for _, want := range []string{"-map", "0:a:1", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1"} {
		if !slices.Contains(gotArgs, want) {
			t.Fatalf("missing %q in %v", want, gotArgs)
		}
	}
}

func TestExtractWAVEmptyOutputFails(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "out.wav")
	ex := NewExtractor("")
	ex.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.WriteFile(wav, nil, 0o644)
	})
	if err := ex.ExtractWAV(context.Background(), "/media/in.mkv", 0, wav); err == nil {
		t.Fatal("expected error for empty output")
	}
}
