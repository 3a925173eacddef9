package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subweave/internal/config"
	"subweave/internal/logging"
	"subweave/internal/media/ffprobe"
	"subweave/internal/state"
	"subweave/internal/transcript"
)

const sampleSRT = `1
00:00:00,000 --> 00:00:02,000
hello world

2
00:00:02,500 --> 00:00:04,000
second cue
`

const sampleAlignedJSON = `{
	"language": "en",
	"segments": [
		{"text": "hello there world", "start": 0.0, "end": 2.0, "words": [
			{"word": "hello", "start": 0.1, "end": 0.6},
			{"word": "there", "start": 0.7, "end": 1.2},
			{"word": "world", "start": 1.3, "end": 1.9}
		]},
		{"text": "second cue", "start": 2.5, "end": 4.0, "words": [
			{"word": "second", "start": 2.5, "end": 3.2},
			{"word": "cue", "start": 3.3, "end": 4.0}
		]}
	]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Media.AudioTrack = -1
	cfg.Transcription.Engine = "base"
	cfg.Outputs = config.Outputs{VTT: true, JSON: true}
	return &cfg
}

func fakeInspector(streams ...ffprobe.Stream) func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
	return func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: streams}, nil
	}
}

func writeMedia(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("container-bytes"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	return path
}

// stubEngines wires command runners that fabricate engine output files.
func stubEngines(t *testing.T, p *Pipeline, alignedJSON string) {
	t.Helper()
	p.Extractor().WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		var wav string
		for _, arg := range args {
			if strings.HasSuffix(arg, ".wav") {
				wav = arg
			}
		}
		return os.WriteFile(wav, []byte("riff"), 0o644)
	})
	p.BaseService().WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		var prefix string
		for i, arg := range args {
			if arg == "-of" && i+1 < len(args) {
				prefix = args[i+1]
			}
		}
		return os.WriteFile(prefix+".srt", []byte(sampleSRT), 0o644)
	})
	if alignedJSON != "" {
		p.AlignedService().WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			var wav, outDir string
			for i, arg := range args {
				if strings.HasSuffix(arg, ".wav") {
					wav = arg
				}
				if arg == "--output_dir" && i+1 < len(args) {
					outDir = args[i+1]
				}
			}
			stem := strings.TrimSuffix(filepath.Base(wav), filepath.Ext(wav))
			return os.WriteFile(filepath.Join(outDir, stem+".json"), []byte(alignedJSON), 0o644)
		})
	}
}

func TestProcessFileBaseOnly(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, "")

	media := writeMedia(t, "talk.mkv")
	result := p.ProcessFile(context.Background(), media)
	if result.Err != nil {
		t.Fatalf("ProcessFile: %v", result.Err)
	}
	if result.Source != transcript.SourceBase || result.WordTiming != transcript.TimingApproximated {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Outputs) != 3 {
		t.Fatalf("outputs = %v", result.Outputs)
	}
	srt, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "talk.srt"))
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if !strings.Contains(string(srt), "hello world") {
		t.Fatalf("srt content:\n%s", srt)
	}
}

func TestProcessFileAlignedOverridesText(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.Engine = "aligned"
	cfg.WhisperX.UVXBinary = "sh" // present on PATH so the probe passes
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, sampleAlignedJSON)

	media := writeMedia(t, "talk.mkv")
	result := p.ProcessFile(context.Background(), media)
	if result.Err != nil {
		t.Fatalf("ProcessFile: %v", result.Err)
	}
	if result.WordTiming != transcript.TimingMeasured {
		t.Fatalf("word timing = %q", result.WordTiming)
	}
	srt, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "talk.srt"))
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	// Aligned wording replaced the base text inside base boundaries.
	if !strings.Contains(string(srt), "hello there world") {
		t.Fatalf("aligned text missing:\n%s", srt)
	}
	if !strings.Contains(string(srt), "00:00:00,000 --> 00:00:02,000") {
		t.Fatalf("base boundary lost:\n%s", srt)
	}
}

func TestProcessFileAlignedRequiredFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.Engine = "aligned"
	cfg.WhisperX.UVXBinary = "sh"
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, "")
	p.AlignedService().WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.ErrPermission
	})

	result := p.ProcessFile(context.Background(), writeMedia(t, "talk.mkv"))
	if result.Err == nil {
		t.Fatal("explicit aligned request must fail the file when the engine fails")
	}
}

func TestProcessFileAutoDegradesOnAlignedFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.Engine = "auto"
	cfg.WhisperX.UVXBinary = "sh"
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, "")
	p.AlignedService().WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.ErrPermission
	})

	result := p.ProcessFile(context.Background(), writeMedia(t, "talk.mkv"))
	if result.Err != nil {
		t.Fatalf("auto mode must degrade, got %v", result.Err)
	}
	if !result.Degraded {
		t.Fatal("degradation not recorded")
	}
	if result.WordTiming != transcript.TimingApproximated {
		t.Fatalf("word timing = %q", result.WordTiming)
	}
}

func TestProcessFileDiarizeWithoutTokenKeepsAlignment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.Engine = "auto"
	cfg.Transcription.Diarize = "on"
	cfg.WhisperX.UVXBinary = "sh"
	cfg.WhisperX.HFToken = ""
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, sampleAlignedJSON)
	sawDiarize := false
	p.AlignedService().WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		var wav, outDir string
		for i, arg := range args {
			if arg == "--diarize" {
				sawDiarize = true
			}
			if strings.HasSuffix(arg, ".wav") {
				wav = arg
			}
			if arg == "--output_dir" && i+1 < len(args) {
				outDir = args[i+1]
			}
		}
		stem := strings.TrimSuffix(filepath.Base(wav), filepath.Ext(wav))
		return os.WriteFile(filepath.Join(outDir, stem+".json"), []byte(sampleAlignedJSON), 0o644)
	})

	result := p.ProcessFile(context.Background(), writeMedia(t, "talk.mkv"))
	if result.Err != nil {
		t.Fatalf("ProcessFile: %v", result.Err)
	}
	if sawDiarize {
		t.Fatal("diarization must not be requested without a token")
	}
	// The missing token costs diarization, never word alignment.
	if result.Degraded {
		t.Fatal("alignment degraded")
	}
	if result.WordTiming != transcript.TimingMeasured {
		t.Fatalf("word timing = %q", result.WordTiming)
	}
}

func TestProcessFileNoAudioStreams(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 0, CodecType: "video"}))
	stubEngines(t, p, "")

	result := p.ProcessFile(context.Background(), writeMedia(t, "silent.mkv"))
	if result.Err == nil {
		t.Fatal("expected error for file without audio")
	}
}

func TestProcessFileKaraokeOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Karaoke.Enabled = true
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, "")

	result := p.ProcessFile(context.Background(), writeMedia(t, "talk.mkv"))
	if result.Err != nil {
		t.Fatalf("ProcessFile: %v", result.Err)
	}
	ass, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "talk.ass"))
	if err != nil {
		t.Fatalf("read ass: %v", err)
	}
	if !strings.Contains(string(ass), "\\k") {
		t.Fatalf("karaoke tags missing:\n%s", ass)
	}
}

func TestProcessFileSkipsUpToDate(t *testing.T) {
	cfg := testConfig(t)
	store, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	defer store.Close()

	p, err := New(cfg, logging.NewNop(), store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.WithInspector(fakeInspector(ffprobe.Stream{Index: 1, CodecType: "audio", Duration: "10.0"}))
	stubEngines(t, p, "")

	media := writeMedia(t, "talk.mkv")
	first := p.ProcessFile(context.Background(), media)
	if first.Err != nil {
		t.Fatalf("first run: %v", first.Err)
	}
	second := p.ProcessFile(context.Background(), media)
	if second.Err != nil || !second.Skipped {
		t.Fatalf("second run = %+v", second)
	}

	cfg.Batch.Force = true
	third := p.ProcessFile(context.Background(), media)
	if third.Err != nil || third.Skipped {
		t.Fatalf("forced run = %+v", third)
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Batch.Workers = 2
	p, err := New(cfg, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	good := writeMedia(t, "good.mkv")
	bad := writeMedia(t, "bad.mkv")
	p.WithInspector(func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		if path == bad {
			return ffprobe.Result{}, os.ErrInvalid
		}
		return ffprobe.Result{Streams: []ffprobe.Stream{{Index: 1, CodecType: "audio", Duration: "10.0"}}}, nil
	})
	stubEngines(t, p, "")

	summary, err := p.RunBatch(context.Background(), []string{good, bad})
	if err == nil {
		t.Fatal("batch with failures should report an error")
	}
	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"a.mkv", "b.txt", filepath.Join("nested", "c.mp3")} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	flat, err := Discover([]string{dir}, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(flat) != 1 || filepath.Base(flat[0]) != "a.mkv" {
		t.Fatalf("flat = %v", flat)
	}

	deep, err := Discover([]string{dir}, true)
	if err != nil {
		t.Fatalf("Discover recursive: %v", err)
	}
	if len(deep) != 2 {
		t.Fatalf("deep = %v", deep)
	}

	// Explicit files are accepted regardless of extension.
	explicit, err := Discover([]string{filepath.Join(dir, "b.txt")}, false)
	if err != nil || len(explicit) != 1 {
		t.Fatalf("explicit = %v err=%v", explicit, err)
	}
}
