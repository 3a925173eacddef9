package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"subweave/internal/config"
	"subweave/internal/engine"
	"subweave/internal/karaoke"
	"subweave/internal/media/audio"
	"subweave/internal/media/ffprobe"
	"subweave/internal/merge"
	"subweave/internal/polish"
	"subweave/internal/render"
	"subweave/internal/services"
	"subweave/internal/state"
	"subweave/internal/textutil"
	"subweave/internal/transcript"
	"subweave/internal/whispercpp"
	"subweave/internal/whisperx"
)

// FileResult summarizes one file's trip through the pipeline.
type FileResult struct {
	Path       string
	Skipped    bool
	Source     transcript.Source
	WordTiming transcript.WordTiming
	Diarized   bool
	// Degraded means alignment was attempted but the pipeline fell back to
	// approximated word timing.
	Degraded bool
	Report   merge.Report
	Outputs  []string
	Elapsed  time.Duration
	Err      error
}

// Pipeline drives a media file through probe, extraction, transcription,
// synchronization and rendering.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	base      *whispercpp.Service
	aligned   *whisperx.Service
	extractor *audio.Extractor
	store     *state.Store
	glossary  textutil.Glossary

	// inspect is swappable for tests; the default shells out to ffprobe.
	inspect func(ctx context.Context, binary, path string) (ffprobe.Result, error)
}

// New assembles a pipeline from configuration. The state store is optional;
// without it every file is processed unconditionally.
func New(cfg *config.Config, logger *slog.Logger, store *state.Store) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		base: whispercpp.NewService(whispercpp.Config{
			Binary:    cfg.WhisperCPP.Binary,
			ModelPath: cfg.WhisperCPP.ModelPath,
			Threads:   cfg.WhisperCPP.Threads,
			Timeout:   time.Duration(cfg.WhisperCPP.TimeoutSeconds) * time.Second,
		}),
		aligned: whisperx.NewService(whisperx.Config{
			UVXBinary:   cfg.WhisperX.UVXBinary,
			Model:       cfg.WhisperX.Model,
			CUDAEnabled: cfg.WhisperX.CUDAEnabled,
			HFToken:     cfg.WhisperX.HFToken,
			Timeout:     time.Duration(cfg.WhisperX.TimeoutSeconds) * time.Second,
		}),
		extractor: audio.NewExtractor(cfg.Media.FFmpegBinary),
		store:     store,
		inspect:   ffprobe.Inspect,
	}

	if path := cfg.Text.GlossaryPath; path != "" {
		glossary, err := textutil.LoadGlossary(path)
		if err != nil {
			return nil, err
		}
		p.glossary = glossary
	}
	return p, nil
}

// EnsureReady verifies run-fatal prerequisites before any file is touched.
func (p *Pipeline) EnsureReady() error {
	return p.base.EnsureAvailable()
}

// BaseService exposes the base engine service for test doubles.
func (p *Pipeline) BaseService() *whispercpp.Service { return p.base }

// AlignedService exposes the aligned engine service for test doubles.
func (p *Pipeline) AlignedService() *whisperx.Service { return p.aligned }

// Extractor exposes the WAV extractor for test doubles.
func (p *Pipeline) Extractor() *audio.Extractor { return p.extractor }

// WithInspector replaces the ffprobe invocation (for testing).
func (p *Pipeline) WithInspector(inspect func(ctx context.Context, binary, path string) (ffprobe.Result, error)) {
	p.inspect = inspect
}

// optionsFingerprint captures every setting that changes the rendered output.
func (p *Pipeline) optionsFingerprint() string {
	c := p.cfg
	return state.Fingerprint(map[string]string{
		"language":       c.Transcription.Language,
		"engine":         c.Transcription.Engine,
		"diarize":        c.Transcription.Diarize,
		"speaker_prefix": strconv.FormatBool(c.Transcription.SpeakerPrefix),
		"slack_ms":       strconv.Itoa(c.Sync.SlackMS),
		"min_word_ms":    strconv.Itoa(c.Sync.MinWordMS),
		"clip_fatal":     strconv.Itoa(c.Sync.ClipFatalPercent),
		"karaoke":        strconv.FormatBool(c.Karaoke.Enabled),
		"preset":         c.Karaoke.Preset,
		"vtt":            strconv.FormatBool(c.Outputs.VTT),
		"plain_text":     strconv.FormatBool(c.Outputs.PlainText),
		"timestamps":     strconv.FormatBool(c.Outputs.Timestamps),
		"json":           strconv.FormatBool(c.Outputs.JSON),
		"polish":         strconv.FormatBool(c.Polish.Enabled),
		"max_cps":        strconv.FormatFloat(c.Polish.MaxCPS, 'f', -1, 64),
		"glossary":       c.Text.GlossaryPath,
		"redact_pii":     strconv.FormatBool(c.Text.RedactPII),
		"whisper_model":  c.WhisperCPP.ModelPath,
		"whisperx_model": c.WhisperX.Model,
	})
}

// ProcessFile runs the full stage chain for one media file. Failures are
// returned in the result; only the error field distinguishes them from
// successes so batch callers can keep going.
func (p *Pipeline) ProcessFile(ctx context.Context, mediaPath string) FileResult {
	started := time.Now()
	result := FileResult{Path: mediaPath}

	ctx = services.WithMediaFile(ctx, mediaPath)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := p.logger.With("file", filepath.Base(mediaPath))

	err := p.process(ctx, logger, mediaPath, &result)
	result.Elapsed = time.Since(started)
	result.Err = err

	if p.store != nil && !result.Skipped {
		if err != nil {
			if markErr := p.store.MarkFailed(ctx, mediaPath, err.Error()); markErr != nil {
				logger.Warn("state update failed", "error", markErr)
			}
		} else if markErr := p.store.MarkDone(ctx, mediaPath); markErr != nil {
			logger.Warn("state update failed", "error", markErr)
		}
	}

	if err != nil {
		logger.Error("file failed", "error", err, "elapsed", result.Elapsed)
	} else if result.Skipped {
		logger.Info("file up to date, skipped")
	} else {
		logger.Info("file complete",
			"source", result.Source,
			"word_timing", result.WordTiming,
			"outputs", len(result.Outputs),
			"elapsed", result.Elapsed)
	}
	return result
}

func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, mediaPath string, result *FileResult) error {
	if err := p.checkState(ctx, mediaPath, result); err != nil || result.Skipped {
		return err
	}

	wavPath, cleanup, err := p.extractAudio(ctx, logger, mediaPath)
	if err != nil {
		return err
	}
	defer cleanup()

	merged, report, err := p.transcribe(ctx, logger, wavPath, result)
	if err != nil {
		return err
	}
	result.Report = report
	result.Source = merged.Source
	result.WordTiming = merged.WordTiming
	result.Diarized = merged.Diarized

	p.postProcess(&merged)

	outputs, err := p.writeOutputs(&merged, mediaPath)
	if err != nil {
		return err
	}
	result.Outputs = outputs
	return nil
}

func (p *Pipeline) checkState(ctx context.Context, mediaPath string, result *FileResult) error {
	if p.store == nil {
		return nil
	}
	ctx = services.WithStage(ctx, "state")
	sum, err := state.HashFile(mediaPath)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "state", "hash media", "", err)
	}
	fingerprint := p.optionsFingerprint()

	needed, err := p.store.ShouldProcess(ctx, mediaPath, sum, fingerprint, p.cfg.Batch.Force)
	if err != nil {
		return err
	}
	if !needed {
		result.Skipped = true
		return nil
	}
	runID, _ := services.RequestIDFromContext(ctx)
	return p.store.MarkStarted(ctx, mediaPath, sum, fingerprint, runID)
}

func (p *Pipeline) extractAudio(ctx context.Context, logger *slog.Logger, mediaPath string) (string, func(), error) {
	ctx = services.WithStage(ctx, "probe")
	probed, err := p.inspect(ctx, p.cfg.Media.FFprobeBinary, mediaPath)
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "probe", "inspect media", "", err)
	}
	selection, ok := audio.Select(probed.Streams, p.cfg.Media.AudioTrack)
	if !ok {
		return "", nil, services.Wrap(services.ErrValidation, "probe", "select audio track",
			fmt.Sprintf("%s has no audio streams", mediaPath), nil)
	}
	logger.Info("speech track selected", "track", selection.Ordinal, "summary", selection.Label())

	workDir := p.cfg.Paths.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	wavPath := filepath.Join(workDir, stem+".wav")

	ctx = services.WithStage(ctx, "extract")
	if err := p.extractor.ExtractWAV(ctx, mediaPath, selection.Ordinal, wavPath); err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("work file not removed", "path", wavPath, "error", err)
		}
	}
	return wavPath, cleanup, nil
}

func (p *Pipeline) transcribe(ctx context.Context, logger *slog.Logger, wavPath string, result *FileResult) (transcript.Transcript, merge.Report, error) {
	lang := p.cfg.Transcription.Language

	ctx = services.WithStage(ctx, "transcribe")
	rawSRT, err := p.base.Transcribe(ctx, wavPath, filepath.Dir(wavPath), lang)
	if err != nil {
		return transcript.Transcript{}, merge.Report{}, err
	}
	parsed := whispercpp.ParseSRT(rawSRT, lang)
	for _, warning := range parsed.Warnings {
		logger.Warn("base transcript repaired", "detail", warning)
	}
	base := parsed.Transcript
	if len(base.Segments) == 0 {
		return transcript.Transcript{}, merge.Report{}, services.Wrap(services.ErrValidation, "transcribe", "parse base output",
			"base engine produced no cues", nil)
	}

	aligned, err := p.runAligned(ctx, logger, wavPath, lang, result)
	if err != nil {
		return transcript.Transcript{}, merge.Report{}, err
	}

	ctx = services.WithStage(ctx, "merge")
	opts := merge.Options{
		Slack:             float64(p.cfg.Sync.SlackMS) / 1000,
		MinWordDuration:   float64(p.cfg.Sync.MinWordMS) / 1000,
		ClipFatalFraction: float64(p.cfg.Sync.ClipFatalPercent) / 100,
	}
	merged, report, err := merge.Merge(&base, aligned, opts)
	if err != nil {
		return transcript.Transcript{}, report, err
	}
	if report.ClippedElements > 0 || report.OrphanSegments > 0 || report.InterpolatedWords > 0 {
		logger.Info("timeline repaired",
			"clipped", report.ClippedElements,
			"orphans", report.OrphanSegments,
			"interpolated", report.InterpolatedWords)
	}
	return merged, report, nil
}

// runAligned decides whether to run the word-alignment engine and executes
// it. A nil transcript with nil error means the pipeline degrades to
// approximated timing.
func (p *Pipeline) runAligned(ctx context.Context, logger *slog.Logger, wavPath, lang string, result *FileResult) (*transcript.Transcript, error) {
	request, err := engine.ParseRequest(p.cfg.Transcription.Engine)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "align", "parse engine request", "", err)
	}
	diarize, err := engine.ParseDiarizeMode(p.cfg.Transcription.Diarize)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "align", "parse diarize mode", "", err)
	}

	decision, err := engine.Decide(engine.Inputs{
		Request:        request,
		Aligned:        p.aligned.Probe(),
		Diarize:        diarize,
		HFTokenPresent: p.aligned.HFTokenPresent(),
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "align", "select engine", "", err)
	}
	if !decision.UseAligned {
		return nil, nil
	}
	if decision.DiarizationSkipped {
		logger.Warn("diarization requested but no HF token configured, proceeding undiarized")
	}

	ctx = services.WithStage(ctx, "align")
	raw, err := p.aligned.Transcribe(ctx, wavPath, filepath.Dir(wavPath), lang, decision.UseDiarization)
	if err == nil {
		aligned, parseErr := whisperx.ParseJSON(raw, lang)
		if parseErr == nil {
			return &aligned, nil
		}
		err = parseErr
	}
	if decision.AlignedRequired {
		return nil, err
	}
	// Alignment is best-effort in auto mode; fall back to approximation.
	logger.Warn("aligned engine failed, degrading to approximated timing", "error", err)
	result.Degraded = true
	return nil, nil
}

func (p *Pipeline) postProcess(merged *transcript.Transcript) {
	if len(p.glossary) > 0 {
		p.glossary.ApplyToTranscript(merged)
	}
	if p.cfg.Text.RedactPII {
		textutil.RedactTranscript(merged)
	}
}

func (p *Pipeline) writeOutputs(merged *transcript.Transcript, mediaPath string) ([]string, error) {
	outDir := p.cfg.Paths.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(mediaPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("render: ensure output dir: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	display := *merged
	if p.cfg.Polish.Enabled {
		display = polish.Apply(merged, polish.Options{
			MaxLineChars: p.cfg.Polish.MaxCharsPerLine,
			MaxLines:     p.cfg.Polish.MaxLines,
			MaxCPS:       p.cfg.Polish.MaxCPS,
			MinDuration:  float64(p.cfg.Polish.MinDurationMS) / 1000,
			MaxDuration:  float64(p.cfg.Polish.MaxDurationMS) / 1000,
			MergeGap:     float64(p.cfg.Polish.MergeGapMS) / 1000,
		})
	}
	renderOpts := render.Options{SpeakerPrefix: p.cfg.Transcription.SpeakerPrefix && merged.Diarized}

	var outputs []string
	write := func(name string, fn func(f *os.File) error) error {
		path := filepath.Join(outDir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		outputs = append(outputs, path)
		return nil
	}

	if err := write(stem+".srt", func(f *os.File) error {
		return render.WriteSRT(f, &display, renderOpts)
	}); err != nil {
		return nil, err
	}
	if p.cfg.Outputs.VTT {
		if err := write(stem+".vtt", func(f *os.File) error {
			return render.WriteVTT(f, &display, renderOpts)
		}); err != nil {
			return nil, err
		}
	}
	if p.cfg.Outputs.PlainText {
		if err := write(stem+".txt", func(f *os.File) error {
			return render.WritePlainText(f, &display, renderOpts)
		}); err != nil {
			return nil, err
		}
	}
	if p.cfg.Outputs.Timestamps {
		if err := write(stem+".timestamps.txt", func(f *os.File) error {
			return render.WriteTimestamped(f, &display, renderOpts)
		}); err != nil {
			return nil, err
		}
	}
	if p.cfg.Outputs.JSON {
		if err := write(stem+".json", func(f *os.File) error {
			return render.WriteJSON(f, merged)
		}); err != nil {
			return nil, err
		}
	}
	if p.cfg.Karaoke.Enabled {
		style, err := p.karaokeStyle()
		if err != nil {
			return nil, err
		}
		// Karaoke renders from the unpolished transcript; re-chunked cues
		// would lose word timing.
		if err := write(stem+".ass", func(f *os.File) error {
			return karaoke.WriteASS(f, merged, karaoke.Options{
				Style:         style,
				SpeakerPrefix: renderOpts.SpeakerPrefix,
			})
		}); err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

func (p *Pipeline) karaokeStyle() (karaoke.Style, error) {
	style, err := karaoke.Preset(p.cfg.Karaoke.Preset)
	if err != nil {
		return karaoke.Style{}, err
	}
	if p.cfg.Karaoke.Font != "" {
		style.Font = p.cfg.Karaoke.Font
	}
	if p.cfg.Karaoke.FontSize > 0 {
		style.FontSize = p.cfg.Karaoke.FontSize
	}
	if p.cfg.Karaoke.MarginV > 0 {
		style.MarginV = p.cfg.Karaoke.MarginV
	}
	if p.cfg.Karaoke.PlayResX > 0 {
		style.PlayResX = p.cfg.Karaoke.PlayResX
	}
	if p.cfg.Karaoke.PlayResY > 0 {
		style.PlayResY = p.cfg.Karaoke.PlayResY
	}
	return style, nil
}
