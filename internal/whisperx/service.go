package whisperx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"subweave/internal/engine"
	langpkg "subweave/internal/language"
	"subweave/internal/services"
)

// Config captures runtime settings for the word-aligned engine.
type Config struct {
	// UVXBinary launches WhisperX without a managed venv.
	UVXBinary string
	// Model is the WhisperX model to use (e.g. "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// HFToken is the Hugging Face token required for diarization.
	HFToken string
	// Timeout bounds a single alignment call.
	Timeout time.Duration
}

// WhisperX configuration constants.
const (
	DefaultModel   = "large-v3"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	BatchSize      = "4"
	OutputFormat   = "json"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
	UVXCommand     = "uvx"
)

// Service invokes WhisperX and exposes its word-aligned JSON output.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates an aligned engine service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.UVXBinary == "" {
		cfg.UVXBinary = UVXCommand
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// HFTokenPresent reports whether a diarization token is configured.
func (s *Service) HFTokenPresent() bool {
	return strings.TrimSpace(s.cfg.HFToken) != ""
}

// Probe reports the aligned runtime's availability without running it. A
// present launcher proves nothing about the Python stack behind it, so the
// positive case is Unknown, not Available; the selection policy decides what
// to do with that.
func (s *Service) Probe() engine.Availability {
	if _, err := exec.LookPath(s.cfg.UVXBinary); err != nil {
		return engine.Unavailable
	}
	return engine.AvailabilityUnknown
}

// Transcribe runs WhisperX against a mono 16kHz WAV file and returns the raw
// JSON bytes it produced. outputDir receives the engine's output files.
func (s *Service) Transcribe(ctx context.Context, wavPath, outputDir, language string, diarize bool) ([]byte, error) {
	if wavPath == "" {
		return nil, services.Wrap(services.ErrValidation, "align", "run aligned engine", "wav path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(wavPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("align: ensure output dir: %w", err)
	}
	if diarize && !s.HFTokenPresent() {
		return nil, services.Wrap(services.ErrValidation, "align", "diarize",
			"diarization requires an HF token (whisperx.hf_token or HF_TOKEN)", nil)
	}

	args := s.buildArgs(wavPath, outputDir, language, diarize)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.run(ctx, s.cfg.UVXBinary, args...); err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "align", "run aligned engine", "", ctx.Err())
		}
		return nil, services.Wrap(services.ErrExternalTool, "align", "run aligned engine", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "align", "collect output",
			fmt.Sprintf("engine produced no JSON at %s", jsonPath), err)
	}
	return data, nil
}

func (s *Service) buildArgs(wavPath, outputDir, language string, diarize bool) []string {
	args := make([]string, 0, 24)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		wavPath,
		"--model", s.cfg.Model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	if diarize {
		args = append(args, "--diarize", "--hf_token", s.cfg.HFToken)
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking
	// WhisperX/pyannote checkpoint loading. Force legacy behavior.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
