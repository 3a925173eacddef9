package whispercpp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	langpkg "subweave/internal/language"
	"subweave/internal/services"
)

// DefaultBinary is the whisper.cpp CLI entrypoint looked up on PATH when no
// explicit binary is configured.
const DefaultBinary = "whisper-cli"

// Config captures runtime settings for the fast segment-level engine.
type Config struct {
	// Binary is the whisper.cpp CLI binary.
	Binary string
	// ModelPath points to a ggml model file. Required.
	ModelPath string
	// Threads caps engine threads; 0 lets the engine decide.
	Threads int
	// Timeout bounds a single transcription call.
	Timeout time.Duration
}

// Service invokes the whisper.cpp CLI and exposes its SRT output.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a base engine service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// EnsureAvailable verifies the binary and model exist. The base engine is a
// hard requirement: absence aborts the whole run, not just one file.
func (s *Service) EnsureAvailable() error {
	if _, err := exec.LookPath(s.cfg.Binary); err != nil {
		return services.Wrap(services.ErrConfiguration, "transcribe", "locate base engine",
			fmt.Sprintf("whisper.cpp binary %q not found", s.cfg.Binary), err)
	}
	if strings.TrimSpace(s.cfg.ModelPath) == "" {
		return services.Wrap(services.ErrConfiguration, "transcribe", "locate model",
			"whispercpp.model_path is not set", nil)
	}
	if _, err := os.Stat(s.cfg.ModelPath); err != nil {
		return services.Wrap(services.ErrConfiguration, "transcribe", "locate model",
			fmt.Sprintf("model file %q not readable", s.cfg.ModelPath), err)
	}
	return nil
}

// Transcribe runs the engine against a mono 16kHz WAV file and returns the
// raw SRT bytes it produced. workDir receives the engine's output files.
func (s *Service) Transcribe(ctx context.Context, wavPath, workDir, language string) ([]byte, error) {
	if wavPath == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "run base engine", "wav path required", nil)
	}
	if workDir == "" {
		workDir = filepath.Dir(wavPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	outPrefix := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath)))
	args := s.buildArgs(wavPath, outPrefix, language)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "transcribe", "run base engine", "", ctx.Err())
		}
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "run base engine", "", err)
	}

	srtPath := outPrefix + ".srt"
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "collect output",
			fmt.Sprintf("engine produced no SRT at %s", srtPath), err)
	}
	return data, nil
}

func (s *Service) buildArgs(wavPath, outPrefix, language string) []string {
	args := []string{
		"-m", s.cfg.ModelPath,
		"-f", wavPath,
		"-osrt",
		"-of", outPrefix,
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "-l", lang)
	}
	if s.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(s.cfg.Threads))
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
