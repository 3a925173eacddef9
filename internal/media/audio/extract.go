package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"subweave/internal/services"
)

// Extractor converts a media file's speech track into the mono 16 kHz WAV
// both engines expect.
type Extractor struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewExtractor creates an extractor using the given ffmpeg binary (or
// "ffmpeg" when empty).
func NewExtractor(binary string) *Extractor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// ExtractWAV demuxes the selected audio stream into wavPath as mono 16 kHz
// signed 16-bit PCM.
func (e *Extractor) ExtractWAV(ctx context.Context, mediaPath string, streamOrdinal int, wavPath string) error {
	if mediaPath == "" || wavPath == "" {
		return services.Wrap(services.ErrValidation, "extract", "extract audio", "media and wav paths required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(wavPath), 0o755); err != nil {
		return fmt.Errorf("extract: ensure work dir: %w", err)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", mediaPath,
		"-map", "0:a:" + strconv.Itoa(streamOrdinal),
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		wavPath,
	}
	if err := e.run(ctx, e.binary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "extract audio", "", err)
	}
	if info, err := os.Stat(wavPath); err != nil || info.Size() == 0 {
		return services.Wrap(services.ErrExternalTool, "extract", "extract audio",
			fmt.Sprintf("ffmpeg produced no audio at %s", wavPath), err)
	}
	return nil
}

func (e *Extractor) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
