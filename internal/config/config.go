package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	StateDB   string `toml:"state_db"`
}

// Media contains configuration for the media inspection collaborators.
type Media struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// AudioTrack forces a specific audio stream index; -1 probes for the
	// longest speech-bearing stream.
	AudioTrack int `toml:"audio_track"`
}

// WhisperCPP contains configuration for the fast segment-level engine.
type WhisperCPP struct {
	Binary         string `toml:"binary"`
	ModelPath      string `toml:"model_path"`
	Threads        int    `toml:"threads"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WhisperX contains configuration for the word-aligned engine.
type WhisperX struct {
	UVXBinary      string `toml:"uvx_binary"`
	Model          string `toml:"model"`
	CUDAEnabled    bool   `toml:"cuda_enabled"`
	HFToken        string `toml:"hf_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Transcription contains the engine selection and language settings.
type Transcription struct {
	// Language is a BCP-47 or ISO-639 hint passed to both engines; empty
	// lets the engines auto-detect.
	Language string `toml:"language"`
	// Engine is "auto", "base", or "aligned".
	Engine string `toml:"engine"`
	// Diarize is "auto", "on", or "off".
	Diarize string `toml:"diarize"`
	// SpeakerPrefix prepends "[SPEAKER_NN]" to diarized cue text.
	SpeakerPrefix bool `toml:"speaker_prefix"`
}

// Sync contains the synchronizer tuning knobs.
type Sync struct {
	// SlackMS is the cross-engine drift tolerance when matching aligned
	// words to base segments.
	SlackMS int `toml:"slack_ms"`
	// MinWordMS is the duration floor for synthesized word timing.
	MinWordMS int `toml:"min_word_ms"`
	// ClipFatalPercent aborts the file when monotonicity clipping touches
	// more than this share of elements, signaling systemic desync.
	ClipFatalPercent int `toml:"clip_fatal_percent"`
}

// Karaoke contains karaoke rendering settings.
type Karaoke struct {
	Enabled  bool   `toml:"enabled"`
	Preset   string `toml:"preset"`
	Font     string `toml:"font"`
	FontSize int    `toml:"font_size"`
	MarginV  int    `toml:"margin_v"`
	PlayResX int    `toml:"play_res_x"`
	PlayResY int    `toml:"play_res_y"`
}

// Outputs toggles the optional renderer outputs; SRT is always written.
type Outputs struct {
	VTT        bool `toml:"vtt"`
	PlainText  bool `toml:"plain_text"`
	Timestamps bool `toml:"timestamps"`
	JSON       bool `toml:"json"`
}

// Polish contains the caption shaping settings.
type Polish struct {
	Enabled         bool    `toml:"enabled"`
	MaxCharsPerLine int     `toml:"max_chars_per_line"`
	MaxLines        int     `toml:"max_lines"`
	MaxCPS          float64 `toml:"max_cps"`
	MinDurationMS   int     `toml:"min_duration_ms"`
	MaxDurationMS   int     `toml:"max_duration_ms"`
	MergeGapMS      int     `toml:"merge_gap_ms"`
}

// Text contains transcript text post-processing settings.
type Text struct {
	GlossaryPath string `toml:"glossary_path"`
	RedactPII    bool   `toml:"redact_pii"`
}

// Batch contains multi-file processing settings.
type Batch struct {
	Workers   int  `toml:"workers"`
	Recursive bool `toml:"recursive"`
	Force     bool `toml:"force"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates every knob the pipeline and CLI need.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Media         Media         `toml:"media"`
	WhisperCPP    WhisperCPP    `toml:"whispercpp"`
	WhisperX      WhisperX      `toml:"whisperx"`
	Transcription Transcription `toml:"transcription"`
	Sync          Sync          `toml:"sync"`
	Karaoke       Karaoke       `toml:"karaoke"`
	Outputs       Outputs       `toml:"outputs"`
	Polish        Polish        `toml:"polish"`
	Text          Text          `toml:"text"`
	Batch         Batch         `toml:"batch"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subweave/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file yields
// defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("subweave.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the output, work, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	if c.Paths.StateDB != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.StateDB), 0o755); err != nil {
			return fmt.Errorf("ensure state directory: %w", err)
		}
	}
	return nil
}
