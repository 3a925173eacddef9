package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBinaries()
	c.normalizeRequests()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDB) == "" {
		c.Paths.StateDB = defaultStateDB
	}
	if c.Paths.StateDB, err = expandPath(c.Paths.StateDB); err != nil {
		return fmt.Errorf("paths.state_db: %w", err)
	}
	if c.WhisperCPP.ModelPath != "" {
		if c.WhisperCPP.ModelPath, err = expandPath(c.WhisperCPP.ModelPath); err != nil {
			return fmt.Errorf("whispercpp.model_path: %w", err)
		}
	}
	if c.Text.GlossaryPath != "" {
		if c.Text.GlossaryPath, err = expandPath(c.Text.GlossaryPath); err != nil {
			return fmt.Errorf("text.glossary_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeBinaries() {
	if strings.TrimSpace(c.Media.FFmpegBinary) == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Media.FFprobeBinary) == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.WhisperCPP.Binary) == "" {
		c.WhisperCPP.Binary = defaultWhisperBinary
	}
	if strings.TrimSpace(c.WhisperX.UVXBinary) == "" {
		c.WhisperX.UVXBinary = defaultUVXBinary
	}
	if strings.TrimSpace(c.WhisperX.Model) == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	// The HF token may also arrive via environment, matching the aligned
	// engine's own convention.
	if c.WhisperX.HFToken == "" {
		c.WhisperX.HFToken = os.Getenv("HF_TOKEN")
	}
}

func (c *Config) normalizeRequests() {
	c.Transcription.Engine = strings.ToLower(strings.TrimSpace(c.Transcription.Engine))
	if c.Transcription.Engine == "" {
		c.Transcription.Engine = defaultEngineRequest
	}
	c.Transcription.Diarize = strings.ToLower(strings.TrimSpace(c.Transcription.Diarize))
	if c.Transcription.Diarize == "" {
		c.Transcription.Diarize = defaultDiarizeRequest
	}
	if c.Sync.SlackMS <= 0 {
		c.Sync.SlackMS = defaultSlackMS
	}
	if c.Sync.MinWordMS <= 0 {
		c.Sync.MinWordMS = defaultMinWordMS
	}
	if c.Sync.ClipFatalPercent <= 0 {
		c.Sync.ClipFatalPercent = defaultClipFatalPercent
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaultBatchWorkers
	}
	if strings.TrimSpace(c.Karaoke.Preset) == "" {
		c.Karaoke.Preset = defaultKaraokePreset
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
