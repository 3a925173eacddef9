package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Transcription.Engine {
	case "auto", "base", "aligned":
	default:
		return fmt.Errorf("transcription.engine must be auto, base, or aligned (got %q)", c.Transcription.Engine)
	}
	switch c.Transcription.Diarize {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("transcription.diarize must be auto, on, or off (got %q)", c.Transcription.Diarize)
	}
	if c.Sync.ClipFatalPercent > 100 {
		return errors.New("sync.clip_fatal_percent must be at most 100")
	}
	if c.Polish.Enabled {
		if c.Polish.MaxCharsPerLine <= 0 {
			return errors.New("polish.max_chars_per_line must be positive")
		}
		if c.Polish.MaxLines <= 0 {
			return errors.New("polish.max_lines must be positive")
		}
		if c.Polish.MaxCPS <= 0 {
			return errors.New("polish.max_cps must be positive")
		}
		if c.Polish.MaxDurationMS < c.Polish.MinDurationMS {
			return errors.New("polish.max_duration_ms must be at least polish.min_duration_ms")
		}
	}
	if c.Karaoke.Enabled {
		if c.Karaoke.FontSize <= 0 {
			return errors.New("karaoke.font_size must be positive")
		}
		if c.Karaoke.PlayResX <= 0 || c.Karaoke.PlayResY <= 0 {
			return errors.New("karaoke.play_res_x and play_res_y must be positive")
		}
	}
	return nil
}
