package config

const (
	defaultOutputDir        = "~/.local/share/subweave/output"
	defaultWorkDir          = "~/.local/share/subweave/work"
	defaultLogDir           = "~/.local/share/subweave/logs"
	defaultStateDB          = "~/.local/share/subweave/state.db"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultWhisperBinary    = "whisper-cli"
	defaultWhisperTimeout   = 3600
	defaultUVXBinary        = "uvx"
	defaultWhisperXModel    = "large-v3"
	defaultWhisperXTimeout  = 7200
	defaultEngineRequest    = "auto"
	defaultDiarizeRequest   = "auto"
	defaultSlackMS          = 250
	defaultMinWordMS        = 60
	defaultClipFatalPercent = 20
	defaultKaraokePreset    = "viral"
	defaultKaraokeFontSize  = 46
	defaultKaraokeMarginV   = 80
	defaultPlayResX         = 1080
	defaultPlayResY         = 1920
	defaultMaxCharsPerLine  = 34
	defaultMaxLines         = 2
	defaultMaxCPS           = 20.0
	defaultMinDurationMS    = 700
	defaultMaxDurationMS    = 6000
	defaultMergeGapMS       = 150
	defaultBatchWorkers     = 2
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			StateDB:   defaultStateDB,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			AudioTrack:    -1,
		},
		WhisperCPP: WhisperCPP{
			Binary:         defaultWhisperBinary,
			TimeoutSeconds: defaultWhisperTimeout,
		},
		WhisperX: WhisperX{
			UVXBinary:      defaultUVXBinary,
			Model:          defaultWhisperXModel,
			TimeoutSeconds: defaultWhisperXTimeout,
		},
		Transcription: Transcription{
			Engine:  defaultEngineRequest,
			Diarize: defaultDiarizeRequest,
		},
		Sync: Sync{
			SlackMS:          defaultSlackMS,
			MinWordMS:        defaultMinWordMS,
			ClipFatalPercent: defaultClipFatalPercent,
		},
		Karaoke: Karaoke{
			Preset:   defaultKaraokePreset,
			FontSize: defaultKaraokeFontSize,
			MarginV:  defaultKaraokeMarginV,
			PlayResX: defaultPlayResX,
			PlayResY: defaultPlayResY,
		},
		Outputs: Outputs{
			VTT:        true,
			PlainText:  true,
			Timestamps: true,
			JSON:       true,
		},
		Polish: Polish{
			Enabled:         true,
			MaxCharsPerLine: defaultMaxCharsPerLine,
			MaxLines:        defaultMaxLines,
			MaxCPS:          defaultMaxCPS,
			MinDurationMS:   defaultMinDurationMS,
			MaxDurationMS:   defaultMaxDurationMS,
			MergeGapMS:      defaultMergeGapMS,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
