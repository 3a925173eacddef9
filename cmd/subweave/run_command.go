package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subweave/internal/config"
	"subweave/internal/logging"
	"subweave/internal/pipeline"
	"subweave/internal/state"
)

type runFlags struct {
	engine    string
	language  string
	diarize   string
	preset    string
	outputDir string
	karaoke   bool
	force     bool
	recursive bool
	workers   int
	noState   bool
}

func newRunCommand(configFlag *string) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [file|directory...]",
		Short: "Transcribe media files and render synchronized captions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			applyRunFlags(cfg, cmd, flags)
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return err
			}

			var store *state.Store
			if !flags.noState && cfg.Paths.StateDB != "" {
				store, err = state.Open(cfg.Paths.StateDB)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			p, err := pipeline.New(cfg, logger, store)
			if err != nil {
				return err
			}
			if err := p.EnsureReady(); err != nil {
				return err
			}

			files, err := pipeline.Discover(args, cfg.Batch.Recursive)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no media files found in %v", args)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("batch starting", "files", len(files), "workers", cfg.Batch.Workers)
			summary, runErr := p.RunBatch(ctx, files)
			fmt.Fprintln(cmd.OutOrStdout(), renderBatchSummary(summary))
			return runErr
		},
	}

	cmd.Flags().StringVar(&flags.engine, "engine", "", "Engine request: auto, base, or aligned")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Language hint for both engines")
	cmd.Flags().StringVar(&flags.diarize, "diarize", "", "Diarization mode: auto, on, or off")
	cmd.Flags().BoolVar(&flags.karaoke, "karaoke", false, "Render ASS karaoke output")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Karaoke style preset")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for rendered outputs")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Reprocess files even when up to date")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Scan directories recursively")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent files (defaults from config)")
	cmd.Flags().BoolVar(&flags.noState, "no-state", false, "Skip the state database entirely")

	return cmd
}

// applyRunFlags overlays explicitly-set flags onto the loaded configuration.
func applyRunFlags(cfg *config.Config, cmd *cobra.Command, flags runFlags) {
	if cmd.Flags().Changed("engine") {
		cfg.Transcription.Engine = flags.engine
	}
	if cmd.Flags().Changed("language") {
		cfg.Transcription.Language = flags.language
	}
	if cmd.Flags().Changed("diarize") {
		cfg.Transcription.Diarize = flags.diarize
	}
	if cmd.Flags().Changed("karaoke") {
		cfg.Karaoke.Enabled = flags.karaoke
	}
	if cmd.Flags().Changed("preset") {
		cfg.Karaoke.Preset = flags.preset
		cfg.Karaoke.Enabled = true
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Paths.OutputDir = flags.outputDir
	}
	if cmd.Flags().Changed("force") {
		cfg.Batch.Force = flags.force
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Batch.Recursive = flags.recursive
	}
	if cmd.Flags().Changed("workers") && flags.workers > 0 {
		cfg.Batch.Workers = flags.workers
	}
}

func renderBatchSummary(summary pipeline.BatchSummary) string {
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		if result.Path == "" {
			continue
		}
		status := "ok"
		detail := string(result.WordTiming)
		switch {
		case result.Err != nil:
			status = "failed"
			detail = result.Err.Error()
		case result.Skipped:
			status = "skipped"
			detail = "up to date"
		case result.Degraded:
			detail += " (degraded)"
		}
		rows = append(rows, []string{
			result.Path,
			status,
			detail,
			strconv.Itoa(len(result.Outputs)),
			result.Elapsed.Round(time.Millisecond).String(),
		})
	}
	table := renderTable(
		[]string{"File", "Status", "Detail", "Outputs", "Elapsed"},
		rows,
		3, 4,
	)
	return fmt.Sprintf("%s\n%d succeeded, %d skipped, %d failed",
		table, summary.Succeeded, summary.Skipped, summary.Failed)
}
