package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "subweave",
		Short:         "Synchronized captions and karaoke from media files",
		Long: "subweave transcribes media files with whisper.cpp, optionally refines the\n" +
			"result with WhisperX word alignment and diarization, and renders\n" +
			"synchronized SRT/VTT/karaoke output.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand(&configFlag))
	rootCmd.AddCommand(newPresetsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
