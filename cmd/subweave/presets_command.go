package main

import (
	"github.com/spf13/cobra"

	"subweave/internal/karaoke"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List karaoke style presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, name := range karaoke.PresetNames() {
				style, err := karaoke.Preset(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					style.Font,
					style.PrimaryColor,
					string(style.Animation),
				})
			}
			table := renderTable(
				[]string{"Preset", "Font", "Highlight", "Animation"},
				rows,
			)
			cmd.Println(table)
			return nil
		},
	}
}
