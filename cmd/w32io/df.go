package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newDfCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "df [PATH]",
		Short: "Report free space of the filesystem holding PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			}

			space, err := app.fileHandler.DiskFreeSpace(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("(df) %w", err)
			}

			if dir == "" {
				dir = "."
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", dir)
			fmt.Fprintf(out, "  Total:     %s\n", humanize.IBytes(space.TotalBytes))
			fmt.Fprintf(out, "  Free:      %s\n", humanize.IBytes(space.TotalFreeBytes))
			fmt.Fprintf(out, "  Available: %s\n", humanize.IBytes(space.FreeBytesAvailable))

			return nil
		},
	}
}
