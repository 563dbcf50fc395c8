package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "w32io",
		Short: "Windows file semantics on POSIX filesystems",
		Long: `w32io performs file operations with Windows semantics (share modes,
attributes, FILETIME timestamps and wildcard searches) on a POSIX filesystem.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.Setup(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringArrayVar(&app.envFiles, "env", nil, "dotenv file with W32IO_* options (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&app.cpuprofile, "cpuprofile", "", "write cpu profile to file")

	rootCmd.AddCommand(
		newStatCmd(app),
		newFindCmd(app),
		newCatCmd(app),
		newCopyCmd(app),
		newMoveCmd(app),
		newRmCmd(app),
		newSumCmd(app),
		newDfCmd(app),
	)

	return rootCmd
}
