package cmd

import (
	"fmt"
	"os"

	"reminders/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Reminders Service",
	Long: `Reminders stores lists and their reminders and keeps server-side table
views of them in step with the database through a change reconciler.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config for readable CLI errors.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
