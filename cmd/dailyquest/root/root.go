package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var envFile string

var rootCmd = &cobra.Command{
	Use:           "dailyquest",
	Short:         "Daily planner with XP, levels, streaks and achievements",
	Long:          "dailyquest serves a daily planner over HTTP and Telegram and turns completed tasks into XP, levels, streaks and achievements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env file")

	rootCmd.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
