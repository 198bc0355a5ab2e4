package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "persona-pipeline",
	Short: "Transcript caching and persona extraction for YouTube creators",
	Long: `persona-pipeline fetches transcripts from a creator's YouTube channel,
caches them in Redis, and sends them to the AI inference service to
extract a persona profile for the creator.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
