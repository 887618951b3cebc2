package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slashd",
	Short: "slashd is a Discord interaction dispatch daemon",
	Long: `slashd connects to the Discord gateway over a single long-lived
connection, fans every incoming interaction out to its own handler task,
and answers each one within the platform's response deadline, deferring
slow work behind a placeholder acknowledgment.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands here
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
