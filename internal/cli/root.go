package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "isearch",
	Short: "Search and verify Android init.rc files",
	Long: "Parses init.rc files into their on/service/import sections, answers\n" +
		"ad-hoc queries against them, and verifies them against declarative\n" +
		"policy checks with whitelist reconciliation.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
