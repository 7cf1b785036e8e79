// Package cmd contains the CLI commands for worklogctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Used for flags
	verbose bool
	output  string
)

// defaultDBPath is the default database path, can be overridden via WORKLOG_DB_PATH env var
var defaultDBPath = "data/worklog.db"

func init() {
	if envPath := os.Getenv("WORKLOG_DB_PATH"); envPath != "" {
		defaultDBPath = envPath
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "worklogctl",
	Short: "WorkLog - Timesheet administration tool",
	Long: `worklogctl manages a WorkLog database directly, without going
through the REST API. It is intended for system administrators.

Examples:
  # List all accounts
  worklogctl user list

  # Create an employee account
  worklogctl user create --username alice --display-name "Alice Smith"

  # Register a client
  worklogctl client add --name "ACME Inc"

  # Export all reports to a spreadsheet
  worklogctl export --out reports.xlsx`,
	// Run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		// Show help by default
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message only if verbose mode is enabled.
func PrintVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
