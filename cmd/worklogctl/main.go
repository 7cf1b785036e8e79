// Package main is the entry point for the worklogctl CLI tool.
package main

import (
	"os"

	"github.com/worklog-hq/worklog/cmd/worklogctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
