// Package main provides the CLI entry point for remainder, a filament spool tracker.
// Commands:
// 1. create-spool - Load a new spool, which becomes the active spool
// 2. add-print - Record a print against the active spool
// 3. check-remaining - Estimate the filament left on the active spool
// 4. lifetime-stats - Totals across every print ever recorded
package main

import (
	"fmt"
	"os"

	"remainder/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
