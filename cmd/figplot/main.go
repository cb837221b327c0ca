package main

import (
	"os"

	"github.com/dyluth/figplot/cmd/figplot/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Diagnostics are printed by the printer package before the error is returned
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
