package main

import (
	_ "time/tzdata"

	"github.com/arvessen/ccsessions/internal/commands"
)

// Overridden at build time via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func main() {
	commands.Execute(version, commit, buildDate)
}
