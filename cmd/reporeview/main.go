package main

import (
	_ "reporeview/internal/checks/builtin"
	"reporeview/internal/cli"
	_ "reporeview/internal/fixtures/providers"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
