// Package main is the entry point for the dependabot-docker CLI.
//
// The binary is meant to run as a single CI step: with no arguments it
// scans the working directory for Dockerfiles and updates
// .github/dependabot.yml. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"github.com/shinji-kodama/dependabot-docker/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
