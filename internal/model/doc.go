// Package model defines the domain types and value objects for the
// dependabot-docker CLI.
//
// This package contains pure data structures with no external dependencies
// beyond YAML struct tags. The update entries defined here are immutable
// values: the dependabot package encodes each one into a fresh YAML node
// before appending it to a configuration document, so no tree node is ever
// shared between two entries.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
