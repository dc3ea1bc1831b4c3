// Package cli — update.go implements the default action of the root
// command: bring the Dependabot config in line with the Dockerfiles found
// in the tree.
//
// Orchestration steps:
//  1. Scan the tree for Dockerfile directories
//  2. Load the existing config, or start a new version 2 document
//  3. Append one docker entry per directory not configured yet
//  4. Write the document back (or print it with --dry-run)
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shinji-kodama/dependabot-docker/internal/config"
	"github.com/shinji-kodama/dependabot-docker/internal/dependabot"
	"github.com/shinji-kodama/dependabot-docker/internal/discover"
)

// updateResult is the JSON output of an update run.
type updateResult struct {
	// ConfigPath is the Dependabot config the run read and wrote.
	ConfigPath string `json:"configPath"`

	// Created is true when no config existed before the run.
	Created bool `json:"created"`

	// Written is false for --dry-run and for runs that found neither
	// Dockerfiles nor an existing config.
	Written bool `json:"written"`

	// Directories lists every discovered Dockerfile directory, sorted.
	Directories []string `json:"directories"`

	// Added lists the directories that received a new entry.
	Added []string `json:"added"`

	// Document holds the rendered config in --dry-run mode.
	Document string `json:"document,omitempty"`
}

// runUpdate performs one update run with the given options, writing
// user-facing messages to out.
func runUpdate(opts *config.Options, out io.Writer) error {
	d, err := discover.New(opts.Root, discover.Options{
		Excludes:    opts.Excludes,
		NoGitignore: opts.NoGitignore,
	})
	if err != nil {
		return err
	}

	dirs, err := d.Discover()
	if err != nil {
		return err
	}
	slog.Debug("scan finished", "root", d.Root(), "directories", dirs.Len())

	cfgPath := opts.ConfigFile()
	doc, existed, err := dependabot.LoadOrNew(cfgPath)
	if err != nil {
		return err
	}

	result := updateResult{
		ConfigPath:  cfgPath,
		Created:     !existed,
		Directories: dirs.Sorted(),
		Added:       []string{},
	}

	if dirs.Len() == 0 {
		infof(out, "No Dockerfiles found.")
		if !existed {
			// Nothing to configure and nothing to preserve.
			return printResult(out, result)
		}
	}

	added, err := dependabot.Reconcile(doc, dirs, opts.Interval)
	if err != nil {
		return err
	}
	for _, dir := range added {
		infof(out, "Added Dependabot entry for Dockerfile in %s.", dir)
	}
	result.Added = append(result.Added, added...)

	if opts.DryRun {
		data, err := doc.Bytes()
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			result.Document = string(data)
			return printResult(out, result)
		}
		_, err = out.Write(data)
		return err
	}

	if err := doc.Write(cfgPath); err != nil {
		return err
	}
	slog.Debug("wrote Dependabot config", "path", cfgPath, "entries", doc.Len())
	result.Written = true

	return printResult(out, result)
}

// infof prints an informational line in text mode. In JSON mode the
// same information is carried by the final result object.
func infof(out io.Writer, format string, args ...interface{}) {
	if IsJSONOutput() {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

// printResult prints the run summary in JSON mode; text mode has already
// printed its lines.
func printResult(out io.Writer, result updateResult) error {
	if !IsJSONOutput() {
		return nil
	}
	if result.Directories == nil {
		result.Directories = []string{}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
