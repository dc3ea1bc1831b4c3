// Package cli — scan.go implements the "dependabot-docker scan" command.
//
// The scan command lists every directory containing a Dockerfile and
// whether the Dependabot config already has a docker entry for it. It
// never writes anything. With --check it fails when any directory is
// missing, which makes it usable as a lint step.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dependabot-docker/internal/config"
	"github.com/shinji-kodama/dependabot-docker/internal/dependabot"
	"github.com/shinji-kodama/dependabot-docker/internal/discover"
	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// scanFlags holds the flag values for the scan command.
type scanFlags struct {
	check bool // --check: fail if any directory is not configured
}

// scanRow is one line of scan output.
type scanRow struct {
	Directory  string `json:"directory"`
	Configured bool   `json:"configured"`
}

// NewScanCommand creates the "scan" cobra command.
func NewScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List Dockerfile directories and their Dependabot status",
		Long: `List every directory containing a Dockerfile and whether the Dependabot
config already has a docker entry for it. Nothing is written.

Examples:
  dependabot-docker scan
  dependabot-docker scan --json
  dependabot-docker scan --check`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return asInternal(runScan(opts, flags, cmd.OutOrStdout()))
		},
	}

	cmd.Flags().BoolVar(&flags.check, "check", false, "Exit non-zero if any directory has no docker entry")

	return cmd
}

// runScan discovers directories and compares them with the config.
func runScan(opts *config.Options, flags *scanFlags, out io.Writer) error {
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

	doc, _, err := dependabot.LoadOrNew(opts.ConfigFile())
	if err != nil {
		return err
	}

	missing := model.NewDirSet(dependabot.Missing(doc, dirs)...)
	rows := make([]scanRow, 0, dirs.Len())
	for _, dir := range dirs.Sorted() {
		rows = append(rows, scanRow{Directory: dir, Configured: !missing.Has(dir)})
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(map[string]interface{}{"directories": rows}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		printScanText(out, rows)
	}

	if flags.check && missing.Len() > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d Dockerfile director%s without a Dependabot entry: %v",
				missing.Len(), pluralY(missing.Len()), missing.Sorted()))
	}
	return nil
}

// printScanText outputs the scan result as an aligned text table:
//
//	DIRECTORY                      STATUS
//	a                              configured
//	b/sub                          missing
func printScanText(out io.Writer, rows []scanRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No Dockerfiles found.")
		return
	}

	fmt.Fprintf(out, "%-30s %s\n", "DIRECTORY", "STATUS")
	for _, row := range rows {
		status := "missing"
		if row.Configured {
			status = "configured"
		}
		fmt.Fprintf(out, "%-30s %s\n", row.Directory, status)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
