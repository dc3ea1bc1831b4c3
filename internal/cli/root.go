// Package cli implements the cobra-based CLI commands for dependabot-docker.
//
// The root command performs the update itself (scan, reconcile, write) so
// that the binary can be dropped into a CI step without arguments. The
// read-only "scan" subcommand is defined in its own file. This file also
// owns the global flags and the translation of errors into exit codes and
// CI failure annotations.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dependabot-docker/internal/config"
	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to persistent flags on the root command so they are
// available to every subcommand without re-declaring them.
var (
	// jsonOutput switches command output and error reports to JSON.
	// Set by the --json flag. Subcommands read it through IsJSONOutput;
	// informational lines are suppressed and the final result object
	// carries the same information instead.
	jsonOutput bool

	// verbose lowers the log level to debug. Set by --verbose / -v.
	// Debug records cover skipped directories, ignored Dockerfiles and
	// the config path written, and go to stderr so stdout stays parseable.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// errorColor is used for the "Error:" prefix on terminals. fatih/color
// disables itself when stderr is not a TTY or NO_COLOR is set, so CI logs
// stay free of escape sequences.
var errorColor = color.New(color.FgRed, color.Bold)

// NewRootCommand creates and configures the root cobra command.
//
// The root command is not just a dispatcher: run without a subcommand it
// performs the update. It registers:
//   - Persistent flags (--json, --verbose and the option flags from
//     internal/config), inherited by every subcommand
//   - The "scan" subcommand
//   - Version information for the --version flag
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dependabot-docker",
		Short: "Keep Dependabot docker entries in sync with the Dockerfiles of a repository",
		Long: `dependabot-docker scans a source tree for Dockerfiles and makes sure
.github/dependabot.yml has a "docker" update entry for every directory that
contains one.

Existing entries, comments and entries for other ecosystems are left alone;
new entries are appended. Running it again on an unchanged tree adds nothing.

Examples:
  dependabot-docker
  dependabot-docker --interval weekly
  dependabot-docker --exclude examples/ --dry-run
  dependabot-docker scan --check`,

		// The update takes no positional arguments; everything is a flag
		// so the same invocation works from a workflow step.
		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// A broken config is not a usage mistake, and the usage text would
		// bury the actual message in CI logs.
		SilenceUsage: true,

		// SilenceErrors lets execute() format errors itself: plain text,
		// JSON with --json, or a workflow command inside GitHub Actions.
		SilenceErrors: true,

		// Version enables the --version flag.

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRun runs before every command, including
		// subcommands, once flags are parsed, so --verbose is known here.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), verbose)
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return asInternal(runUpdate(opts, cmd.OutOrStdout()))
		},
	}

	// Persistent flags are inherited by all subcommands. The option flags
	// are registered by internal/config, which also binds them to viper
	// so they layer over INPUT_* variables and the settings file.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	config.RegisterFlags(rootCmd.PersistentFlags())

	// Register subcommands.
	rootCmd.AddCommand(NewScanCommand())

	return rootCmd
}

// Execute runs the root command and exits the process with the resulting
// exit code. It is the entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if code := execute(rootCmd); code != model.ExitSuccess {
		os.Exit(int(code))
	}
}

// execute runs rootCmd, reports any failure and returns the exit code.
// A panic anywhere below is reported like any other internal error.
func execute(rootCmd *cobra.Command) (code model.ExitCode) {
	defer func() {
		if r := recover(); r != nil {
			reportFailure(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), fmt.Sprintf("internal error: %v", r))
			code = model.ExitInternalError
		}
	}()

	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		reportFailure(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), failureMessage(cliErr))
		return cliErr.Code
	}

	// Usage errors from cobra itself (unknown flag, extra arguments).
	reportFailure(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), err.Error())
	return model.ExitGeneralError
}

// failureMessage returns the text reported for cliErr. A Dependabot config
// that cannot be parsed is reported as an internal error, like any other
// failure while reading the document; it keeps its own exit code.
func failureMessage(cliErr *model.CLIError) string {
	if cliErr.Code == model.ExitMalformedConfig {
		return "internal error: " + cliErr.Error()
	}
	return cliErr.Error()
}

// asInternal wraps any error that is not already a CLIError as an
// internal error, so it is reported as "internal error: <message>".
func asInternal(err error) error {
	if err == nil {
		return nil
	}
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return err
	}
	return model.WrapCLIError(model.ExitInternalError, "internal error", err)
}

// reportFailure tells the user, or the CI platform, that the run failed.
//
// Inside GitHub Actions the message becomes an ::error:: workflow command
// on stdout, which marks the step as failed in the UI. Elsewhere it goes
// to stderr as JSON (--json) or as "Error: <message>".
func reportFailure(stdout, stderr io.Writer, message string) {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		fmt.Fprintf(stdout, "::error::%s\n", escapeWorkflowData(message))
		return
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"error": map[string]interface{}{"message": message},
		}, "", "  ")
		fmt.Fprintln(stderr, string(data))
		return
	}

	errorColor.Fprint(stderr, "Error:")
	fmt.Fprintf(stderr, " %s\n", message)
}

// escapeWorkflowData escapes a workflow command message the way the
// Actions toolkit does, so multi-line messages stay one command.
func escapeWorkflowData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

// IsJSONOutput returns whether the --json flag is set. Command
// implementations call it to choose between text and JSON output.
func IsJSONOutput() bool {
	return jsonOutput
}
