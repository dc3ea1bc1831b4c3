package model

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

const (
	// EcosystemDocker is the Dependabot package-ecosystem tag for container
	// images. It is the only ecosystem this tool ever writes.
	EcosystemDocker = "docker"

	// ConfigVersion is the Dependabot configuration schema version written
	// into newly synthesized documents.
	ConfigVersion = 2

	// DefaultConfigPath is the repository-relative location of the
	// Dependabot configuration file.
	DefaultConfigPath = ".github/dependabot.yml"

	// BuildFileName is the exact file name that marks a directory as
	// needing Docker update tracking.
	BuildFileName = "Dockerfile"

	// DefaultInterval is used when no interval is configured by flag,
	// environment or settings file. An explicitly empty interval is an
	// error, not a request for the default.
	DefaultInterval = "daily"
)

// Schedule is the schedule sub-mapping of a Dependabot update entry.
type Schedule struct {
	// Interval is taken verbatim from configuration input. It is not
	// validated against Dependabot's accepted values.
	Interval string `yaml:"interval" json:"interval"`
}

// UpdateEntry is a single Dependabot update rule as created by this tool.
//
// Field order matters: yaml.v3 encodes struct fields in declaration order,
// so new entries are written as directory, package-ecosystem, schedule.
type UpdateEntry struct {
	Directory        string   `yaml:"directory" json:"directory"`
	PackageEcosystem string   `yaml:"package-ecosystem" json:"packageEcosystem"`
	Schedule         Schedule `yaml:"schedule" json:"schedule"`
}

// String returns a short human-readable form: "ecosystem:directory".
func (e UpdateEntry) String() string {
	return e.PackageEcosystem + ":" + e.Directory
}

// DirSet is a deduplicated set of repository-relative directory paths
// using forward slashes. The zero value is not usable; call NewDirSet.
type DirSet struct {
	dirs map[string]struct{}
}

// NewDirSet creates a DirSet holding the given directories.
func NewDirSet(dirs ...string) DirSet {
	s := DirSet{dirs: make(map[string]struct{}, len(dirs))}
	for _, d := range dirs {
		s.Add(d)
	}
	return s
}

// Add inserts dir into the set. Adding an existing directory is a no-op.
func (s DirSet) Add(dir string) {
	s.dirs[dir] = struct{}{}
}

// Remove deletes dir from the set, if present.
func (s DirSet) Remove(dir string) {
	delete(s.dirs, dir)
}

// Has reports whether dir is in the set.
func (s DirSet) Has(dir string) bool {
	_, ok := s.dirs[dir]
	return ok
}

// Len returns the number of directories in the set.
func (s DirSet) Len() int {
	return len(s.dirs)
}

// Sorted returns the set's directories in lexical order. This is the
// enumeration order used everywhere a DirSet is iterated, which keeps
// generated configuration reproducible across runs and platforms.
func (s DirSet) Sorted() []string {
	out := make([]string, 0, len(s.dirs))
	for d := range s.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s DirSet) Clone() DirSet {
	return NewDirSet(s.Sorted()...)
}

// NormalizeDir maps the directory spellings Dependabot accepts onto the
// form produced by discovery, so "/a", "a/" and "a" compare equal and
// "/" equals ".".
func NormalizeDir(dir string) string {
	d := strings.Trim(dir, "/")
	if d == "" {
		return "."
	}
	return path.Clean(d)
}

// ExitCode defines the process exit codes of the CLI. CI systems only
// distinguish zero from non-zero, but distinct codes make local runs
// easier to script.
type ExitCode int

const (
	// ExitSuccess indicates the run completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an expected failure reported with a
	// human-readable message (for example invalid options).
	ExitGeneralError ExitCode = 1

	// ExitInternalError indicates an unexpected failure during discovery,
	// parsing or file I/O.
	ExitInternalError ExitCode = 2

	// ExitMalformedConfig indicates the existing Dependabot configuration
	// could not be parsed or does not have the expected shape.
	ExitMalformedConfig ExitCode = 3
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error if set.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
