package discover

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// loadPatterns collects the ignore patterns that apply below root, in
// ascending order of priority: .git/info/exclude, then every .gitignore
// from the root downwards, then the caller's extra excludes.
func loadPatterns(root string, opts Options) ([]gitignore.Pattern, error) {
	var patterns []gitignore.Pattern

	if !opts.NoGitignore {
		// ReadPatterns does not descend into directories already ignored by
		// a parent .gitignore, matching git's own behaviour.
		ps, err := gitignore.ReadPatterns(osfs.New(root), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read ignore rules under %s: %w", root, err)
		}
		patterns = append(patterns, ps...)
	}

	return append(patterns, parseExcludes(opts.Excludes)...), nil
}

// parseExcludes turns user-supplied exclude lines into root-level
// patterns. Blank lines and comments are dropped, as in a .gitignore file.
func parseExcludes(lines []string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}
