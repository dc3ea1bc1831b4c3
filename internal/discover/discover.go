package discover

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// Options controls a directory scan.
type Options struct {
	// Excludes are additional patterns in .gitignore syntax, evaluated
	// relative to the scan root. They take precedence over the
	// repository's own ignore files.
	Excludes []string

	// NoGitignore disables reading .gitignore and .git/info/exclude.
	// The vendor and .git exclusions still apply.
	NoGitignore bool
}

// Discoverer scans one directory tree for Dockerfiles.
type Discoverer struct {
	root    string
	matcher gitignore.Matcher
}

// New creates a Discoverer rooted at root. Ignore rules are loaded
// eagerly, so an unreadable root fails here rather than mid-walk.
func New(root string, opts Options) (*Discoverer, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root %q: %w", root, err)
	}

	patterns, err := loadPatterns(absRoot, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded ignore patterns", "root", absRoot, "count", len(patterns))

	return &Discoverer{
		root:    absRoot,
		matcher: gitignore.NewMatcher(patterns),
	}, nil
}

// Root returns the absolute path of the scan root.
func (d *Discoverer) Root() string {
	return d.root
}

// Discover walks the tree and returns the set of directories containing a
// Dockerfile, as forward-slash paths relative to the root. A Dockerfile at
// the root itself yields ".".
//
// Any I/O error during traversal aborts the scan and is returned wrapped.
func (d *Discoverer) Discover() (model.DirSet, error) {
	found := model.NewDirSet()

	walkErr := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		parts := strings.Split(rel, "/")

		if entry.IsDir() {
			if d.skipDir(entry.Name(), parts) {
				slog.Debug("skipping directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Name() != model.BuildFileName {
			return nil
		}
		if d.matcher.Match(parts, false) {
			slog.Debug("ignoring Dockerfile excluded by ignore rules", "path", rel)
			return nil
		}

		dir := path.Dir(rel)
		slog.Debug("found Dockerfile", "path", rel, "dir", dir)
		found.Add(dir)
		return nil
	})
	if walkErr != nil {
		return model.DirSet{}, fmt.Errorf("failed to scan %s for Dockerfiles: %w", d.root, walkErr)
	}

	return found, nil
}

// skipDir reports whether a directory (and everything below it) is
// excluded from the scan.
func (d *Discoverer) skipDir(name string, parts []string) bool {
	switch name {
	case ".git", "vendor":
		return true
	}
	return d.matcher.Match(parts, true)
}
