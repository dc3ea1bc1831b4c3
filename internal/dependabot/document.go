package dependabot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// Top-level and per-entry keys of the Dependabot configuration schema.
const (
	keyVersion     = "version"
	keyUpdates     = "updates"
	keyEcosystem   = "package-ecosystem"
	keyDirectory   = "directory"
	keyDirectories = "directories"
)

// Document is a Dependabot configuration held as a YAML node tree.
//
// Only the `updates` sequence is ever modified, and only by appending.
// Every other node, including comments attached to it, is written back as
// it was read.
type Document struct {
	// root is the DocumentNode; root.Content[0] is the top-level mapping.
	// For a synthesized document the mapping holds `version` and
	// `updates`, in that order.
	root *yaml.Node

	// updates points at the `updates` sequence inside root. It aliases
	// the node in the tree, so appending to updates.Content changes
	// what Bytes renders.
	updates *yaml.Node
}

// New returns a fresh document with `version: 2` and an empty `updates`
// sequence.
func New() *Document {
	updates := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	top := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			scalar(keyVersion),
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(model.ConfigVersion)},
			scalar(keyUpdates),
			updates,
		},
	}
	return &Document{
		root:    &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{top}},
		updates: updates,
	}
}

// Parse builds a Document from raw YAML. An empty document is treated like
// a missing file and yields New(); if the file holds only comments they
// are kept above the synthesized `version` key. A top-level mapping
// without an `updates` key (or with `updates:` left empty) gets an empty
// sequence.
//
// Unparsable input, a non-mapping top level, and an `updates` value that is
// not a sequence are returned as *model.CLIError with ExitMalformedConfig.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, model.WrapCLIError(model.ExitMalformedConfig, "failed to parse Dependabot config", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		doc := New()
		// yaml.v3 returns no node at all for a comment-only stream.
		doc.root.Content[0].Content[0].HeadComment = commentLines(data)
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, model.NewCLIError(model.ExitMalformedConfig,
			fmt.Sprintf("Dependabot config must be a mapping at the top level (line %d)", top.Line))
	}

	updates := lookup(top, keyUpdates)
	switch {
	case updates == nil:
		updates = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		top.Content = append(top.Content, scalar(keyUpdates), updates)
	case updates.Kind == yaml.ScalarNode && updates.ShortTag() == "!!null":
		// `updates:` with no value. Turn the null into a sequence in place
		// so any comment attached to it survives.
		updates.Kind = yaml.SequenceNode
		updates.Tag = "!!seq"
		updates.Value = ""
		updates.Style = 0
	case updates.Kind != yaml.SequenceNode:
		return nil, model.NewCLIError(model.ExitMalformedConfig,
			fmt.Sprintf("%q must be a sequence (line %d)", keyUpdates, updates.Line))
	}

	return &Document{root: &root, updates: updates}, nil
}

// Load reads and parses the document at path. A missing file is reported
// with an error wrapping fs.ErrNotExist; use LoadOrNew to fall back to a
// fresh document instead.
//
// Parse errors keep their *model.CLIError type and code; the path is
// prepended to the message so the user knows which file to fix.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			cliErr.Message = path + ": " + cliErr.Message
		}
		return nil, err
	}
	return doc, nil
}

// LoadOrNew loads the document at path, or returns New() when the file
// does not exist. The boolean reports whether the file existed.
func LoadOrNew(path string) (*Document, bool, error) {
	doc, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no existing Dependabot config, starting a new one", "path", path)
		return New(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// Len returns the number of entries in the `updates` sequence.
func (d *Document) Len() int {
	return len(d.updates.Content)
}

// ConfiguredDirs returns the normalised directories of every update entry
// whose package-ecosystem equals ecosystem. Both the `directory` key and
// the multi-directory `directories` list are honoured.
//
// Only string scalars count. An entry whose directory is, say, a number
// is skipped and never matches a discovered directory.
func (d *Document) ConfiguredDirs(ecosystem string) model.DirSet {
	dirs := model.NewDirSet()
	for _, entry := range d.updates.Content {
		if entry.Kind != yaml.MappingNode {
			continue
		}
		eco := lookup(entry, keyEcosystem)
		if eco == nil || eco.Kind != yaml.ScalarNode || eco.Value != ecosystem {
			continue
		}

		if dir := lookup(entry, keyDirectory); dir != nil {
			if isString(dir) {
				dirs.Add(model.NormalizeDir(dir.Value))
			} else {
				slog.Debug("skipping non-string directory", "line", dir.Line, "tag", dir.ShortTag())
			}
		}

		if list := lookup(entry, keyDirectories); list != nil && list.Kind == yaml.SequenceNode {
			for _, item := range list.Content {
				if isString(item) {
					dirs.Add(model.NormalizeDir(item.Value))
				}
			}
		}
	}
	return dirs
}

// Append adds entry to the end of the `updates` sequence. The entry is
// encoded into a fresh node, so nothing is shared with other entries.
func (d *Document) Append(entry model.UpdateEntry) error {
	node, err := entryNode(entry)
	if err != nil {
		return err
	}
	d.updates.Content = append(d.updates.Content, node)
	return nil
}

// Write serialises the document and overwrites path with it, creating the
// parent directory (usually .github/) if needed. This is a full rewrite;
// there is no temporary file or backup.
//
// Directory permissions are 0755 and the file is written 0644, the modes
// git checks out for a regular tracked file.
func (d *Document) Write(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// commentLines returns the comment lines of data joined with newlines,
// in the form yaml.v3 uses for HeadComment.
func commentLines(data []byte) string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// lookup returns the value node for key in a mapping node, or nil.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// isString reports whether n is a scalar that resolves to !!str.
func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

// scalar returns a plain string scalar node, used for mapping keys.
func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
