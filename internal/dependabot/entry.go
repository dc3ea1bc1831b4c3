package dependabot

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// NewEntry builds the Docker update rule for dir. The interval is passed
// through verbatim; Dependabot itself rejects values it does not know.
func NewEntry(dir, interval string) model.UpdateEntry {
	return model.UpdateEntry{
		Directory:        dir,
		PackageEcosystem: model.EcosystemDocker,
		Schedule:         model.Schedule{Interval: interval},
	}
}

// entryNode encodes an entry into a new, unshared mapping node.
func entryNode(entry model.UpdateEntry) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(entry); err != nil {
		return nil, fmt.Errorf("failed to encode update entry for %s: %w", entry.Directory, err)
	}
	return &node, nil
}
