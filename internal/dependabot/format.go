package dependabot

import (
	"bytes"
	"fmt"

	"github.com/google/yamlfmt/formatters/basic"
	"gopkg.in/yaml.v3"
)

// Bytes renders the document as block-style YAML.
func (d *Document) Bytes() ([]byte, error) {
	forceBlock(d.root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to encode Dependabot config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode Dependabot config: %w", err)
	}
	return format(buf.Bytes())
}

// forceBlock clears the flow style flag on every collection below n.
// Empty collections are still written as [] or {} by the encoder.
func forceBlock(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		forceBlock(c)
	}
}

// format runs yamlfmt on the given YAML content and returns the formatted output.
func format(data []byte) ([]byte, error) {
	factory := &basic.BasicFormatterFactory{}
	formatter, err := factory.NewFormatter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create YAML formatter: %w", err)
	}
	out, err := formatter.Format(data)
	if err != nil {
		return nil, fmt.Errorf("failed to format Dependabot config: %w", err)
	}
	return out, nil
}
