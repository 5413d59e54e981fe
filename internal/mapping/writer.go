package mapping

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarshalYAML emits the steps as a mapping in step order.
func (a *Artifact) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for i := range a.Steps {
		s := &a.Steps[i]

		var body yaml.Node

		err := body.Encode(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode step %q: %w", s.Name, err)
		}

		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Name},
			&body,
		)
	}

	return root, nil
}

// UnmarshalYAML reads steps keeping document order.
func (a *Artifact) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: mapping artifact must be a mapping of step name to step", node.Line)
	}

	seen := make(map[string]struct{}, len(node.Content)/2)
	a.Steps = make([]Step, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]

		if _, dup := seen[k.Value]; dup {
			return fmt.Errorf("line %d: duplicate step %q", k.Line, k.Value)
		}

		seen[k.Value] = struct{}{}

		var s Step

		err := v.Decode(&s)
		if err != nil {
			return fmt.Errorf("step %q: %w", k.Value, err)
		}

		s.Name = k.Value
		a.Steps = append(a.Steps, s)
	}

	return nil
}

// Marshal serializes the artifact with two-space indentation.
func Marshal(a *Artifact) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err := enc.Encode(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mapping artifact: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mapping artifact: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes the artifact to path.
func WriteFile(path string, a *Artifact) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write mapping artifact %s: %w", path, err)
	}

	return nil
}

// Parse reads an artifact from YAML.
func Parse(data []byte) (*Artifact, error) {
	a := &Artifact{}

	err := yaml.Unmarshal(data, a)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping artifact: %w", err)
	}

	return a, nil
}

// LoadFile reads an artifact from path.
func LoadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping artifact %s: %w", path, err)
	}

	return Parse(data)
}
