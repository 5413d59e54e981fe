package declare

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a declaration file. Files ending in .hcl are
// parsed as HCL, everything else as YAML.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return ParseHCL(data, path)
	}

	return Parse(data)
}

// Parse parses YAML data into a File. Unknown keys, duplicate keys and
// malformed selectors are configuration errors.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse declaration YAML: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("declaration file is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: declaration file must be a mapping, got %s", root.Line, kindName(root.Kind))
	}

	f := &File{}
	sawExtract := false

	err = eachPair(root, func(k, v *yaml.Node) error {
		switch k.Value {
		case "version":
			return v.Decode(&f.Version)
		case "defaults":
			return parseDefaults(v, &f.Defaults)
		case "extract":
			sawExtract = true
			return parseExtract(v, f)
		default:
			return fmt.Errorf("line %d: unknown top-level key %q", k.Line, k.Value)
		}
	})
	if err != nil {
		return nil, err
	}

	if !sawExtract {
		return nil, fmt.Errorf("declaration file has no extract section")
	}

	return f, nil
}

// eachPair walks a mapping node, rejecting duplicate keys.
func eachPair(m *yaml.Node, fn func(k, v *yaml.Node) error) error {
	seen := make(map[string]int, len(m.Content)/2)

	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]

		if line, dup := seen[k.Value]; dup {
			return fmt.Errorf("line %d: duplicate key %q (first defined at line %d)", k.Line, k.Value, line)
		}

		seen[k.Value] = k.Line

		if err := fn(k, v); err != nil {
			return err
		}
	}

	return nil
}

func checkKeys(m *yaml.Node, context string, allowed []string) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if !slices.Contains(allowed, k.Value) {
			return fmt.Errorf("line %d: unknown key %q in %s (allowed: %s)",
				k.Line, k.Value, context, strings.Join(allowed, ", "))
		}
	}

	return nil
}

func parseDefaults(v *yaml.Node, out *Defaults) error {
	if isNull(v) {
		return nil
	}

	if v.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: defaults must be a mapping", v.Line)
	}

	if err := checkKeys(v, "defaults", defaultsBodyKeys); err != nil {
		return err
	}

	var body defaultsBody
	if err := v.Decode(&body); err != nil {
		return fmt.Errorf("line %d: %w", v.Line, err)
	}

	fields, err := ParseFieldSelectors(body.Fields)
	if err != nil {
		return fmt.Errorf("line %d: defaults: %w", v.Line, err)
	}

	api, err := ParseAPI(body.API)
	if err != nil {
		return fmt.Errorf("line %d: defaults: %w", v.Line, err)
	}

	out.Fields = fields
	out.API = api

	return nil
}

func parseExtract(v *yaml.Node, f *File) error {
	if v.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: extract must be a mapping of object keys", v.Line)
	}

	return eachPair(v, func(k, body *yaml.Node) error {
		sel, err := ParseObjectSelector(k.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", k.Line, err)
		}

		decl, err := parseDeclBody(sel, body)
		if err != nil {
			return fmt.Errorf("line %d: declaration %q: %w", k.Line, k.Value, err)
		}

		f.Declarations = append(f.Declarations, decl)

		return nil
	})
}

func parseDeclBody(sel ObjectSelector, v *yaml.Node) (Declaration, error) {
	decl := Declaration{Object: sel}

	var body declBody

	switch {
	case isNull(v):
		return decl, nil

	case v.Kind == yaml.ScalarNode || v.Kind == yaml.SequenceNode:
		// Shorthand: the value is the field list.
		if err := v.Decode(&body.Fields); err != nil {
			return decl, err
		}

	case v.Kind == yaml.MappingNode:
		if err := checkKeys(v, "declaration", declBodyKeys); err != nil {
			return decl, err
		}

		if err := v.Decode(&body); err != nil {
			return decl, err
		}

	default:
		return decl, fmt.Errorf("unexpected %s", kindName(v.Kind))
	}

	fields, err := ParseFieldSelectors(body.Fields)
	if err != nil {
		return decl, err
	}

	api, err := ParseAPI(body.API)
	if err != nil {
		return decl, err
	}

	decl.Fields = fields
	if body.Where != nil {
		decl.Where = *body.Where
		decl.Unfiltered = decl.Where == ""
	}

	decl.API = api
	decl.UpdateKey = body.UpdateKey

	return decl, nil
}

func isNull(v *yaml.Node) bool {
	return v.Kind == yaml.ScalarNode && v.Tag == "!!null"
}

// Marshal serializes a File to YAML, preserving declaration order.
func Marshal(f *File) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	if f.Version != "" {
		root.Content = append(root.Content, str("version"), str(f.Version))
	}

	if len(f.Defaults.Fields) > 0 || f.Defaults.API != APIDefault {
		defs := &yaml.Node{Kind: yaml.MappingNode}
		if len(f.Defaults.Fields) > 0 {
			defs.Content = append(defs.Content, str("fields"), seq(selectorStrings(f.Defaults.Fields)))
		}

		if f.Defaults.API != APIDefault {
			defs.Content = append(defs.Content, str("api"), str(string(f.Defaults.API)))
		}

		root.Content = append(root.Content, str("defaults"), defs)
	}

	extract := &yaml.Node{Kind: yaml.MappingNode}

	for i := range f.Declarations {
		d := &f.Declarations[i]

		body := &yaml.Node{Kind: yaml.MappingNode}
		body.Content = append(body.Content, str("fields"), seq(d.FieldStrings()))

		if d.Where != "" || d.Unfiltered {
			body.Content = append(body.Content, str("where"), str(d.Where))
		}

		if d.API != APIDefault {
			body.Content = append(body.Content, str("api"), str(string(d.API)))
		}

		if d.UpdateKey != "" {
			body.Content = append(body.Content, str("update_key"), str(d.UpdateKey))
		}

		extract.Content = append(extract.Content, str(d.Key()), body)
	}

	root.Content = append(root.Content, str("extract"), extract)

	return yaml.Marshal(root)
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func seq(values []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range values {
		n.Content = append(n.Content, str(v))
	}

	return n
}

func selectorStrings(sels []FieldSelector) []string {
	out := make([]string, len(sels))
	for i, s := range sels {
		out[i] = s.String()
	}

	return out
}
