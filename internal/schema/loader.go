package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// snapshotFile is the on-disk layout of a schema snapshot.
type snapshotFile struct {
	Objects []objectEntry `yaml:"objects" json:"objects"`
}

type objectEntry struct {
	Name   string   `yaml:"name" json:"name"`
	Custom bool     `yaml:"custom,omitempty" json:"custom,omitempty"`
	Count  *int     `yaml:"count,omitempty" json:"count,omitempty"`
	Fields []*Field `yaml:"fields" json:"fields"`
}

// LoadFile loads a schema snapshot from a YAML (.yml/.yaml) or JSON (.json)
// file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema snapshot %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	default:
		return Parse(data)
	}
}

// Parse parses YAML snapshot data.
func Parse(data []byte) (*Snapshot, error) {
	var sf snapshotFile

	err := yaml.Unmarshal(data, &sf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	return sf.build()
}

// ParseJSON parses JSON snapshot data.
func ParseJSON(data []byte) (*Snapshot, error) {
	var sf snapshotFile

	err := json.Unmarshal(data, &sf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	return sf.build()
}

func (sf *snapshotFile) build() (*Snapshot, error) {
	objects := make([]*Object, 0, len(sf.Objects))

	for _, e := range sf.Objects {
		o := NewObject(e.Name, e.Custom, e.Count)

		for _, f := range e.Fields {
			if f == nil || f.Name == "" {
				return nil, fmt.Errorf("object %q: field without a name", e.Name)
			}

			if _, dup := o.Fields[f.Name]; dup {
				return nil, fmt.Errorf("object %q: duplicate field %q", e.Name, f.Name)
			}

			o.Fields[f.Name] = f
		}

		objects = append(objects, o)
	}

	return NewSnapshot(objects...)
}

// Marshal serializes a catalog to snapshot YAML.
func Marshal(c Catalog) ([]byte, error) {
	var sf snapshotFile

	for _, o := range c.List() {
		e := objectEntry{Name: o.Name, Custom: o.Custom, Count: o.Count}
		for _, n := range o.FieldNames() {
			e.Fields = append(e.Fields, o.Fields[n])
		}

		sf.Objects = append(sf.Objects, e)
	}

	return yaml.Marshal(&sf)
}
