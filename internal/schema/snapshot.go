package schema

import (
	"fmt"
	"sort"
)

// Snapshot is an immutable, in-memory Catalog.
type Snapshot struct {
	objects map[string]*Object
	sorted  []*Object
}

// NewSnapshot builds a snapshot from objects. Duplicate object names and
// fields whose map key disagrees with their Name are rejected.
func NewSnapshot(objects ...*Object) (*Snapshot, error) {
	s := &Snapshot{objects: make(map[string]*Object, len(objects))}

	for _, o := range objects {
		if o == nil || o.Name == "" {
			return nil, fmt.Errorf("object without a name")
		}

		if _, dup := s.objects[o.Name]; dup {
			return nil, fmt.Errorf("duplicate object %q", o.Name)
		}

		if o.Fields == nil {
			o.Fields = map[string]*Field{}
		}

		for key, f := range o.Fields {
			if f == nil || f.Name != key {
				return nil, fmt.Errorf("object %q: field key %q does not match field name", o.Name, key)
			}
		}

		s.objects[o.Name] = o
		s.sorted = append(s.sorted, o)
	}

	sort.Slice(s.sorted, func(i, j int) bool { return s.sorted[i].Name < s.sorted[j].Name })

	return s, nil
}

// MustSnapshot is NewSnapshot that panics on error. Intended for tests and fixtures.
func MustSnapshot(objects ...*Object) *Snapshot {
	s, err := NewSnapshot(objects...)
	if err != nil {
		panic(err)
	}

	return s
}

// Get implements Catalog.
func (s *Snapshot) Get(name string) (*Object, bool) {
	o, ok := s.objects[name]
	return o, ok
}

// List implements Catalog.
func (s *Snapshot) List() []*Object {
	return append([]*Object(nil), s.sorted...)
}

// NewObject is a convenience constructor that keys fields by name.
func NewObject(name string, custom bool, count *int, fields ...*Field) *Object {
	o := &Object{Name: name, Custom: custom, Count: count, Fields: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		o.Fields[f.Name] = f
	}

	return o
}

// CountOf returns a pointer to n, for building counted objects.
func CountOf(n int) *int {
	return &n
}
