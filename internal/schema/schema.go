package schema

import (
	"sort"
)

// RecordTypeObject is the metadata object record-type fields point at.
const RecordTypeObject = "RecordType"

// Field describes one field of an org object as reported by describe calls.
type Field struct {
	Name            string   `yaml:"name" json:"name"`
	Createable      bool     `yaml:"createable,omitempty" json:"createable,omitempty"`
	Nillable        bool     `yaml:"nillable,omitempty" json:"nillable,omitempty"`
	Custom          bool     `yaml:"custom,omitempty" json:"custom,omitempty"`
	HasDefaultValue bool     `yaml:"default_value,omitempty" json:"defaultedOnCreate,omitempty"`
	ReferenceTo     []string `yaml:"reference_to,omitempty" json:"referenceTo,omitempty"`
}

// RequiredOnCreate reports whether the field must be supplied on insert:
// createable, not nillable and without a default.
func (f *Field) RequiredOnCreate() bool {
	return f.Createable && !f.Nillable && !f.HasDefaultValue
}

// IsReference returns true if the field is a lookup to at least one object.
func (f *Field) IsReference() bool {
	return len(f.ReferenceTo) > 0
}

// IsPolymorphic returns true if the field can point at more than one object type.
func (f *Field) IsPolymorphic() bool {
	return len(f.ReferenceTo) > 1
}

// IsRecordType returns true if the field selects a record type. Record types
// are metadata and are translated by name instead of looked up as rows.
func (f *Field) IsRecordType() bool {
	return len(f.ReferenceTo) == 1 && f.ReferenceTo[0] == RecordTypeObject
}

// Object describes one sObject.
type Object struct {
	Name   string
	Custom bool
	// Count is the approximate row count; nil when the snapshot was not counted.
	Count  *int
	Fields map[string]*Field
}

// Field returns the named field.
func (o *Object) Field(name string) (*Field, bool) {
	f, ok := o.Fields[name]
	return f, ok
}

// FieldNames returns every field name in ascending order.
func (o *Object) FieldNames() []string {
	names := make([]string, 0, len(o.Fields))
	for n := range o.Fields {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Populated reports whether the object is known to hold rows.
func (o *Object) Populated() bool {
	return o.Count != nil && *o.Count > 0
}

// Catalog is the read-only schema service the planner consumes.
type Catalog interface {
	// Get returns the named object, or false if the schema lacks it.
	Get(name string) (*Object, bool)
	// List returns every object sorted by name.
	List() []*Object
}

// Counted reports whether every object in the catalog carries a row count.
func Counted(c Catalog) bool {
	for _, o := range c.List() {
		if o.Count == nil {
			return false
		}
	}

	return true
}

// Names returns the name of every object in the catalog, sorted.
func Names(c Catalog) []string {
	objs := c.List()

	names := make([]string, 0, len(objs))
	for _, o := range objs {
		names = append(names, o.Name)
	}

	return names
}
