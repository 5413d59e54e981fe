package declare

import (
	"fmt"
	"strings"
)

// ObjectGroup is a wildcard over the schema catalog.
type ObjectGroup string

const (
	ObjectsAll       ObjectGroup = "ALL"
	ObjectsCustom    ObjectGroup = "CUSTOM"
	ObjectsStandard  ObjectGroup = "STANDARD"
	ObjectsPopulated ObjectGroup = "POPULATED"
)

// IsValid returns true if the group is known.
func (g ObjectGroup) IsValid() bool {
	switch g {
	case ObjectsAll, ObjectsCustom, ObjectsStandard, ObjectsPopulated:
		return true
	default:
		return false
	}
}

// Precedence orders overlapping groups; higher wins.
func (g ObjectGroup) Precedence() int {
	switch g {
	case ObjectsCustom, ObjectsStandard:
		return 2
	case ObjectsPopulated:
		return 1
	default:
		return 0
	}
}

// FieldGroup is a wildcard over an object's fields.
type FieldGroup string

const (
	FieldsAll      FieldGroup = "ALL"
	FieldsCustom   FieldGroup = "CUSTOM"
	FieldsStandard FieldGroup = "STANDARD"
	FieldsRequired FieldGroup = "REQUIRED"
)

// IsValid returns true if the group is known.
func (g FieldGroup) IsValid() bool {
	switch g {
	case FieldsAll, FieldsCustom, FieldsStandard, FieldsRequired:
		return true
	default:
		return false
	}
}

// ObjectSelector is either a LiteralObject or an ObjectGroupSelector.
type ObjectSelector interface {
	fmt.Stringer
	isObjectSelector()
}

// LiteralObject names exactly one object.
type LiteralObject struct {
	Name string
}

// ObjectGroupSelector expands to every catalog object matching Group.
type ObjectGroupSelector struct {
	Group ObjectGroup
}

func (LiteralObject) isObjectSelector()       {}
func (ObjectGroupSelector) isObjectSelector() {}

func (s LiteralObject) String() string       { return s.Name }
func (s ObjectGroupSelector) String() string { return "OBJECTS(" + string(s.Group) + ")" }

// FieldSelector is either a LiteralField or a FieldGroupSelector.
type FieldSelector interface {
	fmt.Stringer
	isFieldSelector()
}

// LiteralField names exactly one field.
type LiteralField struct {
	Name string
}

// FieldGroupSelector expands to every field of the object matching Group.
type FieldGroupSelector struct {
	Group FieldGroup
}

func (LiteralField) isFieldSelector()       {}
func (FieldGroupSelector) isFieldSelector() {}

func (s LiteralField) String() string       { return s.Name }
func (s FieldGroupSelector) String() string { return "FIELDS(" + string(s.Group) + ")" }

// API is the transfer-mode hint passed through to the bulk-transfer executor.
type API string

const (
	APIDefault API = ""
	APISmart   API = "smart"
	APIBulk    API = "bulk"
	APIRest    API = "rest"
)

// ParseAPI parses a transfer-mode hint. The empty string is accepted.
func ParseAPI(s string) (API, error) {
	a := API(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case APIDefault, APISmart, APIBulk, APIRest:
		return a, nil
	default:
		return "", fmt.Errorf("unknown api %q (expected smart, bulk or rest)", s)
	}
}

// Declaration is one object key of a declaration file.
type Declaration struct {
	Object ObjectSelector
	Fields []FieldSelector
	// Where is an opaque row filter passed through to the artifact.
	Where string
	// Unfiltered is set by an explicit empty where and turns off the
	// built-in row filter of the object.
	Unfiltered bool
	API        API
	// UpdateKey names an external-id field; its presence makes the load an upsert.
	UpdateKey string
}

// Key returns the object key the declaration was written under.
func (d *Declaration) Key() string {
	if d.Object == nil {
		return ""
	}

	return d.Object.String()
}

// IsGroup returns true if the declaration expands over the catalog.
func (d *Declaration) IsGroup() bool {
	_, ok := d.Object.(ObjectGroupSelector)
	return ok
}

// FieldStrings renders the field selectors.
func (d *Declaration) FieldStrings() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.String()
	}

	return out
}

// Defaults apply to every declaration that leaves a setting unset.
type Defaults struct {
	Fields []FieldSelector
	API    API
}

// File is a parsed declaration file, in declaration order.
type File struct {
	Version      string
	Defaults     Defaults
	Declarations []Declaration
}
