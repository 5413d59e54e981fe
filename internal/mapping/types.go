package mapping

import (
	"dataplan/internal/declare"
)

// Action is what a step does to its rows.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpsert Action = "upsert"
	ActionUpdate Action = "update"
)

// IDField is the column deferred updates match rows on.
const IDField = "Id"

// Lookup resolves a reference field against rows of an earlier step.
type Lookup struct {
	Table    declare.StringOrArray `yaml:"table"`
	KeyField string                `yaml:"key_field,omitempty"`
	// After names the step that must finish before the lookup can resolve.
	After string `yaml:"after,omitempty"`
}

// RecordTypeMapping translates record-type ids by developer name.
type RecordTypeMapping struct {
	Field    string `yaml:"field"`
	Table    string `yaml:"table"`
	KeyField string `yaml:"key_field"`
}

// Step is one load operation.
type Step struct {
	Name       string             `yaml:"-"`
	SObject    string             `yaml:"sf_object"`
	Table      string             `yaml:"table"`
	Action     Action             `yaml:"action"`
	API        declare.API        `yaml:"api,omitempty"`
	UpdateKey  string             `yaml:"update_key,omitempty"`
	Fields     []string           `yaml:"fields"`
	Lookups    map[string]Lookup  `yaml:"lookups,omitempty"`
	Filters    []string           `yaml:"filters,omitempty"`
	RecordType *RecordTypeMapping `yaml:"record_type,omitempty"`
}

// IsAfter returns true for deferred updates of broken edges.
func (s *Step) IsAfter() bool {
	return s.Action == ActionUpdate
}

// Artifact is the ordered list of steps.
type Artifact struct {
	Steps []Step
}

// Step returns the named step.
func (a *Artifact) Step(name string) (*Step, bool) {
	for i := range a.Steps {
		if a.Steps[i].Name == name {
			return &a.Steps[i], true
		}
	}

	return nil, false
}

// Names returns the step names in order.
func (a *Artifact) Names() []string {
	out := make([]string, len(a.Steps))
	for i, s := range a.Steps {
		out[i] = s.Name
	}

	return out
}

// Index returns the position of the named step, or -1.
func (a *Artifact) Index(name string) int {
	for i, s := range a.Steps {
		if s.Name == name {
			return i
		}
	}

	return -1
}

// MainStepName names the load step of an object.
func MainStepName(action Action, object string) string {
	if action == ActionUpsert {
		return "Upsert " + object
	}

	return "Insert " + object
}

// AfterStepName names the deferred update of one field.
func AfterStepName(object, field string) string {
	return "Update " + object + "." + field
}

// RecordTypeTable names the record-type side table of an object.
func RecordTypeTable(object string) string {
	return object + "_rt_mapping"
}
