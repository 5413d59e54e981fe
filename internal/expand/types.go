package expand

import (
	"dataplan/internal/declare"
)

// Resolved is a fully literal declaration for one concrete object.
type Resolved struct {
	Object    string
	Fields    []string
	Where     string
	API       declare.API
	UpdateKey string
	// Synthesized marks declarations pulled in by closure rather than declared.
	Synthesized bool
}

// HasField returns true if name is among the resolved fields.
func (r *Resolved) HasField(name string) bool {
	for _, f := range r.Fields {
		if f == name {
			return true
		}
	}

	return false
}

// WithoutField returns a copy of r with the named field removed.
func (r Resolved) WithoutField(name string) Resolved {
	fields := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f != name {
			fields = append(fields, f)
		}
	}

	r.Fields = fields

	return r
}

// ToDeclaration turns r back into a literal declaration.
func (r *Resolved) ToDeclaration() declare.Declaration {
	fields := make([]declare.FieldSelector, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = declare.LiteralField{Name: f}
	}

	return declare.Declaration{
		Object:    declare.LiteralObject{Name: r.Object},
		Fields:    fields,
		Where:     r.Where,
		API:       r.API,
		UpdateKey: r.UpdateKey,
	}
}

// Options configure an Expander.
type Options struct {
	// Strict turns an unknown field named by a literal object's declaration
	// into a configuration error. Otherwise, and always for group-matched
	// objects, the field is dropped with a warning.
	Strict bool
}

// candidate is a declaration claiming an object, ranked by specificity.
type candidate struct {
	decl       declare.Declaration
	precedence int
	literal    bool
}

const literalPrecedence = 3
