package expand

import (
	"errors"
	"fmt"
	"slices"

	"dataplan/internal/common"
	"dataplan/internal/declare"
	"dataplan/internal/diagnostic"
	"dataplan/internal/match"
	"dataplan/internal/policy"
	"dataplan/internal/schema"
)

// ErrConfiguration is wrapped by every configuration error Expand returns.
var ErrConfiguration = errors.New("invalid declarations")

// Expander resolves declarations against a catalog.
type Expander struct {
	catalog schema.Catalog
	policy  *policy.Policy
	opts    Options
}

// New creates an Expander. A nil policy means policy.New().
func New(catalog schema.Catalog, pol *policy.Policy, opts Options) *Expander {
	if pol == nil {
		pol = policy.New()
	}

	return &Expander{catalog: catalog, policy: pol, opts: opts}
}

// Expand resolves normalized declarations into one Resolved per object,
// sorted by object name. Referential gaps are recorded in diags; a
// configuration error aborts with an error and no partial result.
func (e *Expander) Expand(decls []declare.Declaration, diags *diagnostic.Diagnostics) ([]Resolved, error) {
	winners := make(map[string]candidate)

	for _, d := range decls {
		for _, c := range e.claim(d, diags) {
			name := c.decl.Object.String()
			if prev, ok := winners[name]; ok && prev.precedence >= c.precedence {
				continue
			}

			winners[name] = c
		}
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, diags.Error())
	}

	out := make([]Resolved, 0, len(winners))

	for _, name := range common.SortedKeys(winners) {
		obj, _ := e.catalog.Get(name)

		r, ok := e.resolve(obj, winners[name], diags)
		if ok {
			out = append(out, r)
		}
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, diags.Error())
	}

	return out, nil
}

// claim lists the objects one declaration covers, each tagged with the
// declaration rewritten to a literal object.
func (e *Expander) claim(d declare.Declaration, diags *diagnostic.Diagnostics) []candidate {
	switch sel := d.Object.(type) {
	case declare.LiteralObject:
		if _, ok := e.catalog.Get(sel.Name); !ok {
			var suggestions []string
			if s, ok := match.Suggest(sel.Name, schema.Names(e.catalog)); ok {
				suggestions = append(suggestions, s)
			}

			diags.AddWarning("object_not_found",
				fmt.Sprintf("object %q is not in the schema; declaration dropped", sel.Name),
				sel.Name, "", suggestions...)

			return nil
		}

		if e.policy.ObjectExcluded(sel.Name) {
			diags.AddWarning("object_excluded",
				fmt.Sprintf("object %q is excluded by policy; declaration dropped", sel.Name), sel.Name, "")

			return nil
		}

		return []candidate{{decl: d, precedence: literalPrecedence, literal: true}}

	case declare.ObjectGroupSelector:
		if sel.Group == declare.ObjectsPopulated && !schema.Counted(e.catalog) {
			diags.AddError("counts_unavailable",
				"OBJECTS(POPULATED) needs a schema snapshot with row counts", sel.String(), "")

			return nil
		}

		var out []candidate

		for _, obj := range e.catalog.List() {
			if !groupMatches(sel.Group, obj) {
				continue
			}

			if e.policy.ObjectExcluded(obj.Name) {
				diags.AddInfo("object_excluded",
					fmt.Sprintf("%s skips %q, excluded by policy", sel, obj.Name), obj.Name, "")

				continue
			}

			lit := d
			lit.Object = declare.LiteralObject{Name: obj.Name}

			if lit.Where == "" && !lit.Unfiltered {
				lit.Where, _ = declare.DefaultWhere(obj.Name)
			}

			out = append(out, candidate{decl: lit, precedence: sel.Group.Precedence()})
		}

		return out

	default:
		diags.AddError("declaration_without_object", "declaration has no object selector", "", "")
		return nil
	}
}

func groupMatches(g declare.ObjectGroup, obj *schema.Object) bool {
	switch g {
	case declare.ObjectsAll:
		return true
	case declare.ObjectsCustom:
		return obj.Custom
	case declare.ObjectsStandard:
		return !obj.Custom
	case declare.ObjectsPopulated:
		return obj.Populated()
	default:
		return false
	}
}

func (e *Expander) resolve(obj *schema.Object, c candidate, diags *diagnostic.Diagnostics) (Resolved, bool) {
	// A literal field missing from one object matched by a group is local to
	// that object and never fatal.
	fields, misses := e.resolveFields(obj, c.decl.Fields, e.opts.Strict && c.literal, diags)

	if c.decl.UpdateKey != "" {
		if _, ok := obj.Field(c.decl.UpdateKey); !ok {
			diags.AddError("update_key_not_found",
				fmt.Sprintf("update key %q is not a field of %s", c.decl.UpdateKey, obj.Name),
				obj.Name, c.decl.UpdateKey)

			return Resolved{}, false
		}
	}

	if len(fields) == 0 {
		if misses > 0 && c.literal {
			diags.AddError("declaration_empty",
				"no declared field exists in the schema", obj.Name, "")
		} else {
			diags.AddWarning("declaration_empty",
				"field selectors matched nothing; declaration dropped", obj.Name, "")
		}

		return Resolved{}, false
	}

	return Resolved{
		Object:    obj.Name,
		Fields:    fields,
		Where:     c.decl.Where,
		API:       c.decl.API,
		UpdateKey: c.decl.UpdateKey,
	}, true
}

// ResolveFields expands field selectors for obj. Literal fields keep their
// declared order, group fields follow sorted, and fields required on create
// are unioned in last. It returns the number of literal fields that were
// dropped because obj lacks them.
func (e *Expander) ResolveFields(obj *schema.Object, sels []declare.FieldSelector, diags *diagnostic.Diagnostics) ([]string, int) {
	return e.resolveFields(obj, sels, e.opts.Strict, diags)
}

func (e *Expander) resolveFields(obj *schema.Object, sels []declare.FieldSelector, strict bool, diags *diagnostic.Diagnostics) ([]string, int) {
	seen := make(map[string]struct{}, len(sels))

	var (
		out    []string
		group  []string
		misses int
	)

	for _, s := range sels {
		switch sel := s.(type) {
		case declare.LiteralField:
			if _, ok := obj.Field(sel.Name); ok {
				out = common.AppendUnique(out, seen, sel.Name)
				continue
			}

			misses++
			fieldMiss(obj, sel.Name, strict, diags)

		case declare.FieldGroupSelector:
			for _, name := range obj.FieldNames() {
				f := obj.Fields[name]
				if fieldGroupMatches(sel.Group, f) && !e.policy.FieldExcluded(name) {
					group = append(group, name)
				}
			}
		}
	}

	slices.Sort(group)
	out = common.AppendUnique(out, seen, group...)
	out = common.AppendUnique(out, seen, e.requiredFields(obj)...)

	return out, misses
}

func fieldMiss(obj *schema.Object, name string, strict bool, diags *diagnostic.Diagnostics) {
	var suggestions []string
	if s, ok := match.Suggest(name, obj.FieldNames()); ok {
		suggestions = append(suggestions, s)
	}

	msg := fmt.Sprintf("field %q is not in the schema of %s", name, obj.Name)

	if strict {
		diags.AddError("field_not_found", msg, obj.Name, name, suggestions...)
		return
	}

	diags.AddWarning("field_not_found", msg+"; field dropped", obj.Name, name, suggestions...)
}

func fieldGroupMatches(g declare.FieldGroup, f *schema.Field) bool {
	switch g {
	case declare.FieldsAll:
		return f.Createable
	case declare.FieldsCustom:
		return f.Createable && f.Custom
	case declare.FieldsStandard:
		return f.Createable && !f.Custom
	case declare.FieldsRequired:
		return f.RequiredOnCreate()
	default:
		return false
	}
}

// requiredFields lists the fields of obj that must be supplied on insert,
// sorted, without policy-excluded ones.
func (e *Expander) requiredFields(obj *schema.Object) []string {
	var out []string

	for _, name := range obj.FieldNames() {
		if obj.Fields[name].RequiredOnCreate() && !e.policy.FieldExcluded(name) {
			out = append(out, name)
		}
	}

	return out
}

// Minimal returns the declaration closure synthesizes for an object that
// was only pulled in: its required fields and nothing else.
func (e *Expander) Minimal(obj *schema.Object) Resolved {
	where, _ := declare.DefaultWhere(obj.Name)

	return Resolved{
		Object:      obj.Name,
		Fields:      e.requiredFields(obj),
		Where:       where,
		Synthesized: true,
	}
}

// Policy returns the exclusion policy the expander applies.
func (e *Expander) Policy() *policy.Policy {
	return e.policy
}
