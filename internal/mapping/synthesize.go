package mapping

import (
	"fmt"
	"slices"
	"sort"

	"dataplan/internal/common"
	"dataplan/internal/diagnostic"
	"dataplan/internal/expand"
	"dataplan/internal/plan"
	"dataplan/internal/schema"
)

// deferred is a reference field moved to an after step.
type deferred struct {
	position int
	object   string
	field    string
	target   string
}

// Synthesize emits one load step per planned object in plan order,
// followed by one update step per broken edge.
func Synthesize(p *plan.Plan, catalog schema.Catalog, diags *diagnostic.Diagnostics) (*Artifact, error) {
	a := &Artifact{Steps: make([]Step, 0, len(p.Order)+len(p.Broken))}

	var after []deferred

	for i, name := range p.Order {
		obj, ok := catalog.Get(name)
		if !ok {
			return nil, fmt.Errorf("planned object %s is not in the schema", name)
		}

		step, later := mainStep(p, i, p.Declarations[name], obj, diags)
		a.Steps = append(a.Steps, step)
		after = append(after, later...)
	}

	sort.SliceStable(after, func(i, j int) bool {
		if after[i].position != after[j].position {
			return after[i].position < after[j].position
		}

		return after[i].field < after[j].field
	})

	for _, d := range after {
		r := p.Declarations[d.object]
		target := p.Declarations[d.target]

		a.Steps = append(a.Steps, Step{
			Name:    AfterStepName(d.object, d.field),
			SObject: d.object,
			Table:   d.object,
			Action:  ActionUpdate,
			API:     r.API,
			Fields:  []string{IDField},
			Lookups: map[string]Lookup{
				d.field: {
					Table:    []string{d.target},
					KeyField: d.field,
					After:    MainStepName(actionOf(target), d.target),
				},
			},
		})
	}

	return a, nil
}

func actionOf(r expand.Resolved) Action {
	if r.UpdateKey != "" {
		return ActionUpsert
	}

	return ActionInsert
}

func mainStep(p *plan.Plan, pos int, r expand.Resolved, obj *schema.Object, diags *diagnostic.Diagnostics) (Step, []deferred) {
	action := actionOf(r)

	step := Step{
		Name:      MainStepName(action, r.Object),
		SObject:   r.Object,
		Table:     r.Object,
		Action:    action,
		API:       r.API,
		UpdateKey: r.UpdateKey,
	}

	if r.Where != "" {
		step.Filters = []string{r.Where}
	}

	seen := make(map[string]struct{}, len(r.Fields))
	if r.UpdateKey != "" {
		step.Fields = common.AppendUnique(step.Fields, seen, r.UpdateKey)
	}

	var later []deferred

	for _, name := range r.Fields {
		if _, dup := seen[name]; dup {
			continue
		}

		f, ok := obj.Field(name)
		if !ok {
			diags.AddWarning("field_not_found",
				"field is not in the schema; omitted from the step", r.Object, name)

			continue
		}

		if !f.Createable {
			diags.AddInfo("field_not_createable",
				"field cannot be written on insert; omitted from the step", r.Object, name)

			continue
		}

		switch {
		case f.IsRecordType():
			step.Fields = common.AppendUnique(step.Fields, seen, name)
			step.RecordType = &RecordTypeMapping{
				Field:    name,
				Table:    RecordTypeTable(r.Object),
				KeyField: "DeveloperName",
			}

		case !f.IsReference():
			step.Fields = common.AppendUnique(step.Fields, seen, name)

		case f.IsPolymorphic():
			var targets []string

			for _, t := range f.ReferenceTo {
				if p.Includes(t) {
					targets = append(targets, t)
				}
			}

			if len(targets) == 0 {
				diags.AddWarning("lookup_target_not_included",
					fmt.Sprintf("none of %v is part of the plan; field omitted", f.ReferenceTo), r.Object, name)

				continue
			}

			slices.Sort(targets)
			step.addLookup(name, Lookup{Table: targets, KeyField: name})

		default:
			target := f.ReferenceTo[0]

			switch {
			case p.IsBroken(r.Object, name):
				later = append(later, deferred{position: pos, object: r.Object, field: name, target: target})

			case target == r.Object:
				step.addLookup(name, Lookup{Table: []string{target}, KeyField: name})

			case !p.Includes(target):
				diags.AddWarning("lookup_target_not_included",
					fmt.Sprintf("%s is not part of the plan; field omitted", target), r.Object, name)

			case p.Position(target) < pos:
				step.addLookup(name, Lookup{Table: []string{target}, KeyField: name})

			default:
				// Target loads later without a recorded break; patch it afterwards.
				later = append(later, deferred{position: pos, object: r.Object, field: name, target: target})
			}
		}
	}

	if step.Fields == nil {
		step.Fields = []string{}
	}

	return step, later
}

func (s *Step) addLookup(field string, l Lookup) {
	if s.Lookups == nil {
		s.Lookups = make(map[string]Lookup)
	}

	s.Lookups[field] = l
}
