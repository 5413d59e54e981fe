package plan

import (
	"dataplan/internal/diagnostic"
	"dataplan/internal/expand"
	"dataplan/internal/graph"
)

// Plan is the output of the planner.
type Plan struct {
	// Order lists every included object; each appears after the targets of
	// its unbroken edges.
	Order []string
	// Declarations holds the resolved declaration of every object in Order,
	// including synthesized ones.
	Declarations map[string]expand.Resolved
	// Graph is the dependency graph of the included objects, edges to
	// objects outside the plan included.
	Graph graph.Graph
	// Broken lists the edges cut to escape cycles, in the order they were cut.
	Broken []graph.Edge
	// Diagnostics contains all warnings and infos from planning.
	Diagnostics diagnostic.Diagnostics
}

// Position returns the index of object in Order, or -1.
func (p *Plan) Position(object string) int {
	for i, o := range p.Order {
		if o == object {
			return i
		}
	}

	return -1
}

// Includes returns true if object is part of the plan.
func (p *Plan) Includes(object string) bool {
	_, ok := p.Declarations[object]
	return ok
}

// IsBroken returns true if the edge leaving from through field was cut.
func (p *Plan) IsBroken(from, field string) bool {
	for _, e := range p.Broken {
		if e.From == from && e.Field == field {
			return true
		}
	}

	return false
}

// Synthesized returns the objects pulled in by closure, in plan order.
func (p *Plan) Synthesized() []string {
	var out []string

	for _, o := range p.Order {
		if p.Declarations[o].Synthesized {
			out = append(out, o)
		}
	}

	return out
}
