package plan

import (
	"context"
	"fmt"
	"slices"

	"dataplan/internal/ctxlog"
	"dataplan/internal/diagnostic"
	"dataplan/internal/expand"
	"dataplan/internal/graph"
	"dataplan/internal/policy"
	"dataplan/internal/schema"
)

// Planner computes plans against one catalog.
type Planner struct {
	catalog  schema.Catalog
	expander *expand.Expander
	policy   *policy.Policy
	chooser  Chooser
}

// NewPlanner creates a Planner. A nil chooser means Automatic with the
// expander policy's anchors.
func NewPlanner(catalog schema.Catalog, expander *expand.Expander, chooser Chooser) *Planner {
	pol := expander.Policy()
	if chooser == nil {
		chooser = Automatic{Anchors: pol.Anchors()}
	}

	return &Planner{
		catalog:  catalog,
		expander: expander,
		policy:   pol,
		chooser:  chooser,
	}
}

// Plan closes decls over their mandatory references and orders the result.
// It fails only when ctx is done or the chooser cannot break a cycle.
func (p *Planner) Plan(ctx context.Context, decls []expand.Resolved) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Plan{}

	out.Declarations, out.Graph = p.closure(decls, &out.Diagnostics)

	order, broken, err := p.order(ctx, out.Graph, &out.Diagnostics)
	if err != nil {
		return nil, err
	}

	out.Order = order
	out.Broken = broken

	ctxlog.FromContext(ctx).Debug("planned load order",
		"objects", len(order), "broken_edges", len(broken), "synthesized", len(out.Synthesized()))

	return out, nil
}

// closure pulls in the target of every mandatory edge until nothing new is
// reachable and returns the final declarations with their graph.
func (p *Planner) closure(decls []expand.Resolved, diags *diagnostic.Diagnostics) (map[string]expand.Resolved, graph.Graph) {
	included := make(map[string]expand.Resolved, len(decls))
	queue := make([]string, 0, len(decls))

	for _, r := range decls {
		included[r.Object] = r
		queue = append(queue, r.Object)
	}

	g := make(graph.Graph, len(decls))

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		r := included[name]

		obj, ok := p.catalog.Get(name)
		if !ok {
			g[name] = nil
			continue
		}

		for _, e := range graph.EdgesFor(r, obj) {
			if !e.Mandatory || e.IsSelf() {
				continue
			}

			if _, ok := included[e.To]; ok {
				continue
			}

			if p.policy.ObjectExcluded(e.To) {
				diags.AddWarning("mandatory_target_excluded",
					fmt.Sprintf("required reference to %s, which is excluded by policy; field dropped", e.To),
					name, e.Field)

				r = r.WithoutField(e.Field)

				continue
			}

			target, ok := p.catalog.Get(e.To)
			if !ok {
				diags.AddWarning("mandatory_target_missing",
					fmt.Sprintf("required reference to %s, which is not in the schema; field dropped", e.To),
					name, e.Field)

				r = r.WithoutField(e.Field)

				continue
			}

			included[e.To] = p.expander.Minimal(target)
			queue = append(queue, e.To)

			diags.AddInfo("object_pulled_in",
				fmt.Sprintf("%s is required by %s.%s", e.To, name, e.Field), e.To, "")
		}

		included[name] = r
		g[name] = graph.EdgesFor(r, obj)
	}

	return included, g
}

// order places every object of g. Edges to objects outside g never block.
func (p *Planner) order(ctx context.Context, g graph.Graph, diags *diagnostic.Diagnostics) ([]string, []graph.Edge, error) {
	s := newSorter(g)

	for !s.done() {
		if ready := s.ready(); len(ready) > 0 {
			s.placeAll(ready)
			continue
		}

		// Cut optional edges inside one cycle, then retry the strict round.
		if lenient := s.lenientCandidates(); len(lenient) > 0 {
			s.breakAll(lenient[0])
			continue
		}

		if err := p.breakCycle(ctx, s, diags); err != nil {
			return nil, nil, err
		}
	}

	return s.order, s.broken, nil
}

func (p *Planner) breakCycle(ctx context.Context, s *sorter, diags *diagnostic.Diagnostics) error {
	remaining := s.remaining()

	candidates := s.cycleCandidates()
	if len(candidates) == 0 {
		return &CycleError{Remaining: remaining, Err: ErrNoCandidates}
	}

	if err := ctx.Err(); err != nil {
		return &CycleError{Remaining: remaining, Err: err}
	}

	choice, err := p.chooser.Choose(ctx, candidates)
	if err != nil {
		return &CycleError{Remaining: remaining, Err: err}
	}

	if !slices.Contains(candidates, choice) {
		return &CycleError{
			Remaining: remaining,
			Err:       fmt.Errorf("choice %q is not one of the cyclic objects", choice),
		}
	}

	for _, e := range s.breakAll(choice) {
		diags.AddWarning("cycle_broken",
			fmt.Sprintf("reference to %s deferred to an update after both are loaded", e.To),
			e.From, e.Field)
	}

	return nil
}
