// Package graph derives object dependency edges from resolved declarations.
package graph

import (
	"sort"

	"dataplan/internal/common"
	"dataplan/internal/expand"
	"dataplan/internal/schema"
)

// Edge says From depends on To through Field.
type Edge struct {
	From      string
	To        string
	Field     string
	Mandatory bool
}

// IsSelf returns true for a reference from an object to itself.
func (e Edge) IsSelf() bool {
	return e.From == e.To
}

// Graph maps each object to its outbound edges, sorted by (To, Field).
type Graph map[string][]Edge

// EdgesFor derives the outbound edges of one resolved declaration.
// Polymorphic and record-type fields yield no edge.
func EdgesFor(r expand.Resolved, obj *schema.Object) []Edge {
	var out []Edge

	for _, name := range r.Fields {
		f, ok := obj.Field(name)
		if !ok || !f.IsReference() || f.IsPolymorphic() || f.IsRecordType() {
			continue
		}

		out = append(out, Edge{
			From:      r.Object,
			To:        f.ReferenceTo[0],
			Field:     name,
			Mandatory: f.RequiredOnCreate(),
		})
	}

	sortEdges(out)

	return out
}

// Build derives the graph of every declaration. Edges to objects outside
// the declared set are kept; see Restrict.
func Build(decls []expand.Resolved, catalog schema.Catalog) Graph {
	g := make(Graph, len(decls))

	for _, r := range decls {
		obj, ok := catalog.Get(r.Object)
		if !ok {
			g[r.Object] = nil
			continue
		}

		g[r.Object] = EdgesFor(r, obj)
	}

	return g
}

// Objects returns every object with an entry, sorted.
func (g Graph) Objects() []string {
	return common.SortedKeys(g)
}

// Restrict returns a copy of g without edges whose target is not in set.
func (g Graph) Restrict(set map[string]struct{}) Graph {
	out := make(Graph, len(g))

	for from, edges := range g {
		kept := make([]Edge, 0, len(edges))
		for _, e := range edges {
			if _, ok := set[e.To]; ok {
				kept = append(kept, e)
			}
		}

		out[from] = kept
	}

	return out
}

// Mandatory returns the mandatory outbound edges of object.
func (g Graph) Mandatory(object string) []Edge {
	var out []Edge

	for _, e := range g[object] {
		if e.Mandatory {
			out = append(out, e)
		}
	}

	return out
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}

		return edges[i].Field < edges[j].Field
	})
}
