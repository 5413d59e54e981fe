package plan

import (
	"slices"
)

// cyclicMembers returns the members of every strongly connected component
// with more than one object, sorted. adj must only name nodes in nodes.
func cyclicMembers(nodes []string, adj map[string][]string) []string {
	var out []string
	for _, c := range components(nodes, adj) {
		if len(c) > 1 {
			out = append(out, c...)
		}
	}

	slices.Sort(out)

	return out
}

// components returns the strongly connected components of the graph, each
// emitted after every component reachable from it.
func components(nodes []string, adj map[string][]string) [][]string {
	t := tarjan{
		adj:     adj,
		index:   make(map[string]int, len(nodes)),
		low:     make(map[string]int, len(nodes)),
		onStack: make(map[string]bool, len(nodes)),
	}

	for _, n := range nodes {
		if _, seen := t.index[n]; !seen {
			t.visit(n)
		}
	}

	return t.components
}

type tarjan struct {
	adj        map[string][]string
	next       int
	index      map[string]int
	low        map[string]int
	onStack    map[string]bool
	stack      []string
	components [][]string
}

func (t *tarjan) visit(v string) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if _, seen := t.index[w]; !seen {
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}

	var comp []string

	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false

		comp = append(comp, w)
		if w == v {
			break
		}
	}

	t.components = append(t.components, comp)
}
