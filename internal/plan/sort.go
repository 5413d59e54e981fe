package plan

import (
	"slices"

	"dataplan/internal/graph"
)

// sorter tracks the pending edges of unplaced objects.
type sorter struct {
	pending graph.Graph
	placed  map[string]struct{}
	order   []string
	broken  []graph.Edge
}

func newSorter(g graph.Graph) *sorter {
	members := make(map[string]struct{}, len(g))
	for o := range g {
		members[o] = struct{}{}
	}

	s := &sorter{
		pending: make(graph.Graph, len(g)),
		placed:  make(map[string]struct{}, len(g)),
	}

	for o, edges := range g.Restrict(members) {
		var keep []graph.Edge

		for _, e := range edges {
			if !e.IsSelf() {
				keep = append(keep, e)
			}
		}

		s.pending[o] = keep
	}

	return s
}

func (s *sorter) done() bool {
	return len(s.pending) == 0
}

func (s *sorter) remaining() []string {
	return s.pending.Objects()
}

func (s *sorter) isPlaced(o string) bool {
	_, ok := s.placed[o]
	return ok
}

// blocked returns true if o has a pending edge to an unplaced object. With
// mandatoryOnly, optional edges are not counted.
func (s *sorter) blocked(o string, mandatoryOnly bool) bool {
	edges := s.pending[o]
	if mandatoryOnly {
		edges = s.pending.Mandatory(o)
	}

	for _, e := range edges {
		if !s.isPlaced(e.To) {
			return true
		}
	}

	return false
}

// ready lists, sorted, the unplaced objects whose pending edges all point
// at placed objects.
func (s *sorter) ready() []string {
	var out []string

	for _, o := range s.remaining() {
		if !s.blocked(o, false) {
			out = append(out, o)
		}
	}

	return out
}

// placeAll places objects in the given order.
func (s *sorter) placeAll(objects []string) {
	for _, o := range objects {
		s.breakAll(o)
	}
}

// breakAll places o, breaking and returning its edges to unplaced objects.
func (s *sorter) breakAll(o string) []graph.Edge {
	var cut []graph.Edge

	for _, e := range s.pending[o] {
		if !s.isPlaced(e.To) {
			cut = append(cut, e)
		}
	}

	s.broken = append(s.broken, cut...)
	s.placed[o] = struct{}{}
	s.order = append(s.order, o)
	delete(s.pending, o)

	return cut
}

// adjacency returns the targets of pending edges between unplaced objects.
func (s *sorter) adjacency(nodes []string, mandatoryOnly bool) map[string][]string {
	adj := make(map[string][]string, len(nodes))

	for _, o := range nodes {
		edges := s.pending[o]
		if mandatoryOnly {
			edges = s.pending.Mandatory(o)
		}

		for _, e := range edges {
			if !s.isPlaced(e.To) && !slices.Contains(adj[o], e.To) {
				adj[o] = append(adj[o], e.To)
			}
		}
	}

	return adj
}

// lenientCandidates returns, sorted, the objects that can be placed by
// breaking optional edges only. They belong to a cycle of pending edges that
// nothing else outside the cycle blocks, and their mandatory edges are
// satisfied.
func (s *sorter) lenientCandidates() []string {
	nodes := s.remaining()
	adj := s.adjacency(nodes, false)
	comps := components(nodes, adj)

	compOf := make(map[string]int, len(nodes))
	for i, c := range comps {
		for _, o := range c {
			compOf[o] = i
		}
	}

	var out []string

	for i, c := range comps {
		if len(c) < 2 || !isSink(i, c, adj, compOf) {
			continue
		}

		for _, o := range c {
			if !s.blocked(o, true) {
				out = append(out, o)
			}
		}
	}

	slices.Sort(out)

	return out
}

func isSink(i int, comp []string, adj map[string][]string, compOf map[string]int) bool {
	for _, o := range comp {
		for _, to := range adj[o] {
			if compOf[to] != i {
				return false
			}
		}
	}

	return true
}

// cycleCandidates returns the objects on a cycle of pending mandatory
// edges. Objects only downstream of a cycle are not offered.
func (s *sorter) cycleCandidates() []string {
	nodes := s.remaining()
	return cyclicMembers(nodes, s.adjacency(nodes, true))
}
