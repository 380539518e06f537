package graph

// Links is the adjacency index derived from a Graph in one pass over its
// edges. Predecessors of a node are its children (the nodes it rolls up
// from), successors are its parents. Adjacency slices keep edge insertion
// order so traversals are deterministic. Read-only after construction.
type Links struct {
	ids   []NodeID // ascending
	preds map[NodeID][]NodeID
	succs map[NodeID][]NodeID
}

// NewLinks builds the adjacency index for g.
func NewLinks(g *Graph) *Links {
	l := &Links{
		ids:   g.IDs(),
		preds: make(map[NodeID][]NodeID, g.NodeCount()),
		succs: make(map[NodeID][]NodeID, g.NodeCount()),
	}
	for _, e := range g.Edges() {
		l.preds[e.To] = append(l.preds[e.To], e.From)
		l.succs[e.From] = append(l.succs[e.From], e.To)
	}
	return l
}

// IDs returns all node IDs in ascending order. Callers must not modify it.
func (l *Links) IDs() []NodeID {
	return l.ids
}

// Predecessors returns the children of id (nil if none). Callers must not
// modify the returned slice.
func (l *Links) Predecessors(id NodeID) []NodeID {
	return l.preds[id]
}

// Successors returns the parents of id (nil if none). Callers must not
// modify the returned slice.
func (l *Links) Successors(id NodeID) []NodeID {
	return l.succs[id]
}

// StartID returns the single node with no predecessors. Zero or multiple
// candidates yield a *StartNodeError listing them.
func (l *Links) StartID() (NodeID, error) {
	var candidates []NodeID
	for _, id := range l.ids {
		if len(l.preds[id]) == 0 {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) != 1 {
		return 0, &StartNodeError{Candidates: candidates}
	}
	return candidates[0], nil
}

// EndID returns the single node with no successors. Zero or multiple
// candidates yield an *EndNodeError listing them.
func (l *Links) EndID() (NodeID, error) {
	var candidates []NodeID
	for _, id := range l.ids {
		if len(l.succs[id]) == 0 {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) != 1 {
		return 0, &EndNodeError{Candidates: candidates}
	}
	return candidates[0], nil
}

// DynamicIDs returns every ID except start and end, ascending. These are the
// nodes whose visibility is sampled; start and end stay static.
func (l *Links) DynamicIDs(start, end NodeID) []NodeID {
	out := make([]NodeID, 0, len(l.ids))
	for _, id := range l.ids {
		if id == start || id == end {
			continue
		}
		out = append(out, id)
	}
	return out
}
