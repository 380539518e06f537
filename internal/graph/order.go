package graph

// BFSOrder returns the breadth-first visit order from start, expanding along
// successors and visiting each node once. Unreachable nodes are absent.
//
// On convergent shapes this is NOT a topological order: a node joined by a
// short and a long path can be visited before the tail of the long path, so
// a roll-up over this order may read predecessors that have no value yet.
// TopoOrder avoids that at the cost of ordering the whole graph.
func BFSOrder(l *Links, start NodeID) []NodeID {
	order := make([]NodeID, 0, len(l.ids))
	seen := map[NodeID]struct{}{start: {}}
	queue := []NodeID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, succ := range l.Successors(id) {
			if _, ok := seen[succ]; ok {
				continue
			}
			seen[succ] = struct{}{}
			queue = append(queue, succ)
		}
	}
	return order
}

// TopoOrder returns a topological order over all nodes: every predecessor
// precedes its successors. Roots enter in ascending ID order and successors
// in edge insertion order, so the result is deterministic. Returns a
// *CycleError if no such order exists.
func TopoOrder(l *Links) ([]NodeID, error) {
	indeg := make(map[NodeID]int, len(l.ids))
	var queue []NodeID
	for _, id := range l.ids { // ascending, keeps the order stable
		indeg[id] = len(l.Predecessors(id))
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]NodeID, 0, len(l.ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, succ := range l.Successors(id) {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(l.ids) {
		var remaining []NodeID
		for _, id := range l.ids {
			if indeg[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}
	return order, nil
}

// ValidateReachability checks that end can be reached from start along
// successor links. Returns a *NoEndConnectionError otherwise.
func ValidateReachability(l *Links, start, end NodeID) error {
	if start == end {
		return nil
	}
	for _, id := range BFSOrder(l, start) {
		if id == end {
			return nil
		}
	}
	return &NoEndConnectionError{Start: start, End: end}
}
