// Package rollup computes node operability from predecessor values during a
// bottom-up pass over a dependency network.
package rollup

import "github.com/gyaneshwarpardhi/critnet/internal/graph"

const (
	// MaxOperability is a fully operable node.
	MaxOperability float32 = 1.0
	// MinOperability is a fully inoperable node.
	MinOperability float32 = 0.0
)

// Rule combines predecessor values into a node's own value. Implementations
// must be usable from a single goroutine; Clone hands every worker its own
// copy so no rule state is ever shared.
type Rule interface {
	// Combine computes the value of id from its predecessors' values.
	// It is only consulted for nodes that have predecessors and are not
	// sampled invisible.
	Combine(id graph.NodeID, preds []graph.NodeID, values graph.Values) float32
	// Clone returns an independent deep copy.
	Clone() Rule
}

// Value applies the roll-up policy for one node:
// a node with no predecessors is fully operable; a node sampled not visible
// is fully inoperable; everything else delegates to the rule. Nodes absent
// from vis (the static start and end) also delegate.
func Value(r Rule, id graph.NodeID, preds []graph.NodeID, vis graph.VisState, values graph.Values) float32 {
	if len(preds) == 0 {
		return MaxOperability
	}
	if bit, ok := vis[id]; ok && bit != graph.Visible {
		return MinOperability
	}
	return r.Combine(id, preds, values)
}

// Propagate walks order once, computing each node's value into a fresh value
// state. With an order that puts predecessors first, every Combine sees all
// of its inputs.
func Propagate(r Rule, l *graph.Links, order []graph.NodeID, vis graph.VisState) graph.Values {
	values := make(graph.Values, len(order))
	for _, id := range order {
		values[id] = Value(r, id, l.Predecessors(id), vis, values)
	}
	return values
}
