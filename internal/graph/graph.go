package graph

import "sort"

// NodeID identifies a node in a dependency network.
type NodeID uint32

// Node is a named element of the network.
type Node struct {
	ID   NodeID `json:"id"`
	Name string `json:"name"`
}

// Edge is a directed dependency link pointing child → parent:
// From depends on nothing here, To depends on From.
type Edge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// Graph holds nodes and their child→parent edges.
// It is immutable once built; every analysis shares it read-only.
type Graph struct {
	nodes   map[NodeID]Node
	edges   []Edge // insertion order
	edgeSet map[Edge]struct{}
}

// NewGraph allocates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[NodeID]Node),
		edgeSet: make(map[Edge]struct{}),
	}
}

// AddNode registers a node. Re-adding an ID overwrites the previous node.
func (g *Graph) AddNode(n Node) {
	g.nodes[n.ID] = n
}

// AddEdge records a child→parent link. Duplicate pairs are ignored.
func (g *Graph) AddEdge(from, to NodeID) {
	e := Edge{From: from, To: to}
	if _, seen := g.edgeSet[e]; seen {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

// Node returns the node registered under id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether id is registered.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the total number of registered nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// IDs returns all node IDs in ascending order.
func (g *Graph) IDs() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
