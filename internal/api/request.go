package api

import (
	"github.com/gyaneshwarpardhi/critnet/internal/engine"
	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

// analysisRequest is the JSON body for analysis submissions. Omitted
// parameters fall back to the configured defaults.
type analysisRequest struct {
	Nodes      []nodeSpec         `json:"nodes"`
	Edges      []edgeSpec         `json:"edges"`
	Threads    int                `json:"threads"`
	Iterations uint64             `json:"iterations"`
	Rule       string             `json:"rule"`
	OffChance  *float64           `json:"off_chance"`
	OffChances map[uint32]float64 `json:"off_chances"`
	Order      string             `json:"order"`
	Seed       int64              `json:"seed"`
}

type nodeSpec struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// edgeSpec is one child→parent link. Alpha is the optional roll-up weight
// of the link, consumed by the weighted rule.
type edgeSpec struct {
	From  uint32   `json:"from"`
	To    uint32   `json:"to"`
	Alpha *float32 `json:"alpha,omitempty"`
}

// toEngine builds the graph and edge weights from the request body. All
// semantic validation happens in the engine.
func (r *analysisRequest) toEngine() *engine.Request {
	g := graph.NewGraph()
	for _, n := range r.Nodes {
		g.AddNode(graph.Node{ID: graph.NodeID(n.ID), Name: n.Name})
	}
	var weights graph.EdgeValues
	for _, e := range r.Edges {
		g.AddEdge(graph.NodeID(e.From), graph.NodeID(e.To))
		if e.Alpha != nil {
			if weights == nil {
				weights = make(graph.EdgeValues)
			}
			weights[graph.EdgeKey{From: graph.NodeID(e.From), To: graph.NodeID(e.To)}] = *e.Alpha
		}
	}
	var chances map[graph.NodeID]float64
	if len(r.OffChances) > 0 {
		chances = make(map[graph.NodeID]float64, len(r.OffChances))
		for id, p := range r.OffChances {
			chances[graph.NodeID(id)] = p
		}
	}
	return &engine.Request{
		Graph:      g,
		Weights:    weights,
		Threads:    r.Threads,
		Iterations: r.Iterations,
		Rule:       r.Rule,
		OffChance:  r.OffChance,
		OffChances: chances,
		Order:      r.Order,
		Seed:       r.Seed,
	}
}
