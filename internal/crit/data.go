package crit

import (
	"fmt"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

// NodeData accumulates per-node statistics over accepted samples. Own sums
// take the node's own rolled-up value, end sums take the end node's value;
// both are keyed by the node's sampled visibility bit.
type NodeData struct {
	SumOwnOn  float64 `json:"sum_own_on"`
	SumOwnOff float64 `json:"sum_own_off"`
	SumEndOn  float64 `json:"sum_end_on"`
	SumEndOff float64 `json:"sum_end_off"`
	CountOn   uint64  `json:"count_on"`
	CountOff  uint64  `json:"count_off"`
}

func (d *NodeData) merge(o *NodeData) {
	d.SumOwnOn += o.SumOwnOn
	d.SumOwnOff += o.SumOwnOff
	d.SumEndOn += o.SumEndOn
	d.SumEndOff += o.SumEndOff
	d.CountOn += o.CountOn
	d.CountOff += o.CountOff
}

// Data is one sampling aggregate: a worker builds one, the orchestrator
// merges them. Merging is field-wise addition, so it is associative and
// commutative and the merge order across workers never matters.
type Data struct {
	RowCount uint64                     `json:"row_count"`
	EndOpSum float64                    `json:"end_op_sum"`
	Nodes    map[graph.NodeID]*NodeData `json:"nodes"`
}

// NewData returns an aggregate with zeroed statistics for every given node.
func NewData(ids []graph.NodeID) *Data {
	nodes := make(map[graph.NodeID]*NodeData, len(ids))
	for _, id := range ids {
		nodes[id] = &NodeData{}
	}
	return &Data{Nodes: nodes}
}

// Record folds one accepted sample into the aggregate. Every tracked node
// must have a rolled-up value; a missing one is a propagation bug and panics.
func (d *Data) Record(endVal float32, vis graph.VisState, values graph.Values) {
	d.RowCount++
	d.EndOpSum += float64(endVal)
	for id, nd := range d.Nodes {
		own, ok := values[id]
		if !ok {
			panic(fmt.Sprintf("criticality: node %d missing from rolled-up values", id))
		}
		bit, ok := vis[id]
		visible := !ok || bit == graph.Visible
		if visible {
			nd.SumOwnOn += float64(own)
			nd.SumEndOn += float64(endVal)
			nd.CountOn++
		} else {
			nd.SumOwnOff += float64(own)
			nd.SumEndOff += float64(endVal)
			nd.CountOff++
		}
	}
}

// Merge adds o into d field-wise. Nodes unknown to d are adopted.
func (d *Data) Merge(o *Data) {
	d.RowCount += o.RowCount
	d.EndOpSum += o.EndOpSum
	for id, nd := range o.Nodes {
		if cur, ok := d.Nodes[id]; ok {
			cur.merge(nd)
			continue
		}
		cp := *nd
		d.Nodes[id] = &cp
	}
}
