package crit

import (
	"sort"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

// NodeReport is the derived criticality estimate for one node. Criticality
// is the mean end operability with the node visible minus the mean with it
// not visible: the higher the difference, the more the end state depends on
// this node.
type NodeReport struct {
	ID          graph.NodeID `json:"id"`
	Name        string       `json:"name"`
	Criticality float64      `json:"criticality"`
	MeanEndOn   float64      `json:"mean_end_on"`
	MeanEndOff  float64      `json:"mean_end_off"`
	MeanOwnOn   float64      `json:"mean_own_on"`
	MeanOwnOff  float64      `json:"mean_own_off"`
	SamplesOn   uint64       `json:"samples_on"`
	SamplesOff  uint64       `json:"samples_off"`
}

// Report is the final outcome of an analysis over distinct samples.
type Report struct {
	Rows    uint64       `json:"rows"`
	EndMean float64      `json:"end_operability_mean"`
	Nodes   []NodeReport `json:"nodes"`
}

// BuildReport derives the criticality report from a merged aggregate,
// resolving node names against the graph. Nodes are ordered by descending
// criticality, ties by ascending ID. A side with no samples contributes a
// zero mean.
func BuildReport(g *graph.Graph, d *Data) *Report {
	rep := &Report{
		Rows:    d.RowCount,
		EndMean: safeMean(d.EndOpSum, d.RowCount),
		Nodes:   make([]NodeReport, 0, len(d.Nodes)),
	}
	for id, nd := range d.Nodes {
		nr := NodeReport{
			ID:         id,
			MeanEndOn:  safeMean(nd.SumEndOn, nd.CountOn),
			MeanEndOff: safeMean(nd.SumEndOff, nd.CountOff),
			MeanOwnOn:  safeMean(nd.SumOwnOn, nd.CountOn),
			MeanOwnOff: safeMean(nd.SumOwnOff, nd.CountOff),
			SamplesOn:  nd.CountOn,
			SamplesOff: nd.CountOff,
		}
		nr.Criticality = nr.MeanEndOn - nr.MeanEndOff
		if n, ok := g.Node(id); ok {
			nr.Name = n.Name
		}
		rep.Nodes = append(rep.Nodes, nr)
	}
	sort.Slice(rep.Nodes, func(i, j int) bool {
		if rep.Nodes[i].Criticality != rep.Nodes[j].Criticality {
			return rep.Nodes[i].Criticality > rep.Nodes[j].Criticality
		}
		return rep.Nodes[i].ID < rep.Nodes[j].ID
	})
	return rep
}

func safeMean(sum float64, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
