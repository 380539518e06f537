package rollup

import "github.com/gyaneshwarpardhi/critnet/internal/graph"

// OrRule models redundant dependencies: a node is as operable as its best
// predecessor. A predecessor with no value yet (possible under a plain BFS
// order on convergent shapes) short-circuits to fully operable.
type OrRule struct{}

func (OrRule) Combine(_ graph.NodeID, preds []graph.NodeID, values graph.Values) float32 {
	max := MinOperability
	for _, p := range preds {
		v, ok := values[p]
		if !ok {
			return MaxOperability
		}
		if v > max {
			max = v
		}
	}
	return max
}

func (OrRule) Clone() Rule { return OrRule{} }

// AndRule models strict dependencies: a node is only as operable as its worst
// predecessor. Predecessors with no value yet are skipped as neutral.
type AndRule struct{}

func (AndRule) Combine(_ graph.NodeID, preds []graph.NodeID, values graph.Values) float32 {
	min := MaxOperability
	for _, p := range preds {
		v, ok := values[p]
		if !ok {
			continue
		}
		if v < min {
			min = v
		}
	}
	return min
}

func (AndRule) Clone() Rule { return AndRule{} }

// WeightedRule computes a weighted mean of predecessor values using per-edge
// alpha weights. Edges without a weight, or with the loader's unknown
// sentinel (negative), count with neutral weight 1.
type WeightedRule struct {
	Weights graph.EdgeValues
}

func (r *WeightedRule) Combine(id graph.NodeID, preds []graph.NodeID, values graph.Values) float32 {
	var sum, total float32
	for _, p := range preds {
		v, ok := values[p]
		if !ok {
			continue
		}
		w, ok := r.Weights[graph.EdgeKey{From: p, To: id}]
		if !ok || w <= 0 {
			w = 1
		}
		sum += w * v
		total += w
	}
	if total == 0 {
		return MaxOperability
	}
	return sum / total
}

func (r *WeightedRule) Clone() Rule {
	weights := make(graph.EdgeValues, len(r.Weights))
	for k, v := range r.Weights {
		weights[k] = v
	}
	return &WeightedRule{Weights: weights}
}
