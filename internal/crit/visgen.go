package crit

import (
	"math/rand"
	"sort"
	"time"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

// DefaultOffChance is the probability a node with no configured chance is
// sampled not visible.
const DefaultOffChance = 0.5

// Generator produces visibility samples. Split hands each worker an
// independent generator; the original keeps working afterwards.
type Generator interface {
	Next() graph.VisState
	Split(n int) []Generator
}

// RandomGen draws an independent uniform number per dynamic node and compares
// it against that node's off-chance: a draw below the chance samples the node
// not visible. An off-chance of 0 therefore means always visible, 1 means
// never.
type RandomGen struct {
	ids      []graph.NodeID // ascending, one draw each per sample
	chances  map[graph.NodeID]float64
	fallback float64
	rng      *rand.Rand
}

// NewRandomGen builds a generator over ids. chances overrides the fallback
// off-chance per node and may be nil; it is shared read-only across splits.
// A zero seed draws one from the clock.
func NewRandomGen(ids []graph.NodeID, chances map[graph.NodeID]float64, fallback float64, seed int64) *RandomGen {
	sorted := make([]graph.NodeID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomGen{
		ids:      sorted,
		chances:  chances,
		fallback: fallback,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Next samples one visibility state covering every dynamic node.
func (g *RandomGen) Next() graph.VisState {
	st := make(graph.VisState, len(g.ids))
	for _, id := range g.ids {
		chance := g.fallback
		if c, ok := g.chances[id]; ok {
			chance = c
		}
		if g.rng.Float64() < chance {
			st[id] = 0
		} else {
			st[id] = graph.Visible
		}
	}
	return st
}

// Split returns n generators over the same nodes and chances, each seeded
// from the parent's stream. A seeded parent yields a reproducible family.
func (g *RandomGen) Split(n int) []Generator {
	out := make([]Generator, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewRandomGen(g.ids, g.chances, g.fallback, g.rng.Int63()))
	}
	return out
}
