// Package crit runs Monte-Carlo criticality analyses over dependency
// networks: it samples node visibility, rolls operability up to the end
// node and aggregates how strongly each node's visibility moves the end
// state.
package crit

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
	"github.com/gyaneshwarpardhi/critnet/internal/rollup"
)

// Order selects the propagation order for the roll-up pass.
type Order string

const (
	// OrderBFS propagates in breadth-first order from the start node.
	// Cheap and layer-shaped, but not a true topological order on
	// convergent graphs; the or rule tolerates that by treating missing
	// predecessor values as operable.
	OrderBFS Order = "bfs"
	// OrderTopo propagates in a topological order, so every node sees all
	// of its predecessors' values.
	OrderTopo Order = "topo"
)

// Params configures one analysis. Rule is required. When Gen or Cond is nil,
// defaults are built from the scalar fields: a RandomGen over the dynamic
// nodes and a MaxCondition over Iterations.
type Params struct {
	Rule             rollup.Rule
	Threads          int
	Iterations       uint64
	OffChances       map[graph.NodeID]float64
	DefaultOffChance float64
	Seed             int64
	Order            Order
	Gen              Generator
	Cond             Condition
}

// Analysis is a fully prepared criticality run: start and end discovered,
// reachability checked, propagation order computed once.
type Analysis struct {
	graph   *graph.Graph
	links   *graph.Links
	rule    rollup.Rule
	gen     Generator
	cond    Condition
	threads int
	order   []graph.NodeID
	dynamic []graph.NodeID
	startID graph.NodeID
	endID   graph.NodeID
}

// New validates the graph's structure and prepares an analysis.
// Structural failures come back as the graph package's typed errors.
func New(g *graph.Graph, p Params) (*Analysis, error) {
	if p.Rule == nil {
		return nil, fmt.Errorf("criticality: rule is required")
	}

	links := graph.NewLinks(g)
	start, err := links.StartID()
	if err != nil {
		return nil, err
	}
	end, err := links.EndID()
	if err != nil {
		return nil, err
	}
	if err := graph.ValidateReachability(links, start, end); err != nil {
		return nil, err
	}

	var order []graph.NodeID
	switch p.Order {
	case "", OrderBFS:
		order = graph.BFSOrder(links, start)
	case OrderTopo:
		order, err = graph.TopoOrder(links)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("criticality: unknown propagation order %q", p.Order)
	}

	dynamic := links.DynamicIDs(start, end)
	threads := p.Threads
	if threads < 1 {
		threads = 1
	}

	gen := p.Gen
	if gen == nil {
		gen = NewRandomGen(dynamic, p.OffChances, p.DefaultOffChance, p.Seed)
	}
	cond := p.Cond
	if cond == nil {
		if p.Iterations == 0 {
			return nil, fmt.Errorf("criticality: iterations must be positive")
		}
		cond = NewMaxCondition(p.Iterations)
	}

	return &Analysis{
		graph:   g,
		links:   links,
		rule:    p.Rule,
		gen:     gen,
		cond:    cond,
		threads: threads,
		order:   order,
		dynamic: dynamic,
		startID: start,
		endID:   end,
	}, nil
}

// Graph returns the analyzed graph.
func (a *Analysis) Graph() *graph.Graph { return a.graph }

// StartID returns the discovered start node.
func (a *Analysis) StartID() graph.NodeID { return a.startID }

// EndID returns the discovered end node.
func (a *Analysis) EndID() graph.NodeID { return a.endID }

// Threads returns the worker count the analysis will run with.
func (a *Analysis) Threads() int { return a.threads }

// Run samples until every worker's budget is spent and returns the merged
// aggregate. The graph and adjacency index are shared read-only across
// workers; the rule, generator, condition and order are per-worker copies.
// Run blocks until done; there is no cancellation inside the sampling loop.
func (a *Analysis) Run() *Data {
	conds := a.cond.Split(a.threads)
	gens := a.gen.Split(a.threads)

	results := make(chan *Data, a.threads)
	var wg sync.WaitGroup
	for i := 0; i < a.threads; i++ {
		wg.Add(1)
		rule := a.rule.Clone()
		gen := gens[i]
		cond := conds[i]
		order := append([]graph.NodeID(nil), a.order...)
		dynamic := append([]graph.NodeID(nil), a.dynamic...)
		go func() {
			defer wg.Done()
			results <- a.sample(rule, gen, cond, order, dynamic)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	total := NewData(a.dynamic)
	for part := range results {
		slog.Debug("worker aggregate merged", "rows", part.RowCount, "end_op_sum", part.EndOpSum)
		total.Merge(part)
	}
	return total
}

// sample is one worker's loop: spend the budget drawing samples, skip states
// already seen by this worker (duplicates still consume budget), roll up the
// rest and fold them into a private aggregate. Seen-sets are deliberately
// per-worker, so the same state accepted by two workers counts twice; the
// memory they take grows with the distinct states drawn.
func (a *Analysis) sample(rule rollup.Rule, gen Generator, cond Condition, order, dynamic []graph.NodeID) *Data {
	data := NewData(dynamic)
	seen := make(map[string]struct{})
	for !cond.Stop() {
		vis := gen.Next()
		key := vis.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		values := rollup.Propagate(rule, a.links, order, vis)
		endVal, ok := values[a.endID]
		if !ok {
			panic(fmt.Sprintf("criticality: end node %d missing from rolled-up values", a.endID))
		}
		data.Record(endVal, vis, values)
	}
	return data
}
