package crit_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gyaneshwarpardhi/critnet/internal/crit"
	"github.com/gyaneshwarpardhi/critnet/internal/graph"
	"github.com/gyaneshwarpardhi/critnet/internal/rollup"
)

// buildChain returns 10 → 20 → 30 with one dynamic node, 20.
func buildChain(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	g.AddNode(graph.Node{ID: 10, Name: "pump"})
	g.AddNode(graph.Node{ID: 20, Name: "cooling"})
	g.AddNode(graph.Node{ID: 30, Name: "reactor"})
	g.AddEdge(10, 20)
	g.AddEdge(20, 30)
	return g
}

// buildRedundantPair returns two parallel feeds 20 and 30 joined by a single
// point of failure 40:
//
//	10 → 20 → 40 → 50
//	10 → 30 ↗
func buildRedundantPair(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	names := map[graph.NodeID]string{10: "intake", 20: "feed-a", 30: "feed-b", 40: "manifold", 50: "plant"}
	for id, name := range names {
		g.AddNode(graph.Node{ID: id, Name: name})
	}
	g.AddEdge(10, 20)
	g.AddEdge(10, 30)
	g.AddEdge(20, 40)
	g.AddEdge(30, 40)
	g.AddEdge(40, 50)
	return g
}

func TestAnalysis_AlwaysVisibleChain(t *testing.T) {
	a, err := crit.New(buildChain(t), crit.Params{
		Rule:       rollup.OrRule{},
		Threads:    2,
		Iterations: 10,
		Seed:       42,
		// DefaultOffChance 0: every node visible in every sample.
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	data := a.Run()

	// Each worker draws the same all-visible state over and over and keeps
	// exactly one copy of it.
	if data.RowCount != 2 {
		t.Fatalf("RowCount = %d, want 2 (one distinct sample per worker)", data.RowCount)
	}
	if data.EndOpSum != float64(data.RowCount) {
		t.Errorf("EndOpSum = %v, want %v", data.EndOpSum, float64(data.RowCount))
	}

	rep := crit.BuildReport(a.Graph(), data)
	if rep.EndMean != 1.0 {
		t.Errorf("end operability mean = %v, want 1.0", rep.EndMean)
	}
	if len(rep.Nodes) != 1 || rep.Nodes[0].ID != 20 {
		t.Fatalf("report nodes = %+v, want exactly node 20", rep.Nodes)
	}
	n := rep.Nodes[0]
	if n.Name != "cooling" || n.MeanEndOn != 1.0 || n.SamplesOff != 0 {
		t.Errorf("node report = %+v, want cooling always on with mean 1.0", n)
	}
}

func TestAnalysis_DedupBoundsDistinctStates(t *testing.T) {
	// One dynamic node has only two possible states, so 100 iterations can
	// accept at most two samples.
	a, err := crit.New(buildChain(t), crit.Params{
		Rule:             rollup.OrRule{},
		Threads:          1,
		Iterations:       100,
		DefaultOffChance: 0.5,
		Seed:             7,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	data := a.Run()
	if data.RowCount > 2 {
		t.Errorf("RowCount = %d, want at most 2 distinct states", data.RowCount)
	}
	nd := data.Nodes[20]
	if nd.CountOn+nd.CountOff != data.RowCount {
		t.Errorf("per-node counts %d+%d disagree with RowCount %d", nd.CountOn, nd.CountOff, data.RowCount)
	}
}

// With three dynamic nodes there are eight possible states; a generous budget
// visits all of them per worker, and deduplication turns the run into an
// exact enumeration with known conditional means.
func TestAnalysis_CriticalityOfSinglePointOfFailure(t *testing.T) {
	a, err := crit.New(buildRedundantPair(t), crit.Params{
		Rule:             rollup.OrRule{},
		Threads:          2,
		Iterations:       1000,
		DefaultOffChance: 0.5,
		Seed:             42,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	rep := crit.BuildReport(a.Graph(), a.Run())

	if rep.Rows != 16 {
		t.Fatalf("rows = %d, want 16 (8 distinct states per worker)", rep.Rows)
	}
	if math.Abs(rep.EndMean-3.0/8.0) > 1e-9 {
		t.Errorf("end mean = %v, want 3/8", rep.EndMean)
	}

	byID := make(map[graph.NodeID]crit.NodeReport, len(rep.Nodes))
	for _, n := range rep.Nodes {
		byID[n.ID] = n
	}
	if c := byID[40].Criticality; math.Abs(c-0.75) > 1e-9 {
		t.Errorf("manifold criticality = %v, want 0.75", c)
	}
	for _, id := range []graph.NodeID{20, 30} {
		if c := byID[id].Criticality; math.Abs(c-0.25) > 1e-9 {
			t.Errorf("node %d criticality = %v, want 0.25", id, c)
		}
	}
	if rep.Nodes[0].ID != 40 {
		t.Errorf("report should rank the single point of failure first, got %+v", rep.Nodes[0])
	}
}

func TestAnalysis_StructuralErrors(t *testing.T) {
	twoRoots := graph.NewGraph()
	for _, id := range []graph.NodeID{1, 2, 3} {
		twoRoots.AddNode(graph.Node{ID: id})
	}
	twoRoots.AddEdge(1, 3)
	twoRoots.AddEdge(2, 3)

	_, err := crit.New(twoRoots, crit.Params{Rule: rollup.OrRule{}, Iterations: 1})
	var sErr *graph.StartNodeError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StartNodeError, got %v", err)
	}

	_, err = crit.New(buildChain(t), crit.Params{Rule: rollup.OrRule{}, Iterations: 1, Order: "layered"})
	if err == nil {
		t.Errorf("expected error for unknown order")
	}
	_, err = crit.New(buildChain(t), crit.Params{Rule: rollup.OrRule{}})
	if err == nil {
		t.Errorf("expected error for zero iterations")
	}
	_, err = crit.New(buildChain(t), crit.Params{Iterations: 1})
	if err == nil {
		t.Errorf("expected error for missing rule")
	}
}

func TestAnalysis_TopoOrderMatchesBFSWhenBothValid(t *testing.T) {
	run := func(order crit.Order) *crit.Report {
		a, err := crit.New(buildRedundantPair(t), crit.Params{
			Rule:             rollup.OrRule{},
			Threads:          2,
			Iterations:       1000,
			DefaultOffChance: 0.5,
			Seed:             42,
			Order:            order,
		})
		if err != nil {
			t.Fatalf("New(%s) error: %v", order, err)
		}
		return crit.BuildReport(a.Graph(), a.Run())
	}

	bfs, topo := run(crit.OrderBFS), run(crit.OrderTopo)
	if !reflect.DeepEqual(bfs, topo) {
		t.Errorf("bfs and topo reports differ on a graph where both orders are valid:\n%+v\nvs\n%+v", bfs, topo)
	}
}

func TestData_MergeIsCommutativeAndAssociative(t *testing.T) {
	part := func(rows uint64, end float64, on, off uint64) *crit.Data {
		d := crit.NewData([]graph.NodeID{20})
		d.RowCount = rows
		d.EndOpSum = end
		d.Nodes[20].SumEndOn = end
		d.Nodes[20].CountOn = on
		d.Nodes[20].CountOff = off
		return d
	}

	ab := crit.NewData([]graph.NodeID{20})
	ab.Merge(part(3, 1.5, 2, 1))
	ab.Merge(part(5, 4.0, 4, 1))

	ba := crit.NewData([]graph.NodeID{20})
	ba.Merge(part(5, 4.0, 4, 1))
	ba.Merge(part(3, 1.5, 2, 1))

	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("merge is not commutative:\n%+v\nvs\n%+v", ab, ba)
	}
	if ab.RowCount != 8 || ab.EndOpSum != 5.5 {
		t.Errorf("merged totals = %d rows / %v sum, want 8 / 5.5", ab.RowCount, ab.EndOpSum)
	}

	c := part(2, 0.5, 1, 1)
	left := crit.NewData([]graph.NodeID{20})
	left.Merge(ab)
	left.Merge(c)
	right := part(3, 1.5, 2, 1)
	right.Merge(part(5, 4.0, 4, 1))
	right.Merge(c)
	if !reflect.DeepEqual(left.Nodes[20], right.Nodes[20]) {
		t.Errorf("merge is not associative:\n%+v\nvs\n%+v", left.Nodes[20], right.Nodes[20])
	}
}
