package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/critnet/internal/config"
	"github.com/gyaneshwarpardhi/critnet/internal/engine"
	"github.com/gyaneshwarpardhi/critnet/internal/graph"
	"github.com/gyaneshwarpardhi/critnet/internal/rollup"
)

func testConfig() *config.Config {
	half := 0.5
	return &config.Config{
		Version: "test",
		Engine: config.EngineConf{
			AnalysisWorkers:   2,
			QueueDepth:        8,
			AnalysisTimeoutMs: 10000,
			JobsHistory:       16,
		},
		Defaults: config.DefaultsConf{
			Threads:    2,
			Iterations: 100,
			Rule:       "or",
			OffChance:  &half,
			Order:      "bfs",
			Seed:       42,
		},
	}
}

func newEngine(t *testing.T, cfg *config.Config) *engine.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	eng := engine.New(ctx, cfg, rollup.Default())
	t.Cleanup(func() {
		eng.Shutdown()
		cancel()
	})
	return eng
}

// buildChain wires pump → cooling → reactor.
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

func TestRunSync_AppliesDefaults(t *testing.T) {
	eng := newEngine(t, testConfig())

	zero := 0.0
	res, err := eng.RunSync(context.Background(), &engine.Request{
		Graph:     buildChain(t),
		OffChance: &zero,
	})
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if res.ID == "" {
		t.Error("result has no ID")
	}
	if res.Threads != 2 {
		t.Errorf("Threads = %d, want default 2", res.Threads)
	}
	if res.Iterations != 100 {
		t.Errorf("Iterations = %d, want default 100", res.Iterations)
	}
	if res.Rule != "or" {
		t.Errorf("Rule = %q, want default or", res.Rule)
	}
	if res.Order != "bfs" {
		t.Errorf("Order = %q, want default bfs", res.Order)
	}

	// With every node visible the only distinct state repeats, so each
	// worker records exactly one row and the end node is fully operable.
	rep := res.Report
	if rep.Rows != 2 {
		t.Errorf("Rows = %d, want 2", rep.Rows)
	}
	if rep.EndMean != 1.0 {
		t.Errorf("EndMean = %v, want 1.0", rep.EndMean)
	}
	if len(rep.Nodes) != 1 || rep.Nodes[0].ID != 20 {
		t.Fatalf("Nodes = %+v, want the single dynamic node 20", rep.Nodes)
	}
	if rep.Nodes[0].Name != "cooling" {
		t.Errorf("Name = %q, want cooling", rep.Nodes[0].Name)
	}
}

func TestRunSync_ValidationErrors(t *testing.T) {
	eng := newEngine(t, testConfig())

	sentinel := graph.NewGraph()
	sentinel.AddNode(graph.Node{ID: 10, Name: "pump"})
	sentinel.AddNode(graph.Node{ID: 999999, Name: "DEFAULT"})
	sentinel.AddEdge(10, 999999)

	dangling := graph.NewGraph()
	dangling.AddNode(graph.Node{ID: 10, Name: "pump"})
	dangling.AddNode(graph.Node{ID: 20, Name: "cooling"})
	dangling.AddEdge(10, 20)
	dangling.AddEdge(20, 77)

	bad := 1.5

	tests := []struct {
		name string
		req  engine.Request
	}{
		{"nil graph", engine.Request{}},
		{"empty graph", engine.Request{Graph: graph.NewGraph()}},
		{"placeholder node", engine.Request{Graph: sentinel}},
		{"dangling edge", engine.Request{Graph: dangling}},
		{"negative threads", engine.Request{Graph: buildChain(t), Threads: -1}},
		{"unknown rule", engine.Request{Graph: buildChain(t), Rule: "xor"}},
		{"off chance out of range", engine.Request{Graph: buildChain(t), OffChance: &bad}},
		{"per node off chance out of range", engine.Request{Graph: buildChain(t), OffChances: map[graph.NodeID]float64{20: -0.1}}},
		{"unknown order", engine.Request{Graph: buildChain(t), Order: "layered"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eng.RunSync(context.Background(), &tc.req)
			var vErr *engine.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("RunSync error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestRunSync_StructuralErrorsPassThrough(t *testing.T) {
	eng := newEngine(t, testConfig())

	g := graph.NewGraph()
	g.AddNode(graph.Node{ID: 1, Name: "a"})
	g.AddNode(graph.Node{ID: 2, Name: "b"})
	g.AddNode(graph.Node{ID: 3, Name: "top"})
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)

	_, err := eng.RunSync(context.Background(), &engine.Request{Graph: g})
	var startErr *graph.StartNodeError
	if !errors.As(err, &startErr) {
		t.Fatalf("RunSync error = %v, want *graph.StartNodeError", err)
	}
	if len(startErr.Candidates) != 2 {
		t.Errorf("Candidates = %v, want two", startErr.Candidates)
	}
}

func TestRunSync_ClampsToLimits(t *testing.T) {
	cfg := testConfig()
	cfg.Limits = config.LimitsConf{MaxThreads: 2, MaxIterations: 50}
	eng := newEngine(t, cfg)

	res, err := eng.RunSync(context.Background(), &engine.Request{
		Graph:      buildChain(t),
		Threads:    16,
		Iterations: 100000,
	})
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if res.Threads != 2 {
		t.Errorf("Threads = %d, want clamped 2", res.Threads)
	}
	if res.Iterations != 50 {
		t.Errorf("Iterations = %d, want clamped 50", res.Iterations)
	}
}

func TestRunSync_RejectsOversizedGraph(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxNodes = 2
	eng := newEngine(t, cfg)

	_, err := eng.RunSync(context.Background(), &engine.Request{Graph: buildChain(t)})
	var vErr *engine.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("RunSync error = %v, want *ValidationError", err)
	}
}

func TestRunAsync_JobLifecycle(t *testing.T) {
	eng := newEngine(t, testConfig())

	id, err := eng.RunAsync(&engine.Request{Graph: buildChain(t)})
	if err != nil {
		t.Fatalf("RunAsync: %v", err)
	}
	if id == "" {
		t.Fatal("RunAsync returned an empty job ID")
	}

	deadline := time.After(5 * time.Second)
	for {
		job, ok := eng.Job(id)
		if !ok {
			t.Fatalf("job %s vanished from the store", id)
		}
		if job.Status == engine.JobDone {
			if job.Result == nil || job.Result.Report == nil {
				t.Fatalf("done job carries no report: %+v", job)
			}
			if job.Result.ID != id {
				t.Errorf("Result.ID = %q, want job ID %q", job.Result.ID, id)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job %s still %s after 5s", id, job.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if _, ok := eng.Job("no-such-job"); ok {
		t.Error("lookup of an unknown job ID succeeded")
	}
}

func TestRunAsync_ValidationFailsAtSubmission(t *testing.T) {
	eng := newEngine(t, testConfig())

	_, err := eng.RunAsync(&engine.Request{Graph: graph.NewGraph()})
	var vErr *engine.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("RunAsync error = %v, want *ValidationError", err)
	}
}

func TestJobHistory_EvictsOldest(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.JobsHistory = 2
	cfg.Defaults.Iterations = 10
	eng := newEngine(t, cfg)

	zero := 0.0
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := eng.RunAsync(&engine.Request{Graph: buildChain(t), OffChance: &zero})
		if err != nil {
			t.Fatalf("RunAsync #%d: %v", i, err)
		}
		ids = append(ids, id)
	}

	if _, ok := eng.Job(ids[0]); ok {
		t.Errorf("oldest job %s should have been evicted", ids[0])
	}
	for _, id := range ids[1:] {
		if _, ok := eng.Job(id); !ok {
			t.Errorf("job %s missing from history", id)
		}
	}
}
