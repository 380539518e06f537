package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/critnet/internal/config"
	"github.com/gyaneshwarpardhi/critnet/internal/crit"
	"github.com/gyaneshwarpardhi/critnet/internal/graph"
	"github.com/gyaneshwarpardhi/critnet/internal/input"
	"github.com/gyaneshwarpardhi/critnet/internal/metrics"
	"github.com/gyaneshwarpardhi/critnet/internal/rollup"
)

var (
	// ErrQueueFull is returned when the analysis queue cannot take more work.
	ErrQueueFull = errors.New("analysis queue full")
	// ErrTimeout is returned when a synchronous analysis exceeds the
	// configured deadline. The analysis itself keeps running to completion
	// on its worker; only the caller stops waiting.
	ErrTimeout = errors.New("analysis timed out")
)

// ValidationError reports a request that can never run as submitted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Request describes one criticality analysis. Zero-valued parameters fall
// back to the configured defaults; OffChance is a pointer because zero is a
// meaningful probability.
type Request struct {
	Graph      *graph.Graph
	Weights    graph.EdgeValues
	Threads    int
	Iterations uint64
	Rule       string
	OffChance  *float64
	OffChances map[graph.NodeID]float64
	Order      string
	Seed       int64
}

// Result is the outcome of one analysis, echoing the effective parameters
// after defaults and limits were applied.
type Result struct {
	ID         string       `json:"id"`
	DurationMs int64        `json:"duration_ms"`
	Threads    int          `json:"threads"`
	Iterations uint64       `json:"iterations"`
	Rule       string       `json:"rule"`
	Order      string       `json:"order"`
	Report     *crit.Report `json:"report"`
}

// Engine validates analysis requests and runs them on a worker pool.
// Worker count, queue depth and job history are fixed at startup;
// SwapConfig updates defaults, limits and the sync timeout in place.
type Engine struct {
	conf     atomic.Pointer[config.Config]
	registry *rollup.Registry
	pool     *workerPool[*analysisWork]
	jobs     *jobStore
}

// analysisWork is one prepared analysis in flight. Sync submissions carry a
// resultC; async submissions are tracked in the job store instead.
type analysisWork struct {
	id         string
	analysis   *crit.Analysis
	rule       string
	order      string
	iterations uint64
	resultC    chan *Result
}

// New creates an Engine using cfg and starts the worker pool.
func New(ctx context.Context, cfg *config.Config, reg *rollup.Registry) *Engine {
	e := &Engine{
		registry: reg,
		jobs:     newJobStore(cfg.Engine.JobsHistory),
	}
	e.conf.Store(cfg)
	e.pool = newWorkerPool(ctx, cfg.Engine.AnalysisWorkers, cfg.Engine.QueueDepth, e.runAnalysis)
	return e
}

// SwapConfig atomically replaces the config (used on hot-reload).
func (e *Engine) SwapConfig(cfg *config.Config) {
	e.conf.Store(cfg)
}

// Config returns the config currently in effect.
func (e *Engine) Config() *config.Config {
	return e.conf.Load()
}

// RunSync runs an analysis and waits for its result.
func (e *Engine) RunSync(ctx context.Context, req *Request) (*Result, error) {
	w, err := e.prepare(req)
	if err != nil {
		metrics.AnalysesFailed.Inc()
		return nil, err
	}
	w.resultC = make(chan *Result, 1)

	cfg := e.conf.Load()
	timeout := time.Duration(cfg.Engine.AnalysisTimeoutMs) * time.Millisecond
	if !e.pool.Submit(w) {
		metrics.AnalysesRejected.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}
	metrics.AnalysesStarted.Inc()

	select {
	case res := <-w.resultC:
		return res, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunAsync validates and enqueues an analysis for background processing,
// returning the job ID to poll. Validation failures surface here, not on
// the job.
func (e *Engine) RunAsync(req *Request) (string, error) {
	w, err := e.prepare(req)
	if err != nil {
		metrics.AnalysesFailed.Inc()
		return "", err
	}
	e.jobs.add(&Job{ID: w.id, Status: JobQueued, SubmittedAt: time.Now()})
	if !e.pool.Submit(w) {
		e.jobs.drop(w.id)
		metrics.AnalysesRejected.Inc()
		return "", fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.QueueCap())
	}
	metrics.AnalysesStarted.Inc()
	return w.id, nil
}

// Job looks up an async analysis by ID.
func (e *Engine) Job(id string) (Job, bool) {
	return e.jobs.get(id)
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

// prepare fills defaults, applies limits and validates the request, then
// builds the analysis. Structural graph problems come back as the graph
// package's typed errors; everything else is a *ValidationError.
func (e *Engine) prepare(req *Request) (*analysisWork, error) {
	cfg := e.conf.Load()

	if req.Graph == nil || req.Graph.NodeCount() == 0 {
		return nil, &ValidationError{Msg: "graph must contain at least one node"}
	}
	if max := cfg.Limits.MaxNodes; max > 0 && req.Graph.NodeCount() > max {
		return nil, &ValidationError{Msg: fmt.Sprintf("graph has %d nodes, limit is %d", req.Graph.NodeCount(), max)}
	}
	if req.Graph.Contains(input.DefaultNodeID) {
		return nil, &ValidationError{Msg: fmt.Sprintf("graph contains placeholder node %d from an unparseable input row", input.DefaultNodeID)}
	}
	for _, edge := range req.Graph.Edges() {
		if !req.Graph.Contains(edge.From) || !req.Graph.Contains(edge.To) {
			return nil, &ValidationError{Msg: fmt.Sprintf("edge %d->%d references an unknown node", edge.From, edge.To)}
		}
	}

	threads := req.Threads
	if threads == 0 {
		threads = cfg.Defaults.Threads
	}
	if threads < 1 {
		return nil, &ValidationError{Msg: fmt.Sprintf("threads must be positive, got %d", threads)}
	}
	if max := cfg.Limits.MaxThreads; max > 0 && threads > max {
		threads = max
	}

	iterations := req.Iterations
	if iterations == 0 {
		iterations = cfg.Defaults.Iterations
	}
	if max := cfg.Limits.MaxIterations; max > 0 && iterations > max {
		iterations = max
	}

	ruleName := req.Rule
	if ruleName == "" {
		ruleName = cfg.Defaults.Rule
	}
	rule, err := e.registry.New(ruleName, req.Weights)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	offChance := crit.DefaultOffChance
	if cfg.Defaults.OffChance != nil {
		offChance = *cfg.Defaults.OffChance
	}
	if req.OffChance != nil {
		offChance = *req.OffChance
	}
	if offChance < 0 || offChance > 1 {
		return nil, &ValidationError{Msg: fmt.Sprintf("off_chance %v is outside [0, 1]", offChance)}
	}
	for id, p := range req.OffChances {
		if p < 0 || p > 1 {
			return nil, &ValidationError{Msg: fmt.Sprintf("off_chance %v for node %d is outside [0, 1]", p, id)}
		}
	}

	order := req.Order
	if order == "" {
		order = cfg.Defaults.Order
	}
	switch crit.Order(order) {
	case crit.OrderBFS, crit.OrderTopo:
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown propagation order %q", order)}
	}

	seed := req.Seed
	if seed == 0 {
		seed = cfg.Defaults.Seed
	}

	analysis, err := crit.New(req.Graph, crit.Params{
		Rule:             rule,
		Threads:          threads,
		Iterations:       iterations,
		OffChances:       req.OffChances,
		DefaultOffChance: offChance,
		Seed:             seed,
		Order:            crit.Order(order),
	})
	if err != nil {
		return nil, err
	}

	return &analysisWork{
		id:         uuid.New().String(),
		analysis:   analysis,
		rule:       ruleName,
		order:      order,
		iterations: iterations,
	}, nil
}

func (e *Engine) runAnalysis(_ context.Context, w *analysisWork) {
	if w.resultC == nil {
		e.jobs.start(w.id)
	}
	start := time.Now()
	slog.Info("analysis started",
		"id", w.id,
		"rule", w.rule,
		"threads", w.analysis.Threads(),
		"iterations", w.iterations,
	)

	data := w.analysis.Run()
	report := crit.BuildReport(w.analysis.Graph(), data)
	res := &Result{
		ID:         w.id,
		DurationMs: time.Since(start).Milliseconds(),
		Threads:    w.analysis.Threads(),
		Iterations: w.iterations,
		Rule:       w.rule,
		Order:      w.order,
		Report:     report,
	}

	metrics.AnalysesCompleted.Inc()
	metrics.AnalysesByRule.WithLabelValues(w.rule).Inc()
	metrics.AnalysisDuration.Observe(float64(res.DurationMs))
	metrics.SamplesAccepted.Add(float64(report.Rows))
	metrics.SamplesDuplicate.Add(float64(w.iterations - report.Rows))
	metrics.QueueUtilization.Set(e.QueueUtilization())

	slog.Info("analysis completed",
		"id", w.id,
		"duration_ms", res.DurationMs,
		"rows", report.Rows,
	)

	if w.resultC != nil {
		w.resultC <- res
		return
	}
	e.jobs.complete(w.id, res)
}
