package rollup

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

// Factory builds a rule instance for one analysis. Rules that do not use
// edge weights ignore the argument.
type Factory func(weights graph.EdgeValues) Rule

// Registry maps rule names to their factories.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Panics on duplicate name to surface
// misconfiguration early.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("rollup registry: duplicate rule %q", name))
	}
	r.factories[name] = f
}

// New builds a rule by name.
func (r *Registry) New(name string, weights graph.EdgeValues) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no rule registered under %q (known: %v)", name, r.names())
	}
	return f(weights), nil
}

// Names returns all registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default returns a registry with the built-in rules.
func Default() *Registry {
	r := NewRegistry()
	r.Register("or", func(graph.EdgeValues) Rule { return OrRule{} })
	r.Register("and", func(graph.EdgeValues) Rule { return AndRule{} })
	r.Register("weighted", func(w graph.EdgeValues) Rule { return &WeightedRule{Weights: w} })
	return r
}
