package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields
//   - Parameter ranges (off-chance probability, known propagation orders)
//   - Limits that contradict the defaults they are meant to cap
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if cfg.Engine.AnalysisWorkers < 1 {
		errs = append(errs, "engine.analysis_workers must be at least 1")
	}
	if cfg.Engine.QueueDepth < 1 {
		errs = append(errs, "engine.queue_depth must be at least 1")
	}
	if cfg.Engine.AnalysisTimeoutMs < 1 {
		errs = append(errs, "engine.analysis_timeout_ms must be at least 1")
	}
	if cfg.Engine.JobsHistory < 1 {
		errs = append(errs, "engine.jobs_history must be at least 1")
	}

	if cfg.Defaults.Threads < 1 {
		errs = append(errs, "defaults.threads must be at least 1")
	}
	if cfg.Defaults.Iterations < 1 {
		errs = append(errs, "defaults.iterations must be at least 1")
	}
	if cfg.Defaults.Rule == "" {
		errs = append(errs, "defaults.rule is required")
	}
	if oc := cfg.Defaults.OffChance; oc != nil && (*oc < 0 || *oc > 1) {
		errs = append(errs, fmt.Sprintf("defaults.off_chance %v is outside [0, 1]", *oc))
	}
	switch cfg.Defaults.Order {
	case "", "bfs", "topo":
	default:
		errs = append(errs, fmt.Sprintf("defaults.order %q is not one of bfs, topo", cfg.Defaults.Order))
	}

	if m := cfg.Limits.MaxThreads; m > 0 && m < cfg.Defaults.Threads {
		errs = append(errs, fmt.Sprintf("limits.max_threads %d is below defaults.threads %d", m, cfg.Defaults.Threads))
	}
	if m := cfg.Limits.MaxIterations; m > 0 && m < cfg.Defaults.Iterations {
		errs = append(errs, fmt.Sprintf("limits.max_iterations %d is below defaults.iterations %d", m, cfg.Defaults.Iterations))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
