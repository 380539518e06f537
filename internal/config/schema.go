package config

// Config is the top-level YAML structure.
type Config struct {
	Version  string       `yaml:"version"`
	Engine   EngineConf   `yaml:"engine"`
	Defaults DefaultsConf `yaml:"defaults"`
	Limits   LimitsConf   `yaml:"limits"`
}

// EngineConf holds tunable service concurrency settings.
type EngineConf struct {
	AnalysisWorkers   int `yaml:"analysis_workers"`
	QueueDepth        int `yaml:"queue_depth"`
	AnalysisTimeoutMs int `yaml:"analysis_timeout_ms"`
	JobsHistory       int `yaml:"jobs_history"`
}

// DefaultsConf fills analysis parameters a request leaves out.
type DefaultsConf struct {
	Threads    int      `yaml:"threads"`
	Iterations uint64   `yaml:"iterations"`
	Rule       string   `yaml:"rule"`
	OffChance  *float64 `yaml:"off_chance"` // pointer: 0 is a meaningful value
	Order      string   `yaml:"order"`
	Seed       int64    `yaml:"seed"` // 0 seeds from the clock
}

// LimitsConf caps request parameters. A zero limit means unlimited.
type LimitsConf struct {
	MaxThreads    int    `yaml:"max_threads"`
	MaxIterations uint64 `yaml:"max_iterations"`
	MaxNodes      int    `yaml:"max_nodes"`
}
