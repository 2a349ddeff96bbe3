package core

import "runtime"

// EngineConfig defines common parallel execution settings for mesh operations.
type EngineConfig struct {
	Workers int
}

// EngineOption mutates an EngineConfig.
type EngineOption func(*EngineConfig)

// DefaultEngineConfig returns sensible defaults for single-node execution.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Workers: runtime.NumCPU(),
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(workers int) EngineOption {
	return func(cfg *EngineConfig) {
		if workers > 0 {
			cfg.Workers = workers
		}
	}
}

// ApplyEngineOptions applies zero or more options to the default config.
func ApplyEngineOptions(opts ...EngineOption) EngineConfig {
	cfg := DefaultEngineConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ChunkBounds returns the half-open range [start, end) that worker id owns
// when n items are split across workers. The final worker absorbs the
// remainder.
func ChunkBounds(id, workers, n int) (start, end int) {
	if workers <= 0 {
		workers = 1
	}

	chunk := n / workers
	if chunk == 0 {
		chunk = 1
	}

	start = id * chunk
	if start > n {
		start = n
	}

	end = start + chunk
	if id == workers-1 || end > n {
		end = n
	}

	return start, end
}
