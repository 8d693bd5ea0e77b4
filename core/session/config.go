package session

import "time"

// Built-in backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// Config provides environment-based configuration for the session
// manager.
type Config struct {
	// Backend selects the active backend: "memory" or "file".
	Backend string `env:"SESSION_BACKEND" envDefault:"memory"`

	// SweepInterval is the minimum time between lazy expiration sweeps
	// of the memory backend.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// Dir overrides the file backend's session directory. Empty derives
	// "<program>_sessions" next to the executable.
	Dir string `env:"SESSION_FILE_DIR" envDefault:""`
}

// NewManagerFromConfig creates a manager with both built-in backends
// registered and the configured one selected.
func NewManagerFromConfig(cfg Config, opts ...ManagerOption) (*Manager, error) {
	m := NewManager(opts...)

	if err := m.Register(BackendMemory, func() (Store, error) {
		var memOpts []MemoryOption
		if cfg.SweepInterval > 0 {
			memOpts = append(memOpts, WithSweepInterval(cfg.SweepInterval))
		}
		memOpts = append(memOpts, WithMemoryLogger(m.logger))
		return NewMemoryStore(memOpts...), nil
	}); err != nil {
		return nil, err
	}

	if err := m.Register(BackendFile, func() (Store, error) {
		var fileOpts []FileOption
		if cfg.Dir != "" {
			fileOpts = append(fileOpts, WithSessionDir(cfg.Dir))
		}
		fileOpts = append(fileOpts, WithFileLogger(m.logger))
		return NewFileStore(fileOpts...)
	}); err != nil {
		return nil, err
	}

	if err := m.Use(cfg.Backend); err != nil {
		return nil, err
	}
	return m, nil
}
