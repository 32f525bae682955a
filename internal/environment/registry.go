package environment

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps environment identifiers to their configuration bundles and
// tracks the write-once "current environment" selection. The mapping is
// sealed at construction; Set is the only mutation point afterwards.
type Registry struct {
	configs map[ID]Config

	mu          sync.RWMutex
	current     ID
	initialized bool
}

// Option customises the mapping a registry is constructed with.
type Option func(*Registry)

// WithEnvironment declares an additional environment or overrides a
// built-in one. Construction time only; the mapping cannot change once the
// registry exists.
func WithEnvironment(id ID, cfg Config) Option {
	return func(r *Registry) {
		r.configs[id] = cloneConfig(cfg)
	}
}

// NewRegistry builds a registry over the built-in environments plus any
// declared via options. The returned registry is uninitialized: no
// environment is selected until Set is called.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		configs: make(map[ID]Config, len(builtinConfigs)),
	}
	for id, cfg := range builtinConfigs {
		r.configs[id] = cloneConfig(cfg)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set selects the active environment. It must be called exactly once per
// registry lifetime, before any read. A second call fails with
// ErrAlreadyInitialized and leaves the first selection intact; an
// identifier absent from the mapping fails with ErrUnknownEnvironment and
// leaves the registry uninitialized. Concurrent callers race safely:
// exactly one wins.
func (r *Registry) Set(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return fmt.Errorf("%w: current is %q", ErrAlreadyInitialized, r.current)
	}

	if _, ok := r.configs[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, id)
	}

	r.current = id
	r.initialized = true
	return nil
}

// Current returns the selected environment identifier.
func (r *Registry) Current() (ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return "", ErrNotInitialized
	}
	return r.current, nil
}

// DisplayName returns the human-readable name of the current environment.
func (r *Registry) DisplayName() (string, error) {
	cfg, err := r.currentConfig()
	if err != nil {
		return "", err
	}
	return cfg.DisplayName, nil
}

// BaseURL returns the network endpoint the current environment points at.
func (r *Registry) BaseURL() (string, error) {
	cfg, err := r.currentConfig()
	if err != nil {
		return "", err
	}
	return cfg.BaseURL, nil
}

// Setting returns one additional key/value setting of the current
// environment. A missing key yields the empty string, not an error.
func (r *Registry) Setting(key string) (string, error) {
	cfg, err := r.currentConfig()
	if err != nil {
		return "", err
	}
	return cfg.Settings[key], nil
}

// Settings returns a defensive copy of the current environment's
// additional settings.
func (r *Registry) Settings() (map[string]string, error) {
	cfg, err := r.currentConfig()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cfg.Settings))
	for k, v := range cfg.Settings {
		out[k] = v
	}
	return out, nil
}

// IDs returns every declared environment identifier, sorted.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns the configuration bundle declared for id, without
// requiring a selection to have been made.
func (r *Registry) Lookup(id ID) (Config, bool) {
	cfg, ok := r.configs[id]
	if !ok {
		return Config{}, false
	}
	return cloneConfig(cfg), true
}

func (r *Registry) currentConfig() (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return Config{}, ErrNotInitialized
	}
	return r.configs[r.current], nil
}

// defaultRegistry is the process-wide singleton over the built-in
// environments, for consumers that use the package-level helpers instead of
// carrying a registry around.
var defaultRegistry = NewRegistry()

// Set selects the active environment on the process-wide registry.
func Set(id ID) error { return defaultRegistry.Set(id) }

// Current returns the process-wide selected environment identifier.
func Current() (ID, error) { return defaultRegistry.Current() }

// DisplayName returns the process-wide environment's display name.
func DisplayName() (string, error) { return defaultRegistry.DisplayName() }

// BaseURL returns the process-wide environment's base URL.
func BaseURL() (string, error) { return defaultRegistry.BaseURL() }

// Setting returns one additional setting of the process-wide environment.
func Setting(key string) (string, error) { return defaultRegistry.Setting(key) }
