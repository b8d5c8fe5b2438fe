package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a plugin instance from its configured options.
type Constructor func(pc *Context, options map[string]any) (Plugin, error)

// Registry maps plugin names to constructors.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[string]Constructor),
	}
}

// Register adds a constructor under name.
// Returns an error if the name is empty or already registered.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if ctor == nil {
		return fmt.Errorf("cannot register nil constructor for plugin %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.ctors[name] = ctor
	return nil
}

// MustRegister is Register that panics on error, for use in init functions.
func (r *Registry) MustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// Lookup retrieves the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[name]
	return ctor, ok
}

// Has checks if a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a plugin from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ctors[name]; !ok {
		return fmt.Errorf("plugin %s not found", name)
	}
	delete(r.ctors, name)
	return nil
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ctors)
}

// globalRegistry is the default plugin registry used throughout the application.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global plugin registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a constructor to the global registry.
func Register(name string, ctor Constructor) error {
	return globalRegistry.Register(name, ctor)
}
