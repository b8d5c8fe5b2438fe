package bundler

import (
	"sort"
	"sync"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

// Registry is the runtimemodule.Registrar of one bundler instance. It accepts
// exactly one set of modules; a second Register is an internal error.
type Registry struct {
	mu      sync.RWMutex
	modules runtimemodule.SourceMap
	root    string
	done    bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register implements runtimemodule.Registrar.
func (r *Registry) Register(modules runtimemodule.SourceMap, root string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return errors.InternalError("runtime modules already registered with this bundler").Build()
	}
	if modules == nil {
		return errors.InternalError("cannot register a nil module map").Build()
	}
	r.modules = modules.Clone()
	r.root = root
	r.done = true
	return nil
}

// Registered reports whether Register has succeeded.
func (r *Registry) Registered() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.done
}

// Root returns the directory imports inside virtual modules resolve from.
func (r *Registry) Root() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.root
}

// Source returns the source registered under id.
func (r *Registry) Source(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.modules[id]
	return src, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
