package runtimemodule

import (
	"sync"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

// Registrar makes a finished module map resolvable by the bundler. root is the
// directory the module identifiers are resolved relative to.
type Registrar interface {
	Register(modules SourceMap, root string) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(modules SourceMap, root string) error

func (f RegistrarFunc) Register(modules SourceMap, root string) error { return f(modules, root) }

// MemoryRegistrar records registrations in memory.
type MemoryRegistrar struct {
	mu    sync.Mutex
	calls []Registration
}

// Registration is one recorded Register call.
type Registration struct {
	Modules SourceMap
	Root    string
}

func (r *MemoryRegistrar) Register(modules SourceMap, root string) error {
	if modules == nil {
		return errors.InternalError("nil module map registered").Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Registration{Modules: modules.Clone(), Root: root})
	return nil
}

// Calls returns every recorded registration.
func (r *MemoryRegistrar) Calls() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Registration(nil), r.calls...)
}

// Last returns the most recent registration.
func (r *MemoryRegistrar) Last() (Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Registration{}, false
	}
	return r.calls[len(r.calls)-1], true
}
