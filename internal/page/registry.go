package page

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNoModule is returned by Load for a view without a registered module.
var ErrNoModule = errors.New("page: no module for view")

// Factory builds the module of a view. It runs on every mount, so module
// state never leaks from one visit to the next.
type Factory func(env *Env) (Module, error)

// Registry stores the mapping of view names to module factories
type Registry struct {
	mu        sync.RWMutex
	env       *Env
	factories map[string]Factory
}

// NewRegistry returns an empty registry whose factories receive env.
func NewRegistry(env *Env) *Registry {
	return &Registry{
		env:       env,
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for a view name
func (r *Registry) Register(view string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[view] = f
}

// Get retrieves the factory for a view name
func (r *Registry) Get(view string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[view]
	return f, ok
}

// Views lists the registered view names, sorted.
func (r *Registry) Views() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]string, 0, len(r.factories))
	for v := range r.factories {
		views = append(views, v)
	}
	sort.Strings(views)
	return views
}

// Load builds the module of view. A missing entry yields ErrNoModule; a
// panicking factory is reported as an error.
func (r *Registry) Load(view string) (m Module, err error) {
	f, ok := r.Get(view)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoModule, view)
	}
	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("load module %q: panic: %v", view, p)
		}
	}()
	m, err = f(r.env)
	if err != nil {
		return nil, fmt.Errorf("load module %q: %w", view, err)
	}
	return m, nil
}
