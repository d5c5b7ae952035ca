// Package registry tracks named dispatcher instances. It replaces ambient
// global server state with an explicit, injected object guarded by a single
// mutex.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/scikiq/toolbridge/internal/dispatch"
	"github.com/scikiq/toolbridge/internal/manifest"
)

// Registry is a concurrency-safe map of named dispatchers. Registering a name
// twice swaps in the new dispatcher; live dispatchers are never mutated.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*dispatch.Dispatcher
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		servers: make(map[string]*dispatch.Dispatcher),
	}
}

// Register adds or replaces a dispatcher under the given name.
func (r *Registry) Register(name string, d *dispatch.Dispatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers[name] = d
}

// Get returns the dispatcher registered under name.
func (r *Registry) Get(name string) (*dispatch.Dispatcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.servers[name]
	if !ok {
		return nil, fmt.Errorf("server %q not registered", name)
	}
	return d, nil
}

// Remove deregisters a dispatcher. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.servers, name)
}

// Names returns the registered server names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns every registered server's tool list keyed by server name.
func (r *Registry) Tools() map[string][]manifest.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[string][]manifest.Tool, len(r.servers))
	for name, d := range r.servers {
		all[name] = d.Manifest().Tools
	}
	return all
}
