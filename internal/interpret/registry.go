package interpret

import (
	"sync"

	"github.com/Harshitk-cp/lide/internal/domain"
)

// Registry holds plugins in registration order. Registering an id twice
// replaces the earlier plugin in place.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	plugins map[string]domain.Plugin
}

func NewRegistry(plugins ...domain.Plugin) *Registry {
	r := &Registry{plugins: make(map[string]domain.Plugin)}
	for _, p := range plugins {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p domain.Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[p.ID()]; !exists {
		r.order = append(r.order, p.ID())
	}
	r.plugins[p.ID()] = p
}

func (r *Registry) Get(id string) (domain.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	return p, ok
}

func (r *Registry) List() []domain.PluginInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PluginInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, domain.PluginInfo{ID: id, Version: r.plugins[id].Version()})
	}
	return out
}

func (r *Registry) all() []domain.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Plugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}
