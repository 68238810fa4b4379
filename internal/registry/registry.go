package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/config"
)

// Module is the interface all compiled-in backend modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds a backend instance from its configuration definition.
type Factory func(def *config.BackendDefinition) (backend.Backend, error)

// Registry holds the backend factories for a single application instance.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// RegisterBackend registers a backend factory under a backend type.
// Registering the same type twice is a programmer error.
func (r *Registry) RegisterBackend(backendType string, f Factory) {
	if _, exists := r.factories[backendType]; exists {
		panic(fmt.Sprintf("backend factory for type '%s' already registered", backendType))
	}
	slog.Debug("Registering backend factory.", "type", backendType)
	r.factories[backendType] = f
}

// NewBackend instantiates the backend described by the definition.
func (r *Registry) NewBackend(def *config.BackendDefinition) (backend.Backend, error) {
	f, ok := r.factories[def.Type]
	if !ok {
		return nil, fmt.Errorf("no backend registered for type %q (available: %v)", def.Type, r.BackendTypes())
	}
	return f(def)
}

// BackendTypes returns the registered backend types in sorted order.
func (r *Registry) BackendTypes() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
