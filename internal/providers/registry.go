package providers

import (
	"fmt"
	"strings"
)

// Registry is the central registry of provider definitions.
type Registry struct {
	definitions map[string]Definition
	order       []string // Display order
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
		order:       make([]string, 0),
	}
}

// Register adds a provider definition to the registry.
func (r *Registry) Register(def Definition) error {
	kind := strings.ToLower(strings.TrimSpace(def.Kind()))
	if kind == "" {
		return fmt.Errorf("provider kind cannot be empty")
	}
	if _, exists := r.definitions[kind]; exists {
		return fmt.Errorf("provider kind %q already registered", kind)
	}
	r.definitions[kind] = def
	r.order = append(r.order, kind)
	return nil
}

// Get retrieves a provider definition by kind.
func (r *Registry) Get(kind string) (Definition, bool) {
	def, ok := r.definitions[strings.ToLower(strings.TrimSpace(kind))]
	return def, ok
}

// All returns all registered provider definitions in order.
func (r *Registry) All() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, kind := range r.order {
		defs = append(defs, r.definitions[kind])
	}
	return defs
}

// Default returns a registry with every built-in provider registered.
func Default() *Registry {
	r := NewRegistry()
	for _, def := range []Definition{
		FacebookAds{},
		GoogleAds{},
		GoHighLevel{},
		Klaviyo{},
	} {
		if err := r.Register(def); err != nil {
			// Built-in kinds are unique by construction.
			panic(err)
		}
	}
	return r
}
