// Package registry maps section type tags to their schema and constructor.
//
// Dispatch on a section's type goes through a Registry instead of a
// conditional chain; adding a section variant means one Register call here
// plus one formatter in the compiler.
package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// Entry describes one section variant.
type Entry struct {
	// Type is the discriminant string (e.g. "choice").
	Type string
	// Schema is the author-facing template contract.
	Schema *schema.ObjectType
	// New returns a pointer to an empty variant for decoding.
	New func() domain.Section
}

// Registry manages the available section variants.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a variant to the registry. Duplicate types return an error.
func (r *Registry) Register(e Entry) error {
	if e.Type == "" {
		return fmt.Errorf("registry: section type is required")
	}
	if e.Schema == nil || e.New == nil {
		return fmt.Errorf("registry: section %q needs a schema and a constructor", e.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[e.Type]; exists {
		return fmt.Errorf("registry: section %q already registered", e.Type)
	}
	r.entries[e.Type] = e
	r.order = append(r.order, e.Type)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered for sectionType.
func (r *Registry) Lookup(sectionType string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[sectionType]
	return e, ok
}

// IsValidType reports whether sectionType is registered.
func (r *Registry) IsValidType(sectionType string) bool {
	_, ok := r.Lookup(sectionType)
	return ok
}

// Types lists registered section types in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve implements schema.Resolver.
func (r *Registry) Resolve(tag string) (schema.Type, bool) {
	e, ok := r.Lookup(tag)
	if !ok {
		return nil, false
	}
	return e.Schema, true
}

// Tags implements schema.Resolver.
func (r *Registry) Tags() []string {
	return r.Types()
}

// Decode turns a parsed (already validated) section map into its typed variant.
func (r *Registry) Decode(parsed map[string]any) (domain.Section, error) {
	sectionType, _ := parsed["type"].(string)
	e, ok := r.Lookup(sectionType)
	if !ok {
		return nil, fmt.Errorf("registry: unknown section type %q", sectionType)
	}

	section := e.New()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  section,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("registry: decoder for %q: %w", sectionType, err)
	}
	if err := decoder.Decode(parsed); err != nil {
		return nil, fmt.Errorf("registry: decode %q section: %w", sectionType, err)
	}
	return section, nil
}
