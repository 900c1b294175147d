package convert

import (
	"sort"
	"sync"

	"redoc/format"
)

// Factory constructs a converter. Factories run at most once per format id;
// the resulting instance is cached and shared across calls, so converters
// must stay stateless per call.
type Factory func() Converter

// Registry maps format identifiers to converter factories. Registration is
// last-write-wins, which lets callers override a built-in converter with
// their own implementation. Resolution is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[format.ID]Factory
	cache     map[format.ID]Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[format.ID]Factory),
		cache:     make(map[format.ID]Converter),
	}
}

// Register records a factory for a format id, silently overwriting any
// previous registration and dropping its cached instance.
func (r *Registry) Register(id string, factory Factory) {
	key := format.Normalize(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = factory
	delete(r.cache, key)
}

// Resolve returns the converter for a format id, constructing it lazily on
// first lookup. Unknown identifiers fail with UnsupportedFormatError.
func (r *Registry) Resolve(id string) (Converter, error) {
	key := format.Normalize(id)

	r.mu.RLock()
	if conv, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return conv, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.cache[key]; ok {
		return conv, nil
	}
	factory, ok := r.factories[key]
	if !ok {
		return nil, &UnsupportedFormatError{Format: key}
	}
	conv := factory()
	r.cache[key] = conv
	return conv, nil
}

// Formats lists the registered format identifiers in sorted order.
func (r *Registry) Formats() []format.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]format.ID, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RegisterBuiltins registers every built-in converter on the registry.
func RegisterBuiltins(r *Registry, deps Deps) {
	r.Register("pdf", func() Converter { return NewPDFConverter(deps) })
	r.Register("html", func() Converter { return NewHTMLConverter(deps) })
	r.Register("docx", func() Converter { return NewDocxConverter(deps) })
	r.Register("epub", func() Converter { return NewEpubConverter(deps) })
	r.Register("json", func() Converter { return NewJSONConverter(deps) })
	r.Register("xml", func() Converter { return NewXMLConverter(deps) })
}
