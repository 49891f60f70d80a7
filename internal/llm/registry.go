package llm

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry caches constructed provider clients keyed by provider and
// model. Construction is guarded by singleflight so two concurrent
// requests selecting the same previously-unused model share one client
// instead of racing two divergent ones.
//
// The registry is process-scoped and dependency-injected, never a
// package global.
type Registry struct {
	mu         sync.RWMutex
	group      singleflight.Group
	generators map[string]Generator
	embedders  map[string]Embedder
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		embedders:  make(map[string]Embedder),
	}
}

// RegisterGenerator installs a pre-built generator under a provider/model
// key, bypassing the factory. Used for custom providers and tests.
func (r *Registry) RegisterGenerator(provider, model string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[fmt.Sprintf("gen:%s:%s", provider, model)] = g
}

// RegisterEmbedder installs a pre-built embedder under a provider/model
// key, bypassing the factory.
func (r *Registry) RegisterEmbedder(provider, model string, e Embedder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embedders[fmt.Sprintf("emb:%s:%s", provider, model)] = e
}

// Generator returns the cached generator for the config, constructing it
// on first use.
func (r *Registry) Generator(config Config) (Generator, error) {
	key := fmt.Sprintf("gen:%s:%s", config.Provider, config.Model)

	r.mu.RLock()
	g, ok := r.generators[key]
	r.mu.RUnlock()
	if ok {
		return g, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		g, err := NewGenerator(config)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.generators[key] = g
		r.mu.Unlock()
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Generator), nil
}

// Embedder returns the cached embedder for the config, constructing it
// on first use.
func (r *Registry) Embedder(config Config) (Embedder, error) {
	key := fmt.Sprintf("emb:%s:%s", config.Provider, config.Model)

	r.mu.RLock()
	e, ok := r.embedders[key]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		e, err := NewEmbedder(config)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.embedders[key] = e
		r.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Embedder), nil
}
