package provider

import (
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Registry holds the set of active providers. Register is idempotent on name -
// registering a provider with an existing name replaces it. Safe for
// concurrent use.
type Registry struct {
	mutex     sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: map[string]Provider{},
	}
}

func (r *Registry) Register(provider Provider) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.providers[provider.Name()] = provider

	log.Debug().Str("name", provider.Name()).Msg("Registering new Provider")
}

func (r *Registry) Unregister(name string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.providers[name]; !exists {
		return false
	}

	delete(r.providers, name)

	log.Debug().Str("name", name).Msg("Unregistered Provider")

	return true
}

func (r *Registry) Get(name string) Provider {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.providers[name]
}

// All returns every registered provider sorted by name so callers iterate in
// a stable order
func (r *Registry) All() []Provider {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	providers := make([]Provider, 0, len(r.providers))
	for _, provider := range r.providers {
		providers = append(providers, provider)
	}

	slices.SortFunc(providers, func(a Provider, b Provider) int {
		if a.Name() < b.Name() {
			return -1
		} else if a.Name() > b.Name() {
			return 1
		}
		return 0
	})

	return providers
}

// WithCapability does a linear filter over the registered providers. Provider
// counts are tens not thousands so there is no point indexing this.
func (r *Registry) WithCapability(capability Capability) []Provider {
	var matching []Provider

	for _, provider := range r.All() {
		if provider.Capabilities().Has(capability) {
			matching = append(matching, provider)
		}
	}

	return matching
}
