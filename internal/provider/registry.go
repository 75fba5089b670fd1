// Package provider implements metadata providers for resolving movie titles.
package provider

import (
	"net/http"
	"sort"
	"sync"

	"github.com/mydehq/plexify/internal/types"
)

// Factory builds a provider from API settings. A nil client means a default one.
type Factory func(cfg types.APIConfig, client *http.Client) (types.Provider, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// RegisterProvider adds a provider factory to the registry
func RegisterProvider(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// New builds the provider registered as name
func New(name string, cfg types.APIConfig, client *http.Client) (types.Provider, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, types.ErrProviderNotFound{Name: name}
	}
	return f(cfg, client)
}

// ListProviders returns all registered provider names, sorted
func ListProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
