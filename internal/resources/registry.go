// Package resources holds process-wide shared resources such as keyframe
// definitions and resolves asset locations against an injected base URL.
package resources

import (
	"sort"
	"strings"
	"sync"
)

type Registry struct {
	mu    sync.Mutex
	base  string
	items map[string]any
}

func New(assetBaseURL string) *Registry {
	return &Registry{
		base:  strings.TrimRight(assetBaseURL, "/"),
		items: make(map[string]any),
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process registry. It is created on first use and never
// torn down.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New("") })
	return defaultReg
}

// SetAssetBase replaces the asset base URL.
func (r *Registry) SetAssetBase(base string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = strings.TrimRight(base, "/")
}

// Ensure returns the resource registered under id, building it first if
// needed. build runs at most once per id.
func (r *Registry) Ensure(id string, build func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.items[id]; ok {
		return v
	}
	v := build()
	r.items[id] = v
	return v
}

func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

// IDs lists the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Asset resolves name under the assets directory of the base URL.
func (r *Registry) Asset(name string) string {
	r.mu.Lock()
	base := r.base
	r.mu.Unlock()

	name = strings.TrimLeft(name, "/")
	if base == "" {
		return "assets/" + name
	}
	return base + "/assets/" + name
}
