// Package outcache provides output caches for the evaluator: a plain map
// scoped to one evaluation pass, and a cache retained across passes.
package outcache

import (
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Map is a per-pass cache. The zero value is not usable; use NewMap.
type Map map[ident.OutputID]value.Value

func NewMap() Map { return make(Map) }

func (m Map) Get(id ident.OutputID) (value.Value, bool) {
	v, ok := m[id]
	return v, ok
}

func (m Map) Set(id ident.OutputID, v value.Value) { m[id] = v }

func (m Map) Delete(id ident.OutputID) { delete(m, id) }

func (m Map) Len() int { return len(m) }

// Retained keeps computed outputs between evaluation passes. Entries expire
// after the configured duration; a non-positive expiration keeps them until
// deleted. The caller invalidates entries whose inputs changed.
type Retained struct {
	cache *gocache.Cache
}

// NewRetained creates a retained cache.
func NewRetained(expiration, cleanupInterval time.Duration) *Retained {
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &Retained{cache: gocache.New(expiration, cleanupInterval)}
}

// Get returns the cached value for id.
func (r *Retained) Get(id ident.OutputID) (value.Value, bool) {
	raw, found := r.cache.Get(id.String())
	if !found {
		return value.Value{}, false
	}
	v, ok := raw.(value.Value)
	if !ok {
		slog.Error("Wrong type in output cache.", "output", id)
		return value.Value{}, false
	}
	return v, true
}

// Set stores v under id with the default expiration.
func (r *Retained) Set(id ident.OutputID, v value.Value) {
	r.cache.Set(id.String(), v, gocache.DefaultExpiration)
}

// Delete drops the entries for ids.
func (r *Retained) Delete(ids ...ident.OutputID) {
	for _, id := range ids {
		r.cache.Delete(id.String())
	}
}

// Len is the number of entries, including expired ones not yet cleaned up.
func (r *Retained) Len() int { return r.cache.ItemCount() }
