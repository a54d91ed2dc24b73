// Package arena provides an insertion-ordered slot store keyed by small
// integer handles. Handles are allocated monotonically and never reused.
package arena

// Arena owns values of type V addressed by handles of type K.
type Arena[K ~uint32, V any] struct {
	next  uint32
	items map[K]V
	order []K
}

// New creates an empty arena.
func New[K ~uint32, V any]() *Arena[K, V] {
	return &Arena[K, V]{items: make(map[K]V)}
}

// Insert allocates a fresh handle, lets build construct the value with it, and
// stores the result.
func (a *Arena[K, V]) Insert(build func(K) V) K {
	key := K(a.next)
	a.next++
	a.items[key] = build(key)
	a.order = append(a.order, key)
	return key
}

// Get returns the value stored under key.
func (a *Arena[K, V]) Get(key K) (V, bool) {
	v, ok := a.items[key]
	return v, ok
}

// Contains reports whether key is live.
func (a *Arena[K, V]) Contains(key K) bool {
	_, ok := a.items[key]
	return ok
}

// Remove deletes key and returns the removed value.
func (a *Arena[K, V]) Remove(key K) (V, bool) {
	v, ok := a.items[key]
	if !ok {
		return v, false
	}
	delete(a.items, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return v, true
}

// Len returns the number of live values.
func (a *Arena[K, V]) Len() int {
	return len(a.items)
}

// Keys returns the live handles in insertion order. The slice is a copy.
func (a *Arena[K, V]) Keys() []K {
	keys := make([]K, len(a.order))
	copy(keys, a.order)
	return keys
}
