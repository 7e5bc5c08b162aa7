// Package dynmap provides a generic chained hash map whose bucket array grows
// under a fixed load factor. It is the storage substrate for the positional
// tokenizer and the inverted index, and has no knowledge of either.
package dynmap

import (
	"hash/maphash"
	"iter"
)

const (
	// DefaultCapacity is the bucket count of a map created with New.
	DefaultCapacity = 32
	// LoadFactor bounds size relative to capacity: size never exceeds
	// floor(capacity * LoadFactor) once a Put returns.
	LoadFactor = 0.75
)

type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// Map is a key/value container that reallocates its buckets to
// 2*size+1 whenever an insertion pushes size past the threshold.
// A Map is not safe for concurrent mutation.
type Map[K comparable, V any] struct {
	buckets   []*entry[K, V]
	threshold int
	size      int
	seed      maphash.Seed
}

// New creates a Map with DefaultCapacity buckets.
func New[K comparable, V any]() *Map[K, V] {
	return NewWithCapacity[K, V](DefaultCapacity)
}

// NewWithCapacity creates a Map with the given initial bucket count.
// Capacities below 1 are raised to 1.
func NewWithCapacity[K comparable, V any](capacity int) *Map[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	m := &Map[K, V]{seed: maphash.MakeSeed()}
	m.allocate(capacity)
	return m
}

// Put associates value with key. It returns the value previously stored
// under key and whether one existed.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	i := m.bucketOf(key)
	for e := m.buckets[i]; e != nil; e = e.next {
		if e.key == key {
			prev := e.value
			e.value = value
			return prev, true
		}
	}
	m.buckets[i] = &entry[K, V]{key: key, value: value, next: m.buckets[i]}
	m.size++
	if m.size > m.threshold {
		m.grow()
	}
	var zero V
	return zero, false
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	for e := m.buckets[m.bucketOf(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove deletes key and returns the value it held. Capacity is never
// reduced.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	i := m.bucketOf(key)
	var prev *entry[K, V]
	for e := m.buckets[i]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				m.buckets[i] = e.next
			} else {
				prev.next = e.next
			}
			m.size--
			return e.value, true
		}
		prev = e
	}
	var zero V
	return zero, false
}

// All yields every key/value pair. Order is unspecified and the map must
// not be mutated while iterating.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, head := range m.buckets {
			for e := head; e != nil; e = e.next {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Keys yields every key in unspecified order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Capacity returns the current bucket count.
func (m *Map[K, V]) Capacity() int {
	return len(m.buckets)
}

// Threshold returns the size above which the next insertion grows the map.
func (m *Map[K, V]) Threshold() int {
	return m.threshold
}

func (m *Map[K, V]) allocate(capacity int) {
	m.buckets = make([]*entry[K, V], capacity)
	m.threshold = int(float64(capacity) * LoadFactor)
}

// grow relinks every entry into a bucket array sized from the current
// element count.
func (m *Map[K, V]) grow() {
	old := m.buckets
	m.allocate(2*m.size + 1)
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			i := m.bucketOf(e.key)
			e.next = m.buckets[i]
			m.buckets[i] = e
			e = next
		}
	}
}

func (m *Map[K, V]) bucketOf(key K) int {
	return int(maphash.Comparable(m.seed, key) % uint64(len(m.buckets)))
}
