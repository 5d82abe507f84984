package cmap

import "sync"

// growStep is the number of entries added to a full bucket.
const growStep = 2

type entry[K comparable, V any] struct {
	key K
	val *V
}

// bucket is one shard: an unordered slice of entries.
type bucket[K comparable, V any] struct {
	mu      sync.RWMutex
	entries []entry[K, V]
}

// find returns the position of key or -1. Caller holds mu.
func (b *bucket[K, V]) find(key K) int {
	for i := range b.entries {
		if b.entries[i].key == key {
			return i
		}
	}
	return -1
}

// add appends an entry, growing the capacity linearly. Caller holds mu
// exclusively and has checked that key is absent.
func (b *bucket[K, V]) add(key K, val *V) {
	if len(b.entries) == cap(b.entries) {
		grown := make([]entry[K, V], len(b.entries), cap(b.entries)+growStep)
		copy(grown, b.entries)
		b.entries = grown
	}
	b.entries = append(b.entries, entry[K, V]{key: key, val: val})
}

// remove deletes the entry at i by moving the last entry into its place
// and returns the removed value. Caller holds mu exclusively.
func (b *bucket[K, V]) remove(i int) *V {
	last := len(b.entries) - 1
	val := b.entries[i].val
	b.entries[i] = b.entries[last]
	b.entries[last] = entry[K, V]{}
	b.entries = b.entries[:last]
	return val
}

// reset drops every entry and returns the values. Caller holds mu
// exclusively.
func (b *bucket[K, V]) reset() []*V {
	vals := make([]*V, len(b.entries))
	for i := range b.entries {
		vals[i] = b.entries[i].val
	}
	b.entries = nil
	return vals
}
