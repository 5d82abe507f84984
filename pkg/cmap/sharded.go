package cmap

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

// DefaultShardCount is the number of shards used when none is given.
const DefaultShardCount = 8

// Releaser is implemented by values that free resources when the map
// drops them.
type Releaser interface {
	Release()
}

// Options configures a Map.
type Options[K comparable, V any] struct {
	// ShardCount is the fixed number of shards. Defaults to DefaultShardCount.
	ShardCount int

	// Hasher maps a key to a shard. Defaults to hash/maphash with a
	// per-map seed.
	Hasher func(K) uint64

	// Release is called for every value dropped by Erase, Guard.Erase or
	// Clear, always after the map locks are dropped, so it may use the map.
	// Defaults to calling Release on values that implement Releaser.
	Release func(*V)
}

// Map is a sharded concurrent map that owns its values.
// The zero value is not usable; create maps with New, NewWithShards or
// NewWithOptions.
type Map[K comparable, V any] struct {
	global  sync.RWMutex // shared for normal operations, exclusive for structural ones
	buckets []*bucket[K, V]
	hash    func(K) uint64
	release func(*V)
	count   atomic.Int64
}

// New creates a map with the default options.
func New[K comparable, V any]() *Map[K, V] {
	return NewWithOptions(Options[K, V]{})
}

// NewWithShards creates a map with shardCount shards. A non-positive
// count selects DefaultShardCount.
func NewWithShards[K comparable, V any](shardCount int) *Map[K, V] {
	return NewWithOptions(Options[K, V]{ShardCount: shardCount})
}

// NewWithOptions creates a map from opts.
func NewWithOptions[K comparable, V any](opts Options[K, V]) *Map[K, V] {
	if opts.ShardCount <= 0 {
		opts.ShardCount = DefaultShardCount
	}
	if opts.Hasher == nil {
		opts.Hasher = comparableHasher[K](maphash.MakeSeed())
	}
	if opts.Release == nil {
		opts.Release = releaseValue[V]
	}

	m := &Map[K, V]{
		buckets: make([]*bucket[K, V], opts.ShardCount),
		hash:    opts.Hasher,
		release: opts.Release,
	}
	for i := range m.buckets {
		m.buckets[i] = &bucket[K, V]{}
	}
	return m
}

func releaseValue[V any](v *V) {
	if r, ok := any(v).(Releaser); ok {
		r.Release()
	}
}

// bucket returns the shard for key.
func (m *Map[K, V]) bucket(key K) *bucket[K, V] {
	return m.buckets[m.hash(key)%uint64(len(m.buckets))]
}

// Get returns the value stored under key. The value remains owned by the
// map and may be erased by another goroutine once Get returns; use
// GetLocked to keep it stable.
func (m *Map[K, V]) Get(key K) (*V, bool) {
	m.global.RLock()
	defer m.global.RUnlock()

	b := m.bucket(key)
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i := b.find(key); i >= 0 {
		return b.entries[i].val, true
	}
	return nil, false
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Insert stores v under key and takes ownership of it. It returns false,
// leaving v with the caller, when key is already present.
func (m *Map[K, V]) Insert(key K, v *V) bool {
	m.global.RLock()
	defer m.global.RUnlock()

	b := m.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.find(key) >= 0 {
		return false
	}
	b.add(key, v)
	m.count.Add(1)
	return true
}

// GetOrInsert returns the value under key, or inserts and returns the
// value built by create. loaded reports whether the value already existed.
// create runs with the bucket locked and must not use the map.
func (m *Map[K, V]) GetOrInsert(key K, create func() *V) (v *V, loaded bool) {
	m.global.RLock()
	defer m.global.RUnlock()

	b := m.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := b.find(key); i >= 0 {
		return b.entries[i].val, true
	}
	v = create()
	b.add(key, v)
	m.count.Add(1)
	return v, false
}

// Erase removes key and releases its value. It returns false when key is
// absent.
func (m *Map[K, V]) Erase(key K) bool {
	v, ok := m.Pop(key)
	if ok {
		m.release(v)
	}
	return ok
}

// Pop removes key and returns its value without releasing it; ownership
// passes to the caller.
func (m *Map[K, V]) Pop(key K) (*V, bool) {
	m.global.RLock()
	defer m.global.RUnlock()

	b := m.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.find(key)
	if i < 0 {
		return nil, false
	}
	m.count.Add(-1)
	return b.remove(i), true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return int(m.count.Load())
}

// Clear removes and releases every value. It excludes all other
// operations while the buckets are reset.
func (m *Map[K, V]) Clear() {
	var dropped []*V

	m.global.Lock()
	for _, b := range m.buckets {
		dropped = append(dropped, b.reset()...)
	}
	m.count.Store(0)
	m.global.Unlock()

	for _, v := range dropped {
		m.release(v)
	}
}

// Snapshot returns a consistent copy of the key to value mapping. The
// values are still owned by the map.
func (m *Map[K, V]) Snapshot() map[K]*V {
	m.global.Lock()
	defer m.global.Unlock()

	out := make(map[K]*V, m.count.Load())
	for _, b := range m.buckets {
		for _, e := range b.entries {
			out[e.key] = e.val
		}
	}
	return out
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.buckets)
}

// ShardStats describes one shard.
type ShardStats struct {
	Index int `json:"index"`
	Len   int `json:"len"`
	Cap   int `json:"cap"`
}

// Stats returns per-shard statistics.
func (m *Map[K, V]) Stats() []ShardStats {
	m.global.RLock()
	defer m.global.RUnlock()

	stats := make([]ShardStats, len(m.buckets))
	for i, b := range m.buckets {
		b.mu.RLock()
		stats[i] = ShardStats{
			Index: i,
			Len:   len(b.entries),
			Cap:   cap(b.entries),
		}
		b.mu.RUnlock()
	}
	return stats
}
