package cmap

// Guard holds the write lock of one bucket and a shared hold on the map
// while the caller works with a value obtained from GetLocked.
type Guard[K comparable, V any] struct {
	m      *Map[K, V]
	b      *bucket[K, V]
	key    K
	val    *V
	erased bool
	done   bool
}

// GetLocked returns the value under key with its bucket write-locked.
// The caller must call Unlock on the returned Guard and must not use the
// map until then. When key is absent nothing stays locked and the Guard is
// nil.
func (m *Map[K, V]) GetLocked(key K) (*V, *Guard[K, V], bool) {
	m.global.RLock()
	b := m.bucket(key)
	b.mu.Lock()

	i := b.find(key)
	if i < 0 {
		b.mu.Unlock()
		m.global.RUnlock()
		return nil, nil, false
	}
	g := &Guard[K, V]{m: m, b: b, key: key, val: b.entries[i].val}
	return g.val, g, true
}

// Value returns the guarded value, or nil after Erase.
func (g *Guard[K, V]) Value() *V {
	if g.erased {
		return nil
	}
	return g.val
}

// Erase removes the guarded entry. The bucket stays locked until Unlock,
// which then releases the value.
func (g *Guard[K, V]) Erase() {
	if g.done || g.erased {
		return
	}
	if i := g.b.find(g.key); i >= 0 {
		g.b.remove(i)
		g.m.count.Add(-1)
	}
	g.erased = true
}

// Unlock releases the locks, then the value if it was erased. Calls after
// the first have no effect.
func (g *Guard[K, V]) Unlock() {
	if g == nil || g.done {
		return
	}
	g.done = true
	g.b.mu.Unlock()
	g.m.global.RUnlock()

	if g.erased {
		g.m.release(g.val)
	}
}

// Update runs fn on the value under key with its bucket write-locked.
// It returns false when key is absent. fn must not use the map.
func (m *Map[K, V]) Update(key K, fn func(v *V)) bool {
	v, g, ok := m.GetLocked(key)
	if !ok {
		return false
	}
	defer g.Unlock()
	fn(v)
	return true
}

// Range calls fn for every entry until fn returns false. Buckets are
// read-locked one at a time, so the view is not a consistent snapshot.
// fn must not use the map.
func (m *Map[K, V]) Range(fn func(key K, v *V) bool) {
	m.global.RLock()
	defer m.global.RUnlock()

	for _, b := range m.buckets {
		b.mu.RLock()
		for _, e := range b.entries {
			if !fn(e.key, e.val) {
				b.mu.RUnlock()
				return
			}
		}
		b.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(key K, _ *V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns all values. They remain owned by the map.
func (m *Map[K, V]) Values() []*V {
	values := make([]*V, 0, m.Len())
	m.Range(func(_ K, v *V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Item is a key and its value.
type Item[K comparable, V any] struct {
	Key   K
	Value *V
}

// Items returns all entries.
func (m *Map[K, V]) Items() []Item[K, V] {
	items := make([]Item[K, V], 0, m.Len())
	m.Range(func(key K, v *V) bool {
		items = append(items, Item[K, V]{Key: key, Value: v})
		return true
	})
	return items
}
