// Package cmap provides a sharded concurrent map that owns its values.
//
// The map has a fixed number of shards chosen at construction. Each shard
// is an unordered bucket of (key, *V) entries guarded by its own RWMutex,
// and a global RWMutex separates normal operation (shared) from structural
// operations such as Clear and Snapshot (exclusive).
//
// Features:
//
//   - Ownership: the map owns every inserted *V. Erase and Clear release
//     values through the release hook, or through Release when *V
//     implements Releaser. Pop hands ownership back to the caller.
//   - Locked access: GetLocked returns a value with its bucket write-locked
//     until the Guard is unlocked.
//   - Pluggable hashing: the default hasher is hash/maphash with a per-map
//     seed; StringHasher, Uint64Hasher and IntHasher give a stable
//     MurmurHash3 distribution.
//
// Usage:
//
//	m := cmap.New[int64, string]()
//	v := "hello"
//	m.Insert(5, &v)
//	got, ok := m.Get(5)
//
// Thread Safety:
//
// All operations are safe for concurrent use. A Guard belongs to the
// goroutine that obtained it. While it is held, and inside the callbacks of
// Range, Update and GetOrInsert, the goroutine must not call any method of
// the same map: the shared hold on the global lock is not reentrant, and a
// pending Clear or Snapshot blocks new shared holders.
package cmap
