package cmap

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/spaolacci/murmur3"
)

// Integer is the set of integer key types accepted by IntHasher.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// comparableHasher hashes any comparable key with a fixed seed.
func comparableHasher[K comparable](seed maphash.Seed) func(K) uint64 {
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// StringHasher hashes a string key with MurmurHash3.
func StringHasher(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}

// Uint64Hasher hashes the little-endian encoding of key with MurmurHash3.
func Uint64Hasher(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return murmur3.Sum64(buf[:])
}

// IntHasher hashes an integer key with MurmurHash3.
//
//	m := cmap.NewWithOptions(cmap.Options[int64, string]{Hasher: cmap.IntHasher[int64]})
func IntHasher[K Integer](key K) uint64 {
	return Uint64Hasher(uint64(key))
}
