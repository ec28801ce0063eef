package sparsemap

import (
	"bytes"
	"hash/maphash"
)

// hashSeed is fixed per process so every map built from these helpers hashes
// consistently within one run. Hashes are not stable across runs.
var hashSeed = maphash.MakeSeed()

// Hasher returns a HashFunc for any comparable key type, backed by the
// runtime's maphash.
func Hasher[K comparable]() HashFunc[K] {
	return func(key K) uint64 {
		return maphash.Comparable(hashSeed, key)
	}
}

// Equal returns an EqualFunc using the language == operator.
func Equal[K comparable]() EqualFunc[K] {
	return func(a, b K) bool { return a == b }
}

// BytesHasher returns a HashFunc for []byte keys.
func BytesHasher() HashFunc[[]byte] {
	return func(key []byte) uint64 {
		return maphash.Bytes(hashSeed, key)
	}
}

// BytesEqual returns an EqualFunc for []byte keys.
func BytesEqual() EqualFunc[[]byte] {
	return bytes.Equal
}
