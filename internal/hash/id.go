// Package hash provides the xxHash64 primitives used to identify and key
// coordinate vectors.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of the given byte slice. Used by
// internal/coordkey to hash the quantized integer image of a coordinate
// vector.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
