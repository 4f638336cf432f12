// Package hash provides the xxHash64 key derivation used by book.Registry to
// index per-instrument order books.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
