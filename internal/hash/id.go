package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 content fingerprint of data, used to give a
// compressed embedding file a short, stable identifier independent of its
// path or modification time.
func ID(data []byte) uint64 {
	return xxhash.Sum64(data)
}
