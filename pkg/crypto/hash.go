// Package crypto provides the key schemes and hash functions used by node records.
package crypto

import (
	"golang.org/x/crypto/sha3"
)

// HashSize is the length of a Keccak-256 digest in bytes.
const HashSize = 32

// Keccak256 computes the legacy Keccak-256 hash of the concatenated inputs.
// This is the pre-standard variant used throughout Ethereum, not SHA3-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Array is Keccak256 returning a fixed-size array.
func Keccak256Array(data ...[]byte) [HashSize]byte {
	var out [HashSize]byte
	copy(out[:], Keccak256(data...))
	return out
}
