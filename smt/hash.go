package smt

import (
	"bytes"
	"encoding/hex"
)

// Hash is an opaque, hasher-defined node identifier. Unlike a fixed-width
// [32]byte it is sized at runtime, since depths and hashers vary across
// trees opened with this package.
type Hash []byte

// Equal reports whether h and o name the same hash.
func (h Hash) Equal(o Hash) bool {
	return bytes.Equal(h, o)
}

// String renders h as a hex string, for logging and test failures.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// Clone returns an independent copy of h.
func (h Hash) Clone() Hash {
	out := make(Hash, len(h))
	copy(out, h)
	return out
}

func hashEqual(a, b Hash) bool {
	return bytes.Equal(a, b)
}
