package smt

import "golang.org/x/crypto/sha3"

// Hasher is the cryptographic capability a tree is opened with. It is
// duplicated, rather than shared, between package smt and package kv (see
// kv.Hasher) so that kv has no import-time dependency on smt; any concrete
// hasher satisfies both by construction.
type Hasher interface {
	// Hash returns the fixed-width digest of data.
	Hash(data []byte) []byte

	// Size reports the fixed digest width, in bytes.
	Size() int

	// NullHash returns the canonical hash of the empty byte string, the
	// sentinel a conforming store never persists.
	NullHash() []byte
}

// SHA3Hasher is the default Hasher, hashing with SHA3-256.
type SHA3Hasher struct{}

// NewSHA3Hasher returns a ready-to-use SHA3-256 Hasher.
func NewSHA3Hasher() *SHA3Hasher {
	return &SHA3Hasher{}
}

func (SHA3Hasher) Hash(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}

func (SHA3Hasher) Size() int { return 32 }

func (h SHA3Hasher) NullHash() []byte {
	return h.Hash(nil)
}
