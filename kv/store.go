// Package kv defines the content-addressed key-value store capability
// consumed by package smt, plus two reference implementations.
package kv

import "errors"

// ErrNotFound is a sentinel for "no entry stored under a hash". The Store
// implementations in this package do not return it: Get reports absence
// through its ok result instead.
var ErrNotFound = errors.New("kv: not found")

// Store is the content-addressed, reference-counted backing store a
// sparse Merkle tree is persisted into. Implementations must be safe for
// concurrent use by multiple readers; a writer must not be used
// concurrently with itself.
//
// Two hashes are never stored by a conforming Store: the caller's null
// sentinel, and any hash a Store implementation recognizes as such. Get
// and Remove on those hashes are no-ops that report "absent".
type Store interface {
	// Get fetches the bytes stored under h. It reports (nil, false, nil)
	// if absent, and a non-nil error only on a genuine backend failure.
	Get(h []byte) (value []byte, ok bool, err error)

	// Insert hashes value with the store's configured Hasher, stores
	// (hash -> value) if not already present, increments that hash's
	// reference count, and returns the hash.
	Insert(value []byte) (hash []byte, err error)

	// Remove decrements the reference count at h. When it reaches zero
	// the entry is dropped. Removing an absent or already-zero hash is a
	// no-op.
	Remove(h []byte) error

	// Contains reports whether h is currently stored.
	Contains(h []byte) (bool, error)
}

// Hasher is the subset of smt.Hasher a Store needs to compute keys for
// Insert. It is duplicated here (rather than imported from package smt) so
// that kv has no dependency on smt.
type Hasher interface {
	Hash(data []byte) []byte
	Size() int
	NullHash() []byte
}
