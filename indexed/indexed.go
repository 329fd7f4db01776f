// Package indexed wraps package smt behind a uint64 index instead of a raw
// byte key. It performs no tree logic of its own: every operation
// big-endian-encodes the index into depthBytes bytes and delegates to the
// wrapped smt.Reader/smt.Writer.
package indexed

import (
	"encoding/binary"

	"github.com/merkledb/smt/kv"
	"github.com/merkledb/smt/smt"
)

func depthBytesToBits(depthBytes int) (int, error) {
	if depthBytes <= 0 || depthBytes > 8 {
		return 0, &smt.IncompatibleDepthError{Depth: depthBytes}
	}
	return depthBytes * 8, nil
}

func encodeIndex(index uint64, depthBytes int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], index)
	return buf[8-depthBytes:]
}

// Reader is an immutable, index-addressed view over a sparse Merkle tree
// capped at 64 bits (the width of the integer index).
type Reader struct {
	tree       *smt.Reader
	depthBytes int
}

// OpenReader constructs an index-addressed reader. depthBytes must be in
// [1, 8]; anything else fails with IncompatibleDepthError.
func OpenReader(store kv.Store, hasher smt.Hasher, root smt.Hash, depthBytes int, opts ...smt.Option) (*Reader, error) {
	bits, err := depthBytesToBits(depthBytes)
	if err != nil {
		return nil, err
	}
	tree, err := smt.NewReader(store, hasher, root, bits, opts...)
	if err != nil {
		return nil, err
	}
	return &Reader{tree: tree, depthBytes: depthBytes}, nil
}

func (r *Reader) Value(index uint64) ([]byte, error) {
	return r.tree.Value(encodeIndex(index, r.depthBytes))
}

func (r *Reader) Leaf(index uint64) (smt.Hash, error) {
	return r.tree.Leaf(encodeIndex(index, r.depthBytes))
}

func (r *Reader) Proof(index uint64) (*smt.Proof, error) {
	return r.tree.Proof(encodeIndex(index, r.depthBytes))
}

// Root reports the root this handle currently observes.
func (r *Reader) Root() smt.Hash { return r.tree.Root() }

// Writer is a mutable, index-addressed view over a sparse Merkle tree
// capped at 64 bits.
type Writer struct {
	tree       *smt.Writer
	depthBytes int
}

// OpenWriter constructs an index-addressed writer. depthBytes must be in
// [1, 8]; anything else fails with IncompatibleDepthError.
func OpenWriter(store kv.Store, hasher smt.Hasher, root *smt.Hash, depthBytes int, opts ...smt.Option) (*Writer, error) {
	bits, err := depthBytesToBits(depthBytes)
	if err != nil {
		return nil, err
	}
	tree, err := smt.NewWriter(store, hasher, root, bits, opts...)
	if err != nil {
		return nil, err
	}
	return &Writer{tree: tree, depthBytes: depthBytes}, nil
}

func (w *Writer) Value(index uint64) ([]byte, error) {
	return w.tree.Value(encodeIndex(index, w.depthBytes))
}

func (w *Writer) Leaf(index uint64) (smt.Hash, error) {
	return w.tree.Leaf(encodeIndex(index, w.depthBytes))
}

func (w *Writer) Proof(index uint64) (*smt.Proof, error) {
	return w.tree.Proof(encodeIndex(index, w.depthBytes))
}

// Root reports the root this handle currently observes.
func (w *Writer) Root() smt.Hash { return w.tree.Root() }

// Insert stores value under index, returning the value previously stored
// there (nil if index was absent).
func (w *Writer) Insert(index uint64, value []byte) ([]byte, error) {
	return w.tree.Insert(encodeIndex(index, w.depthBytes), value)
}

// Remove deletes index, returning its prior value.
func (w *Writer) Remove(index uint64) ([]byte, error) {
	return w.tree.Remove(encodeIndex(index, w.depthBytes))
}

// Commit flushes staged insertions and removals to the backing store.
func (w *Writer) Commit() error {
	return w.tree.Commit()
}
