package smt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/merkledb/smt/kv"
)

// Proof is an inclusion (or absence) proof for one key: exactly depthBits
// sibling hashes, ordered from the root's immediate sibling down to the
// sibling just above the leaf, plus the leaf value when the key was
// present at the time the proof was taken.
type Proof struct {
	Siblings []Hash
	Value    []byte
	Found    bool
}

// keyBit returns bit k of key, read MSB-first: bit 0 of byte 0 selects the
// root's left/right child.
func keyBit(key []byte, k int) int {
	byteIdx := k / 8
	bitIdx := uint(7 - k%8)
	return int((key[byteIdx] >> bitIdx) & 1)
}

// Verify reconstructs a root hash from key, value and proof, walking leaf
// to root, and reports whether it matches root. It needs no tree handle:
// any caller holding a hasher, a depth, and a proof can check it.
//
// A nil value verifies an absence proof: the walk starts from the empty
// leaf instead of a materialized Value node. At each step where both the
// running hash and the sibling are the level's null hash, the parent is
// the next null hash up (the same collapse rule the tree itself applies),
// so fully or partially empty paths rehash to exactly the roots the tree
// produces. An empty-but-non-nil value is a present leaf holding zero
// bytes, not an absence claim.
func Verify(hasher Hasher, depthBits int, key, value []byte, proof *Proof, root Hash) (bool, error) {
	if err := checkDepth(depthBits); err != nil {
		return false, err
	}
	if len(key) != depthBits/8 {
		return false, &InvalidKeyLengthError{Want: depthBits / 8, Got: len(key)}
	}
	if len(proof.Siblings) != depthBits {
		return false, fmt.Errorf("smt: malformed proof: want %d siblings, got %d", depthBits, len(proof.Siblings))
	}

	null := computeNullHashes(hasher, depthBits)
	var h Hash
	if value == nil {
		h = null[depthBits]
	} else {
		h = Hash(hasher.Hash(encodeNode(valueNode(value))))
	}
	for k := depthBits - 1; k >= 0; k-- {
		sib := proof.Siblings[k]
		if hashEqual(h, null[k+1]) && hashEqual(sib, null[k+1]) {
			h = null[k]
			continue
		}
		var n node
		if keyBit(key, k) == 0 {
			n = innerNode(h, sib)
		} else {
			n = innerNode(sib, h)
		}
		h = Hash(hasher.Hash(encodeNode(n)))
	}
	return hashEqual(h, root), nil
}

// StorageProof is a self-contained, serializable bundle of encoded nodes
// that, together with a root, lets a remote party re-execute a specific
// set of point lookups.
type StorageProof struct {
	Entries [][]byte
}

// Marshal serializes p as a big-endian uint32 entry count followed by
// uint32-length-prefixed entries. The format is stable: changing it breaks
// every serialized proof in the wild.
func (p *StorageProof) Marshal() []byte {
	var buf bytes.Buffer
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(p.Entries)))
	buf.Write(word[:])
	for _, e := range p.Entries {
		binary.BigEndian.PutUint32(word[:], uint32(len(e)))
		buf.Write(word[:])
		buf.Write(e)
	}
	return buf.Bytes()
}

// UnmarshalStorageProof parses the format Marshal produces.
func UnmarshalStorageProof(data []byte) (*StorageProof, error) {
	if len(data) < 4 {
		return nil, errors.New("smt: truncated storage proof")
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	entries := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, errors.New("smt: truncated storage proof entry length")
		}
		length := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint64(len(data)) < uint64(length) {
			return nil, errors.New("smt: truncated storage proof entry")
		}
		entries = append(entries, append([]byte(nil), data[:length]...))
		data = data[length:]
	}
	return &StorageProof{Entries: entries}, nil
}

// IntoBackingStore constructs a read-only kv.Store from p's entries, keyed
// by hash(entry), for re-executing recorded reads against the original
// root on a tree rebuilt purely from the proof.
func (p *StorageProof) IntoBackingStore(hasher Hasher) kv.Store {
	s := &proofStore{data: make(map[string][]byte, len(p.Entries))}
	for _, e := range p.Entries {
		h := hasher.Hash(e)
		s.data[string(h)] = e
	}
	return s
}

// proofStore is the read-only store a StorageProof reconstitutes into.
// Writes are refused; lookups for anything outside the bundled entries
// report absent, which the node cache above turns into NodeNotFoundError.
type proofStore struct {
	data map[string][]byte
}

func (s *proofStore) Get(h []byte) ([]byte, bool, error) {
	v, ok := s.data[string(h)]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *proofStore) Insert([]byte) ([]byte, error) {
	return nil, errors.New("smt: storage-proof store is read-only")
}

func (s *proofStore) Remove([]byte) error {
	return errors.New("smt: storage-proof store is read-only")
}

func (s *proofStore) Contains(h []byte) (bool, error) {
	_, ok := s.data[string(h)]
	return ok, nil
}
