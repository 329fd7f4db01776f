package smt

// computeNullHashes precomputes the per-level hash of an all-empty subtree,
// null[0..=depthBits]. null[depthBits] is the hash of the empty leaf;
// null[k] is the hash of two null[k+1] siblings concatenated. Unlike a
// materialized Inner node, this concatenation is never routed through the
// node codec's tag byte: a null subtree is never written to the backing
// store, so it needs no wire encoding of its own.
//
// The cache is produced once per (Hasher, depth) pair at tree-handle
// construction and shared read-only by every operation on that handle.
func computeNullHashes(h Hasher, depthBits int) []Hash {
	null := make([]Hash, depthBits+1)
	null[depthBits] = Hash(h.NullHash())
	for k := depthBits - 1; k >= 0; k-- {
		child := null[k+1]
		buf := make([]byte, 0, 2*len(child))
		buf = append(buf, child...)
		buf = append(buf, child...)
		null[k] = Hash(h.Hash(buf))
	}
	return null
}

// EmptyRoot returns the root hash of a freshly constructed, entirely empty
// tree of the given depth under hasher, the null hash at level 0. It's
// the value callers should seed a new tree's externally-held root with.
func EmptyRoot(hasher Hasher, depthBits int) (Hash, error) {
	if err := checkDepth(depthBits); err != nil {
		return nil, err
	}
	null := computeNullHashes(hasher, depthBits)
	return null[0], nil
}

func checkDepth(depthBits int) error {
	if depthBits <= 0 || depthBits%8 != 0 {
		return &IncompatibleDepthError{Depth: depthBits}
	}
	return nil
}
