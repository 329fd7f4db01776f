package smt

import "github.com/merkledb/smt/kv"

// Option configures a Reader (or the Writer that embeds one) at
// construction.
type Option func(*Reader)

// WithRecorder attaches rec to the handle being constructed, so that every
// node fetch that falls through to the backing store is captured.
func WithRecorder(rec *Recorder) Option {
	return func(r *Reader) {
		r.nodes.recorder = rec
	}
}

// Reader is an immutable view over a sparse Merkle tree rooted at a fixed
// hash: lookups, leaf retrieval, and proof generation.
//
// Reader is not safe for concurrent use; the backing store it reads through
// may be shared across handles provided it synchronizes itself.
type Reader struct {
	store   kv.Store
	hasher  Hasher
	depth   int // in bits
	hashLen int
	null    []Hash
	nodes   *storage
	rootVal Hash
}

func newHandle(store kv.Store, hasher Hasher, root Hash, depthBits int, opts ...Option) (*Reader, error) {
	if err := checkDepth(depthBits); err != nil {
		return nil, err
	}
	r := &Reader{
		store:   store,
		hasher:  hasher,
		depth:   depthBits,
		hashLen: hasher.Size(),
		null:    computeNullHashes(hasher, depthBits),
		rootVal: root,
	}
	r.nodes = newStorage(hasher, store, r.hashLen)
	for _, opt := range opts {
		opt(r)
	}
	if !hashEqual(root, r.null[0]) {
		if _, err := r.nodes.load(root); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewReader constructs an immutable reader over the tree rooted at root.
// The null root (EmptyRoot for this hasher/depth) is accepted as "empty
// tree"; any other root must already be resolvable in store, or
// construction fails.
func NewReader(store kv.Store, hasher Hasher, root Hash, depthBits int, opts ...Option) (*Reader, error) {
	return newHandle(store, hasher, root, depthBits, opts...)
}

// Depth reports the tree's configured depth, in bits.
func (r *Reader) Depth() int { return r.depth }

// Root reports the root this handle currently observes.
func (r *Reader) Root() Hash { return r.rootVal }

func (r *Reader) checkKey(key []byte) error {
	if len(key) != r.depth/8 {
		return &InvalidKeyLengthError{Want: r.depth / 8, Got: len(key)}
	}
	return nil
}

// Value walks the root-to-leaf path for key and returns its stored value,
// or (nil, nil) if key has never been inserted (or was removed).
func (r *Reader) Value(key []byte) ([]byte, error) {
	if err := r.checkKey(key); err != nil {
		return nil, err
	}
	h := r.rootVal
	for k := 0; k < r.depth; k++ {
		if hashEqual(h, r.null[k]) {
			return nil, nil
		}
		n, err := r.nodes.load(h)
		if err != nil {
			return nil, err
		}
		if n.kind != kindInner {
			return nil, &UnexpectedNodeTypeError{Hash: h, Want: "inner", Got: n.kind.String()}
		}
		if keyBit(key, k) == 0 {
			h = n.left
		} else {
			h = n.right
		}
	}
	if hashEqual(h, r.null[r.depth]) {
		return nil, nil
	}
	n, err := r.nodes.load(h)
	if err != nil {
		return nil, err
	}
	if n.kind != kindValue {
		return nil, &UnexpectedNodeTypeError{Hash: h, Want: "value", Got: n.kind.String()}
	}
	return n.value, nil
}

// Leaf walks the same path as Value but stops one step earlier, returning
// the terminal leaf hash (or nil if it is the null hash at depth D).
func (r *Reader) Leaf(key []byte) (Hash, error) {
	if err := r.checkKey(key); err != nil {
		return nil, err
	}
	h := r.rootVal
	for k := 0; k < r.depth; k++ {
		if hashEqual(h, r.null[k]) {
			return nil, nil
		}
		n, err := r.nodes.load(h)
		if err != nil {
			return nil, err
		}
		if n.kind != kindInner {
			return nil, &UnexpectedNodeTypeError{Hash: h, Want: "inner", Got: n.kind.String()}
		}
		if keyBit(key, k) == 0 {
			h = n.left
		} else {
			h = n.right
		}
	}
	if hashEqual(h, r.null[r.depth]) {
		return nil, nil
	}
	return h, nil
}

// Proof walks the root-to-leaf path for key, collecting the sibling not
// descended into at each level. The result always has exactly Depth
// siblings; if key is present its value is attached and Found is true. If
// key is absent, the remaining siblings from the point of divergence
// downward are filled in from the null-hash cache.
func (r *Reader) Proof(key []byte) (*Proof, error) {
	if err := r.checkKey(key); err != nil {
		return nil, err
	}
	siblings := make([]Hash, r.depth)
	h := r.rootVal
	for k := 0; k < r.depth; k++ {
		if hashEqual(h, r.null[k]) {
			for kk := k; kk < r.depth; kk++ {
				siblings[kk] = r.null[kk+1]
			}
			return &Proof{Siblings: siblings}, nil
		}
		n, err := r.nodes.load(h)
		if err != nil {
			return nil, err
		}
		if n.kind != kindInner {
			return nil, &UnexpectedNodeTypeError{Hash: h, Want: "inner", Got: n.kind.String()}
		}
		if keyBit(key, k) == 0 {
			siblings[k] = n.right
			h = n.left
		} else {
			siblings[k] = n.left
			h = n.right
		}
	}
	if hashEqual(h, r.null[r.depth]) {
		return &Proof{Siblings: siblings}, nil
	}
	n, err := r.nodes.load(h)
	if err != nil {
		return nil, err
	}
	if n.kind != kindValue {
		return nil, &UnexpectedNodeTypeError{Hash: h, Want: "value", Got: n.kind.String()}
	}
	return &Proof{Siblings: siblings, Value: n.value, Found: true}, nil
}
