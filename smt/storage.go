package smt

import "github.com/merkledb/smt/kv"

// cacheEntry is the bookkeeping storage keeps per hash. delta is the net
// refcount change staged since the last commit: every stageInsert of this
// content adds one, every stageRemove subtracts one. A node referenced
// twice by the tree (two leaves holding the same bytes, or two identical
// subtrees) therefore commits two backing-store insertions, keeping the
// store's refcount equal to the number of live edges.
type cacheEntry struct {
	node    node
	hasNode bool // content known, from a load or a stageInsert
	delta   int
}

// storage is the in-process node cache: fetched and pending-write nodes
// keyed by hash. It never touches the backing store except via load
// (reads) and via drainPending at commit time.
type storage struct {
	hasher   Hasher
	store    kv.Store
	hashLen  int
	recorder *Recorder
	cache    map[string]*cacheEntry
	order    []string // order in which entries went dirty, for deterministic commit
}

func newStorage(hasher Hasher, store kv.Store, hashLen int) *storage {
	return &storage{
		hasher:  hasher,
		store:   store,
		hashLen: hashLen,
		cache:   make(map[string]*cacheEntry),
	}
}

// load returns the node stored under h, consulting the cache first and
// falling back to the backing store on a miss. A miss that also misses the
// backing store fails with NodeNotFoundError. A backing-store hit is
// decoded, cached, and reported to the attached Recorder (if any).
func (s *storage) load(h Hash) (node, error) {
	key := string(h)
	if e, ok := s.cache[key]; ok && e.hasNode {
		return e.node, nil
	}
	raw, ok, err := s.store.Get(h)
	if err != nil {
		return node{}, err
	}
	if !ok {
		return node{}, &NodeNotFoundError{Hash: h}
	}
	n, err := decodeNode(h, raw, s.hashLen)
	if err != nil {
		return node{}, err
	}
	e, ok := s.cache[key]
	if !ok {
		e = &cacheEntry{}
		s.cache[key] = e
	}
	e.node = n
	e.hasNode = true
	if s.recorder != nil {
		s.recorder.record(h, raw)
	}
	return n, nil
}

// stageInsert encodes n, computes its hash, and stages one insertion of it.
// Staging an insert for content with a pending removal cancels the removal
// out; the pair nets to no backing-store traffic.
func (s *storage) stageInsert(n node) Hash {
	encoded := encodeNode(n)
	hash := Hash(s.hasher.Hash(encoded))
	key := string(hash)
	e, ok := s.cache[key]
	if !ok {
		e = &cacheEntry{}
		s.cache[key] = e
	}
	e.node = n
	e.hasNode = true
	if e.delta == 0 {
		s.order = append(s.order, key)
	}
	e.delta++
	return hash
}

// stageRemove stages one removal of h, cancelling a pending insertion of
// the same content if there is one.
func (s *storage) stageRemove(h Hash) {
	key := string(h)
	e, ok := s.cache[key]
	if !ok {
		e = &cacheEntry{}
		s.cache[key] = e
	}
	if e.delta == 0 {
		s.order = append(s.order, key)
	}
	e.delta--
}

// pendingSet is the net insertions and net removals drainPending yields
// for commit. An entry with a staged delta of +n or -n appears n times, so
// the commit loop's one-call-per-element shape adjusts the backing store's
// refcount by exactly the number of edges gained or lost.
type pendingSet struct {
	inserted [][]byte
	removed  []Hash
}

func (s *storage) drainPending() pendingSet {
	var p pendingSet
	seen := make(map[string]bool, len(s.order))
	for _, key := range s.order {
		if seen[key] {
			continue
		}
		seen[key] = true
		e, ok := s.cache[key]
		if !ok || e.delta == 0 {
			continue
		}
		if e.delta > 0 {
			encoded := encodeNode(e.node)
			for i := 0; i < e.delta; i++ {
				p.inserted = append(p.inserted, encoded)
			}
		} else {
			for i := 0; i < -e.delta; i++ {
				p.removed = append(p.removed, Hash(key))
			}
		}
	}
	return p
}

// resetPending runs after a successful commit: entries whose content went
// into the store stay cached with a zeroed delta rather than being
// evicted, so subsequent operations on the same handle don't refetch
// ancestors they just wrote. Net-removed entries are dropped, since the
// store may have evicted them; a later read re-resolves through the store.
func (s *storage) resetPending() {
	for key, e := range s.cache {
		if e.delta < 0 {
			delete(s.cache, key)
			continue
		}
		e.delta = 0
	}
	s.order = nil
}
