package smt

// Recorder is an append-only observer of every node fetch that falls
// through to the backing store while it's attached to a Reader. Captured
// entries are keyed by content hash and deduplicated, ready to be drained
// into a StorageProof.
//
// A Recorder is not internally synchronized: attach it to one handle at a
// time, or serialize the handles sharing it.
type Recorder struct {
	order   []string
	entries map[string][]byte
}

// NewRecorder returns an empty Recorder ready to attach to a Reader via
// WithRecorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make(map[string][]byte)}
}

// record captures a backing-store fetch. Duplicate hashes are
// deduplicated: only the first observed encoding is kept.
func (r *Recorder) record(h Hash, encoded []byte) {
	key := string(h)
	if _, ok := r.entries[key]; ok {
		return
	}
	cp := make([]byte, len(encoded))
	copy(cp, encoded)
	r.entries[key] = cp
	r.order = append(r.order, key)
}

// DrainStorageProof atomically consumes the recorder's captured nodes into
// a StorageProof and resets the recorder for reuse.
func (r *Recorder) DrainStorageProof() *StorageProof {
	entries := make([][]byte, len(r.order))
	for i, key := range r.order {
		entries[i] = r.entries[key]
	}
	r.Reset()
	return &StorageProof{Entries: entries}
}

// Reset clears everything the recorder has captured so far.
func (r *Recorder) Reset() {
	r.order = nil
	r.entries = make(map[string][]byte)
}
