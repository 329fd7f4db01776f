package kv

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
)

var refPrefix = []byte("r:")

func refKey(h []byte) []byte {
	buf := make([]byte, len(refPrefix)+len(h))
	copy(buf, refPrefix)
	copy(buf[len(refPrefix):], h)
	return buf
}

// LevelDB is a durable, reference-counted Store backed by
// github.com/syndtr/goleveldb. Each stored hash occupies two keys: the
// encoded node bytes under the hash itself, and an 8-byte big-endian
// refcount under a "r:"-prefixed sibling key; the pair is always written
// or removed together in one leveldb.Batch.
//
// LevelDB guards its own mutex, so a single store can be shared across
// tree handles without the caller doing anything extra.
type LevelDB struct {
	mu     sync.Mutex
	hasher Hasher
	db     *leveldb.DB
}

// OpenLevelDB opens (creating if necessary) a goleveldb database at path
// as a Store hashing with h.
func OpenLevelDB(path string, h Hasher) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{hasher: h, db: db}, nil
}

func (l *LevelDB) isSentinel(h []byte) bool {
	return bytesEqual(h, l.hasher.NullHash())
}

func (l *LevelDB) readRefs(h []byte) (uint64, error) {
	v, err := l.db.Get(refKey(h), nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

func (l *LevelDB) Get(h []byte) ([]byte, bool, error) {
	if l.isSentinel(h) {
		return nil, false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	v, err := l.db.Get(h, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (l *LevelDB) Insert(value []byte) ([]byte, error) {
	hash := l.hasher.Hash(value)
	if l.isSentinel(hash) {
		return hash, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	refs, err := l.readRefs(hash)
	if err != nil {
		return nil, err
	}

	batch := new(leveldb.Batch)
	if refs == 0 {
		batch.Put(hash, value)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], refs+1)
	batch.Put(refKey(hash), buf[:])
	if err := l.db.Write(batch, nil); err != nil {
		return nil, err
	}
	return hash, nil
}

func (l *LevelDB) Remove(h []byte) error {
	if l.isSentinel(h) {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	refs, err := l.readRefs(h)
	if err != nil {
		return err
	}
	if refs == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	if refs == 1 {
		batch.Delete(h)
		batch.Delete(refKey(h))
	} else {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], refs-1)
		batch.Put(refKey(h), buf[:])
	}
	return l.db.Write(batch, nil)
}

func (l *LevelDB) Contains(h []byte) (bool, error) {
	if l.isSentinel(h) {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Has(h, nil)
}

// Close releases the underlying goleveldb handle.
func (l *LevelDB) Close() error {
	return l.db.Close()
}
