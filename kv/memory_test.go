package kv_test

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/sha3"

	"github.com/merkledb/smt/kv"
)

type testHasher struct{}

func (testHasher) Hash(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}
func (testHasher) Size() int { return 32 }
func (testHasher) NullHash() []byte { sum := sha3.Sum256(nil); return sum[:] }

func TestMemoryInsertGetRemove(t *testing.T) {
	m := kv.NewMemory(testHasher{})

	h, err := m.Insert([]byte("hello"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok, err := m.Get(h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("get(%x) = (%q, %v), want (%q, true)", h, got, ok, "hello")
	}

	if err := m.Remove(h); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, ok, err = m.Get(h)
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if ok {
		t.Fatalf("get(%x) after remove = found, want absent", h)
	}
}

func TestMemoryRefcounting(t *testing.T) {
	m := kv.NewMemory(testHasher{})

	h1, _ := m.Insert([]byte("shared"))
	h2, _ := m.Insert([]byte("shared"))
	if !bytes.Equal(h1, h2) {
		t.Fatalf("inserting identical content yielded different hashes")
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after two inserts of the same content", m.Len())
	}

	if err := m.Remove(h1); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(h1); !ok {
		t.Fatal("entry evicted after only one of two references removed")
	}
	if err := m.Remove(h2); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(h1); ok {
		t.Fatal("entry survived after both references removed")
	}
}

func TestMemorySentinelNeverStored(t *testing.T) {
	h := testHasher{}
	m := kv.NewMemory(h)

	// Inserting the empty byte string hashes to the sentinel and must be a
	// permanent no-op.
	hash, err := m.Insert(nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Fatalf("Len() = %d after inserting the null sentinel, want 0", m.Len())
	}
	if _, ok, _ := m.Get(hash); ok {
		t.Fatal("sentinel hash reported as stored")
	}
	if ok, _ := m.Contains(hash); ok {
		t.Fatal("sentinel hash reported as contained")
	}
}
