package kv_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/merkledb/smt/kv"
)

func openTestLevelDB(t *testing.T) *kv.LevelDB {
	t.Helper()
	dir := t.TempDir()
	db, err := kv.OpenLevelDB(filepath.Join(dir, "db"), testHasher{})
	if err != nil {
		t.Fatalf("OpenLevelDB: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return db
}

func TestLevelDBInsertGetRemove(t *testing.T) {
	db := openTestLevelDB(t)

	h, err := db.Insert([]byte("hello"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok, err := db.Get(h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("get(%x) = (%q, %v), want (%q, true)", h, got, ok, "hello")
	}
	if ok, err := db.Contains(h); err != nil || !ok {
		t.Fatalf("contains(%x) = (%v, %v), want (true, nil)", h, ok, err)
	}

	if err := db.Remove(h); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, err := db.Get(h); err != nil || ok {
		t.Fatalf("get after remove = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func TestLevelDBRefcounting(t *testing.T) {
	db := openTestLevelDB(t)

	h1, err := db.Insert([]byte("shared"))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := db.Insert([]byte("shared"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(h1, h2) {
		t.Fatal("inserting identical content yielded different hashes")
	}

	if err := db.Remove(h1); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := db.Get(h1); err != nil || !ok {
		t.Fatalf("entry evicted after only one of two references removed: ok=%v err=%v", ok, err)
	}
	if err := db.Remove(h2); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := db.Get(h1); err != nil || ok {
		t.Fatalf("entry survived after both references removed: ok=%v err=%v", ok, err)
	}
}

func TestLevelDBSentinelNeverStored(t *testing.T) {
	db := openTestLevelDB(t)

	hash, err := db.Insert(nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := db.Contains(hash); err != nil || ok {
		t.Fatalf("sentinel hash reported as contained: ok=%v err=%v", ok, err)
	}
}
