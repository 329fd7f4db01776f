package indexed_test

import (
	"bytes"
	"testing"

	"github.com/merkledb/smt/indexed"
	"github.com/merkledb/smt/kv"
	"github.com/merkledb/smt/smt"
)

func TestIndexedRoundTrip(t *testing.T) {
	hasher := smt.NewSHA3Hasher()
	store := kv.NewMemory(hasher)
	root, err := smt.EmptyRoot(hasher, 8*4)
	if err != nil {
		t.Fatal(err)
	}
	w, err := indexed.OpenWriter(store, hasher, &root, 4)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}

	entries := map[uint64]string{
		0:          "zero",
		1:          "one",
		1 << 20:    "big",
		0xffffffff: "max",
	}
	for idx, v := range entries {
		if _, err := w.Insert(idx, []byte(v)); err != nil {
			t.Fatalf("insert(%d): %v", idx, err)
		}
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	for idx, v := range entries {
		got, err := w.Value(idx)
		if err != nil {
			t.Fatalf("value(%d): %v", idx, err)
		}
		if string(got) != v {
			t.Fatalf("value(%d) = %q, want %q", idx, got, v)
		}
	}

	proof, err := w.Proof(1)
	if err != nil {
		t.Fatalf("proof: %v", err)
	}
	if len(proof.Siblings) != 32 {
		t.Fatalf("len(proof.Siblings) = %d, want 32", len(proof.Siblings))
	}

	if _, err := w.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := w.Value(1)
	if err != nil {
		t.Fatalf("value(1) after remove: %v", err)
	}
	if got != nil {
		t.Fatalf("value(1) after remove = %q, want nil", got)
	}

	rr, err := indexed.OpenReader(store, hasher, w.Root(), 4)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if !bytes.Equal(rr.Root(), w.Root()) {
		t.Fatalf("reader root = %x, want %x", rr.Root(), w.Root())
	}
	got, err = rr.Value(0)
	if err != nil {
		t.Fatalf("reader value(0): %v", err)
	}
	if string(got) != "zero" {
		t.Fatalf("reader value(0) = %q, want %q", got, "zero")
	}
}

func TestIndexedRejectsDepthOutOfRange(t *testing.T) {
	hasher := smt.NewSHA3Hasher()
	store := kv.NewMemory(hasher)
	root, err := smt.EmptyRoot(hasher, 8)
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range []int{0, -1, 9, 100} {
		r := root
		if _, err := indexed.OpenWriter(store, hasher, &r, d); err == nil {
			t.Fatalf("OpenWriter(depthBytes=%d) succeeded, want IncompatibleDepthError", d)
		}
	}
}
