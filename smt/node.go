package smt

import (
	"errors"
	"fmt"
)

// Wire tags for the two materialized node shapes. A Null subtree is never
// materialized and so never encoded; it is represented purely by the
// precomputed null hash at its level (see nullhash.go).
const (
	tagValue byte = 0x00
	tagInner byte = 0x01
)

type nodeKind uint8

const (
	kindValue nodeKind = iota
	kindInner
)

func (k nodeKind) String() string {
	switch k {
	case kindValue:
		return "value"
	case kindInner:
		return "inner"
	default:
		return "unknown"
	}
}

// node is the in-memory representation of a Value or Inner tree node.
type node struct {
	kind  nodeKind
	value []byte
	left  Hash
	right Hash
}

func valueNode(v []byte) node {
	return node{kind: kindValue, value: v}
}

func innerNode(left, right Hash) node {
	return node{kind: kindInner, left: left, right: right}
}

// encodeNode produces the backend value-bytes for n: a tag byte followed
// by the raw payload. Value(bytes) -> 0x00 ‖ bytes. Inner(l, r) -> 0x01 ‖ l
// ‖ r. This is the only place node identity and node storage meet: the
// backing store keys the returned bytes under hash(encoded).
func encodeNode(n node) []byte {
	switch n.kind {
	case kindValue:
		buf := make([]byte, 1+len(n.value))
		buf[0] = tagValue
		copy(buf[1:], n.value)
		return buf
	case kindInner:
		buf := make([]byte, 1+len(n.left)+len(n.right))
		buf[0] = tagInner
		copy(buf[1:], n.left)
		copy(buf[1+len(n.left):], n.right)
		return buf
	default:
		panic(fmt.Sprintf("smt: invalid node kind %d", n.kind))
	}
}

// decodeNode inspects the tag byte of data and reconstructs the node it
// encodes. hashLen is the hasher's fixed digest width, needed to split an
// Inner node's payload into its two child hashes. hash is only used to
// annotate a CorruptedNodeError should decoding fail.
func decodeNode(hash Hash, data []byte, hashLen int) (node, error) {
	if len(data) == 0 {
		return node{}, &CorruptedNodeError{Hash: hash, Err: errors.New("empty node encoding")}
	}
	switch data[0] {
	case tagValue:
		return valueNode(append([]byte(nil), data[1:]...)), nil
	case tagInner:
		if len(data)-1 != 2*hashLen {
			return node{}, &CorruptedNodeError{
				Hash: hash,
				Err:  fmt.Errorf("inner node payload length %d, want %d", len(data)-1, 2*hashLen),
			}
		}
		left := append(Hash(nil), data[1:1+hashLen]...)
		right := append(Hash(nil), data[1+hashLen:]...)
		return innerNode(left, right), nil
	default:
		return node{}, &CorruptedNodeError{Hash: hash, Err: fmt.Errorf("unknown node tag 0x%02x", data[0])}
	}
}
