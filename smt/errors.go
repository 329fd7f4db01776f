package smt

import "fmt"

// InvalidKeyLengthError reports a key whose byte length doesn't match the
// tree's configured depth.
type InvalidKeyLengthError struct {
	Want, Got int
}

func (e *InvalidKeyLengthError) Error() string {
	return fmt.Sprintf("smt: invalid key length: want %d bytes, got %d", e.Want, e.Got)
}

// NodeNotFoundError reports a non-null node the backing store could not
// supply; the tree is inconsistent with the provided root, or a
// storage-proof is incomplete.
type NodeNotFoundError struct {
	Hash Hash
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("smt: node %s not found", e.Hash)
}

// CorruptedNodeError reports encoded bytes that failed to decode as a node.
type CorruptedNodeError struct {
	Hash Hash
	Err  error
}

func (e *CorruptedNodeError) Error() string {
	return fmt.Sprintf("smt: node %s corrupted: %v", e.Hash, e.Err)
}

func (e *CorruptedNodeError) Unwrap() error { return e.Err }

// UnexpectedNodeTypeError reports a structurally wrong node type found at
// a given depth (a leaf where an inner node was expected, or vice versa).
type UnexpectedNodeTypeError struct {
	Hash      Hash
	Want, Got string
}

func (e *UnexpectedNodeTypeError) Error() string {
	return fmt.Sprintf("smt: node %s: want %s, got %s", e.Hash, e.Want, e.Got)
}

// IncompatibleDepthError reports a construction-time depth parameter that
// the implementation disallows (zero, not a multiple of 8 bits, or beyond
// a wrapper's own width cap).
type IncompatibleDepthError struct {
	Depth int
}

func (e *IncompatibleDepthError) Error() string {
	return fmt.Sprintf("smt: incompatible depth %d", e.Depth)
}
