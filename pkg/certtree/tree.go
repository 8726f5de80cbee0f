// Copyright 2025 Certen Protocol
//
// Certification Tree implementation (§4.3): a labeled Merkle trie keyed by
// expression path. Supports insert, delete, cached root-hash, and witness
// generation whose siblings are pruned to hash-only stubs.
//
// This implementation provides:
// - Arbitrary-branching trie construction keyed by byte-segment labels
// - Insert/delete with garbage collection of emptied interior nodes
// - A lazily-computed, mutation-invalidated root hash
// - Witness generation proving either inclusion or absence at a path
package certtree

import (
	"errors"
	"sort"
	"sync"

	"github.com/certen/asset-certification-router/pkg/hashvalue"
)

// Common errors
var (
	ErrEmptyPath    = errors.New("certtree: path must have at least one segment")
	ErrPathNotLeaf  = errors.New("certtree: path does not terminate in a leaf")
	ErrPathNotFound = errors.New("certtree: no node at path")
)

type nodeKind int

const (
	kindInterior nodeKind = iota
	kindLeaf
	kindPruned
)

// node is the trie's internal representation. Interior nodes hold labeled
// children; leaf nodes hold the committed value hash; pruned nodes hold a
// stand-in hash for an elided subtree and have no children.
type node struct {
	kind     nodeKind
	children map[string]*node
	value    hashvalue.Digest
}

func newInterior() *node {
	return &node{kind: kindInterior, children: map[string]*node{}}
}

// Tree is a labeled Merkle trie. The zero value is not usable; use New.
type Tree struct {
	mu         sync.RWMutex
	root       *node
	cachedRoot *hashvalue.Digest
}

// New returns an empty Certification Tree.
func New() *Tree {
	return &Tree{root: newInterior()}
}

// Insert creates interior nodes as needed and writes a leaf with valueHash
// at path, overwriting any existing leaf there (I4: duplicate inserts
// overwrite).
func (t *Tree) Insert(path [][]byte, valueHash hashvalue.Digest) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.root
	for i, seg := range path {
		key := string(seg)
		last := i == len(path)-1
		if last {
			cur.children[key] = &node{kind: kindLeaf, value: valueHash}
			break
		}
		child, ok := cur.children[key]
		if !ok || child.kind != kindInterior {
			child = newInterior()
			cur.children[key] = child
		}
		cur = child
	}
	t.invalidate()
	return nil
}

// Delete removes the leaf at path, if present, and garbage-collects any
// interior node along the path that becomes empty as a result. Deleting a
// path that does not resolve to a leaf is a no-op.
func (t *Tree) Delete(path [][]byte) {
	if len(path) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	ancestors := make([]*node, 0, len(path))
	keys := make([]string, 0, len(path))
	cur := t.root
	for _, seg := range path {
		key := string(seg)
		child, ok := cur.children[key]
		if !ok {
			return
		}
		ancestors = append(ancestors, cur)
		keys = append(keys, key)
		cur = child
	}
	if cur.kind != kindLeaf {
		return
	}

	last := len(ancestors) - 1
	delete(ancestors[last].children, keys[last])
	for i := last; i >= 1; i-- {
		if len(ancestors[i].children) > 0 {
			break
		}
		delete(ancestors[i-1].children, keys[i-1])
	}
	t.invalidate()
}

// invalidate drops the cached root hash. Callers must hold t.mu for
// writing.
func (t *Tree) invalidate() {
	t.cachedRoot = nil
}

// RootHash returns the 32-byte root of the tree, computing and caching it
// if the cache was invalidated by the most recent mutation.
func (t *Tree) RootHash() hashvalue.Digest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cachedRoot == nil {
		h := hashNode(t.root)
		t.cachedRoot = &h
	}
	return *t.cachedRoot
}

// hashNode implements the hashing rule of §4.3:
//
//	H(interior) = H("node" || for each child sorted by label: H(label) || H(child))
//	H(leaf)     = H("leaf" || value_hash)
//	H(pruned)   = the stub's stored hash, unchanged
func hashNode(n *node) hashvalue.Digest {
	switch n.kind {
	case kindLeaf:
		return hashvalue.HashTagged("leaf", n.value[:])
	case kindPruned:
		return n.value
	default:
		type labeledHash struct {
			label string
			hash  hashvalue.Digest
		}
		entries := make([]labeledHash, 0, len(n.children))
		for label, child := range n.children {
			entries = append(entries, labeledHash{label: label, hash: hashNode(child)})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })

		parts := make([][]byte, 0, len(entries)*2)
		for _, e := range entries {
			labelHash := hashvalue.HashConcat([]byte(e.label))
			parts = append(parts, labelHash[:], e.hash[:])
		}
		return hashvalue.HashTagged("node", parts...)
	}
}

// LeafCount returns the number of leaves currently committed to the tree.
func (t *Tree) LeafCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return countLeaves(t.root)
}

func countLeaves(n *node) int {
	if n.kind == kindLeaf {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += countLeaves(c)
	}
	return total
}

// Depth returns the length of the longest expression path currently
// committed to the tree (0 for an empty tree).
func (t *Tree) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return depth(t.root, 0)
}

func depth(n *node, at int) int {
	if n.kind == kindLeaf {
		return at
	}
	max := at
	for _, c := range n.children {
		if d := depth(c, at+1); d > max {
			max = d
		}
	}
	return max
}

// Paths returns every expression path currently committed to the tree, in
// no particular order.
func (t *Tree) Paths() [][][]byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out [][][]byte
	collectPaths(t.root, nil, &out)
	return out
}

func collectPaths(n *node, prefix [][]byte, out *[][][]byte) {
	if n.kind == kindLeaf {
		path := make([][]byte, len(prefix))
		copy(path, prefix)
		*out = append(*out, path)
		return
	}
	for label, child := range n.children {
		collectPaths(child, append(prefix, []byte(label)), out)
	}
}
