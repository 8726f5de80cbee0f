// Copyright 2025 Certen Protocol
//
// Witness generation (§4.3): a pruned view of the Certification Tree in
// which every node on the path from root to the target is preserved
// structurally, every sibling subtree is replaced by a single Pruned(hash)
// stub, and the leaf is preserved if present. If absent, the witness proves
// absence by exposing the labeled gap at the deepest shared prefix: the
// recursion simply stops descending once a path segment has no matching
// child, leaving every existing sibling at that level pruned and visible.
package certtree

import (
	"sort"

	"github.com/certen/asset-certification-router/pkg/hashvalue"
	"github.com/fxamacker/cbor/v2"
)

// Witness is a pruned Certification Tree returned by Tree.Witness. Its
// RootHash recomputes to the same value as the source tree's RootHash at
// the time the witness was taken (P2).
type Witness struct {
	root *node
}

// Witness returns a pruned proof of inclusion (or absence) of path.
func (t *Tree) Witness(path [][]byte) *Witness {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &Witness{root: pruneAlong(t.root, path)}
}

func pruneAlong(n *node, path [][]byte) *node {
	if len(path) == 0 {
		return cloneNode(n)
	}
	if n.kind != kindInterior {
		// Path continues past a leaf or pruned stub: nothing further to
		// reveal, preserve as-is.
		return cloneNode(n)
	}
	key := string(path[0])
	out := newInterior()
	for label, child := range n.children {
		if label == key {
			out.children[label] = pruneAlong(child, path[1:])
		} else {
			out.children[label] = &node{kind: kindPruned, value: hashNode(child)}
		}
	}
	return out
}

func cloneNode(n *node) *node {
	switch n.kind {
	case kindLeaf:
		return &node{kind: kindLeaf, value: n.value}
	case kindPruned:
		return &node{kind: kindPruned, value: n.value}
	default:
		out := newInterior()
		for label, c := range n.children {
			out.children[label] = cloneNode(c)
		}
		return out
	}
}

// RootHash recomputes the root hash of the witness's pruned tree. Because
// pruned stubs carry their original subtree hash unchanged, this equals the
// source tree's root hash at witness time regardless of how much was
// pruned away.
func (w *Witness) RootHash() hashvalue.Digest {
	return hashNode(w.root)
}

// HasLeaf reports whether the witnessed path resolved to a present leaf.
func (w *Witness) HasLeaf() bool {
	return leafAtTip(w.root) != nil
}

// leafAtTip walks the single unpruned child chain a witness preserves and
// returns the leaf at its tip, if any.
func leafAtTip(n *node) *node {
	for n.kind == kindInterior {
		var next *node
		count := 0
		for _, c := range n.children {
			if c.kind != kindPruned {
				next = c
				count++
			}
		}
		if count != 1 {
			return nil
		}
		n = next
	}
	if n.kind == kindLeaf {
		return n
	}
	return nil
}

// wireNode is the CBOR-serializable form of a witness node. The exact
// on-wire tag scheme for tree witnesses is a detail of the host's certified
// data implementation that this router does not attempt to reverse engineer
// bit-for-bit (see DESIGN.md); this encoding preserves the same
// information - structure, labels, pruned hashes, leaf values - and
// round-trips deterministically, which is what callers and tests need.
type wireNode struct {
	Kind     string      `cbor:"kind"`
	Value    []byte      `cbor:"value,omitempty"`
	Children []wireChild `cbor:"children,omitempty"`
}

type wireChild struct {
	Label []byte   `cbor:"label"`
	Node  wireNode `cbor:"node"`
}

func (n *node) toWire() wireNode {
	switch n.kind {
	case kindLeaf:
		return wireNode{Kind: "leaf", Value: append([]byte{}, n.value[:]...)}
	case kindPruned:
		return wireNode{Kind: "pruned", Value: append([]byte{}, n.value[:]...)}
	default:
		labels := make([]string, 0, len(n.children))
		for label := range n.children {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		children := make([]wireChild, 0, len(labels))
		for _, label := range labels {
			children = append(children, wireChild{Label: []byte(label), Node: n.children[label].toWire()})
		}
		return wireNode{Kind: "interior", Children: children}
	}
}

var witnessEncMode = func() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return m
}()

// MarshalCBOR returns the canonical CBOR encoding of the witness, suitable
// for the tree=<cbor(witness)> component of the IC-Certificate header
// (§6).
func (w *Witness) MarshalCBOR() ([]byte, error) {
	return witnessEncMode.Marshal(w.root.toWire())
}
