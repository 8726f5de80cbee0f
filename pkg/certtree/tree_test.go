// Copyright 2025 Certen Protocol
//
// Certification Tree Tests

package certtree

import (
	"bytes"
	"testing"

	"github.com/certen/asset-certification-router/pkg/hashvalue"
)

func seg(s string) []byte { return []byte(s) }

func leafHash(s string) hashvalue.Digest {
	return hashvalue.HashConcat([]byte(s))
}

func TestInsert_SingleLeaf_RootChainsLeafHashThroughInteriors(t *testing.T) {
	tr := New()
	v := leafHash("a")
	if err := tr.Insert([][]byte{seg("http_expr"), seg("a.html"), seg("<$>")}, v); err != nil {
		t.Fatal(err)
	}

	// Each of the three labels sits on an interior node above the leaf.
	want := hashvalue.HashTagged("leaf", v[:])
	for _, label := range []string{"<$>", "a.html", "http_expr"} {
		labelHash := hashvalue.HashConcat([]byte(label))
		want = hashvalue.HashTagged("node", labelHash[:], want[:])
	}
	got := tr.RootHash()
	if !bytes.Equal(got[:], want[:]) {
		t.Errorf("single leaf root mismatch: got %x want %x", got, want)
	}
}

func TestRootHash_IsOrderIndependentOfInsertion(t *testing.T) {
	t1 := New()
	t1.Insert(pathOf("http_expr", "a", "<$>"), leafHash("a"))
	t1.Insert(pathOf("http_expr", "b", "<$>"), leafHash("b"))

	t2 := New()
	t2.Insert(pathOf("http_expr", "b", "<$>"), leafHash("b"))
	t2.Insert(pathOf("http_expr", "a", "<$>"), leafHash("a"))

	if t1.RootHash() != t2.RootHash() {
		t.Error("root hash must be a pure function of the (path, leaf_hash) set, not insertion order (I3)")
	}
}

func TestInsert_DuplicateOverwrites(t *testing.T) {
	tr := New()
	p := pathOf("http_expr", "a", "<$>")
	tr.Insert(p, leafHash("first"))
	tr.Insert(p, leafHash("second"))

	if tr.LeafCount() != 1 {
		t.Fatalf("expected 1 leaf after overwrite, got %d", tr.LeafCount())
	}

	want := New()
	want.Insert(p, leafHash("second"))
	if tr.RootHash() != want.RootHash() {
		t.Error("duplicate insert must overwrite, not accumulate")
	}
}

func TestDepth_EmptyTreeIsZero(t *testing.T) {
	tr := New()
	if got := tr.Depth(); got != 0 {
		t.Errorf("expected depth 0 for empty tree, got %d", got)
	}
}

func TestDepth_TracksLongestPath(t *testing.T) {
	tr := New()
	tr.Insert(pathOf("http_expr", "a", "<$>"), leafHash("a"))
	if got := tr.Depth(); got != 3 {
		t.Errorf("expected depth 3, got %d", got)
	}
	tr.Insert(pathOf("http_expr", "dir", "sub", "b", "<$>"), leafHash("b"))
	if got := tr.Depth(); got != 5 {
		t.Errorf("expected depth 5 after a deeper insert, got %d", got)
	}
}

func TestDelete_RoundTripsToEmptyRoot(t *testing.T) {
	empty := New().RootHash()

	tr := New()
	p := pathOf("http_expr", "a", "b", "<$>")
	tr.Insert(p, leafHash("a"))
	tr.Delete(p)

	if tr.RootHash() != empty {
		t.Error("certify then delete must restore the empty-tree root (P3)")
	}
	if tr.LeafCount() != 0 {
		t.Errorf("expected 0 leaves, got %d", tr.LeafCount())
	}
}

func TestDelete_GarbageCollectsEmptyInteriors(t *testing.T) {
	tr := New()
	tr.Insert(pathOf("http_expr", "a", "b", "<$>"), leafHash("ab"))
	tr.Insert(pathOf("http_expr", "a", "c", "<$>"), leafHash("ac"))

	tr.Delete(pathOf("http_expr", "a", "b", "<$>"))

	// "a" must still exist (c's branch keeps it alive), but "b" must be gone.
	if len(tr.root.children["http_expr"].children["a"].children) != 1 {
		t.Error("expected only the c branch to survive under a")
	}

	tr.Delete(pathOf("http_expr", "a", "c", "<$>"))
	if tr.RootHash() != New().RootHash() {
		t.Error("deleting the last leaf under a must garbage collect a itself")
	}
}

func TestWitness_RootHashMatchesTreeRoot(t *testing.T) {
	tr := New()
	tr.Insert(pathOf("http_expr", "a", "<$>"), leafHash("a"))
	tr.Insert(pathOf("http_expr", "b", "<$>"), leafHash("b"))
	tr.Insert(pathOf("<*>"), leafHash("fallback"))

	w := tr.Witness(pathOf("http_expr", "a", "<$>"))
	if w.RootHash() != tr.RootHash() {
		t.Error("witness root hash must equal the source tree's root hash (P2)")
	}
	if !w.HasLeaf() {
		t.Error("witness for a present path must expose the leaf")
	}
}

func TestWitness_AbsenceProof(t *testing.T) {
	tr := New()
	tr.Insert(pathOf("http_expr", "a", "<$>"), leafHash("a"))

	w := tr.Witness(pathOf("http_expr", "missing", "<$>"))
	if w.RootHash() != tr.RootHash() {
		t.Error("absence witness must still recompute to the tree root")
	}
	if w.HasLeaf() {
		t.Error("absence witness must not expose a leaf")
	}
}

func TestWitness_CBORRoundTripsDeterministically(t *testing.T) {
	tr := New()
	tr.Insert(pathOf("http_expr", "a", "<$>"), leafHash("a"))
	tr.Insert(pathOf("http_expr", "b", "<$>"), leafHash("b"))

	w := tr.Witness(pathOf("http_expr", "a", "<$>"))
	b1, err := w.MarshalCBOR()
	if err != nil {
		t.Fatal(err)
	}
	b2, err := w.MarshalCBOR()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Error("witness CBOR encoding must be deterministic")
	}
}

func pathOf(segs ...string) [][]byte {
	out := make([][]byte, len(segs))
	for i, s := range segs {
		out[i] = []byte(s)
	}
	return out
}
