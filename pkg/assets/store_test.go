// Copyright 2025 Certen Protocol

package assets

import (
	"bytes"
	"testing"
)

func TestStore_PutGetRoundTrip(t *testing.T) {
	s := New()
	key := Key{Path: "/index.html", Encoding: "identity", ChunkIndex: 0}
	if err := s.Put(key, []byte("<h1>Hi</h1>")); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Get(key)
	if !ok {
		t.Fatal("expected body to be present")
	}
	if !bytes.Equal(got, []byte("<h1>Hi</h1>")) {
		t.Errorf("got %q", got)
	}
}

func TestStore_PutDoesNotAliasCallerMemory(t *testing.T) {
	s := New()
	key := Key{Path: "/a", Encoding: "identity"}
	buf := []byte("original")
	s.Put(key, buf)
	buf[0] = 'X'

	got, _ := s.Get(key)
	if !bytes.Equal(got, []byte("original")) {
		t.Error("mutating the caller's buffer after Put must not affect the stored body")
	}
}

func TestStore_GetDoesNotAliasInternalMemory(t *testing.T) {
	s := New()
	key := Key{Path: "/a", Encoding: "identity"}
	s.Put(key, []byte("original"))

	got, _ := s.Get(key)
	got[0] = 'X'

	got2, _ := s.Get(key)
	if !bytes.Equal(got2, []byte("original")) {
		t.Error("mutating a Get result must not affect the stored body")
	}
}

func TestStore_DeleteByPathRemovesAllEncodingsAndChunks(t *testing.T) {
	s := New()
	s.Put(Key{Path: "/app.js", Encoding: "identity"}, []byte("a"))
	s.Put(Key{Path: "/app.js", Encoding: "gzip"}, []byte("b"))
	s.Put(Key{Path: "/app.js", Encoding: "identity", ChunkIndex: 1}, []byte("c"))
	s.Put(Key{Path: "/other.js", Encoding: "identity"}, []byte("d"))

	s.DeleteByPath("/app.js")

	if s.Len() != 1 {
		t.Errorf("expected only /other.js to remain, got %d entries", s.Len())
	}
	if _, ok := s.Get(Key{Path: "/other.js", Encoding: "identity"}); !ok {
		t.Error("expected /other.js to survive")
	}
}

func TestStore_DeleteAll(t *testing.T) {
	s := New()
	s.Put(Key{Path: "/a"}, []byte("x"))
	s.Put(Key{Path: "/b"}, []byte("y"))
	s.DeleteAll()
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}

func TestSplit_SmallBodyIsSingleRange(t *testing.T) {
	ranges := Split(make([]byte, 10))
	if len(ranges) != 1 || ranges[0].Start != 0 || ranges[0].End != 9 {
		t.Errorf("unexpected ranges: %+v", ranges)
	}
}

func TestSplit_LargeBodySplitsAtChunkSize(t *testing.T) {
	total := 3 * 1024 * 1024 // 3 MiB
	ranges := Split(make([]byte, total))
	if len(ranges) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(ranges))
	}
	if ranges[0].Start != 0 || ranges[0].End != ChunkSize-1 {
		t.Errorf("chunk 0 mismatch: %+v", ranges[0])
	}
	if ranges[1].Start != ChunkSize || ranges[1].End != total-1 {
		t.Errorf("chunk 1 mismatch: %+v", ranges[1])
	}
}

func TestChunkIndexForOffset_RejectsNonAligned(t *testing.T) {
	ranges := Split(make([]byte, 3*1024*1024))
	if _, ok := ChunkIndexForOffset(ranges, 100); ok {
		t.Error("expected non-aligned offset to be rejected")
	}
	if idx, ok := ChunkIndexForOffset(ranges, ChunkSize); !ok || idx != 1 {
		t.Errorf("expected chunk 1 at aligned boundary, got idx=%d ok=%v", idx, ok)
	}
}
