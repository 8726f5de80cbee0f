// Copyright 2025 Certen Protocol

package assets

import "sync"

// KV is an optional write-through mirror an Asset Store can send every Put
// and Delete to, in addition to keeping bodies in memory. It mirrors the
// ledger.KV interface this lineage's persistent stores have always used: a
// minimal Get/Set contract the store adapts to whatever backing database is
// wired in (see pkg/kvdb for a CometBFT-DB adapter).
//
// The Store never reads from KV: the in-memory map is the only copy the
// router serves from. Wiring a KV gives external tooling (backup, offline
// inspection, migration) a durable copy of every certified body to read
// from directly; it is not a cache tier and does not change what
// ServeAsset/GetAsset return, and the router does not rehydrate from it on
// startup.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// Store is the in-memory content store of §4.5, keyed by (path, encoding,
// chunk_index). Bodies are stored by value (Design Notes: "Ownership of
// bodies") so that mutation paths never leave dangling references to
// caller memory.
type Store struct {
	mu     sync.RWMutex
	bodies map[Key][]byte
	kv     KV // optional write-through mirror; nil means pure in-memory
}

// New returns an empty, purely in-memory Store.
func New() *Store {
	return &Store{bodies: map[Key][]byte{}}
}

// NewWithKV returns a Store that mirrors every Put and Delete to kv, in
// addition to keeping the in-memory copy the router actually serves from.
func NewWithKV(kv KV) *Store {
	return &Store{bodies: map[Key][]byte{}, kv: kv}
}

// Put stores a copy of content under key, overwriting any existing body
// there (I1: raw bytes are stored as supplied, never decompressed here).
func (s *Store) Put(key Key, content []byte) error {
	cp := make([]byte, len(content))
	copy(cp, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[key] = cp
	if s.kv != nil {
		if err := s.kv.Set(key.bytes(), cp); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a copy of the stored body for key, if present. This always
// reads the in-memory tier; a configured KV mirror is write-only and is
// never consulted here.
func (s *Store) Get(key Key) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.bodies[key]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	return cp, true
}

// Delete removes the body at key.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bodies, key)
	if s.kv != nil {
		s.kv.Set(key.bytes(), nil)
	}
}

// DeleteByPath removes every body for path, across all encodings and chunk
// indices.
func (s *Store) DeleteByPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.bodies {
		if key.Path == path {
			delete(s.bodies, key)
			if s.kv != nil {
				s.kv.Set(key.bytes(), nil)
			}
		}
	}
}

// DeleteAll empties the store.
func (s *Store) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		for key := range s.bodies {
			s.kv.Set(key.bytes(), nil)
		}
	}
	s.bodies = map[Key][]byte{}
}

// Len reports the number of distinct (path, encoding, chunk) bodies stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bodies)
}
