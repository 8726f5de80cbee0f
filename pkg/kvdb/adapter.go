// Copyright 2025 Certen Protocol
//
// KV Adapter for CometBFT Database Integration
// Wraps CometBFT's dbm.DB interface to implement assets.KV, giving the
// Asset Store an optional durable write-through mirror. The Store never
// reads back through this adapter; it is for external durability only.

package kvdb

import (
	dbm "github.com/cometbft/cometbft-db"
)

// Adapter wraps a CometBFT dbm.DB and exposes the assets.KV interface.
type Adapter struct {
	db dbm.DB
}

// NewAdapter creates a new Adapter for the given underlying DB.
func NewAdapter(db dbm.DB) *Adapter {
	return &Adapter{db: db}
}

// Get implements assets.KV.Get
func (a *Adapter) Get(key []byte) ([]byte, error) {
	if a.db == nil {
		return nil, nil
	}
	v, err := a.db.Get(key)
	if err != nil {
		return nil, err
	}
	// v is nil if the key is not found; callers treat nil as "not present".
	return v, nil
}

// Set implements assets.KV.Set. A nil value deletes the key, matching the
// Asset Store's use of Set(key, nil) to propagate Delete/DeleteAll.
func (a *Adapter) Set(key, value []byte) error {
	if a.db == nil {
		return nil
	}
	if value == nil {
		return a.db.DeleteSync(key)
	}
	return a.db.SetSync(key, value)
}
