// Copyright 2025 Certen Protocol
//
// Package assets implements the Asset Store (§4.5): an in-memory content
// store keyed by (path, encoding, chunk_index), with optional chunking of
// bodies larger than ASSET_CHUNK_SIZE and an optional write-through KV
// mirror for external durability.
package assets

import "errors"

// Sentinel errors for asset store operations.
var (
	// ErrEmptyChunkBody is returned when certify_assets would produce a
	// zero-length chunk (§7: "Empty body for a chunk" fails the batch).
	ErrEmptyChunkBody = errors.New("assets: chunk body must not be empty")
)
