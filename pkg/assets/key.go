// Copyright 2025 Certen Protocol

package assets

import "fmt"

// Key identifies a stored body by virtual path, canonical content-encoding
// string, and chunk index (0 for unchunked or first-chunk bodies).
type Key struct {
	Path       string
	Encoding   string
	ChunkIndex int
}

// bytes renders the key for use against a durable KV backend, following the
// prefix + separator key layout convention used throughout this lineage's
// key-value stores.
func (k Key) bytes() []byte {
	return []byte(fmt.Sprintf("asset:%s:%s:%d", k.Path, k.Encoding, k.ChunkIndex))
}
