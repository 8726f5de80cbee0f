// Copyright 2025 Certen Protocol
//
// Package certdata abstracts the host call a canister uses to publish its
// certified data root (§6): set_certified_data at the end of every update
// that calls CertifyAssets or a delete_* operation, so the next query call's
// data_certificate reflects the new tree root.
package certdata

import "sync"

// Host is the boundary between the router and whatever runtime holds the
// canister's certified data and signs data certificates. On the Internet
// Computer this is the System API; StubHost below is a drop-in for tests
// and the demo server, where no replica is present to sign anything.
type Host interface {
	// SetCertifiedData publishes root as the canister's certified data.
	SetCertifiedData(root [32]byte) error

	// DataCertificate returns the current signed data certificate, if one
	// has been produced since the last SetCertifiedData call.
	DataCertificate() ([]byte, bool)
}

// StubHost is an in-memory Host that fabricates a certificate equal to the
// root it was given, wrapped in a fixed CBOR-ish envelope. It never fails
// and never actually authenticates anything; it exists so the router and
// demo server can be exercised end to end without a replica.
type StubHost struct {
	mu   sync.Mutex
	root [32]byte
	set  bool
}

// NewStubHost returns a Host with no certified data set.
func NewStubHost() *StubHost {
	return &StubHost{}
}

// SetCertifiedData implements Host.
func (h *StubHost) SetCertifiedData(root [32]byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.root = root
	h.set = true
	return nil
}

// DataCertificate implements Host. The returned bytes are the raw 32-byte
// root with a one-byte stub tag prepended; real query-call certification
// is outside this router's scope (§2 Non-goals).
func (h *StubHost) DataCertificate() ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.set {
		return nil, false
	}
	out := make([]byte, 0, 33)
	out = append(out, 0xd9) // stub tag, distinguishes this from a real replica certificate
	out = append(out, h.root[:]...)
	return out, true
}
