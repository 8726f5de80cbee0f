// Copyright 2025 Certen Protocol

package certdata

import "testing"

func TestStubHost_NoCertificateBeforeFirstSet(t *testing.T) {
	h := NewStubHost()
	if _, ok := h.DataCertificate(); ok {
		t.Fatal("expected no certificate before SetCertifiedData")
	}
}

func TestStubHost_CertificateReflectsLastRoot(t *testing.T) {
	h := NewStubHost()
	var root [32]byte
	root[0] = 0xAB
	if err := h.SetCertifiedData(root); err != nil {
		t.Fatal(err)
	}
	cert, ok := h.DataCertificate()
	if !ok {
		t.Fatal("expected a certificate after SetCertifiedData")
	}
	if len(cert) != 33 || cert[1] != 0xAB {
		t.Fatalf("unexpected certificate bytes: %x", cert)
	}
}
