// Copyright 2025 Certen Protocol

package router

import (
	"reflect"
	"testing"

	"github.com/certen/asset-certification-router/pkg/resolver"
)

func TestNegotiateEncodings_ServerPriorityBeatsClientOrder(t *testing.T) {
	got := NegotiateEncodings("gzip, br")
	want := []resolver.AssetEncoding{resolver.Brotli, resolver.Gzip, resolver.Identity}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNegotiateEncodings_EmptyHeaderAcceptsIdentityOnly(t *testing.T) {
	got := NegotiateEncodings("")
	if len(got) != 1 || got[0] != resolver.Identity {
		t.Errorf("expected identity only, got %v", got)
	}
}

func TestNegotiateEncodings_ExplicitQZeroRefusesIdentity(t *testing.T) {
	got := NegotiateEncodings("gzip, identity;q=0")
	for _, e := range got {
		if e == resolver.Identity {
			t.Error("identity should have been refused")
		}
	}
}

func TestNegotiateEncodings_QValuesOverridePriority(t *testing.T) {
	got := NegotiateEncodings("br;q=0.2, gzip;q=0.9")
	if got[0] != resolver.Gzip {
		t.Errorf("expected gzip to win on explicit q value, got %v first", got[0])
	}
}
