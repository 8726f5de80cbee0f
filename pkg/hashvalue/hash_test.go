// Copyright 2025 Certen Protocol

package hashvalue

import (
	"bytes"
	"testing"
)

func TestHashPairs_OrderIndependent(t *testing.T) {
	a := []Pair{
		{Name: "status", Value: Unsigned(200)},
		{Name: "content-type", Value: String("text/html")},
	}
	b := []Pair{
		{Name: "content-type", Value: String("text/html")},
		{Name: "status", Value: Unsigned(200)},
	}

	ha := HashPairs(a)
	hb := HashPairs(b)

	if !bytes.Equal(ha[:], hb[:]) {
		t.Errorf("hash must not depend on pair insertion order: got %x vs %x", ha, hb)
	}
}

func TestHashPairs_DifferentValuesDiffer(t *testing.T) {
	a := []Pair{{Name: "status", Value: Unsigned(200)}}
	b := []Pair{{Name: "status", Value: Unsigned(404)}}

	if HashValue(Map(a)) == HashValue(Map(b)) {
		t.Error("distinct pair sets must not collide")
	}
}

func TestHashValue_Array(t *testing.T) {
	arr := Array([]Value{String("a"), String("b")})
	h1 := HashValue(arr)

	arr2 := Array([]Value{String("a"), String("b")})
	h2 := HashValue(arr2)

	if h1 != h2 {
		t.Error("hashing the same array twice must be deterministic")
	}

	arr3 := Array([]Value{String("b"), String("a")})
	if HashValue(arr3) == h1 {
		t.Error("array hash must depend on element order")
	}
}

func TestHashPairs_Deterministic(t *testing.T) {
	pairs := []Pair{
		{Name: "IC-CertificateExpression", Value: String("default")},
		{Name: "content-encoding", Value: String("gzip")},
	}
	h1 := HashPairs(pairs)
	h2 := HashPairs(pairs)
	if h1 != h2 {
		t.Error("HashPairs must be a pure function of its input")
	}
}

func TestMinimalUint_Injective(t *testing.T) {
	if bytes.Equal(minimalUint(0), minimalUint(256)) {
		t.Error("minimalUint must not collide for distinct inputs")
	}
}
