// Copyright 2025 Certen Protocol
//
// Representation-independent hashing per §4.1: pairs are canonicalized by
// SHA-256(name) || SHA-256(value), pair digests are sorted lexicographically,
// and the final digest is SHA-256 of their concatenation. Arrays hash as the
// concatenation of element hashes; maps hash recursively via the same pair
// rule.
package hashvalue

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// Digest is a 32-byte SHA-256 output.
type Digest [32]byte

func sha256Of(b []byte) Digest {
	return sha256.Sum256(b)
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// minimalUint encodes u as the shortest big-endian representation, at least
// one byte long. The exact wire encoding of integers is not dictated by the
// host contract (§4.1 treats the value hash as internally produced and
// consumed by this router only), so any encoding is valid as long as it is
// injective and deterministic; minimal big-endian satisfies both.
func minimalUint(u uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

func minimalInt(i int64) []byte {
	sign := byte(0)
	u := uint64(i)
	if i < 0 {
		sign = 1
		u = uint64(-i)
	}
	return append([]byte{sign}, minimalUint(u)...)
}

// HashValue computes the representation-independent hash of a single value.
func HashValue(v Value) Digest {
	switch v.kind {
	case KindString:
		return sha256Of([]byte(v.str))
	case KindByteString:
		return sha256Of(v.bytes)
	case KindUnsigned:
		return sha256Of(minimalUint(v.uint))
	case KindSigned:
		return sha256Of(minimalInt(v.sint))
	case KindArray:
		parts := make([][]byte, len(v.array))
		for i, e := range v.array {
			d := HashValue(e)
			parts[i] = d[:]
		}
		return sha256Of(concat(parts...))
	case KindMap:
		return HashPairs(v.pairs)
	default:
		return Digest{}
	}
}

// HashPairs computes the hash of an ordered sequence of (name, value) pairs:
// canonicalize each pair, sort the pair digests, concatenate, SHA-256.
func HashPairs(pairs []Pair) Digest {
	digests := make([][]byte, len(pairs))
	for i, p := range pairs {
		nameDigest := sha256Of([]byte(p.Name))
		valueDigest := HashValue(p.Value)
		pairDigest := sha256Of(concat(nameDigest[:], valueDigest[:]))
		digests[i] = pairDigest[:]
	}
	sort.Slice(digests, func(i, j int) bool {
		return bytes.Compare(digests[i], digests[j]) < 0
	})
	return sha256Of(concat(digests...))
}

// HashConcat is SHA-256 of the concatenation of parts, used outside the
// value-hashing contract (response hashing, leaf commitments) wherever
// §4.4/§4.3 call for H(a || b).
func HashConcat(parts ...[]byte) Digest {
	return sha256Of(concat(parts...))
}

// HashTagged is SHA-256 of tag || parts, used for the domain-separated
// "node"/"leaf" hashes in §4.3.
func HashTagged(tag string, parts ...[]byte) Digest {
	all := append([][]byte{[]byte(tag)}, parts...)
	return sha256Of(concat(all...))
}
