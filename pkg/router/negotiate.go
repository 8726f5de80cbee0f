// Copyright 2025 Certen Protocol

package router

import (
	"sort"
	"strconv"
	"strings"

	"github.com/certen/asset-certification-router/pkg/resolver"
)

var encodingNames = map[string]resolver.AssetEncoding{
	"identity": resolver.Identity,
	"gzip":     resolver.Gzip,
	"x-gzip":   resolver.Gzip,
	"deflate":  resolver.Deflate,
	"br":       resolver.Brotli,
	"zstd":     resolver.Zstd,
}

func priorityIndex(e resolver.AssetEncoding) int {
	for i, p := range resolver.PriorityOrder {
		if p == e {
			return i
		}
	}
	return len(resolver.PriorityOrder)
}

// NegotiateEncodings parses an Accept-Encoding header value and returns the
// encodings the client will accept, ordered by q-value with ties broken by
// the server's priority (§3, §4.7 step 2). Identity is accepted by default
// unless explicitly refused with "identity;q=0" or a zero-weighted "*" that
// does not list identity separately; when the client neither names identity
// nor sends "*", identity comes after every encoding the client listed.
func NegotiateEncodings(header string) []resolver.AssetEncoding {
	header = strings.TrimSpace(header)

	q := map[resolver.AssetEncoding]float64{resolver.Identity: 1}
	listed := map[resolver.AssetEncoding]bool{}
	wildcardQ, hasWildcard := 1.0, false

	if header != "" {
		for _, token := range strings.Split(header, ",") {
			name, weight := parseEncodingToken(token)
			if name == "*" {
				hasWildcard = true
				wildcardQ = weight
				continue
			}
			enc, ok := encodingNames[name]
			if !ok {
				continue
			}
			listed[enc] = true
			q[enc] = weight
		}
	}

	if hasWildcard {
		for _, enc := range resolver.PriorityOrder {
			if !listed[enc] {
				q[enc] = wildcardQ
			}
		}
	}

	type scored struct {
		enc resolver.AssetEncoding
		q   float64
	}
	var candidates []scored
	for _, enc := range resolver.PriorityOrder {
		if w, ok := q[enc]; ok && w > 0 {
			candidates = append(candidates, scored{enc, w})
		}
	}
	implicitIdentity := !listed[resolver.Identity] && !hasWildcard
	sort.SliceStable(candidates, func(i, j int) bool {
		if implicitIdentity {
			if candidates[i].enc == resolver.Identity {
				return false
			}
			if candidates[j].enc == resolver.Identity {
				return true
			}
		}
		if candidates[i].q != candidates[j].q {
			return candidates[i].q > candidates[j].q
		}
		return priorityIndex(candidates[i].enc) < priorityIndex(candidates[j].enc)
	})

	out := make([]resolver.AssetEncoding, len(candidates))
	for i, c := range candidates {
		out[i] = c.enc
	}
	return out
}

func parseEncodingToken(token string) (name string, q float64) {
	q = 1
	parts := strings.Split(token, ";")
	name = strings.ToLower(strings.TrimSpace(parts[0]))
	for _, param := range parts[1:] {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "q="); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				q = f
			}
		}
	}
	return name, q
}
