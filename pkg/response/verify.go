// Copyright 2025 Certen Protocol

package response

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/certen/asset-certification-router/pkg/hashvalue"
)

// RecomputeLeafHash implements the client-side half of P2: given a served
// response's status, headers (including IC-CertificateExpression) and body,
// recompute the leaf hash that must match the tree leaf at ExprPath.
func RecomputeLeafHash(statusCode int, headers Headers, body []byte) (hashvalue.Digest, error) {
	headerValue, ok := headers.Get("IC-CertificateExpression")
	if !ok {
		return hashvalue.Digest{}, fmt.Errorf("response: missing IC-CertificateExpression header")
	}
	raw, err := hex.DecodeString(headerValue)
	if err != nil {
		return hashvalue.Digest{}, fmt.Errorf("response: decode IC-CertificateExpression: %w", err)
	}
	exprHash := hashvalue.HashConcat(raw)

	pairs := make([]hashvalue.Pair, 0, len(headers)+1)
	pairs = append(pairs, hashvalue.Pair{Name: ":status", Value: hashvalue.Unsigned(uint64(statusCode))})
	for _, h := range headers {
		pairs = append(pairs, hashvalue.Pair{Name: strings.ToLower(h.Name), Value: hashvalue.String(h.Value)})
	}
	headerMapHash := hashvalue.HashPairs(pairs)
	bodyHash := hashvalue.HashConcat(body)
	responseHash := hashvalue.HashConcat(headerMapHash[:], bodyHash[:])

	return hashvalue.HashConcat(exprHash[:], responseHash[:]), nil
}
