// Copyright 2025 Certen Protocol

package response

import (
	"fmt"
	"strings"

	"github.com/certen/asset-certification-router/pkg/certexpr"
	"github.com/certen/asset-certification-router/pkg/hashvalue"
)

// Chunk describes the byte range a response body covers within the full
// asset, when the asset has been split per §4.5.
type Chunk struct {
	Start int // inclusive
	End   int // inclusive
	Total int // total asset size
}

// IsFirst reports whether this chunk is range 0, the chunk served when no
// Range header is present.
func (c Chunk) IsFirst() bool { return c.Start == 0 }

// BuildInput is everything the builder needs to produce a CertifiedResponse.
type BuildInput struct {
	StatusCode      int
	BaseHeaders     Headers // caller-declared headers (config headers, Location, etc.)
	Body            []byte
	ContentType     string // "" means do not set
	ContentEncoding string // canonical encoding string; "" or "identity" means omit the header
	Chunk           *Chunk // nil means the body is not chunked
	ExprPath        [][]byte
}

// CertifiedResponse is the fully built, certified response (§3).
type CertifiedResponse struct {
	StatusCode   int
	Headers      Headers
	Body         []byte
	Expression   certexpr.Expression
	ExprPath     [][]byte
	ResponseHash hashvalue.Digest // H_r
	LeafHash     hashvalue.Digest // H(expression_hash || H_r), committed to the tree
}

// Build implements §4.4 steps 1-7.
func Build(in BuildInput) (*CertifiedResponse, error) {
	headers := in.BaseHeaders.Clone()

	// Step 1: Content-Type, unless already present.
	if in.ContentType != "" && !headers.Has("Content-Type") {
		headers = headers.Append("Content-Type", in.ContentType)
	}

	// Step 2: Content-Encoding for non-identity encodings.
	if in.ContentEncoding != "" && !strings.EqualFold(in.ContentEncoding, "identity") {
		headers = headers.Append("Content-Encoding", in.ContentEncoding)
	}

	// Step 3: chunking headers.
	if in.Chunk != nil {
		headers = headers.Append("Content-Length", fmt.Sprintf("%d", len(in.Body)))
		if !in.Chunk.IsFirst() {
			headers = headers.Append("Content-Range",
				fmt.Sprintf("bytes %d-%d/%d", in.Chunk.Start, in.Chunk.End, in.Chunk.Total))
		}
	}

	// Step 4: certification expression header.
	expr := certexpr.NewAssetExpression(headers.Names())
	headerValue, err := expr.HeaderValue()
	if err != nil {
		return nil, fmt.Errorf("response: encode certification expression: %w", err)
	}
	headers = headers.Prepend(certexpr.ResponseHeaderName, headerValue)

	// Step 5: response hash H_r = H(hash_ordered_map(status + headers) || H(body)).
	pairs := make([]hashvalue.Pair, 0, len(headers)+1)
	pairs = append(pairs, hashvalue.Pair{Name: ":status", Value: hashvalue.Unsigned(uint64(in.StatusCode))})
	for _, h := range headers {
		pairs = append(pairs, hashvalue.Pair{Name: strings.ToLower(h.Name), Value: hashvalue.String(h.Value)})
	}
	headerMapHash := hashvalue.HashPairs(pairs)
	bodyHash := hashvalue.HashConcat(in.Body)
	responseHash := hashvalue.HashConcat(headerMapHash[:], bodyHash[:])

	// Step 6: leaf value.
	exprHash, err := expr.Hash()
	if err != nil {
		return nil, fmt.Errorf("response: hash certification expression: %w", err)
	}
	leafHash := hashvalue.HashConcat(exprHash[:], responseHash[:])

	body := make([]byte, len(in.Body))
	copy(body, in.Body)

	exprPath := make([][]byte, len(in.ExprPath))
	for i, seg := range in.ExprPath {
		exprPath[i] = append([]byte{}, seg...)
	}

	return &CertifiedResponse{
		StatusCode:   in.StatusCode,
		Headers:      headers,
		Body:         body,
		Expression:   expr,
		ExprPath:     exprPath,
		ResponseHash: responseHash,
		LeafHash:     leafHash,
	}, nil
}
