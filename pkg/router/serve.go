// Copyright 2025 Certen Protocol

package router

import (
	"strconv"
	"strings"

	"github.com/certen/asset-certification-router/pkg/certtree"
	"github.com/certen/asset-certification-router/pkg/response"
)

// Request is the subset of an HTTP request ServeAsset needs (§6).
type Request struct {
	Method string
	Path   string // raw, possibly with query string and percent-escapes
	Header response.Headers
}

// ServeResult is the (response, witness, expr_path) triple of §4.7, ready
// for the caller to assemble into an IC-Certificate header.
type ServeResult struct {
	Response *response.CertifiedResponse
	Witness  *certtree.Witness
	ExprPath [][]byte
}

// ServeAsset implements §4.7 steps 1-7.
func (r *Router) ServeAsset(req Request) (*ServeResult, error) {
	if req.Method != "GET" && req.Method != "HEAD" {
		return nil, methodNotAllowed("method " + req.Method + " not allowed")
	}

	path := NormalizeRequestPath(req.Path)
	acceptEncoding, _ := req.Header.Get("Accept-Encoding")
	accepted := NegotiateEncodings(acceptEncoding)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.exact[path]; ok {
		for _, enc := range accepted {
			ve, ok := entry.byEncoding[enc]
			if !ok {
				continue
			}
			return r.serveVariant(ve, req.Header)
		}
	}

	if resp, ok := r.redirects[path]; ok {
		return &ServeResult{Response: resp, Witness: r.tree.Witness(resp.ExprPath), ExprPath: resp.ExprPath}, nil
	}

	for _, scope := range ancestorScopes(path) {
		ve, ok := r.fallbacks[scope]
		if !ok {
			continue
		}
		return r.serveVariant(ve, req.Header)
	}

	return nil, notFound("no asset, redirect, or fallback at " + path)
}

func (r *Router) serveVariant(ve *variantEntry, headers response.Headers) (*ServeResult, error) {
	idx := 0
	if len(ve.chunks) > 1 {
		rangeHeader, ok := headers.Get("Range")
		if ok {
			start, ok := parseRangeStart(rangeHeader)
			if !ok {
				return nil, rangeNotSatisfiable("malformed Range header")
			}
			found := false
			for i, s := range ve.starts {
				if s == start {
					idx, found = i, true
					break
				}
			}
			if !found {
				return nil, rangeNotSatisfiable("range does not align with a chunk boundary")
			}
		}
	}
	resp := ve.chunks[idx]
	return &ServeResult{Response: resp, Witness: r.tree.Witness(resp.ExprPath), ExprPath: resp.ExprPath}, nil
}

// parseRangeStart parses the single form §4.5 requires: "bytes=<start>-".
func parseRangeStart(header string) (int, bool) {
	header = strings.TrimSpace(header)
	rest, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, false
	}
	rest = strings.TrimSuffix(rest, "-")
	if strings.Contains(rest, "-") || strings.Contains(rest, ",") {
		return 0, false // multi-range or "start-end" forms are not supported
	}
	start, err := strconv.Atoi(rest)
	if err != nil || start < 0 {
		return 0, false
	}
	return start, true
}
