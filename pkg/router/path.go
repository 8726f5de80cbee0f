// Copyright 2025 Certen Protocol

package router

import (
	"net/url"
	"strings"
)

// NormalizeRequestPath implements §4.7 step 1: strip the query string,
// percent-decode, collapse duplicate slashes, ensure a leading slash.
func NormalizeRequestPath(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	for strings.Contains(raw, "//") {
		raw = strings.ReplaceAll(raw, "//", "/")
	}
	if len(raw) > 1 && strings.HasSuffix(raw, "/") {
		raw = strings.TrimRight(raw, "/")
		if raw == "" {
			raw = "/"
		}
	}
	return raw
}

// pathSegments splits a normalized path into its non-empty components.
// "/" yields no segments.
func pathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// ancestorScopes returns the fallback scopes covering path, nearest first,
// ending at the root scope "/" (§4.6 Fallback resolution).
func ancestorScopes(path string) []string {
	segs := pathSegments(path)
	if len(segs) == 0 {
		return []string{"/"}
	}
	scopes := make([]string, 0, len(segs))
	for n := len(segs) - 1; n >= 0; n-- {
		scopes = append(scopes, "/"+strings.Join(segs[:n], "/"))
	}
	return scopes
}

const (
	terminalExact    = "<$>"
	terminalFallback = "<*>"
)

// exprPathFor builds the ["http_expr", ...segments..., terminal] path of
// §6 for an exact-match path or fallback scope.
func exprPathFor(path, terminal string) [][]byte {
	segs := pathSegments(path)
	out := make([][]byte, 0, len(segs)+2)
	out = append(out, []byte("http_expr"))
	for _, s := range segs {
		out = append(out, []byte(s))
	}
	out = append(out, []byte(terminal))
	return out
}
