// Copyright 2025 Certen Protocol
//
// Package resolver implements the Configuration Resolver (§4.6): it
// glob-matches declarative AssetConfig entries against assets and expands
// them into the full set of certified response variants - encodings,
// aliases, fallbacks, and redirects - that the Router and Response Builder
// turn into tree leaves.
package resolver

import "github.com/certen/asset-certification-router/pkg/response"

// AssetEncoding is a tagged variant from the closed set of §3.
type AssetEncoding int

const (
	Identity AssetEncoding = iota
	Gzip
	Deflate
	Brotli
	Zstd
)

// ContentEncoding returns the canonical Content-Encoding value.
func (e AssetEncoding) ContentEncoding() string {
	switch e {
	case Gzip:
		return "gzip"
	case Deflate:
		return "deflate"
	case Brotli:
		return "br"
	case Zstd:
		return "zstd"
	default:
		return "identity"
	}
}

// DefaultSuffix returns the default filename suffix used to locate a
// sibling pre-compressed asset (e.g. "app.js" + ".gz").
func (e AssetEncoding) DefaultSuffix() string {
	switch e {
	case Gzip:
		return "gz"
	case Deflate:
		return "zz"
	case Brotli:
		return "br"
	case Zstd:
		return "zst"
	default:
		return ""
	}
}

func (e AssetEncoding) String() string { return e.ContentEncoding() }

// PriorityOrder is the server's encoding preference, highest first (§3).
var PriorityOrder = []AssetEncoding{Brotli, Zstd, Gzip, Deflate, Identity}

// EncodingSuffix pairs an encoding with the filename suffix used to find
// its pre-compressed sibling asset.
type EncodingSuffix struct {
	Encoding AssetEncoding
	Suffix   string // "" means use Encoding.DefaultSuffix()
}

func (es EncodingSuffix) suffix() string {
	if es.Suffix != "" {
		return es.Suffix
	}
	return es.Encoding.DefaultSuffix()
}

// RedirectKind is the HTTP status family of a Redirect config.
type RedirectKind int

const (
	Permanent RedirectKind = 301
	Temporary RedirectKind = 307
)

// FallbackConfig marks an asset as the default response for any request
// under scope that no more specific asset or fallback matches.
type FallbackConfig struct {
	Scope      string
	StatusCode uint16 // 0 means the §3 default of 200
}

// FileConfig is the File variant of AssetConfig (§3).
type FileConfig struct {
	Path        string
	ContentType string
	Headers     response.Headers
	FallbackFor []FallbackConfig
	AliasedBy   []string
	Encodings   []EncodingSuffix
}

// PatternConfig is the Pattern variant of AssetConfig (§3). Pattern is a
// glob per §6.
type PatternConfig struct {
	Pattern     string
	ContentType string
	Headers     response.Headers
	Encodings   []EncodingSuffix
}

// RedirectConfig is the Redirect variant of AssetConfig (§3).
type RedirectConfig struct {
	From    string
	To      string
	Kind    RedirectKind
	Headers response.Headers
}

// AssetConfig is the sum type over File/Pattern/Redirect. Exactly one field
// is non-nil.
type AssetConfig struct {
	File     *FileConfig
	Pattern  *PatternConfig
	Redirect *RedirectConfig
}

// Asset is a raw (path, content) pair as supplied by the caller (§3).
type Asset struct {
	Path    string
	Content []byte
}
