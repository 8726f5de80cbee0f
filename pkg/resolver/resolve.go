// Copyright 2025 Certen Protocol

package resolver

import (
	"fmt"
	"strings"

	"github.com/certen/asset-certification-router/pkg/response"
)

// NormalizeAssetPath enforces the leading-"/" convention shared by every
// path in a certified tree (asset paths, config paths, alias targets,
// fallback scopes) and collapses accidental duplicate slashes.
func NormalizeAssetPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// ExactVariant is one certified (path, encoding) response, prior to
// chunking.
type ExactVariant struct {
	Path        string
	ContentType string
	Headers     response.Headers
	Encoding    AssetEncoding
	Body        []byte
}

// AliasVariant is an identity-encoded response served at a path other than
// the canonical asset's own path (§4.6 step 5).
type AliasVariant struct {
	AliasPath   string
	ContentType string
	Headers     response.Headers
	Body        []byte
}

// FallbackVariant is the default response for any request under Scope that
// no exact asset or more specific fallback matches (§4.6 step 6).
type FallbackVariant struct {
	Scope       string
	StatusCode  int
	ContentType string
	Headers     response.Headers
	Body        []byte
}

// RedirectVariant is a synthesized redirect response (§4.6 step 7).
type RedirectVariant struct {
	From       string
	To         string
	StatusCode int
	Headers    response.Headers
}

// Plan is the full expansion of a batch of assets against their configs,
// ready for the Router to chunk, certify, and store.
type Plan struct {
	Exact     []ExactVariant
	Aliases   []AliasVariant
	Fallbacks []FallbackVariant
	Redirects []RedirectVariant
}

// Resolve runs the §4.6 algorithm: it builds the config index, matches each
// asset to its File config, its first matching Pattern config, or the
// implicit default, then expands sibling encodings, aliases, and fallbacks.
// Redirects are independent of assets and are expanded directly. Resolve
// fails the whole batch on any ambiguity - two File configs for the same
// path, or an alias that collides with another path's own File config -
// since partial certification of a batch is not a safe state (§7).
func Resolve(assets []Asset, configs []AssetConfig) (*Plan, error) {
	fileByPath := map[string]*FileConfig{}
	var patterns []*PatternConfig
	var redirects []*RedirectConfig

	for _, c := range configs {
		switch {
		case c.File != nil:
			p := NormalizeAssetPath(c.File.Path)
			if _, exists := fileByPath[p]; exists {
				return nil, fmt.Errorf("resolver: duplicate File config for path %q", p)
			}
			fileByPath[p] = c.File
		case c.Pattern != nil:
			patterns = append(patterns, c.Pattern)
		case c.Redirect != nil:
			redirects = append(redirects, c.Redirect)
		default:
			return nil, fmt.Errorf("resolver: AssetConfig has no File, Pattern, or Redirect set")
		}
	}

	aliasOwner := map[string]string{}
	for path, fc := range fileByPath {
		for _, alias := range fc.AliasedBy {
			ap := NormalizeAssetPath(alias)
			if _, exists := fileByPath[ap]; exists {
				return nil, fmt.Errorf("resolver: alias %q of %q collides with its own File config", ap, path)
			}
			if owner, exists := aliasOwner[ap]; exists && owner != path {
				return nil, fmt.Errorf("resolver: alias %q claimed by both %q and %q", ap, owner, path)
			}
			aliasOwner[ap] = path
		}
	}

	patternGlobs := make([]patternMatcher, len(patterns))
	for i, p := range patterns {
		g, err := compilePattern(p.Pattern)
		if err != nil {
			return nil, err
		}
		patternGlobs[i] = patternMatcher{cfg: p, match: g.Match}
	}

	bodyByPath := map[string][]byte{}
	for _, a := range assets {
		bodyByPath[NormalizeAssetPath(a.Path)] = a.Content
	}

	plan := &Plan{}
	for _, a := range assets {
		path := NormalizeAssetPath(a.Path)

		var (
			contentType string
			headers     response.Headers
			encodings   []EncodingSuffix
			matchedFile *FileConfig
		)

		if fc, ok := fileByPath[path]; ok {
			matchedFile = fc
			contentType, headers, encodings = fc.ContentType, fc.Headers, fc.Encodings
		} else {
			for _, pm := range patternGlobs {
				if pm.match(path) {
					contentType, headers, encodings = pm.cfg.ContentType, pm.cfg.Headers, pm.cfg.Encodings
					break
				}
			}
		}

		plan.Exact = append(plan.Exact, ExactVariant{
			Path: path, ContentType: contentType, Headers: headers,
			Encoding: Identity, Body: a.Content,
		})

		for _, enc := range encodings {
			if enc.Encoding == Identity {
				continue
			}
			suffix := enc.suffix()
			if suffix == "" {
				continue
			}
			siblingPath := path + "." + suffix
			body, ok := bodyByPath[siblingPath]
			if !ok {
				continue // no sibling asset uploaded for this encoding: skip, not an error
			}
			plan.Exact = append(plan.Exact, ExactVariant{
				Path: path, ContentType: contentType, Headers: headers,
				Encoding: enc.Encoding, Body: body,
			})
		}

		if matchedFile == nil {
			continue
		}

		for _, alias := range matchedFile.AliasedBy {
			plan.Aliases = append(plan.Aliases, AliasVariant{
				AliasPath: NormalizeAssetPath(alias), ContentType: contentType,
				Headers: headers, Body: a.Content,
			})
		}

		for _, fb := range matchedFile.FallbackFor {
			status := int(fb.StatusCode)
			if status == 0 {
				status = 200
			}
			plan.Fallbacks = append(plan.Fallbacks, FallbackVariant{
				Scope: NormalizeAssetPath(fb.Scope), StatusCode: status,
				ContentType: contentType, Headers: headers, Body: a.Content,
			})
		}
	}

	for _, r := range redirects {
		status := int(Permanent)
		if r.Kind == Temporary {
			status = int(Temporary)
		}
		hdrs := response.Headers{{Name: "Location", Value: r.To}}
		hdrs = append(hdrs, r.Headers...)
		plan.Redirects = append(plan.Redirects, RedirectVariant{
			From: NormalizeAssetPath(r.From), To: r.To, StatusCode: status, Headers: hdrs,
		})
	}

	return plan, nil
}

type patternMatcher struct {
	cfg   *PatternConfig
	match func(string) bool
}
