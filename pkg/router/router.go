// Copyright 2025 Certen Protocol
//
// Package router implements the Asset Router (§4.7): the routing,
// encoding-negotiation, fallback-resolution, aliasing, redirect, and
// chunking layer built on top of the Certification Tree and Asset Store.
package router

import (
	"fmt"
	"sort"
	"sync"

	"github.com/certen/asset-certification-router/pkg/assets"
	"github.com/certen/asset-certification-router/pkg/certtree"
	"github.com/certen/asset-certification-router/pkg/hashvalue"
	"github.com/certen/asset-certification-router/pkg/resolver"
	"github.com/certen/asset-certification-router/pkg/response"
)

// variantEntry holds one encoding's (or one fallback's) chunk sequence,
// ordered the same as starts.
type variantEntry struct {
	chunks []*response.CertifiedResponse
	starts []int
}

// assetEntry is every encoding available at an exact-match or alias path.
type assetEntry struct {
	byEncoding map[resolver.AssetEncoding]*variantEntry
}

// Router owns the live Certification Tree, the Asset Store, and the three
// lookup indices the Design Notes require be kept separate: exact-match
// (assets and aliases), redirects, and fallbacks. certify_assets and the
// delete_* operations mutate all of them together, staging the new variants
// before touching any of them so a failed certify_assets leaves prior state
// untouched (§7).
type Router struct {
	mu sync.RWMutex

	tree  *certtree.Tree
	store *assets.Store

	exact     map[string]*assetEntry
	redirects map[string]*response.CertifiedResponse
	fallbacks map[string]*variantEntry
}

// New returns an empty Router.
func New() *Router {
	return &Router{
		tree:      certtree.New(),
		store:     assets.New(),
		exact:     map[string]*assetEntry{},
		redirects: map[string]*response.CertifiedResponse{},
		fallbacks: map[string]*variantEntry{},
	}
}

// NewWithStore returns an empty Router whose Asset Store write-throughs to
// an optional durable backend (see pkg/kvdb).
func NewWithStore(store *assets.Store) *Router {
	return &Router{
		tree:      certtree.New(),
		store:     store,
		exact:     map[string]*assetEntry{},
		redirects: map[string]*response.CertifiedResponse{},
		fallbacks: map[string]*variantEntry{},
	}
}

type stagedInsertion struct {
	exprPath [][]byte
	leaf     hashvalue.Digest
	key      assets.Key
	body     []byte
}

// CertifyAssets resolves assets against configs and certifies every
// resulting variant (§4.6, §4.4). The full batch is built in a local
// staging area first; if anything fails, the live tree, store, and indices
// are left exactly as they were.
func (r *Router) CertifyAssets(as []resolver.Asset, configs []resolver.AssetConfig) error {
	plan, err := resolver.Resolve(as, configs)
	if err != nil {
		return err
	}

	var insertions []stagedInsertion
	exactUpdates := map[string]*assetEntry{}
	redirectUpdates := map[string]*response.CertifiedResponse{}
	fallbackUpdates := map[string]*variantEntry{}

	stageBody := func(path, terminal, encoding string, statusCode int, contentType string,
		headers response.Headers, contentEncoding string, body []byte) (*variantEntry, error) {

		ranges := assets.Split(body)
		chunked := len(ranges) > 1
		ve := &variantEntry{}

		for i, rg := range ranges {
			chunkBody := assets.ChunkBody(body, rg)
			if chunked && len(chunkBody) == 0 {
				return nil, fmt.Errorf("router: certify %q: %w", path, assets.ErrEmptyChunkBody)
			}

			exprPath := exprPathFor(path, terminal)
			var chunkDesc *response.Chunk
			if chunked {
				exprPath = append(append([][]byte{}, exprPath...), []byte(fmt.Sprintf("range-%d", rg.Start)))
				chunkDesc = &response.Chunk{Start: rg.Start, End: rg.End, Total: rg.Total}
			}

			built, err := response.Build(response.BuildInput{
				StatusCode:      statusCode,
				BaseHeaders:     headers,
				Body:            chunkBody,
				ContentType:     contentType,
				ContentEncoding: contentEncoding,
				Chunk:           chunkDesc,
				ExprPath:        exprPath,
			})
			if err != nil {
				return nil, err
			}

			ve.chunks = append(ve.chunks, built)
			ve.starts = append(ve.starts, rg.Start)
			insertions = append(insertions, stagedInsertion{
				exprPath: exprPath,
				leaf:     built.LeafHash,
				key:      assets.Key{Path: path, Encoding: encoding, ChunkIndex: i},
				body:     chunkBody,
			})
		}
		return ve, nil
	}

	for _, v := range plan.Exact {
		ve, err := stageBody(v.Path, terminalExact, v.Encoding.ContentEncoding(), 200,
			v.ContentType, v.Headers, v.Encoding.ContentEncoding(), v.Body)
		if err != nil {
			return err
		}
		entry := exactUpdates[v.Path]
		if entry == nil {
			entry = &assetEntry{byEncoding: map[resolver.AssetEncoding]*variantEntry{}}
			exactUpdates[v.Path] = entry
		}
		entry.byEncoding[v.Encoding] = ve
	}

	for _, a := range plan.Aliases {
		ve, err := stageBody(a.AliasPath, terminalExact, resolver.Identity.ContentEncoding(), 200,
			a.ContentType, a.Headers, "", a.Body)
		if err != nil {
			return err
		}
		entry := exactUpdates[a.AliasPath]
		if entry == nil {
			entry = &assetEntry{byEncoding: map[resolver.AssetEncoding]*variantEntry{}}
			exactUpdates[a.AliasPath] = entry
		}
		entry.byEncoding[resolver.Identity] = ve
	}

	for _, f := range plan.Fallbacks {
		ve, err := stageBody(f.Scope, terminalFallback, "identity/fallback", f.StatusCode,
			f.ContentType, f.Headers, "", f.Body)
		if err != nil {
			return err
		}
		fallbackUpdates[f.Scope] = ve
	}

	for _, rv := range plan.Redirects {
		exprPath := exprPathFor(rv.From, terminalExact)
		built, err := response.Build(response.BuildInput{
			StatusCode:  rv.StatusCode,
			BaseHeaders: rv.Headers,
			ExprPath:    exprPath,
		})
		if err != nil {
			return err
		}
		insertions = append(insertions, stagedInsertion{exprPath: exprPath, leaf: built.LeafHash})
		redirectUpdates[rv.From] = built
	}

	// Nothing above touched live state. Apply atomically now.
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ins := range insertions {
		// exprPath is always built by exprPathFor with a non-empty terminal
		// segment, so certtree.ErrEmptyPath (Insert's only failure mode)
		// cannot occur here; checked anyway rather than discarded.
		if err := r.tree.Insert(ins.exprPath, ins.leaf); err != nil {
			return fmt.Errorf("router: insert %x: %w", ins.exprPath, err)
		}
		if ins.key.Path != "" {
			if err := r.store.Put(ins.key, ins.body); err != nil {
				return fmt.Errorf("router: store %q: %w", ins.key.Path, err)
			}
		}
	}
	for path, entry := range exactUpdates {
		r.exact[path] = entry
	}
	for path, resp := range redirectUpdates {
		r.redirects[path] = resp
	}
	for scope, ve := range fallbackUpdates {
		r.fallbacks[scope] = ve
	}
	return nil
}

// DeleteAssetsByPath removes every exact-match asset, alias, and redirect
// certified at each of paths, across all encodings and chunks. It does not
// touch fallback variants (Design Notes: "Redirects are not assets").
func (r *Router) DeleteAssetsByPath(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, path := range paths {
		if entry, ok := r.exact[path]; ok {
			for enc, ve := range entry.byEncoding {
				for i, chunk := range ve.chunks {
					r.tree.Delete(chunk.ExprPath)
					r.store.Delete(assets.Key{Path: path, Encoding: enc.ContentEncoding(), ChunkIndex: i})
				}
			}
			delete(r.exact, path)
		}
		if resp, ok := r.redirects[path]; ok {
			r.tree.Delete(resp.ExprPath)
			delete(r.redirects, path)
		}
	}
}

// DeleteAssets is the bulk counterpart of DeleteAssetsByPath: both names
// are named in the Lifecycle but describe the same removal semantics
// (removing whatever is certified at a path), so this is a direct alias.
func (r *Router) DeleteAssets(paths ...string) {
	r.DeleteAssetsByPath(paths...)
}

// DeleteFallbackAssetsByPath removes fallback variants at each of scopes,
// leaving exact-match assets, aliases, and redirects untouched.
func (r *Router) DeleteFallbackAssetsByPath(scopes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, scope := range scopes {
		ve, ok := r.fallbacks[scope]
		if !ok {
			continue
		}
		for i, chunk := range ve.chunks {
			r.tree.Delete(chunk.ExprPath)
			r.store.Delete(assets.Key{Path: scope, Encoding: "identity/fallback", ChunkIndex: i})
		}
		delete(r.fallbacks, scope)
	}
}

// DeleteAllAssets empties the tree, store, and every index.
func (r *Router) DeleteAllAssets() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree = certtree.New()
	r.store.DeleteAll()
	r.exact = map[string]*assetEntry{}
	r.redirects = map[string]*response.CertifiedResponse{}
	r.fallbacks = map[string]*variantEntry{}
}

// RootHash returns the current root of the Certification Tree, to be
// published to the host via set_certified_data.
func (r *Router) RootHash() hashvalue.Digest {
	return r.tree.RootHash()
}

// TreeDepth returns the length of the longest expression path currently
// committed to the Certification Tree.
func (r *Router) TreeDepth() int {
	return r.tree.Depth()
}

// GetAsset returns the raw stored body for (path, encoding, chunk 0), for
// callers that want the content without going through HTTP negotiation.
func (r *Router) GetAsset(path string, encoding resolver.AssetEncoding) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.exact[path]
	if !ok {
		return nil, false
	}
	ve, ok := entry.byEncoding[encoding]
	if !ok || len(ve.chunks) == 0 {
		return nil, false
	}
	return ve.chunks[0].Body, true
}

// ListCertifiedPaths returns every exact-match path, fallback scope, and
// redirect source currently certified, sorted.
func (r *Router) ListCertifiedPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	for p := range r.exact {
		seen[p] = true
	}
	for p := range r.redirects {
		seen[p] = true
	}
	for p := range r.fallbacks {
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
