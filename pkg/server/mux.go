// Copyright 2025 Certen Protocol

package server

import "net/http"

// NewMux wires the asset-serving and management handlers into a single
// http.Handler: every path not claimed by the management API falls through
// to the certified asset handler, the same way the teacher lineage's
// validator mux mixes a handful of fixed API routes with a catch-all.
func NewMux(assetHandlers *AssetHandlers, adminHandlers *AdminHandlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/_admin/certify_assets", adminHandlers.HandleCertifyAssets)
	mux.HandleFunc("/_admin/delete_assets", adminHandlers.HandleDeleteAssets)
	mux.HandleFunc("/_admin/delete_fallback_assets", adminHandlers.HandleDeleteFallbackAssets)
	mux.HandleFunc("/_admin/delete_all_assets", adminHandlers.HandleDeleteAllAssets)
	mux.HandleFunc("/", assetHandlers.HandleAsset)
	return mux
}
