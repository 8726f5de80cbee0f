// Copyright 2025 Certen Protocol
//
// Management API: certify_assets and the delete_* Lifecycle operations
// (§3), exposed as JSON endpoints for whatever ingestion process owns the
// canister's asset manifest. Every mutation that succeeds updates the
// certdata Host and records an audit.Event.

package server

import (
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"

	"github.com/certen/asset-certification-router/pkg/audit"
	"github.com/certen/asset-certification-router/pkg/certdata"
	"github.com/certen/asset-certification-router/pkg/metrics"
	"github.com/certen/asset-certification-router/pkg/resolver"
	"github.com/certen/asset-certification-router/pkg/router"
)

// AdminHandlers mutates the certified asset set.
type AdminHandlers struct {
	router   *router.Router
	host     certdata.Host
	recorder audit.Recorder
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// NewAdminHandlers builds the management handler set. A nil recorder
// defaults to audit.Noop{}, and a nil logger defaults the same way every
// other handler set in this package does.
func NewAdminHandlers(r *router.Router, host certdata.Host, recorder audit.Recorder, logger *log.Logger) *AdminHandlers {
	if recorder == nil {
		recorder = audit.Noop{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[AdminAPI] ", log.LstdFlags)
	}
	return &AdminHandlers{router: r, host: host, recorder: recorder, logger: logger}
}

// WithMetrics attaches a Metrics instance. Returns h for chaining at
// construction time.
func (h *AdminHandlers) WithMetrics(m *metrics.Metrics) *AdminHandlers {
	h.metrics = m
	return h
}

type certifyRequest struct {
	Assets  []resolver.Asset       `json:"assets"`
	Configs []resolver.AssetConfig `json:"configs"`
}

// HandleCertifyAssets implements the certify_assets HTTP surface.
func (h *AdminHandlers) HandleCertifyAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req certifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	err := h.router.CertifyAssets(req.Assets, req.Configs)
	if h.metrics != nil {
		h.metrics.ObserveCertify(err)
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	paths := make([]string, len(req.Assets))
	for i, a := range req.Assets {
		paths[i] = a.Path
	}
	h.publish(r, audit.EventCertifyAssets, paths, "")
	writeJSONOK(w)
}

type pathsRequest struct {
	Paths []string `json:"paths"`
}

// HandleDeleteAssets implements delete_assets / delete_assets_by_path.
func (h *AdminHandlers) HandleDeleteAssets(w http.ResponseWriter, r *http.Request) {
	h.handlePathDeletion(w, r, audit.EventDeleteAssets, h.router.DeleteAssetsByPath)
}

// HandleDeleteFallbackAssets implements delete_fallback_assets_by_path.
func (h *AdminHandlers) HandleDeleteFallbackAssets(w http.ResponseWriter, r *http.Request) {
	h.handlePathDeletion(w, r, audit.EventDeleteFallbackAssets, h.router.DeleteFallbackAssetsByPath)
}

func (h *AdminHandlers) handlePathDeletion(w http.ResponseWriter, r *http.Request, kind audit.EventKind, deleteFn func(...string)) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req pathsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	deleteFn(req.Paths...)
	h.publish(r, kind, req.Paths, "")
	writeJSONOK(w)
}

// HandleDeleteAllAssets implements delete_all_assets.
func (h *AdminHandlers) HandleDeleteAllAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.router.DeleteAllAssets()
	h.publish(r, audit.EventDeleteAllAssets, nil, "")
	writeJSONOK(w)
}

// publish pushes the canister's certified data to the host and records an
// audit event, in that order, after a mutation has already taken effect in
// the router. It never fails the HTTP response: a dropped audit record or
// host update is logged, not surfaced as a 5xx for an otherwise-successful
// mutation.
func (h *AdminHandlers) publish(r *http.Request, kind audit.EventKind, paths []string, detail string) {
	root := h.router.RootHash()
	if h.host != nil {
		if err := h.host.SetCertifiedData(root); err != nil {
			h.logger.Printf("set_certified_data: %v", err)
		}
	}
	if err := h.recorder.Record(r.Context(), audit.Event{
		Kind:     kind,
		Paths:    paths,
		RootHash: hex.EncodeToString(root[:]),
		Detail:   detail,
	}); err != nil {
		h.logger.Printf("audit record: %v", err)
	}
	if h.metrics != nil {
		if kind != audit.EventCertifyAssets {
			h.metrics.ObserveDelete(string(kind))
		}
		h.metrics.SetTreeState(root, h.router.TreeDepth(), len(h.router.ListCertifiedPaths()))
	}
}

func writeJSONOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
