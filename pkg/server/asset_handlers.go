// Copyright 2025 Certen Protocol
//
// Package server wires the Asset Router to net/http: it translates an
// incoming request into a router.Request, maps router.RouteError to an
// HTTP status, and assembles the IC-Certificate response header from the
// (response, witness, expr_path) triple ServeAsset returns (§6).
package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/certen/asset-certification-router/pkg/certdata"
	"github.com/certen/asset-certification-router/pkg/metrics"
	"github.com/certen/asset-certification-router/pkg/response"
	"github.com/certen/asset-certification-router/pkg/router"
)

// AssetHandlers serves certified assets over HTTP.
type AssetHandlers struct {
	router  *router.Router
	host    certdata.Host
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewAssetHandlers builds a handler set. A nil logger defaults to a
// component-prefixed logger on the standard writer, matching this
// lineage's other handler constructors.
func NewAssetHandlers(r *router.Router, host certdata.Host, logger *log.Logger) *AssetHandlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[AssetAPI] ", log.LstdFlags)
	}
	return &AssetHandlers{router: r, host: host, logger: logger}
}

// WithMetrics attaches a Metrics instance, enabling per-request
// instrumentation. Returns h for chaining at construction time.
func (h *AssetHandlers) WithMetrics(m *metrics.Metrics) *AssetHandlers {
	h.metrics = m
	return h
}

// HandleAsset serves GET and HEAD requests for any certified path: exact
// assets, aliases, redirects, and fallbacks, via router.ServeAsset.
func (h *AssetHandlers) HandleAsset(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.router == nil {
		writeJSONError(w, "router not configured", http.StatusServiceUnavailable)
		return
	}

	result, err := h.router.ServeAsset(router.Request{
		Method: r.Method,
		Path:   r.URL.RequestURI(),
		Header: headersFromHTTP(r.Header),
	})
	if err != nil {
		status, msg := routeErrorStatus(err)
		h.logger.Printf("request_id=%s method=%s path=%s status=%d error=%v", requestID, r.Method, r.URL.Path, status, err)
		writeJSONError(w, msg, status)
		if h.metrics != nil {
			h.metrics.ObserveRequest(status, "", 0)
			if status == http.StatusRequestedRangeNotSatisfiable {
				h.metrics.ObserveRange(false)
			}
		}
		return
	}

	for _, hdr := range result.Response.Headers {
		w.Header().Add(hdr.Name, hdr.Value)
	}
	if cert, ok := h.certificateHeader(result); ok {
		w.Header().Set("IC-Certificate", cert)
	}
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(result.Response.StatusCode)
	if r.Method == http.MethodGet {
		w.Write(result.Response.Body)
	}

	if h.metrics != nil {
		encoding, ok := result.Response.Headers.Get("Content-Encoding")
		if !ok {
			encoding = "identity"
		}
		h.metrics.ObserveRequest(result.Response.StatusCode, encoding, len(result.Response.Body))
		if r.Header.Get("Range") != "" {
			h.metrics.ObserveRange(true)
		}
	}

	h.logger.Printf("request_id=%s method=%s path=%s status=%d bytes=%d", requestID, r.Method, r.URL.Path, result.Response.StatusCode, len(result.Response.Body))
}

// certificateHeader assembles the IC-Certificate header value (§6):
// certificate=<data_certificate>, tree=<base64(cbor(witness))>, version=2,
// expr_path=<base64(cbor(expr_path))>. It omits the header entirely if the
// host has not yet produced a data certificate.
func (h *AssetHandlers) certificateHeader(result *router.ServeResult) (string, bool) {
	if h.host == nil {
		return "", false
	}
	cert, ok := h.host.DataCertificate()
	if !ok {
		return "", false
	}
	treeCBOR, err := result.Witness.MarshalCBOR()
	if err != nil {
		h.logger.Printf("marshal witness: %v", err)
		return "", false
	}
	exprPathCBOR, err := cbor.Marshal(result.ExprPath)
	if err != nil {
		h.logger.Printf("marshal expr_path: %v", err)
		return "", false
	}
	return fmt.Sprintf("certificate=:%s:, tree=:%s:, version=2, expr_path=:%s:",
		base64.StdEncoding.EncodeToString(cert),
		base64.StdEncoding.EncodeToString(treeCBOR),
		base64.StdEncoding.EncodeToString(exprPathCBOR),
	), true
}

func headersFromHTTP(h http.Header) response.Headers {
	out := make(response.Headers, 0, len(h))
	for name, values := range h {
		for _, v := range values {
			out = append(out, response.Header{Name: name, Value: v})
		}
	}
	return out
}

func routeErrorStatus(err error) (int, string) {
	if re, ok := err.(*router.RouteError); ok {
		return re.Status, re.Message
	}
	return http.StatusInternalServerError, err.Error()
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  strconv.Itoa(status),
	})
}
