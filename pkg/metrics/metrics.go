// Copyright 2025 Certen Protocol
//
// Package metrics exposes Prometheus instrumentation for the Asset Router:
// request counts by status and negotiated encoding, bytes served,
// chunk/range traffic, and gauges tracking the live Certification Tree
// root and depth.
package metrics

import (
	"encoding/hex"
	"strconv"

	"github.com/certen/asset-certification-router/pkg/hashvalue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the router and server record against.
// Construct once per process and share it between AssetHandlers and
// AdminHandlers.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	bytesServed     *prometheus.CounterVec
	rangeRequests   *prometheus.CounterVec
	certifyTotal    prometheus.Counter
	certifyFailures prometheus.Counter
	deleteTotal     *prometheus.CounterVec
	treeRoot        *prometheus.GaugeVec
	treeDepth       prometheus.Gauge
	certifiedPaths  prometheus.Gauge
}

// New registers every collector with reg and returns the handle. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// registry across parallel test binaries.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asset_router",
			Name:      "requests_total",
			Help:      "Total asset requests served, by HTTP status and negotiated content encoding.",
		}, []string{"status", "encoding"}),
		bytesServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asset_router",
			Name:      "bytes_served_total",
			Help:      "Total response bytes served, by negotiated content encoding.",
		}, []string{"encoding"}),
		rangeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asset_router",
			Name:      "range_requests_total",
			Help:      "Total requests carrying a Range header, by whether the range was satisfiable.",
		}, []string{"satisfiable"}),
		certifyTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asset_router",
			Name:      "certify_assets_total",
			Help:      "Total certify_assets calls that committed successfully.",
		}),
		certifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asset_router",
			Name:      "certify_assets_failures_total",
			Help:      "Total certify_assets calls rejected before any state changed.",
		}),
		deleteTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asset_router",
			Name:      "delete_operations_total",
			Help:      "Total delete_* Lifecycle operations, by kind.",
		}, []string{"kind"}),
		treeRoot: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "asset_router",
			Name:      "tree_root_info",
			Help:      "Always 1; the label carries the current Certification Tree root as hex.",
		}, []string{"root_hex"}),
		treeDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "asset_router",
			Name:      "tree_depth",
			Help:      "Length of the longest expression path currently committed to the Certification Tree.",
		}),
		certifiedPaths: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "asset_router",
			Name:      "certified_paths",
			Help:      "Number of distinct certified paths (exact, redirect, and fallback combined).",
		}),
	}
}

// ObserveRequest records one served (or rejected) asset request and the
// response body bytes it carried. encoding is the Content-Encoding value
// actually served, or "" for error responses that never reached a variant.
func (m *Metrics) ObserveRequest(status int, encoding string, bytes int) {
	if encoding == "" {
		encoding = "none"
	}
	m.requestsTotal.WithLabelValues(strconv.Itoa(status), encoding).Inc()
	if bytes > 0 {
		m.bytesServed.WithLabelValues(encoding).Add(float64(bytes))
	}
}

// ObserveRange records one Range-bearing request and whether it was
// satisfiable.
func (m *Metrics) ObserveRange(satisfiable bool) {
	m.rangeRequests.WithLabelValues(strconv.FormatBool(satisfiable)).Inc()
}

// ObserveCertify records the outcome of a certify_assets call.
func (m *Metrics) ObserveCertify(err error) {
	if err != nil {
		m.certifyFailures.Inc()
		return
	}
	m.certifyTotal.Inc()
}

// ObserveDelete records one delete_* Lifecycle operation.
func (m *Metrics) ObserveDelete(kind string) {
	m.deleteTotal.WithLabelValues(kind).Inc()
}

// SetTreeState publishes the current root, tree depth, and certified path
// count. The root gauge vector is reset first, so only the current root's
// label is ever exported.
func (m *Metrics) SetTreeState(root hashvalue.Digest, depth, certifiedPaths int) {
	m.treeRoot.Reset()
	m.treeRoot.WithLabelValues(hex.EncodeToString(root[:])).Set(1)
	m.treeDepth.Set(float64(depth))
	m.certifiedPaths.Set(float64(certifiedPaths))
}
