// Copyright 2025 Certen Protocol

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen/asset-certification-router/pkg/assets"
	"github.com/certen/asset-certification-router/pkg/audit"
	"github.com/certen/asset-certification-router/pkg/certdata"
	"github.com/certen/asset-certification-router/pkg/config"
	"github.com/certen/asset-certification-router/pkg/kvdb"
	"github.com/certen/asset-certification-router/pkg/manifest"
	"github.com/certen/asset-certification-router/pkg/metrics"
	"github.com/certen/asset-certification-router/pkg/router"
	"github.com/certen/asset-certification-router/pkg/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to router.yaml (overrides ROUTER_CONFIG env var)")
	)
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("ROUTER_CONFIG")
	}
	if path == "" {
		log.Fatal("no config path given: pass -config or set ROUTER_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	log.Printf("starting asset certification router (environment=%s)", cfg.Environment)

	rtr, closeStore, err := buildRouter(cfg)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}
	defer closeStore()

	loadedAssets, configs, err := manifest.Load(cfg.Assets.ManifestPath, cfg.Assets.ContentRoot)
	if err != nil {
		log.Fatalf("failed to load asset manifest: %v", err)
	}
	if err := rtr.CertifyAssets(loadedAssets, configs); err != nil {
		log.Fatalf("failed to certify initial asset set: %v", err)
	}
	log.Printf("certified %d asset paths at startup", len(rtr.ListCertifiedPaths()))

	host := certdata.NewStubHost()
	if err := host.SetCertifiedData(rtr.RootHash()); err != nil {
		log.Fatalf("failed to publish initial certified data: %v", err)
	}

	recorder, err := buildRecorder(cfg)
	if err != nil {
		log.Printf("audit trail disabled: %v", err)
		recorder = audit.Noop{}
	}
	defer recorder.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SetTreeState(rtr.RootHash(), rtr.TreeDepth(), len(rtr.ListCertifiedPaths()))

	assetHandlers := server.NewAssetHandlers(rtr, host, log.New(log.Writer(), "[AssetAPI] ", log.LstdFlags)).WithMetrics(m)
	adminHandlers := server.NewAdminHandlers(rtr, host, recorder, log.New(log.Writer(), "[AdminAPI] ", log.LstdFlags)).WithMetrics(m)
	mux := server.NewMux(assetHandlers, adminHandlers)

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: mux,
	}

	var metricsServer *http.Server
	if cfg.Monitoring.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Monitoring.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.Monitoring.ListenAddr, Handler: metricsMux}
		go func() {
			log.Printf("metrics listening on %s%s", cfg.Monitoring.ListenAddr, cfg.Monitoring.MetricsPath)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("asset router listening on %s", cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down asset router...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics server shutdown error: %v", err)
		}
	}

	log.Printf("asset router stopped")
}

// buildRouter constructs the Router, optionally mirroring every certified
// body to a durable KV store per Store.Durable, for external durability
// only (see pkg/assets.KV) — the manifest is always re-certified from disk
// on startup; nothing is rehydrated from the KV store. It returns a close
// func that is always safe to call, even when no store was opened.
func buildRouter(cfg *config.Config) (*router.Router, func(), error) {
	if !cfg.Store.Durable {
		return router.New(), func() {}, nil
	}
	db, err := dbm.NewGoLevelDB("assets", cfg.Store.DBPath)
	if err != nil {
		return nil, nil, err
	}
	store := assets.NewWithKV(kvdb.NewAdapter(db))
	return router.NewWithStore(store), func() { db.Close() }, nil
}

func buildRecorder(cfg *config.Config) (audit.Recorder, error) {
	if !cfg.Audit.Enabled {
		return audit.Noop{}, nil
	}
	return audit.NewClient(cfg.Audit.DSN, cfg.Audit.MaxOpenConns, cfg.Audit.MaxIdleConns, cfg.Audit.ConnMaxLifetime.Duration())
}
