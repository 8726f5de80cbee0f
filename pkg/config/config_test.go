// Copyright 2025 Certen Protocol

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "router.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
assets:
  manifest_path: /data/manifest.json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != "0.0.0.0:8080" {
		t.Errorf("unexpected default listen addr: %q", cfg.Server.ListenAddr)
	}
	if cfg.Assets.ManifestPath != "/data/manifest.json" {
		t.Errorf("manifest path not parsed: %q", cfg.Assets.ManifestPath)
	}
	if cfg.Audit.ConnMaxLifetime.Duration().String() != "1h0m0s" {
		t.Errorf("unexpected default conn max lifetime: %v", cfg.Audit.ConnMaxLifetime)
	}
}

func TestLoad_SubstitutesEnvVars(t *testing.T) {
	t.Setenv("ROUTER_AUDIT_DSN", "postgres://example")
	path := writeConfig(t, `
audit:
  enabled: true
  dsn: ${ROUTER_AUDIT_DSN}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Audit.DSN != "postgres://example" {
		t.Errorf("expected env substitution, got %q", cfg.Audit.DSN)
	}
}

func TestLoad_EnvVarDefaultFallback(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: ${ROUTER_LISTEN_ADDR:-127.0.0.1:9000}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("expected fallback default, got %q", cfg.Server.ListenAddr)
	}
}
