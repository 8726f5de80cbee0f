// Copyright 2025 Certen Protocol

package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_WalksContentRootAndParsesConfigs(t *testing.T) {
	dir := t.TempDir()
	contentRoot := filepath.Join(dir, "content")
	if err := os.MkdirAll(filepath.Join(contentRoot, "css"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(contentRoot, "index.html"), []byte("<h1>Hi</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(contentRoot, "css", "app.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, "configs.json")
	configJSON := `[{"File": {"Path": "/index.html", "AliasedBy": ["/"]}}]`
	if err := os.WriteFile(configPath, []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	assets, configs, err := Load(configPath, contentRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if len(configs) != 1 || configs[0].File == nil || configs[0].File.Path != "/index.html" {
		t.Fatalf("unexpected configs: %+v", configs)
	}

	found := false
	for _, a := range assets {
		if a.Path == "/css/app.css" {
			found = true
		}
	}
	if !found {
		t.Error("expected /css/app.css among loaded assets")
	}
}
