// Copyright 2025 Certen Protocol
//
// Package manifest loads the on-disk AssetConfig declarations and asset
// bodies a deployment certifies at startup: a JSON manifest describing
// File/Pattern/Redirect configs, plus a content root directory holding the
// actual asset bytes, together forming the (assets, configs) pair
// router.CertifyAssets expects.
package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/certen/asset-certification-router/pkg/resolver"
)

// Load reads configPath as a JSON array of resolver.AssetConfig and walks
// contentRoot for every regular file, producing the matching resolver.Asset
// slice. Asset paths are the file's path relative to contentRoot, with a
// leading slash, matching the Asset Path convention used throughout (§3).
func Load(configPath, contentRoot string) ([]resolver.Asset, []resolver.AssetConfig, error) {
	configs, err := loadConfigs(configPath)
	if err != nil {
		return nil, nil, err
	}
	assets, err := loadAssets(contentRoot)
	if err != nil {
		return nil, nil, err
	}
	return assets, configs, nil
}

func loadConfigs(path string) ([]resolver.AssetConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read configs %q: %w", path, err)
	}
	var configs []resolver.AssetConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, fmt.Errorf("manifest: parse configs %q: %w", path, err)
	}
	return configs, nil
}

func loadAssets(root string) ([]resolver.Asset, error) {
	var out []resolver.Asset
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("manifest: read asset %q: %w", path, err)
		}
		out = append(out, resolver.Asset{
			Path:    "/" + filepath.ToSlash(rel),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: walk content root %q: %w", root, err)
	}
	return out, nil
}
