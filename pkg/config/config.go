// Copyright 2025 Certen Protocol
//
// Package config loads the router's YAML configuration file: where to find
// the asset manifest and content root, how to expose metrics, and whether
// to enable durable storage and a Postgres audit trail. ${VAR_NAME} and
// ${VAR_NAME:-default} references are substituted from the environment
// before the YAML is parsed.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of the router's YAML configuration file.
type Config struct {
	Environment string `yaml:"environment"`

	Server     ServerSettings     `yaml:"server"`
	Assets     AssetSettings      `yaml:"assets"`
	Store      StoreSettings      `yaml:"store"`
	Audit      AuditSettings      `yaml:"audit"`
	Monitoring MonitoringSettings `yaml:"monitoring"`
	Logging    LoggingSettings    `yaml:"logging"`
}

// ServerSettings configures the demo HTTP server in cmd/assetrouter.
type ServerSettings struct {
	ListenAddr      string   `yaml:"listen_addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// AssetSettings points at the on-disk manifest and content this router
// certifies at startup.
type AssetSettings struct {
	ManifestPath string `yaml:"manifest_path"`
	ContentRoot  string `yaml:"content_root"`
}

// StoreSettings configures the optional durable backend for the Asset
// Store (see pkg/kvdb).
type StoreSettings struct {
	Durable bool   `yaml:"durable"`
	DBPath  string `yaml:"db_path"`
}

// AuditSettings configures the Postgres-backed audit trail of certify/delete
// mutations (see pkg/audit).
type AuditSettings struct {
	Enabled         bool     `yaml:"enabled"`
	DSN             string   `yaml:"dsn"`
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
}

// MonitoringSettings configures the Prometheus metrics endpoint.
type MonitoringSettings struct {
	Enabled     bool   `yaml:"enabled"`
	ListenAddr  string `yaml:"listen_addr"`
	MetricsPath string `yaml:"metrics_path"`
}

// LoggingSettings configures the router's log output.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// Load reads and parses the YAML file at path, substituting environment
// variables first, then applies defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = "0.0.0.0:8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(mustParse("10s"))
	}
	if c.Assets.ContentRoot == "" {
		c.Assets.ContentRoot = "."
	}
	if c.Monitoring.ListenAddr == "" {
		c.Monitoring.ListenAddr = "0.0.0.0:9090"
	}
	if c.Monitoring.MetricsPath == "" {
		c.Monitoring.MetricsPath = "/metrics"
	}
	if c.Audit.MaxOpenConns == 0 {
		c.Audit.MaxOpenConns = 10
	}
	if c.Audit.MaxIdleConns == 0 {
		c.Audit.MaxIdleConns = 2
	}
	if c.Audit.ConnMaxLifetime == 0 {
		c.Audit.ConnMaxLifetime = Duration(mustParse("1h"))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName, defaultValue := groups[1], ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
