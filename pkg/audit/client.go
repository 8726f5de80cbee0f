// Copyright 2025 Certen Protocol
//
// Postgres-backed audit trail. Follows this lineage's database client
// pattern: functional options, a pooled *sql.DB, a ping on construction.

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq" // postgres driver + array helper
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS asset_router_audit_log (
	id          BIGSERIAL PRIMARY KEY,
	kind        TEXT NOT NULL,
	paths       TEXT[] NOT NULL DEFAULT '{}',
	root_hash   TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Client is a Recorder backed by PostgreSQL.
type Client struct {
	db     *sql.DB
	logger *log.Logger
}

// ClientOption is a functional option for configuring the client.
type ClientOption func(*Client)

// WithLogger sets a custom logger for the client.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient opens a pooled connection to dsn, verifies it, and ensures the
// audit log table exists.
func NewClient(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration, opts ...ClientOption) (*Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("audit: dsn must not be empty")
	}

	c := &Client{logger: log.New(log.Writer(), "[Audit] ", log.LstdFlags)}
	for _, opt := range opts {
		opt(c)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	c.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: ensure schema: %w", err)
	}

	c.logger.Printf("connected (max_open=%d, max_idle=%d)", maxOpenConns, maxIdleConns)
	return c, nil
}

// Record implements Recorder.
func (c *Client) Record(ctx context.Context, ev Event) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO asset_router_audit_log (kind, paths, root_hash, detail) VALUES ($1, $2, $3, $4)`,
		string(ev.Kind), pq.Array(ev.Paths), ev.RootHash, ev.Detail)
	if err != nil {
		return fmt.Errorf("audit: record %s: %w", ev.Kind, err)
	}
	return nil
}

// Close implements Recorder.
func (c *Client) Close() error {
	return c.db.Close()
}
