// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists completed analyses in a local SQLite database
// so repeat lookups within a session skip the external data sources.
// The cache is never a source of truth: callers fall through to the
// live pipeline on any miss or error.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rentscope/internal/address"
	"github.com/pdiddy/rentscope/pkg/types"
)

const defaultPath = "data/rentscope.db"

// Store manages the analysis cache SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the cache database at cfg.Path, creating
// parent directories and the schema as needed.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			address TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put stores the analysis keyed by the standardized address, replacing
// any earlier entry for the same key.
func (s *Store) Put(ctx context.Context, addr string, analysis *types.InvestmentAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (address, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(address) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		address.Standardize(addr), string(payload), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing analysis: %w", err)
	}
	return nil
}

// Get returns the cached analysis for the address, or false on a miss.
func (s *Store) Get(ctx context.Context, addr string) (*types.InvestmentAnalysis, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM analyses WHERE address = ?`,
		address.Standardize(addr),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	var analysis types.InvestmentAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, false, fmt.Errorf("decoding cached analysis: %w", err)
	}
	return &analysis, true, nil
}

// Count returns the number of cached analyses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
