// Package store caches raw upstream payloads in SQLite so repeated game starts
// do not hit the Overpass API again.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrMiss is returned by Get when no fresh payload is stored
var ErrMiss = errors.New("cache miss")

// Store is a SQLite backed payload cache
type Store struct {
	conn    *sql.DB
	writeMu sync.Mutex
	now     func() time.Time
}

// Open opens or creates the database at path and ensures the schema
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			log.Printf("Warning: failed to set %s: %v", pragma, err)
		}
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("payload cache opened at %s", path)
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the payload stored under key if it is younger than maxAge.
// A zero maxAge accepts any age.
func (s *Store) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, error) {
	var body []byte
	var fetchedAt int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM payloads WHERE key = ?`, key,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("query payload %q: %w", key, err)
	}
	if maxAge > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) > maxAge {
		return nil, ErrMiss
	}
	return body, nil
}

// Put stores body under key, replacing any previous payload
func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO payloads (key, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store payload %q: %w", key, err)
	}
	return nil
}

// Prune deletes payloads older than maxAge and returns how many were removed
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cutoff := s.now().Add(-maxAge).Unix()
	res, err := s.conn.ExecContext(ctx, `DELETE FROM payloads WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune payloads: %w", err)
	}
	return res.RowsAffected()
}
