// Package postgres provides a pgx-backed document store. The contract is the
// same key/value shape as the file store: the whole document serialized as
// JSON under one fixed storage key, one row per key.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yhjeon/assemblybook/internal/book"
)

const schema = `
create table if not exists documents (
    key        text primary key,
    doc        jsonb not null,
    updated_at timestamptz not null default now()
)`

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string and
// ensures the documents table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Load reads the document stored under the fixed key.
func (s *Store) Load(ctx context.Context) (book.Document, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `select doc from documents where key = $1`, book.StorageKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.Document{}, false, nil
	}
	if err != nil {
		return book.Document{}, false, err
	}
	var doc book.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return book.Document{}, false, err
	}
	doc.Normalize()
	return doc, true, nil
}

// Save upserts the document under the fixed key.
func (s *Store) Save(ctx context.Context, doc book.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
        insert into documents (key, doc, updated_at)
        values ($1, $2, $3)
        on conflict (key) do update set doc = excluded.doc, updated_at = excluded.updated_at
    `, book.StorageKey, raw, time.Now().UTC())
	return err
}
