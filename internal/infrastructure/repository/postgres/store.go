// Package postgres is the durable record of folders, documents and
// classifications. Repeated scans land as upserts keyed by the uniqueness
// constraints, so the database is the serialization point for concurrent
// writers; whole scans commit or roll back as one transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026052801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS folders (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	path TEXT NOT NULL,
	parent_id TEXT REFERENCES folders(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	modified_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT uix_folder_path UNIQUE (path)
);

CREATE INDEX IF NOT EXISTS idx_folders_parent_id ON folders(parent_id);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	folder_id TEXT NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
	filename TEXT NOT NULL,
	file_type TEXT NOT NULL,
	size BIGINT NOT NULL,
	path TEXT NOT NULL,
	content TEXT,
	sentiment_polarity DOUBLE PRECISION,
	sentiment_subjectivity DOUBLE PRECISION,
	sentiment_label TEXT,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	modified_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT uix_document_path_folder UNIQUE (folder_id, path)
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_file_type ON documents(file_type);
CREATE INDEX IF NOT EXISTS idx_documents_modified_at ON documents(modified_at DESC);

CREATE TABLE IF NOT EXISTS classifications (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	category TEXT NOT NULL,
	confidence DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT uix_classification_document UNIQUE (document_id)
);

CREATE INDEX IF NOT EXISTS idx_classifications_category ON classifications(category);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
