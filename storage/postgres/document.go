// Package postgres implements storage.DocumentRepository on PostgreSQL with
// the pgvector extension. Embeddings are stored in an untyped vector column
// so that documents embedded by different models can coexist; relevance
// scoring still happens in the search package.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS documents (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	content     TEXT NOT NULL,
	source_path TEXT NOT NULL UNIQUE,
	embedding   vector,
	fingerprint BIGINT NOT NULL,
	inserted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const documentColumns = `id, title, content, source_path, embedding::text, fingerprint, inserted_at, updated_at`

// DocumentRepository implements storage.DocumentRepository for PostgreSQL.
type DocumentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// Option configures a DocumentRepository.
type Option func(*DocumentRepository)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *DocumentRepository) {
		if logger != nil {
			r.logger = logger.With("component", "postgres-documents")
		}
	}
}

// Open connects to PostgreSQL, verifies the connection and ensures the
// documents table exists.
func Open(ctx context.Context, dsn string, opts ...Option) (*DocumentRepository, error) {
	r := &DocumentRepository{
		logger: slog.Default().With("component", "postgres-documents"),
	}
	for _, opt := range opts {
		opt(r)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		r.logger.Error("invalid connection string", "err", err)
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		r.logger.Error("database unreachable", "host", pool.Config().ConnConfig.Host, "err", err)
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		r.logger.Error("failed to apply schema", "err", err)
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	r.pool = pool
	r.logger.Debug("connected", "host", pool.Config().ConnConfig.Host)
	return r, nil
}

// Close closes the connection pool.
func (r *DocumentRepository) Close() error {
	r.pool.Close()
	return nil
}

// Upsert relies on the unique source_path constraint, so the
// find-or-create-then-update happens in a single statement.
func (r *DocumentRepository) Upsert(ctx context.Context, sourcePath, title, content string, embedding []float32) (*core.Document, error) {
	if sourcePath == "" {
		return nil, storage.ErrEmptySourcePath
	}

	query := `INSERT INTO documents (title, content, source_path, embedding, fingerprint)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_path) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = now()
		RETURNING ` + documentColumns

	row := r.pool.QueryRow(ctx, query,
		title, content, sourcePath, toVector(embedding), int64(core.FingerprintOf(content)))
	return r.scan(row, "upsert")
}

// All returns every stored document ordered by ID.
func (r *DocumentRepository) All(ctx context.Context) ([]*core.Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY id`)
	if err != nil {
		r.logger.Error("query failed", "op", "all", "err", err)
		return nil, err
	}
	defer rows.Close()

	docs := make([]*core.Document, 0)
	for rows.Next() {
		doc, err := r.scan(rows, "all")
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("row iteration failed", "op", "all", "err", err)
		return nil, err
	}
	return docs, nil
}

// FindBySourcePath returns the document stored under path.
func (r *DocumentRepository) FindBySourcePath(ctx context.Context, path string) (*core.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE source_path = $1`, path)
	return r.scan(row, "find_by_source_path")
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, int64(id))
	return r.scan(row, "get")
}

// SetEmbedding replaces the embedding of an existing document.
func (r *DocumentRepository) SetEmbedding(ctx context.Context, id core.ID, embedding []float32) (*core.Document, error) {
	query := `UPDATE documents SET embedding = $2, updated_at = now() WHERE id = $1 RETURNING ` + documentColumns
	row := r.pool.QueryRow(ctx, query, int64(id), toVector(embedding))
	return r.scan(row, "set_embedding")
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}

// toVector converts an embedding into a query parameter. Absent
// embeddings are written as NULL.
func toVector(embedding []float32) any {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

// scan reads one document from row. Missing rows map to
// storage.ErrNotFound; every other failure is logged.
func (r *DocumentRepository) scan(row pgx.Row, op string) (*core.Document, error) {
	doc, err := scanDocument(row)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Error("failed to read document", "op", op, "err", err)
	}
	return doc, err
}

func scanDocument(row pgx.Row) (*core.Document, error) {
	var (
		id          int64
		fingerprint int64
		embedding   *string
		doc         core.Document
	)
	err := row.Scan(&id, &doc.Title, &doc.Content, &doc.SourcePath, &embedding, &fingerprint, &doc.InsertedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	doc.Id = core.ID(id)
	doc.Fingerprint = core.Fingerprint(fingerprint)
	doc.InsertedAt = doc.InsertedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()

	if embedding != nil && *embedding != "[]" {
		var v pgvector.Vector
		if err := v.Parse(*embedding); err != nil {
			return nil, fmt.Errorf("%w: embedding: %w", storage.ErrSerializationFailed, err)
		}
		doc.Embedding = v.Slice()
	}
	return &doc, nil
}
