package storage

import (
	"context"

	"github.com/poiesic/vocalis/core"
)

// DocumentRepository persists ingested documents.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// Upsert creates or updates the document stored under sourcePath.
	// The find-or-create-then-update is atomic with respect to sourcePath:
	// concurrent upserts of the same path never produce two records.
	// An existing document keeps its ID and InsertedAt timestamp.
	// A nil embedding clears any previously stored embedding.
	Upsert(ctx context.Context, sourcePath, title, content string, embedding []float32) (*core.Document, error)

	// All returns every stored document in insertion order.
	All(ctx context.Context) ([]*core.Document, error)

	// FindBySourcePath returns the document stored under path.
	// Returns ErrNotFound if no document has that path.
	FindBySourcePath(ctx context.Context, path string) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// SetEmbedding replaces the embedding of an existing document.
	// Returns ErrNotFound if the document doesn't exist.
	SetEmbedding(ctx context.Context, id core.ID, embedding []float32) (*core.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
