package reembed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
)

// BatchProcessor embeds batches of documents and stores the vectors.
type BatchProcessor struct {
	repo           storage.DocumentRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding API call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.DocumentRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds docs and stores each vector. Documents with blank
// content are left untouched. It returns the number of documents updated.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) (int, error) {
	targets := make([]*core.Document, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		targets = append(targets, doc)
		texts = append(texts, doc.Content)
	}
	if len(targets) == 0 {
		return 0, nil
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(embeddings) != len(targets) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(targets), len(embeddings))
	}

	for i, doc := range targets {
		if len(embeddings[i]) == 0 {
			return i, fmt.Errorf("document %d: %w", doc.Id, ai.ErrEmptyResponse)
		}
		if _, err := bp.repo.SetEmbedding(ctx, doc.Id, embeddings[i]); err != nil {
			return i, fmt.Errorf("failed to store embedding for document %d: %w", doc.Id, err)
		}
	}

	return len(targets), nil
}
