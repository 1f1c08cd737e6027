// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of documents sent to the embedder per call
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// MissingOnly restricts the run to documents stored without an embedding
	MissingOnly bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Summary describes a finished run.
type Summary struct {
	Selected int
	Updated  int
	Elapsed  time.Duration
}

// Reembedder regenerates embeddings for stored documents.
type Reembedder struct {
	repo      storage.DocumentRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *DocumentIterator
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr); nil discards it
func NewReembedder(repo storage.DocumentRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewDocumentIterator(repo, config.BatchSize, config.MissingOnly),
		logger:    slog.Default().With("component", "reembed"),
	}, nil
}

// Run re-embeds the selected documents with the configured embedder.
// A batch that still fails after retries stops the run; documents
// updated before it keep their new embeddings.
func (r *Reembedder) Run(ctx context.Context) (*Summary, error) {
	docs, err := r.iterator.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	summary := &Summary{Selected: len(docs)}
	if len(docs) == 0 {
		fmt.Fprintf(r.progress, "No documents to reembed\n")
		return summary, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d documents (batch size: %d)\n",
		len(docs), r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, len(docs), r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(batch []*core.Document) error {
		updated, err := r.processor.Process(ctx, batch)
		summary.Updated += updated
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	summary.Elapsed = tracker.Elapsed()
	if err != nil {
		r.logger.Error("reembedding stopped", "updated", summary.Updated, "err", err)
		return summary, err
	}

	tracker.Finish()
	fmt.Fprintf(r.progress, "Reembedding complete. Updated %d of %d documents in %v\n",
		summary.Updated, summary.Selected, summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}
