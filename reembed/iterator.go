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

	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
)

const (
	// DefaultBatchSize is the default number of documents per embedding batch
	DefaultBatchSize = 32
)

// DocumentIterator walks stored documents in insertion order, in batches.
type DocumentIterator struct {
	repo        storage.DocumentRepository
	batchSize   int
	missingOnly bool
}

// NewDocumentIterator creates a new document iterator.
// batchSize: number of documents handed to fn at a time (<= 0 uses the default)
// missingOnly: skip documents that already carry an embedding
func NewDocumentIterator(repo storage.DocumentRepository, batchSize int, missingOnly bool) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DocumentIterator{
		repo:        repo,
		batchSize:   batchSize,
		missingOnly: missingOnly,
	}
}

// Collect returns the documents the iterator would visit.
func (it *DocumentIterator) Collect(ctx context.Context) ([]*core.Document, error) {
	docs, err := it.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	if !it.missingOnly {
		return docs, nil
	}

	selected := docs[:0]
	for _, doc := range docs {
		if !doc.HasEmbedding() {
			selected = append(selected, doc)
		}
	}
	return selected, nil
}

// ForEach calls fn for each batch of documents.
// Iteration stops on first error from fn or when all documents are processed.
// Context cancellation is checked between batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	docs, err := it.Collect(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(docs); start += it.batchSize {
		end := min(start+it.batchSize, len(docs))
		if err := fn(docs[start:end]); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
