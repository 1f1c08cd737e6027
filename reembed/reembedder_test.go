package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/vocalis/ai/mock"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
	"github.com/poiesic/vocalis/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func seedDocuments(t *testing.T, repo storage.DocumentRepository, n int, withEmbedding func(i int) bool) {
	t.Helper()
	for i := range n {
		var embedding []float32
		if withEmbedding(i) {
			embedding = []float32{9, 9}
		}
		_, err := repo.Upsert(context.Background(), fmt.Sprintf("doc-%02d.md", i), "Doc", fmt.Sprintf("content %d", i), embedding)
		require.NoError(t, err)
	}
}

func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.BatchSize = 4
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestNewReembedder(t *testing.T) {
	repo := newTestRepository(t)

	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReembedder(repo, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	r, err := NewReembedder(repo, mock.NewMockEmbedder(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, r.iterator.batchSize)
}

func TestReembedder_RunAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seedDocuments(t, repo, 10, func(i int) bool { return i%2 == 0 })

	embedder := &mock.MockEmbedder{Dimension: 3}
	var out bytes.Buffer
	r, err := NewReembedder(repo, embedder, fastConfig(), &out)
	require.NoError(t, err)

	summary, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Selected)
	assert.Equal(t, 10, summary.Updated)
	assert.Equal(t, 3, embedder.CallCount(), "10 documents in batches of 4")

	docs, err := repo.All(ctx)
	require.NoError(t, err)
	for _, doc := range docs {
		assert.Len(t, doc.Embedding, 3)
		assert.Equal(t, mock.DeterministicVector(doc.Content, 3), doc.Embedding)
	}

	assert.Contains(t, out.String(), "Starting reembedding of 10 documents")
	assert.Contains(t, out.String(), "Updated 10 of 10 documents")
}

func TestReembedder_MissingOnly(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seedDocuments(t, repo, 6, func(i int) bool { return i < 4 })

	cfg := fastConfig()
	cfg.MissingOnly = true
	r, err := NewReembedder(repo, &mock.MockEmbedder{Dimension: 2}, cfg, nil)
	require.NoError(t, err)

	summary, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Selected)
	assert.Equal(t, 2, summary.Updated)

	kept, err := repo.FindBySourcePath(ctx, "doc-00.md")
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 9}, kept.Embedding)

	filled, err := repo.FindBySourcePath(ctx, "doc-05.md")
	require.NoError(t, err)
	assert.True(t, filled.HasEmbedding())
	assert.NotEqual(t, []float32{9, 9}, filled.Embedding)
}

func TestReembedder_EmptyRepository(t *testing.T) {
	var out bytes.Buffer
	r, err := NewReembedder(newTestRepository(t), mock.NewMockEmbedder(), fastConfig(), &out)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Selected)
	assert.Contains(t, out.String(), "No documents to reembed")
}

func TestReembedder_RetriesTransientFailures(t *testing.T) {
	repo := newTestRepository(t)
	seedDocuments(t, repo, 3, func(int) bool { return false })

	var calls atomic.Int32
	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("503 service unavailable")
			}
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, 0}
			}
			return out, nil
		},
	}

	r, err := NewReembedder(repo, embedder, fastConfig(), nil)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReembedder_StopsOnPersistentFailure(t *testing.T) {
	repo := newTestRepository(t)
	seedDocuments(t, repo, 8, func(int) bool { return false })

	batches := 0
	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			batches++
			if batches > 1 {
				return nil, errors.New("quota exceeded")
			}
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{0, 1}
			}
			return out, nil
		},
	}

	cfg := fastConfig()
	cfg.MaxRetries = 2
	r, err := NewReembedder(repo, embedder, cfg, nil)
	require.NoError(t, err)

	summary, err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 4, summary.Updated, "first batch is kept")
	assert.Equal(t, 3, batches)
}

func TestBatchProcessor_SkipsBlankContent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	blank, err := repo.Upsert(ctx, "blank.md", "Blank", "   ", nil)
	require.NoError(t, err)
	full, err := repo.Upsert(ctx, "full.md", "Full", "text", nil)
	require.NoError(t, err)

	embedder := &mock.MockEmbedder{Dimension: 2}
	processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)

	updated, err := processor.Process(ctx, []*core.Document{blank, full})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := repo.GetDocument(ctx, blank.Id)
	require.NoError(t, err)
	assert.False(t, got.HasEmbedding())

	updated, err = processor.Process(ctx, []*core.Document{blank})
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	doc, err := repo.Upsert(ctx, "a.md", "A", "text", nil)
	require.NoError(t, err)

	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(context.Context, []string) ([][]float32, error) {
			return [][]float32{}, nil
		},
	}
	processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)

	_, err = processor.Process(ctx, []*core.Document{doc})
	assert.ErrorContains(t, err, "embedding count mismatch")
}

func TestDocumentIterator_Batches(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seedDocuments(t, repo, 7, func(int) bool { return false })

	var sizes []int
	var paths []string
	err := NewDocumentIterator(repo, 3, false).ForEach(ctx, func(batch []*core.Document) error {
		sizes = append(sizes, len(batch))
		for _, doc := range batch {
			paths = append(paths, doc.SourcePath)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, "doc-00.md", paths[0])
	assert.Equal(t, "doc-06.md", paths[6])
}

func TestDocumentIterator_StopsOnError(t *testing.T) {
	repo := newTestRepository(t)
	seedDocuments(t, repo, 5, func(int) bool { return false })

	boom := errors.New("boom")
	calls := 0
	err := NewDocumentIterator(repo, 2, false).ForEach(context.Background(), func([]*core.Document) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDocumentIterator_Cancelled(t *testing.T) {
	repo := newTestRepository(t)
	seedDocuments(t, repo, 2, func(int) bool { return false })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDocumentIterator(repo, 1, false).ForEach(ctx, func([]*core.Document) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
