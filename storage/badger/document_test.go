package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestUpsert_Create(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	doc, err := repo.Upsert(ctx, "hello.md", "Hello World", "# Hello World\nbody", []float32{1, 0})
	require.NoError(t, err)

	assert.NotZero(t, doc.Id)
	assert.Equal(t, "hello.md", doc.SourcePath)
	assert.Equal(t, "Hello World", doc.Title)
	assert.Equal(t, []float32{1, 0}, doc.Embedding)
	assert.Equal(t, core.FingerprintOf("# Hello World\nbody"), doc.Fingerprint)
	assert.False(t, doc.InsertedAt.IsZero())
	assert.Equal(t, doc.InsertedAt, doc.UpdatedAt)
}

func TestUpsert_UpdateKeepsIdentity(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, "notes.md", "Notes", "v1", []float32{1, 2, 3})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, "notes.md", "Notes v2", "v2", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.InsertedAt, second.InsertedAt)
	assert.Equal(t, "Notes v2", second.Title)
	assert.Equal(t, "v2", second.Content)
	assert.Nil(t, second.Embedding, "nil embedding clears the stored one")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := repo.FindBySourcePath(ctx, "notes.md")
	require.NoError(t, err)
	assert.Equal(t, second.Id, found.Id)
	assert.False(t, found.HasEmbedding())
}

func TestUpsert_EmptySourcePath(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.Upsert(context.Background(), "", "t", "c", nil)
	assert.ErrorIs(t, err, storage.ErrEmptySourcePath)
}

func TestUpsert_DoesNotAliasCallerEmbedding(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	embedding := []float32{1, 2}
	_, err := repo.Upsert(ctx, "a.md", "A", "a", embedding)
	require.NoError(t, err)
	embedding[0] = 99

	found, err := repo.FindBySourcePath(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, found.Embedding)
}

func TestUpsert_ConcurrentSamePath(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	ids := make([]core.ID, writers)
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := repo.Upsert(ctx, "shared.md", "Shared", fmt.Sprintf("writer %d", i), nil)
			errs[i] = err
			if err == nil {
				ids[i] = doc.Id
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "every writer must resolve to the same document")
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindBySourcePath_NotFound(t *testing.T) {
	repo := setupTestRepository(t)

	doc, err := repo.FindBySourcePath(context.Background(), "missing.md")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Nil(t, doc)
}

func TestAll_InsertionOrder(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		docs, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	// Enough documents to cross single-digit and single-byte ID boundaries.
	paths := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		path := fmt.Sprintf("doc-%03d.md", 299-i)
		paths = append(paths, path)
		_, err := repo.Upsert(ctx, path, path, "content", nil)
		require.NoError(t, err)
	}

	// Updating an early document must not move it.
	_, err := repo.Upsert(ctx, paths[0], "updated", "content", nil)
	require.NoError(t, err)

	docs, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, len(paths))
	for i, doc := range docs {
		assert.Equal(t, paths[i], doc.SourcePath)
		if i > 0 {
			assert.Greater(t, doc.Id, docs[i-1].Id)
		}
	}
	assert.Equal(t, "updated", docs[0].Title)
}

func TestGetDocumentAndSetEmbedding(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	doc, err := repo.Upsert(ctx, "a.md", "A", "a", nil)
	require.NoError(t, err)

	got, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)

	updated, err := repo.SetEmbedding(ctx, doc.Id, []float32{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, updated.Embedding)
	assert.Equal(t, doc.Fingerprint, updated.Fingerprint)

	_, err = repo.GetDocument(ctx, doc.Id+1000)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.SetEmbedding(ctx, doc.Id+1000, []float32{1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocuments_PersistAcrossRestart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	repo, err := NewDocumentRepository(backend)
	require.NoError(t, err)

	first, err := repo.Upsert(ctx, "a.md", "A", "a", []float32{1, 0})
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()
	repo, err = NewDocumentRepository(backend)
	require.NoError(t, err)
	defer repo.Close()

	found, err := repo.FindBySourcePath(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, first.Id, found.Id)
	assert.Equal(t, []float32{1, 0}, found.Embedding)

	again, err := repo.Upsert(ctx, "a.md", "A", "a", []float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, first.Id, again.Id, "re-ingesting after restart updates in place")

	second, err := repo.Upsert(ctx, "b.md", "B", "b", nil)
	require.NoError(t, err)
	assert.Greater(t, second.Id, first.Id, "new IDs keep increasing after restart")
}
