package postgres

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/poiesic/vocalis/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestRepository connects to the database named by
// VOCALIS_TEST_POSTGRES_DSN and starts from an empty documents table.
func openTestRepository(t *testing.T) *DocumentRepository {
	t.Helper()
	dsn := os.Getenv("VOCALIS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("VOCALIS_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := Open(ctx, dsn)
	require.NoError(t, err)
	_, err = repo.pool.Exec(ctx, "TRUNCATE documents RESTART IDENTITY")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestToVector(t *testing.T) {
	assert.Nil(t, toVector(nil))
	assert.Nil(t, toVector([]float32{}))
	assert.NotNil(t, toVector([]float32{1, 2}))
}

type stubRow struct {
	err error
}

func (r stubRow) Scan(dest ...any) error {
	return r.err
}

func TestScan_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	repo := &DocumentRepository{}
	WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))(repo)

	_, err := repo.scan(stubRow{err: pgx.ErrNoRows}, "get")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, buf.String(), "missing rows are not logged")

	boom := errors.New("conn reset")
	_, err = repo.scan(stubRow{err: boom}, "upsert")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "failed to read document")
	assert.Contains(t, buf.String(), "op=upsert")
	assert.Contains(t, buf.String(), "component=postgres-documents")
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	repo := &DocumentRepository{logger: slog.Default()}
	WithLogger(nil)(repo)
	assert.NotNil(t, repo.logger)
}

func TestPostgresUpsert(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, "notes.md", "Notes", "v1", []float32{1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, first.Embedding)

	second, err := repo.Upsert(ctx, "notes.md", "Notes v2", "v2", nil)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Nil(t, second.Embedding)

	other, err := repo.Upsert(ctx, "other.md", "Other", "o", []float32{0, 1})
	require.NoError(t, err)

	docs, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.Id, docs[0].Id)
	assert.Equal(t, other.Id, docs[1].Id)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.FindBySourcePath(ctx, "missing.md")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	updated, err := repo.SetEmbedding(ctx, other.Id, []float32{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, updated.Embedding)
}
