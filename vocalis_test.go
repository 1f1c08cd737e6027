package vocalis

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/vocalis/ai/mock"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/interaction"
	"github.com/poiesic/vocalis/reembed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestAssistant(t *testing.T, opts ...Option) (*Assistant, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider()
	opts = append([]Option{WithProvider(provider), WithApproxTokens()}, opts...)
	a, err := Open(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, provider
}

func TestOpen(t *testing.T) {
	t.Run("requires a store", func(t *testing.T) {
		a, err := Open(context.Background(), WithProvider(mock.NewMockProvider()))
		assert.ErrorIs(t, err, ErrNoStore)
		assert.Nil(t, a)
	})

	t.Run("badger on disk", func(t *testing.T) {
		a, _ := openTestAssistant(t, WithBadger(filepath.Join(t.TempDir(), "db")))
		assert.NotNil(t, a.Repository())
		assert.NotNil(t, a.backend)
	})

	t.Run("invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		a, err := Open(context.Background(), WithBadger(tmpFile), WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("builds default providers", func(t *testing.T) {
		a, err := Open(context.Background(), WithInMemory(), WithApproxTokens())
		require.NoError(t, err)
		defer a.Close()

		assert.NotNil(t, a.Provider().Embedder())
		assert.NotNil(t, a.Provider().Synthesizer())
	})
}

func TestAssistant_EndToEnd(t *testing.T) {
	ctx := context.Background()
	a, provider := openTestAssistant(t, WithInMemory())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.md"), []byte("# Go\nGo has goroutines."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "voice-notes.md"), []byte("Speech to text notes."), 0o644))

	pipeline, err := a.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	report, err := pipeline.Ingest(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Zero(t, report.Failed)

	searcher, err := a.NewSearcher()
	require.NoError(t, err)
	docs, err := searcher.Search(ctx, "# Go\nGo has goroutines.", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Go", docs[0].Title)

	store, err := interaction.NewFileAudioStore(t.TempDir(), "/audio")
	require.NoError(t, err)
	orchestrator, err := a.NewOrchestrator(store, interaction.WithTempDir(t.TempDir()))
	require.NoError(t, err)

	result, err := orchestrator.RunInteraction(ctx, core.Audio{Data: []byte("Voice notes"), Format: "wav"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Voice notes", result.Transcript)
	assert.Equal(t, core.VoiceFemale, result.Voice)
	assert.Len(t, result.Sources, 2)
	assert.Equal(t, 1, provider.GetMockSynthesizer().CallCount())

	var progress bytes.Buffer
	reembedder, err := a.NewReembedder(&reembed.Config{BatchSize: 1, ReportInterval: 1, MaxRetries: 1}, &progress)
	require.NoError(t, err)
	summary, err := reembedder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Updated)
}
