package interaction

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/vocalis/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAudioStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileAudioStore(root, "audio/")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "responses"))

	ref, err := store.Save(context.Background(), core.Audio{Data: []byte("ID3"), Format: "MP3"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/audio/responses/"))
	assert.True(t, strings.HasSuffix(ref, ".mp3"))

	path, err := store.Resolve(ref)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))

	other, err := store.Save(context.Background(), core.Audio{Data: []byte("x")})
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
	assert.True(t, strings.HasSuffix(other, ".mp3"), "unknown format defaults to mp3")

	_, err = store.Save(context.Background(), core.Audio{})
	assert.ErrorIs(t, err, core.ErrEmptyAudio)

	_, err = store.Resolve("/elsewhere/responses/a.mp3")
	assert.Error(t, err)
	_, err = store.Resolve("/audio/../secrets")
	assert.Error(t, err)
}

func TestFileAudioStore_NoPrefix(t *testing.T) {
	store, err := NewFileAudioStore(t.TempDir(), "")
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), core.Audio{Data: []byte("x"), Format: "wav"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/responses/"))
	assert.True(t, strings.HasSuffix(ref, ".wav"))
}

func TestFileAudioStore_Cancelled(t *testing.T) {
	store, err := NewFileAudioStore(t.TempDir(), "/audio")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, core.Audio{Data: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewFileAudioStore("", "/audio")
	assert.Error(t, err)
}

func TestSpoolAudio(t *testing.T) {
	dir := t.TempDir()

	path, cleanup, err := spoolAudio(dir, core.Audio{Data: []byte("pcm"), Format: ".WAV"})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".wav"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pcm", string(data))

	require.NoError(t, cleanup())
	assert.NoFileExists(t, path)
	assert.NoError(t, cleanup(), "cleanup is idempotent")
}
