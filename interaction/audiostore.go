package interaction

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/vocalis/core"
)

// AudioStore persists synthesized audio and returns a reference a client
// can fetch it by.
type AudioStore interface {
	Save(ctx context.Context, audio core.Audio) (string, error)
}

const responsesDir = "responses"

// FileAudioStore writes audio under <root>/responses/<uuid>.<format> and
// returns references of the form <urlPrefix>/responses/<uuid>.<format>.
type FileAudioStore struct {
	root      string
	urlPrefix string
}

// NewFileAudioStore creates the responses directory under root.
func NewFileAudioStore(root, urlPrefix string) (*FileAudioStore, error) {
	if root == "" {
		return nil, fmt.Errorf("audio store root required")
	}
	if err := os.MkdirAll(filepath.Join(root, responsesDir), 0o755); err != nil {
		return nil, err
	}
	prefix := strings.Trim(urlPrefix, "/")
	if prefix != "" {
		prefix = "/" + prefix
	}
	return &FileAudioStore{
		root:      root,
		urlPrefix: prefix,
	}, nil
}

// Root returns the directory served under the URL prefix.
func (s *FileAudioStore) Root() string {
	return s.root
}

// Save writes audio to a new file.
func (s *FileAudioStore) Save(ctx context.Context, audio core.Audio) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(audio.Data) == 0 {
		return "", core.NewValidationError("audio", core.ErrEmptyAudio)
	}

	format := core.NormalizeAudioFormat(audio.Format)
	if format == "" {
		format = "mp3"
	}
	name := uuid.NewString() + "." + format

	if err := os.WriteFile(filepath.Join(s.root, responsesDir, name), audio.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save audio: %w", err)
	}
	return s.urlPrefix + "/" + path.Join(responsesDir, name), nil
}

// Resolve maps a reference returned by Save back to its file path.
func (s *FileAudioStore) Resolve(ref string) (string, error) {
	rel, ok := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !ok || strings.Contains(rel, "..") {
		return "", fmt.Errorf("audio reference %q is outside the store", ref)
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}
