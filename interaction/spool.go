package interaction

import (
	"fmt"
	"os"

	"github.com/poiesic/vocalis/core"
)

// spoolAudio writes inbound audio to a temporary file in dir (the
// system temp dir when empty). The returned cleanup removes the file and
// must be called on every path.
func spoolAudio(dir string, audio core.Audio) (path string, cleanup func() error, err error) {
	pattern := "vocalis-audio-*"
	if format := core.NormalizeAudioFormat(audio.Format); format != "" {
		pattern += "." + format
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary audio file: %w", err)
	}

	cleanup = func() error {
		if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temporary audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write temporary audio file: %w", err)
	}

	return f.Name(), cleanup, nil
}
