package mock

import (
	"context"
	"io"
	"strings"
	"sync"
)

// MockTranscriber is a test double for ai.Transcriber.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	TranscribeFunc func(ctx context.Context, audio io.Reader, filename string) (string, error)

	// Transcript is returned when set and TranscribeFunc is nil.
	// Otherwise the audio bytes are returned as text.
	Transcript string

	mu        sync.Mutex
	callCount int
	filenames []string
}

// NewMockTranscriber creates a mock transcriber with default behavior.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// Transcribe drains audio and returns a deterministic transcript.
func (m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.filenames = append(m.filenames, filename)
	fn := m.TranscribeFunc
	transcript := m.Transcript
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, audio, filename)
	}

	data, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}
	if transcript != "" {
		return transcript, nil
	}
	return strings.TrimSpace(string(data)), nil
}

// CallCount returns the number of Transcribe calls.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Filenames returns the filenames passed to Transcribe, in call order.
func (m *MockTranscriber) Filenames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.filenames...)
}
