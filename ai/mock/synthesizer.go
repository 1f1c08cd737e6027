package mock

import (
	"context"
	"sync"

	"github.com/poiesic/vocalis/core"
)

// MockSynthesizer is a test double for ai.Synthesizer.
type MockSynthesizer struct {
	// SynthesizeFunc is called by Synthesize if set.
	SynthesizeFunc func(ctx context.Context, text string, voice core.VoiceProfile) (core.Audio, error)

	mu        sync.Mutex
	callCount int
	voices    []core.VoiceProfile
}

// NewMockSynthesizer creates a mock synthesizer with default behavior.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Synthesize returns "<voice>:<text>" tagged as mp3.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string, voice core.VoiceProfile) (core.Audio, error) {
	m.mu.Lock()
	m.callCount++
	m.voices = append(m.voices, voice)
	fn := m.SynthesizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, voice)
	}
	return core.Audio{Data: []byte(string(voice) + ":" + text), Format: "mp3"}, nil
}

// CallCount returns the number of Synthesize calls.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Voices returns the voice profiles requested, in call order.
func (m *MockSynthesizer) Voices() []core.VoiceProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.VoiceProfile(nil), m.voices...)
}
