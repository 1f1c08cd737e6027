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

package mock

import "github.com/poiesic/vocalis/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	embedder    *MockEmbedder
	transcriber *MockTranscriber
	synthesizer *MockSynthesizer
	answerer    *MockAnswerGenerator
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns *MockProvider so tests can reach the concrete mocks through the
// GetMock accessors.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:    NewMockEmbedder(),
		transcriber: NewMockTranscriber(),
		synthesizer: NewMockSynthesizer(),
		answerer:    NewMockAnswerGenerator(),
	}
}

func (p *MockProvider) Embedder() ai.Embedder               { return p.embedder }
func (p *MockProvider) Transcriber() ai.Transcriber         { return p.transcriber }
func (p *MockProvider) Synthesizer() ai.Synthesizer         { return p.synthesizer }
func (p *MockProvider) AnswerGenerator() ai.AnswerGenerator { return p.answerer }

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockTranscriber returns the underlying mock transcriber.
func (p *MockProvider) GetMockTranscriber() *MockTranscriber {
	return p.transcriber
}

// GetMockSynthesizer returns the underlying mock synthesizer.
func (p *MockProvider) GetMockSynthesizer() *MockSynthesizer {
	return p.synthesizer
}

// GetMockAnswerGenerator returns the underlying mock answer generator.
func (p *MockProvider) GetMockAnswerGenerator() *MockAnswerGenerator {
	return p.answerer
}
