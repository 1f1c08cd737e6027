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

package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages the embedder, answer generator and transcriber instances.
// Speech synthesis has no OpenAI-compatible counterpart here and is
// supplied with WithSynthesizer.
type Provider struct {
	config      *ai.Config
	embedder    *Embedder
	answerer    *AnswerGenerator
	transcriber *Transcriber
	synthesizer ai.Synthesizer
	logger      *slog.Logger
}

// ProviderOption configures optional Provider services.
type ProviderOption func(*Provider)

// WithSynthesizer sets the speech synthesis service.
func WithSynthesizer(synthesizer ai.Synthesizer) ProviderOption {
	return func(p *Provider) {
		p.synthesizer = synthesizer
	}
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	answerer, err := newAnswerGenerator(config)
	if err != nil {
		return nil, err
	}

	transcriber, err := newTranscriber(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:      config,
		embedder:    embedder,
		answerer:    answerer,
		transcriber: transcriber,
		synthesizer: unconfiguredSynthesizer{},
		logger:      slog.Default().With("component", "openai-provider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Transcriber returns the speech-to-text service.
func (p *Provider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// Synthesizer returns the text-to-speech service.
func (p *Provider) Synthesizer() ai.Synthesizer {
	return p.synthesizer
}

// AnswerGenerator returns the chat completion service.
func (p *Provider) AnswerGenerator() ai.AnswerGenerator {
	return p.answerer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

type unconfiguredSynthesizer struct{}

func (unconfiguredSynthesizer) Synthesize(context.Context, string, core.VoiceProfile) (core.Audio, error) {
	return core.Audio{}, ai.NewProviderError(providerName, "synthesize", ai.ErrNotConfigured)
}
