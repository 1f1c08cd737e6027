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

// Package ai provides abstractions for the external AI services used by vocalis.
//
// Four narrow interfaces cover every provider capability the assistant needs:
//
//   - Embedder: turns text into vectors for relevance ranking
//   - Transcriber: turns recorded speech into text
//   - AnswerGenerator: composes an answer from a question and retrieved context
//   - Synthesizer: turns answer text into spoken audio
//
// AIProvider aggregates them for convenient initialization.
//
// # Implementation Packages
//
//   - ai/openai: embeddings and answers through langchaingo against any
//     OpenAI-compatible server, plus an /audio/transcriptions client
//   - ai/elevenlabs: ElevenLabs text-to-speech
//   - ai/mock: deterministic test doubles, one per capability
//
// # Errors
//
// Production implementations wrap every failure in *ProviderError so that
// callers can tell provider trouble apart from their own bugs:
//
//	if ai.IsProviderError(err) {
//	    // degrade: fall back to lexical search, report a stage failure, ...
//	}
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types. Mock constructors return concrete types so tests can
// inject behavior and assert call counts:
//
//	mockEmbed := mock.NewMockEmbedder()
//	mockEmbed.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("offline")
//	}
//	count := mockEmbed.CallCount()
package ai
