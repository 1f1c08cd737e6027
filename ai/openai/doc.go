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

// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// Embeddings and answer generation go through the langchaingo library, so
// any OpenAI-compatible server works (OpenAI, Ollama, LocalAI, vLLM).
// Transcription uses the go-openai client against the same kind of server.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	config.APIKey = os.Getenv("OPENAI_API_KEY")
//
//	provider, err := openai.NewProvider(config, openai.WithSynthesizer(speech))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	answer, err := provider.AnswerGenerator().GenerateAnswer(ctx, question, knowledge)
package openai
