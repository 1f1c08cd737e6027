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

package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/vocalis/core"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ChatHost is the base URL for the chat completion API used to answer questions.
	ChatHost string

	// ChatModel is the model identifier used for answer generation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ChatModel string

	// APIKey authenticates against the OpenAI-compatible hosts.
	// Local servers that don't require authentication accept any value.
	APIKey string

	// TranscriptionHost is the base URL of an OpenAI-compatible
	// /audio/transcriptions endpoint.
	TranscriptionHost string

	// TranscriptionModel is the speech-to-text model, e.g. "whisper-1".
	TranscriptionModel string

	// SpeechHost is the ElevenLabs API base URL.
	SpeechHost string

	// SpeechAPIKey authenticates against ElevenLabs.
	SpeechAPIKey string

	// SpeechModel is the ElevenLabs model ID, e.g. "eleven_multilingual_v2".
	SpeechModel string

	// Voices maps each voice profile to a provider voice ID.
	Voices map[core.VoiceProfile]string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithChatHost sets the chat completion host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithHost sets both embedding and chat hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ChatHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the answer generation model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithAPIKey sets the key used for OpenAI-compatible hosts.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTranscription sets the transcription host and model.
func WithTranscription(host, model string) ConfigOption {
	return func(c *Config) {
		c.TranscriptionHost = host
		c.TranscriptionModel = model
	}
}

// WithSpeech sets the ElevenLabs host, API key and model.
func WithSpeech(host, apiKey, model string) ConfigOption {
	return func(c *Config) {
		c.SpeechHost = host
		c.SpeechAPIKey = apiKey
		c.SpeechModel = model
	}
}

// WithVoice maps a voice profile to a provider voice ID.
func WithVoice(profile core.VoiceProfile, voiceID string) ConfigOption {
	return func(c *Config) {
		if c.Voices == nil {
			c.Voices = make(map[core.VoiceProfile]string)
		}
		c.Voices[profile] = voiceID
	}
}

// DefaultConfig returns a Config with defaults for a local OpenAI-compatible
// server plus hosted transcription and speech services.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:      defaultHost,
		EmbeddingModel:     "embeddinggemma",
		ChatHost:           defaultHost,
		ChatModel:          "qwen2.5:3b",
		APIKey:             "none",
		TranscriptionHost:  "https://api.openai.com/v1",
		TranscriptionModel: "whisper-1",
		SpeechHost:         "https://api.elevenlabs.io/v1",
		SpeechModel:        "eleven_multilingual_v2",
		Voices: map[core.VoiceProfile]string{
			core.VoiceFemale:  "21m00Tcm4TlvDq8ikWAM",
			core.VoiceMale:    "pNInz6obpgDQGcFmaJgB",
			core.VoiceNeutral: "EXAVITQu4vr4xnSDxMaL",
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc) and by ElevenLabs.
func (c *Config) Normalize() {
	c.EmbeddingHost = withVersionSuffix(c.EmbeddingHost)
	c.ChatHost = withVersionSuffix(c.ChatHost)
	c.TranscriptionHost = withVersionSuffix(c.TranscriptionHost)
	c.SpeechHost = withVersionSuffix(c.SpeechHost)
}

func withVersionSuffix(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// Credentials are not checked here; providers report ErrNotConfigured
// when they are used without them.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatHost == "" {
		return errors.New("ai config: ChatHost is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.TranscriptionHost == "" {
		return errors.New("ai config: TranscriptionHost is required")
	}
	if c.TranscriptionModel == "" {
		return errors.New("ai config: TranscriptionModel is required")
	}
	if c.SpeechHost == "" {
		return errors.New("ai config: SpeechHost is required")
	}
	for _, profile := range core.VoiceProfiles() {
		if c.Voices[profile] == "" {
			return fmt.Errorf("ai config: no voice ID for profile %q", profile)
		}
	}
	return nil
}
