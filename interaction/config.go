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

package interaction

import (
	"fmt"
	"time"

	"github.com/poiesic/vocalis/core"
)

// Config holds the per-request policy of an Orchestrator.
type Config struct {
	// RetrievalLimit is the number of documents retrieved for each question.
	RetrievalLimit int

	// DefaultVoice is used when a request does not name a voice profile.
	DefaultVoice core.VoiceProfile

	// MaxAudioBytes caps inbound audio size.
	MaxAudioBytes int

	// MaxQuestionLength caps typed questions, in characters.
	MaxQuestionLength int

	// MaxSpeechLength caps text submitted for synthesis, in characters.
	MaxSpeechLength int

	// ContextTokenBudget caps the retrieved knowledge handed to the
	// answer generator. Zero disables the cap.
	ContextTokenBudget int

	TranscriptionTimeout time.Duration
	AnsweringTimeout     time.Duration
	SynthesisTimeout     time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RetrievalLimit:       3,
		DefaultVoice:         core.DefaultVoice,
		MaxAudioBytes:        10 << 20,
		MaxQuestionLength:    500,
		MaxSpeechLength:      1000,
		ContextTokenBudget:   2000,
		TranscriptionTimeout: 60 * time.Second,
		AnsweringTimeout:     60 * time.Second,
		SynthesisTimeout:     60 * time.Second,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RetrievalLimit < 0 {
		return fmt.Errorf("interaction config: RetrievalLimit must not be negative")
	}
	if c.DefaultVoice == "" {
		return fmt.Errorf("interaction config: DefaultVoice is required")
	}
	if _, err := core.ParseVoiceProfile(string(c.DefaultVoice)); err != nil {
		return fmt.Errorf("interaction config: %w", err)
	}
	if c.ContextTokenBudget < 0 {
		return fmt.Errorf("interaction config: ContextTokenBudget must not be negative")
	}
	if c.TranscriptionTimeout <= 0 || c.AnsweringTimeout <= 0 || c.SynthesisTimeout <= 0 {
		return fmt.Errorf("interaction config: stage timeouts must be positive")
	}
	return nil
}
