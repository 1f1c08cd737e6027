// Package elevenlabs implements ai.Synthesizer with the ElevenLabs
// text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
)

const (
	providerName   = "elevenlabs"
	requestTimeout = 60 * time.Second
)

// Synthesizer converts text into MP3 speech using per-profile voices.
type Synthesizer struct {
	baseURL    string
	apiKey     string
	model      string
	voices     map[core.VoiceProfile]string
	httpClient *http.Client
	logger     *slog.Logger
}

type speechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// New creates a synthesizer from config. A missing API key is not an
// error here; Synthesize reports ai.ErrNotConfigured instead.
func New(config *ai.Config) (*Synthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	voices := make(map[core.VoiceProfile]string, len(config.Voices))
	for profile, id := range config.Voices {
		voices[profile] = id
	}

	logger := slog.Default().With("component", "elevenlabs")
	if config.SpeechAPIKey == "" {
		logger.Warn("ElevenLabs API key is missing, speech synthesis is disabled")
	}

	return &Synthesizer{
		baseURL: strings.TrimSuffix(config.SpeechHost, "/"),
		apiKey:  config.SpeechAPIKey,
		model:   config.SpeechModel,
		voices:  voices,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}, nil
}

// Synthesize generates speech for text in the given voice profile.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice core.VoiceProfile) (core.Audio, error) {
	if s.apiKey == "" {
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", ai.ErrNotConfigured)
	}
	if strings.TrimSpace(text) == "" {
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", errors.New("cannot convert empty text to speech"))
	}

	voiceID, ok := s.voices[voice]
	if !ok {
		return core.Audio{}, core.NewValidationError("voice", core.ErrInvalidVoice)
	}

	payload, err := json.Marshal(speechRequest{Text: text, ModelID: s.model})
	if err != nil {
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Accept", "audio/mpeg")

	s.logger.Debug("sending text-to-speech request", "voice", voice, "length", len(text))
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("text-to-speech request failed", "err", err)
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.Error("ElevenLabs API error", "status", resp.StatusCode, "body", string(detail))
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", fmt.Errorf("failed to read audio: %w", err))
	}
	if len(data) == 0 {
		return core.Audio{}, ai.NewProviderError(providerName, "synthesize", ai.ErrEmptyResponse)
	}

	s.logger.Debug("received audio", "bytes", len(data))
	return core.Audio{Data: data, Format: "mp3"}, nil
}
