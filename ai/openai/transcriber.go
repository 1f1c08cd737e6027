package openai

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/poiesic/vocalis/ai"
)

const transcriptionTimeout = 60 * time.Second

// Transcriber implements ai.Transcriber against an OpenAI-compatible
// /audio/transcriptions endpoint (OpenAI, faster-whisper-server, LocalAI).
type Transcriber struct {
	client *goopenai.Client
	model  string
	logger *slog.Logger
}

// newTranscriber is an internal constructor that returns the concrete type.
func newTranscriber(config *ai.Config) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := goopenai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(config.TranscriptionHost, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: transcriptionTimeout}

	return &Transcriber{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  config.TranscriptionModel,
		logger: slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewTranscriber creates a new transcriber using the provided configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	return newTranscriber(config)
}

// Transcribe uploads the audio under filename and returns the trimmed text.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	t.logger.Debug("sending transcription request", "file", filename, "model", t.model)

	resp, err := t.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   audio,
		Format:   goopenai.AudioResponseFormatJSON,
	})
	if err != nil {
		t.logger.Error("transcription request failed", "err", err)
		return "", ai.NewProviderError(providerName, "transcribe", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ai.NewProviderError(providerName, "transcribe", ai.ErrEmptyResponse)
	}
	return text, nil
}
