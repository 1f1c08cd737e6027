package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/vocalis/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	answerTemperature = 0.3
	answerMaxTokens   = 512
)

// AnswerGenerator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type AnswerGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newAnswerGenerator is an internal constructor that returns the concrete type.
func newAnswerGenerator(config *ai.Config) (*AnswerGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(apiToken(config)),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return newAnswerGeneratorWithModel(client), nil
}

func newAnswerGeneratorWithModel(model llms.Model) *AnswerGenerator {
	return &AnswerGenerator{
		client: model,
		logger: slog.Default().With("component", "openai-answerer"),
	}
}

// NewAnswerGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewAnswerGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newAnswerGenerator(config)
}

// GenerateAnswer asks the chat model to answer question from knowledge.
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, question, knowledge string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(assistantInstructions),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildQuestionPrompt(question, knowledge)),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(answerTemperature),
		llms.WithMaxTokens(answerMaxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", ai.NewProviderError(providerName, "answer", err)
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", ai.NewProviderError(providerName, "answer", ai.ErrEmptyResponse)
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return "", ai.NewProviderError(providerName, "answer", ai.ErrEmptyResponse)
	}

	g.logger.Debug("generated answer", "length", len(answer))
	return answer, nil
}
