package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/vocalis/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
	noChoice bool
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	if m.noChoice {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestAnswerGenerator_GenerateAnswer(t *testing.T) {
	model := &fakeModel{reply: "  Laravel uses Eloquent.  "}
	generator := newAnswerGeneratorWithModel(model)

	answer, err := generator.GenerateAnswer(context.Background(), "What ORM does Laravel use?", "Title: Laravel\nContent: Eloquent ORM")
	require.NoError(t, err)
	assert.Equal(t, "Laravel uses Eloquent.", answer)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)

	human, ok := model.messages[1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Contains(t, human.Text, "What ORM does Laravel use?")
	assert.Contains(t, human.Text, "Eloquent ORM")
}

func TestAnswerGenerator_Errors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		boom := errors.New("rate limited")
		generator := newAnswerGeneratorWithModel(&fakeModel{err: boom})

		_, err := generator.GenerateAnswer(context.Background(), "q", "k")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.True(t, ai.IsProviderError(err))
	})

	t.Run("no choices", func(t *testing.T) {
		generator := newAnswerGeneratorWithModel(&fakeModel{noChoice: true})
		_, err := generator.GenerateAnswer(context.Background(), "q", "k")
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})

	t.Run("blank reply", func(t *testing.T) {
		generator := newAnswerGeneratorWithModel(&fakeModel{reply: "   "})
		_, err := generator.GenerateAnswer(context.Background(), "q", "k")
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})
}
