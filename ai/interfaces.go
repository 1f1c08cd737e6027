package ai

import (
	"context"
	"io"

	"github.com/poiesic/vocalis/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Every call against the same model returns vectors of the same dimension.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcriber converts recorded speech into text.
type Transcriber interface {
	// Transcribe reads the whole audio stream and returns its transcript.
	// filename carries the extension providers use to detect the encoding.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	// Synthesize renders text with the given voice profile.
	// The returned Audio.Format names the encoding of Audio.Data.
	Synthesize(ctx context.Context, text string, voice core.VoiceProfile) (core.Audio, error)
}

// AnswerGenerator produces a spoken-style answer to a question.
type AnswerGenerator interface {
	// GenerateAnswer answers question using knowledge as reference material.
	// knowledge may state that nothing relevant was found, in which case the
	// generator answers from general knowledge.
	GenerateAnswer(ctx context.Context, question, knowledge string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	Embedder() Embedder
	Transcriber() Transcriber
	Synthesizer() Synthesizer
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
