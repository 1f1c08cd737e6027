// Package mock provides deterministic test doubles for the ai interfaces.
//
// Every mock exposes a Func field per method for behavior injection and a
// CallCount for assertions. All mocks are safe for concurrent use.
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
// # Default Behavior
//
//   - MockEmbedder: unit vectors derived from an FNV hash of the text
//   - MockTranscriber: returns Transcript, or the audio bytes as text
//   - MockAnswerGenerator: echoes the question and reports whether context was supplied
//   - MockSynthesizer: returns "<voice>:<text>" as mp3-tagged bytes
//   - MockProvider: aggregates one of each
package mock
