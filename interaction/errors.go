package interaction

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrAudioStoreRequired is returned when an audio store is not provided.
	ErrAudioStoreRequired = errors.New("audio store required")
)
